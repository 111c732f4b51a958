package jsonl

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"csvlib/internal/csvin"
)

func decode(t *testing.T, s string) []csvin.Record {
	t.Helper()
	recs, err := csvin.New(nil, csvin.Options{}).Decode(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	return recs
}

func TestWriteLines(t *testing.T) {
	recs := decode(t, "Name;City\nAna;Rio\nBia;\"São Paulo\"\n")
	var buf bytes.Buffer
	if err := WriteLines(&buf, recs); err != nil {
		t.Fatal(err)
	}
	want := `{"name":"Ana","city":"Rio"}` + "\n" + `{"name":"Bia","city":"São Paulo"}` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}

	back, err := ReadLines(strings.NewReader(buf.String() + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || !reflect.DeepEqual(back[1], recs[1].Map()) {
		t.Fatalf("ReadLines = %v", back)
	}
}

func TestWriteArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteArray(&buf, nil, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("empty array = %q", buf.String())
	}

	buf.Reset()
	if err := WriteArray(&buf, decode(t, "a;b\n1;2\n"), false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != `[{"a":"1","b":"2"}]`+"\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestReadLines_Invalid(t *testing.T) {
	if _, err := ReadLines(strings.NewReader("{not json}\n")); err == nil {
		t.Fatalf("expected error")
	}
}
