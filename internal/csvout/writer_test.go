package csvout

import (
	"bytes"
	"strings"
	"testing"

	"csvlib/internal/csvin"
)

func TestWriteRecords(t *testing.T) {
	d := csvin.New(nil, csvin.Options{})
	recs, err := d.Decode(strings.NewReader("Nome;Endereço\nAna;\"Rua A, 10\"\nBia;Rua B\n"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w := New(&buf, 0)
	if err := w.WriteRecords(d.Header().Keys(), recs); err != nil {
		t.Fatal(err)
	}
	want := "nome,endereco\nAna,\"Rua A, 10\"\nBia,Rua B\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteRecords_CustomComma(t *testing.T) {
	d := csvin.New(nil, csvin.Options{})
	recs, err := d.Decode(strings.NewReader("a;b\n1;2\n"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := New(&buf, ';').WriteRecords(d.Header().Keys(), recs); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "a;b\n1;2\n" {
		t.Fatalf("got %q", buf.String())
	}
}
