package iox

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"csvlib/internal/errs"
)

func TestParseEncoding(t *testing.T) {
	for _, name := range []string{"", "UTF-8", "latin1", "windows-1252", "utf-16"} {
		if _, err := ParseEncoding(name); err != nil {
			t.Errorf("ParseEncoding(%q): %v", name, err)
		}
	}
	if _, err := ParseEncoding("ebcdic"); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestWrap_Latin1(t *testing.T) {
	// "Número" in ISO-8859-1
	in := []byte{'N', 0xfa, 'm', 'e', 'r', 'o'}
	r, err := Wrap("a.csv", bytes.NewReader(in), "latin1")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	b, _ := io.ReadAll(r)
	if string(b) != "Número" {
		t.Fatalf("got %q", b)
	}
}

func TestWrap_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write([]byte("a;b\n1;2\n"))
	gw.Close()

	r, err := Wrap("data.csv.gz", &buf, "")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(r)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if string(b) != "a;b\n1;2\n" {
		t.Fatalf("got %q", b)
	}
}

func TestCreateAndOpenAuto_RoundTripGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv.gz")
	w, err := CreateAuto(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, "x;y\n"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	raw, _ := os.ReadFile(path)
	if bytes.Equal(raw, []byte("x;y\n")) {
		t.Fatalf("file was not compressed")
	}

	r, err := OpenAuto(path, "")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	b, _ := io.ReadAll(r)
	if string(b) != "x;y\n" {
		t.Fatalf("got %q", b)
	}
}
