package iox

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"csvlib/internal/errs"
)

// ParseEncoding maps a charset name to a decoder. "" and utf-8 mean no
// decoding and return a nil Encoding.
func ParseEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "utf-8-sig":
		return nil, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	}
	return nil, errs.Configf("unsupported encoding %q", name)
}

// Wrap layers gzip decompression (for .gz paths) and charset decoding over r.
// Closing the result closes only the layers Wrap added, never r itself.
func Wrap(path string, r io.Reader, enc string) (io.ReadCloser, error) {
	e, err := ParseEncoding(enc)
	if err != nil {
		return nil, err
	}
	out := &rc{Reader: r}
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		out.Reader = gr
		out.Closers = append(out.Closers, gr)
	}
	if e != nil {
		out.Reader = transform.NewReader(out.Reader, e.NewDecoder())
	}
	return out, nil
}

// OpenAuto opens path for reading through Wrap.
func OpenAuto(path, enc string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	w, err := Wrap(path, f, enc)
	if err != nil {
		f.Close()
		return nil, err
	}
	r := w.(*rc)
	r.Closers = append(r.Closers, f)
	return r, nil
}

// CreateAuto creates path, gzip-compressed when it ends in .gz. An empty path
// or "-" writes to stdout, which is never closed.
func CreateAuto(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return &wc{Writer: os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gw := gzip.NewWriter(f)
		return &wc{Writer: gw, Closers: []io.Closer{gw, f}}, nil
	}
	return f, nil
}

type rc struct {
	io.Reader
	Closers []io.Closer
}

func (r *rc) Close() error {
	var err error
	for i := range r.Closers {
		if e := r.Closers[i].Close(); err == nil && e != nil {
			err = e
		}
	}
	return err
}

type wc struct {
	io.Writer
	Closers []io.Closer
}

func (w *wc) Close() error {
	var err error
	for i := range w.Closers {
		if e := w.Closers[i].Close(); err == nil && e != nil {
			err = e
		}
	}
	return err
}
