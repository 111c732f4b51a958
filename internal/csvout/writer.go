package csvout

import (
	"bufio"
	"encoding/csv"
	"io"

	"csvlib/internal/csvin"
)

type Writer struct {
	w   *csv.Writer
	buf *bufio.Writer
}

// New writes comma-separated output; a non-zero comma overrides ','.
func New(w io.Writer, comma rune) *Writer {
	bw := bufio.NewWriterSize(w, 1<<20)
	cw := csv.NewWriter(bw)
	if comma != 0 {
		cw.Comma = comma
	}
	return &Writer{
		w:   cw,
		buf: bw,
	}
}

func (cw *Writer) WriteHeader(header []string) error {
	return cw.w.Write(header)
}

func (cw *Writer) WriteRow(row []string) error {
	return cw.w.Write(row)
}

// WriteRecords writes keys as the header line followed by every record's
// values in key order, then flushes.
func (cw *Writer) WriteRecords(keys []string, recs []csvin.Record) error {
	if err := cw.WriteHeader(keys); err != nil {
		return err
	}
	row := make([]string, len(keys))
	for _, r := range recs {
		for i, k := range keys {
			row[i] = r.Get(k)
		}
		if err := cw.WriteRow(row); err != nil {
			return err
		}
	}
	return cw.Flush()
}

func (cw *Writer) Flush() error {
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return err
	}
	return cw.buf.Flush()
}
