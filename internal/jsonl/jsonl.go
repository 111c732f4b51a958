package jsonl

import (
	"bufio"
	"bytes"
	"io"

	"github.com/bytedance/sonic"

	"csvlib/internal/csvin"
)

// WriteLines writes one JSON object per record, newline terminated.
func WriteLines(w io.Writer, recs []csvin.Record) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	for _, r := range recs {
		b, err := sonic.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteArray writes all records as a single JSON array.
func WriteArray(w io.Writer, recs []csvin.Record, indent bool) error {
	if recs == nil {
		recs = []csvin.Record{}
	}
	var (
		b   []byte
		err error
	)
	if indent {
		b, err = sonic.MarshalIndent(recs, "", "  ")
	} else {
		b, err = sonic.Marshal(recs)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// ReadLines decodes JSON lines back into plain maps. Blank lines are skipped.
func ReadLines(r io.Reader) ([]map[string]string, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	var out []map[string]string
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 && len(bytes.TrimSpace(line)) > 0 {
			var m map[string]string
			if uerr := sonic.Unmarshal(line, &m); uerr != nil {
				return nil, uerr
			}
			out = append(out, m)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}
	return out, nil
}
