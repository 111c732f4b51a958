package csvin

import (
	"bufio"
	"io"
	"strings"
)

const escapeChar = '\\'

// splitLine splits one physical line into fields. An enclosure is only
// recognized at the start of a field; inside it a doubled enclosure yields a
// literal one and the escape character keeps itself and the next rune. Text
// after a closing enclosure is appended as-is up to the next delimiter.
func splitLine(line string, delim, encl rune) []string {
	runes := []rune(line)
	var (
		fields   []string
		b        strings.Builder
		inQuote  bool
		quoted   bool
		fieldLen int
	)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inQuote {
			switch {
			case c == escapeChar && i+1 < len(runes):
				b.WriteRune(c)
				b.WriteRune(runes[i+1])
				i++
			case c == encl && i+1 < len(runes) && runes[i+1] == encl:
				b.WriteRune(encl)
				i++
			case c == encl:
				inQuote = false
			default:
				b.WriteRune(c)
			}
			fieldLen++
			continue
		}
		switch {
		case c == delim:
			fields = append(fields, b.String())
			b.Reset()
			quoted = false
			fieldLen = 0
			continue
		case c == encl && fieldLen == 0 && !quoted:
			inQuote = true
			quoted = true
		default:
			b.WriteRune(c)
		}
		fieldLen++
	}
	return append(fields, b.String())
}

// lineReader yields physical lines without their terminator. It is one-shot.
type lineReader struct {
	br  *bufio.Reader
	eof bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 1<<20)}
}

// Next returns the next line or io.EOF once the input is exhausted. A final
// line without a newline is still returned.
func (lr *lineReader) Next() (string, error) {
	if lr.eof {
		return "", io.EOF
	}
	line, err := lr.br.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", err
		}
		lr.eof = true
		if line == "" {
			return "", io.EOF
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
