package csvin

import (
	"fmt"
	"io"
	"strings"

	"csvlib/internal/errs"
	"csvlib/internal/fileguard"
	"csvlib/internal/iox"
)

const (
	DefaultDelimiter = ';'
	DefaultEnclosure = '"'
)

// Policy decides what happens to a data line whose field count differs from
// the header.
type Policy string

const (
	Abort        Policy = "abort" // fail the whole read, return no records
	SkipRow      Policy = "skip"  // drop the line, report it, keep going
	PadWithEmpty Policy = "pad"   // pad short lines with ""; long lines abort
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return Abort, nil
	case Abort, SkipRow, PadWithEmpty:
		return p, nil
	}
	return "", errs.Configf("unknown row shape policy %q (want abort, skip or pad)", s)
}

type Options struct {
	Delimiter  rune   // 0 -> DefaultDelimiter
	Enclosure  rune   // 0 -> DefaultEnclosure
	OnMismatch Policy // "" -> Abort
	Encoding   string // "", utf-8, latin1, windows-1252, utf-16
	Sink       errs.Sink
}

// Decoder reads a delimited file through a Guard and maps every data line
// onto the normalized header. It is not safe for concurrent use.
type Decoder struct {
	guard *fileguard.Guard
	opt   Options
	sink  errs.Sink

	header    *Header
	linesRead int
	skipped   []int
}

func New(g *fileguard.Guard, opt Options) *Decoder {
	if g == nil {
		g = fileguard.NewOS()
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = DefaultDelimiter
	}
	if opt.Enclosure == 0 {
		opt.Enclosure = DefaultEnclosure
	}
	if opt.OnMismatch == "" {
		opt.OnMismatch = Abort
	}
	sink := opt.Sink
	if sink == nil {
		sink = errs.Discard
	}
	return &Decoder{guard: g, opt: opt, sink: sink}
}

func (d *Decoder) Guard() *fileguard.Guard { return d.guard }

// SetDelimiter replaces the delimiter; 0 is a no-op.
func (d *Decoder) SetDelimiter(r rune) {
	if r != 0 {
		d.opt.Delimiter = r
	}
}

// SetEnclosure replaces the enclosure; 0 is a no-op.
func (d *Decoder) SetEnclosure(r rune) {
	if r != 0 {
		d.opt.Enclosure = r
	}
}

func (d *Decoder) SetPolicy(p Policy) {
	if p != "" {
		d.opt.OnMismatch = p
	}
}

func (d *Decoder) Delimiter() rune { return d.opt.Delimiter }
func (d *Decoder) Enclosure() rune { return d.opt.Enclosure }
func (d *Decoder) Policy() Policy  { return d.opt.OnMismatch }

// Header returns the header captured by the last read, nil before any.
func (d *Decoder) Header() *Header { return d.header }

// LinesRead counts every physical line of the last read, the header and
// blank lines included: a file with N data lines reports N+1.
func (d *Decoder) LinesRead() int { return d.linesRead }

// NumRows is LinesRead.
func (d *Decoder) NumRows() int { return d.linesRead }

// Skipped lists the line numbers dropped under SkipRow.
func (d *Decoder) Skipped() []int { return append([]int(nil), d.skipped...) }

// Read applies the optional overrides (empty path and zero runes keep the
// current values), opens the file through the guard and decodes it. Guard
// failures are returned unchanged.
func (d *Decoder) Read(path string, delimiter, enclosure rune) ([]Record, error) {
	d.guard.SetPath(path)
	d.SetDelimiter(delimiter)
	d.SetEnclosure(enclosure)
	if err := d.check(); err != nil {
		return nil, d.fail(err)
	}
	if m := d.guard.Mode(); !m.CanRead() {
		return nil, d.fail(errs.Configf("open mode %q does not permit reading", m))
	}

	var out []Record
	err := d.guard.Use(func(f fileguard.File) error {
		r, err := iox.Wrap(d.guard.Path(), f, d.opt.Encoding)
		if err != nil {
			return d.fail(err)
		}
		defer r.Close()
		out, err = d.decode(r, d.guard.Path())
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decode reads records from r with the current configuration.
func (d *Decoder) Decode(r io.Reader) ([]Record, error) {
	if err := d.check(); err != nil {
		return nil, d.fail(err)
	}
	return d.decode(r, "")
}

func (d *Decoder) decode(r io.Reader, path string) ([]Record, error) {
	d.header = nil
	d.linesRead = 0
	d.skipped = nil

	lr := newLineReader(r)
	var out []Record
	for {
		line, err := lr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, d.fail(fmt.Errorf("read line %d: %w", d.linesRead+1, err))
		}
		d.linesRead++

		if d.header == nil {
			d.header = NewHeader(splitLine(RemoveBOM(line), d.opt.Delimiter, d.opt.Enclosure))
			continue
		}
		if line == "" {
			continue
		}

		fields := splitLine(line, d.opt.Delimiter, d.opt.Enclosure)
		if len(fields) == d.header.Len() {
			out = append(out, newRecord(d.header, fields))
			continue
		}

		shapeErr := &errs.RowShapeError{Path: path, Line: d.linesRead, Want: d.header.Len(), Got: len(fields)}
		switch {
		case d.opt.OnMismatch == SkipRow:
			d.sink.Report(shapeErr)
			d.skipped = append(d.skipped, d.linesRead)
		case d.opt.OnMismatch == PadWithEmpty && len(fields) < d.header.Len():
			padded := make([]string, d.header.Len())
			copy(padded, fields)
			out = append(out, newRecord(d.header, padded))
		default:
			return nil, d.fail(shapeErr)
		}
	}
	return out, nil
}

func (d *Decoder) check() error {
	del, enc := d.opt.Delimiter, d.opt.Enclosure
	switch {
	case del == enc:
		return errs.Configf("delimiter and enclosure are both %q", del)
	case del == '\n' || del == '\r' || enc == '\n' || enc == '\r':
		return errs.Configf("line terminators cannot delimit or enclose fields")
	case del == escapeChar || enc == escapeChar:
		return errs.Configf("%q is reserved as the escape character", escapeChar)
	}
	if _, err := ParsePolicy(string(d.opt.OnMismatch)); err != nil {
		return err
	}
	if _, err := iox.ParseEncoding(d.opt.Encoding); err != nil {
		return err
	}
	return nil
}

func (d *Decoder) fail(err error) error {
	d.sink.Report(err)
	return err
}
