package errs

import (
	"errors"
	"fmt"
	"log"
)

// Sentinel kinds. Concrete errors unwrap to one of these.
var (
	ErrConfiguration    = errors.New("configuration error")
	ErrNoFileConfigured = errors.New("no file configured")
	ErrFileNotFound     = errors.New("file not found")
	ErrNotRegularFile   = errors.New("not a regular file")
	ErrNotReadable      = errors.New("file not readable")
	ErrNotWritable      = errors.New("file not writable")
	ErrRowShape         = errors.New("row field count does not match header")
)

// PathError ties a failure kind to the path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// RowShapeError reports a data line whose field count differs from the header.
// Line is the 1-based physical line number (the header is line 1).
type RowShapeError struct {
	Path string
	Line int
	Want int
	Got  int
}

func (e *RowShapeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %v (want %d fields, got %d)", e.Path, e.Line, ErrRowShape, e.Want, e.Got)
	}
	return fmt.Sprintf("line %d: %v (want %d fields, got %d)", e.Line, ErrRowShape, e.Want, e.Got)
}

func (e *RowShapeError) Unwrap() error { return ErrRowShape }

// Configf builds an ErrConfiguration with a formatted detail.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Sink receives failures as a side channel. Implementations must not block
// for long and must never panic; callers ignore whatever they do.
type Sink interface {
	Report(err error)
}

type discard struct{}

func (discard) Report(error) {}

// Discard drops every report.
var Discard Sink = discard{}

// LogSink writes reports through the standard logger.
type LogSink struct {
	Logger *log.Logger // nil -> log.Default()
	Prefix string
}

func (s LogSink) Report(err error) {
	if err == nil {
		return
	}
	l := s.Logger
	if l == nil {
		l = log.Default()
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = "[ERROR]"
	}
	l.Printf("%s %v", prefix, err)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(error)

func (f SinkFunc) Report(err error) { f(err) }
