package fileguard

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"csvlib/internal/errs"
)

// TimeLayout is DD/MM/YYYY HH:MM:SS.
const TimeLayout = "02/01/2006 15:04:05"

// Target is a path/mode pair. Building one never touches the filesystem.
type Target struct {
	Path string
	Mode Mode
}

// Configure builds a Target. Only the mode token is checked; an empty mode
// means DefaultMode and an empty path means "not configured yet".
func Configure(path, mode string) (Target, error) {
	t := Target{Path: path, Mode: DefaultMode}
	if mode != "" {
		m, err := ParseMode(mode)
		if err != nil {
			return Target{}, err
		}
		t.Mode = m
	}
	return t, nil
}

// Guard validates a file path and owns at most one open handle for it.
// A Guard is not safe for concurrent use.
type Guard struct {
	fsys FS
	sink errs.Sink

	path string
	mode Mode
	file File
}

type Option func(*Guard)

// WithSink reports every failure to s in addition to returning it.
func WithSink(s errs.Sink) Option {
	return func(g *Guard) {
		if s != nil {
			g.sink = s
		}
	}
}

// WithTarget presets path and mode.
func WithTarget(t Target) Option {
	return func(g *Guard) {
		g.path = t.Path
		if t.Mode != "" {
			g.mode = t.Mode
		}
	}
}

func New(fsys FS, opts ...Option) *Guard {
	if fsys == nil {
		fsys = OS()
	}
	g := &Guard{fsys: fsys, sink: errs.Discard, mode: DefaultMode}
	for _, o := range opts {
		o(g)
	}
	return g
}

// NewOS returns a guard over the real filesystem.
func NewOS(opts ...Option) *Guard { return New(OS(), opts...) }

func (g *Guard) Path() string   { return g.path }
func (g *Guard) Mode() Mode     { return g.mode }
func (g *Guard) Target() Target { return Target{Path: g.path, Mode: g.mode} }

// File returns the current handle, nil when nothing is open.
func (g *Guard) File() File { return g.file }

// SetPath stores path. An empty path is a no-op. Validation is explicit: see
// Validate and Open.
func (g *Guard) SetPath(path string) {
	if path == "" {
		return
	}
	g.path = path
}

// SetMode replaces the open mode. An empty mode keeps the current one.
func (g *Guard) SetMode(mode string) error {
	if mode == "" {
		return nil
	}
	m, err := ParseMode(mode)
	if err != nil {
		return g.fail(err)
	}
	g.mode = m
	return nil
}

// Validate checks, in order, that the path exists, is a regular file, is
// readable and is writable. The first unmet condition is returned. An unset
// path is valid.
func (g *Guard) Validate() error {
	if g.path == "" {
		return nil
	}
	fi, err := g.fsys.Stat(g.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return g.fail(g.pathErr("validate", errs.ErrFileNotFound))
		}
		return g.fail(g.pathErr("validate", fmt.Errorf("%w: %v", errs.ErrFileNotFound, err)))
	}
	if !fi.Mode().IsRegular() {
		return g.fail(g.pathErr("validate", errs.ErrNotRegularFile))
	}
	if !g.fsys.Readable(g.path) {
		return g.fail(g.pathErr("validate", errs.ErrNotReadable))
	}
	if !g.fsys.Writable(g.path) {
		return g.fail(g.pathErr("validate", errs.ErrNotWritable))
	}
	return nil
}

// Open applies the optional overrides, validates and opens the file. Any
// handle still open from a previous call is released first.
func (g *Guard) Open(path, mode string) (File, error) {
	g.SetPath(path)
	if err := g.SetMode(mode); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.path == "" {
		return nil, g.fail(&errs.PathError{Op: "open", Err: errs.ErrNoFileConfigured})
	}
	if err := g.Close(); err != nil {
		return nil, g.fail(g.pathErr("close", err))
	}
	f, err := g.fsys.OpenFile(g.path, g.mode.Flag(), defaultFilePerm)
	if err != nil {
		return nil, g.fail(g.pathErr("open", err))
	}
	g.file = f
	return f, nil
}

// Close releases the handle. Calling it with nothing open is a no-op.
func (g *Guard) Close() error {
	if g.file == nil {
		return nil
	}
	f := g.file
	g.file = nil
	return f.Close()
}

// Use opens the configured file, hands it to fn and always releases it.
func (g *Guard) Use(fn func(File) error) (err error) {
	f, err := g.Open("", "")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := g.Close(); err == nil && cerr != nil {
			err = g.fail(g.pathErr("close", cerr))
		}
	}()
	return fn(f)
}

// Size reports the file size scaled to B, KB, MB or GB. Without a path the
// zero Size is returned.
func (g *Guard) Size() (Size, error) {
	if g.path == "" {
		return Size{Unit: UnitB}, nil
	}
	fi, err := g.fsys.Stat(g.path)
	if err != nil {
		return Size{}, g.fail(g.pathErr("size", err))
	}
	return ScaleBytes(fi.Size()), nil
}

// ModifiedTime formats the last modification time in loc (nil means UTC).
func (g *Guard) ModifiedTime(loc *time.Location) (string, error) {
	if g.path == "" {
		return "", g.fail(&errs.PathError{Op: "mtime", Err: errs.ErrNoFileConfigured})
	}
	fi, err := g.fsys.Stat(g.path)
	if err != nil {
		return "", g.fail(g.pathErr("mtime", err))
	}
	return FormatTime(fi.ModTime(), loc), nil
}

// AccessedTime formats the last access time in loc (nil means UTC).
func (g *Guard) AccessedTime(loc *time.Location) (string, error) {
	if g.path == "" {
		return "", g.fail(&errs.PathError{Op: "atime", Err: errs.ErrNoFileConfigured})
	}
	t, err := g.fsys.AccessTime(g.path)
	if err != nil {
		return "", g.fail(g.pathErr("atime", err))
	}
	return FormatTime(t, loc), nil
}

func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimeLayout)
}

func (g *Guard) pathErr(op string, err error) error {
	return &errs.PathError{Op: op, Path: g.path, Err: err}
}

func (g *Guard) fail(err error) error {
	g.sink.Report(err)
	return err
}
