// Package guardtest provides an in-memory fileguard.FS for tests.
package guardtest

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"sync"
	"time"

	"csvlib/internal/fileguard"
)

// Entry describes one node of a MemFS.
type Entry struct {
	Data     []byte
	Dir      bool
	NoRead   bool
	NoWrite  bool
	ModTime  time.Time
	AccessAt time.Time
}

// MemFS is a map-backed filesystem. Opens and closes are counted.
type MemFS struct {
	mu      sync.Mutex
	entries map[string]*Entry
	Opens   int
	Closes  int
}

func New() *MemFS {
	return &MemFS{entries: make(map[string]*Entry)}
}

// WriteFile adds a readable, writable regular file.
func (m *MemFS) WriteFile(name, data string) *Entry {
	return m.Add(name, &Entry{Data: []byte(data)})
}

func (m *MemFS) Add(name string, e *Entry) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = e
	return e
}

func (m *MemFS) get(name string) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[name]
	return e, ok
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	e, ok := m.get(name)
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return info{name: path.Base(name), e: e}, nil
}

func (m *MemFS) Readable(name string) bool {
	e, ok := m.get(name)
	return ok && !e.NoRead
}

func (m *MemFS) Writable(name string) bool {
	e, ok := m.get(name)
	return ok && !e.NoWrite
}

func (m *MemFS) AccessTime(name string) (time.Time, error) {
	e, ok := m.get(name)
	if !ok {
		return time.Time{}, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return e.AccessAt, nil
}

func (m *MemFS) OpenFile(name string, flag int, _ fs.FileMode) (fileguard.File, error) {
	e, ok := m.get(name)
	switch {
	case ok && flag&os.O_EXCL != 0:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrExist}
	case !ok && flag&os.O_CREATE == 0:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	case !ok:
		e = m.Add(name, &Entry{})
	}
	if flag&os.O_TRUNC != 0 {
		e.Data = nil
	}
	m.mu.Lock()
	m.Opens++
	m.mu.Unlock()
	return &file{fs: m, e: e, r: bytes.NewReader(e.Data)}, nil
}

type file struct {
	fs *MemFS
	e  *Entry
	r  *bytes.Reader
}

func (f *file) Read(p []byte) (int, error) { return f.r.Read(p) }

func (f *file) Write(p []byte) (int, error) {
	f.e.Data = append(f.e.Data, p...)
	return len(p), nil
}

func (f *file) Close() error {
	f.fs.mu.Lock()
	f.fs.Closes++
	f.fs.mu.Unlock()
	return nil
}

type info struct {
	name string
	e    *Entry
}

func (i info) Name() string       { return i.name }
func (i info) Size() int64        { return int64(len(i.e.Data)) }
func (i info) ModTime() time.Time { return i.e.ModTime }
func (i info) IsDir() bool        { return i.e.Dir }
func (i info) Sys() any           { return nil }

func (i info) Mode() fs.FileMode {
	if i.e.Dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
