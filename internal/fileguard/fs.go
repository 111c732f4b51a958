package fileguard

import (
	"io"
	"io/fs"
	"os"
	"time"
)

// File is the handle returned by Open.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}

// FS is the filesystem capability the guard depends on. The OS
// implementation is returned by OS(); tests plug in an in-memory one.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Readable(name string) bool
	Writable(name string) bool
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)
	AccessTime(name string) (time.Time, error)
}

type osFS struct{}

// OS returns the real filesystem.
func OS() FS { return osFS{} }

func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (osFS) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (osFS) Readable(name string) bool { return accessible(name, false) }

func (osFS) Writable(name string) bool { return accessible(name, true) }

func (osFS) AccessTime(name string) (time.Time, error) { return accessTime(name) }
