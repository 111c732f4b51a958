//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris || illumos)

package fileguard

import (
	"os"
	"time"
)

// No access(2) here: check by opening without creating.
func accessible(name string, write bool) bool {
	flag := os.O_RDONLY
	if write {
		flag = os.O_WRONLY
	}
	f, err := os.OpenFile(name, flag, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Access time is not portable; modification time stands in.
func accessTime(name string) (time.Time, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}
