//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris || illumos

package fileguard

import (
	"time"

	"golang.org/x/sys/unix"
)

func accessible(name string, write bool) bool {
	mode := uint32(unix.R_OK)
	if write {
		mode = unix.W_OK
	}
	return unix.Access(name, mode) == nil
}

func accessTime(name string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(name, &st); err != nil {
		return time.Time{}, err
	}
	return time.Unix(st.Atim.Unix()), nil
}
