package fileguard

import (
	"os"

	"csvlib/internal/errs"
)

// Mode is an open-mode token.
//
//	r   read only, pointer at the start
//	w   write only, truncates or creates
//	a   write only, appends, creates if missing
//	x   write only, creates, fails if the file exists
//	r+  w+  a+  x+  same as above but read/write
type Mode string

const (
	ModeRead          Mode = "r"
	ModeWrite         Mode = "w"
	ModeAppend        Mode = "a"
	ModeExclusive     Mode = "x"
	ModeReadWrite     Mode = "r+"
	ModeWriteRead     Mode = "w+"
	ModeAppendRead    Mode = "a+"
	ModeExclusiveRead Mode = "x+"

	DefaultMode = ModeRead
)

const defaultFilePerm = 0o644

var modeFlags = map[Mode]int{
	ModeRead:          os.O_RDONLY,
	ModeWrite:         os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	ModeAppend:        os.O_WRONLY | os.O_CREATE | os.O_APPEND,
	ModeExclusive:     os.O_WRONLY | os.O_CREATE | os.O_EXCL,
	ModeReadWrite:     os.O_RDWR,
	ModeWriteRead:     os.O_RDWR | os.O_CREATE | os.O_TRUNC,
	ModeAppendRead:    os.O_RDWR | os.O_CREATE | os.O_APPEND,
	ModeExclusiveRead: os.O_RDWR | os.O_CREATE | os.O_EXCL,
}

// ParseMode accepts exactly the eight recognized tokens.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := modeFlags[m]; !ok {
		return "", errs.Configf("invalid open mode %q (want one of r, w, a, x, r+, w+, a+, x+)", s)
	}
	return m, nil
}

// Flag returns the os.OpenFile flags for m.
func (m Mode) Flag() int { return modeFlags[m] }

func (m Mode) CanRead() bool { return m == ModeRead || len(m) == 2 }

func (m Mode) CanWrite() bool { return m != ModeRead && m != "" }

func (m Mode) String() string { return string(m) }
