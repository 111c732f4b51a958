package fileguard

import (
	"math"
	"strconv"
)

const (
	UnitB  = "B"
	UnitKB = "KB"
	UnitMB = "MB"
	UnitGB = "GB"

	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// Size is a byte count scaled to a unit. For UnitB, Value equals Bytes.
type Size struct {
	Bytes int64
	Value float64
	Unit  string
}

// ScaleBytes picks the largest unit whose threshold n reaches and rounds the
// scaled value to two decimals.
func ScaleBytes(n int64) Size {
	switch {
	case n >= gib:
		return Size{Bytes: n, Value: twoDec(float64(n) / gib), Unit: UnitGB}
	case n >= mib:
		return Size{Bytes: n, Value: twoDec(float64(n) / mib), Unit: UnitMB}
	case n >= kib:
		return Size{Bytes: n, Value: twoDec(float64(n) / kib), Unit: UnitKB}
	}
	return Size{Bytes: n, Value: float64(n), Unit: UnitB}
}

// Scaled renders Value: raw byte count for B, two decimals otherwise.
func (s Size) Scaled() string {
	if s.Unit == UnitB || s.Unit == "" {
		return strconv.FormatInt(s.Bytes, 10)
	}
	return strconv.FormatFloat(s.Value, 'f', 2, 64)
}

func (s Size) String() string {
	unit := s.Unit
	if unit == "" {
		unit = UnitB
	}
	return s.Scaled() + " " + unit
}

func twoDec(f float64) float64 {
	return math.Round(f*100) / 100
}
