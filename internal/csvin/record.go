package csvin

import (
	"bytes"

	"github.com/bytedance/sonic"
)

// Record is one data line keyed by the header names, in header order.
type Record struct {
	h      *Header
	values []string
}

func newRecord(h *Header, values []string) Record {
	return Record{h: h, values: values}
}

// Get returns the value for key, "" when the header has no such name.
func (r Record) Get(key string) string {
	v, _ := r.Lookup(key)
	return v
}

func (r Record) Lookup(key string) (string, bool) {
	if r.h == nil {
		return "", false
	}
	i, ok := r.h.Index(key)
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Keys returns the distinct header names in order.
func (r Record) Keys() []string {
	if r.h == nil {
		return nil
	}
	return r.h.Keys()
}

// Values returns the values aligned with Keys.
func (r Record) Values() []string {
	if r.h == nil {
		return nil
	}
	out := make([]string, 0, len(r.h.keys))
	for _, k := range r.h.keys {
		out = append(out, r.values[r.h.col[k]])
	}
	return out
}

func (r Record) Len() int {
	if r.h == nil {
		return 0
	}
	return len(r.h.keys)
}

// Map copies the record into a plain map.
func (r Record) Map() map[string]string {
	if r.h == nil {
		return map[string]string{}
	}
	m := make(map[string]string, len(r.h.keys))
	for _, k := range r.h.keys {
		m[k] = r.values[r.h.col[k]]
	}
	return m
}

// MarshalJSON encodes the record as an object whose keys keep header order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r.h != nil {
		for i, k := range r.h.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := sonic.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := sonic.Marshal(r.values[r.h.col[k]])
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			buf.Write(vb)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
