package csvin

import "strings"

const bom = "\ufeff"

// RemoveBOM strips every UTF-8 byte-order mark from the very start of s, so a
// second call is always a no-op.
func RemoveBOM(s string) string {
	for strings.HasPrefix(s, bom) {
		s = s[len(bom):]
	}
	return s
}

// NormalizeHeader turns a raw header cell into a record key: BOM removed,
// accents transliterated, separators replaced by "_", lowercased.
//
//	"Número"       -> "numero"
//	" Data-Nasc "  -> "_data_nasc_"
func NormalizeHeader(cell string) string {
	s := Transliterate(RemoveBOM(cell))
	s = separators.Replace(s)
	return strings.ToLower(s)
}

// Header is the normalized first line of a file. Names keeps file order and
// may repeat; when two cells normalize to the same name the later column
// supplies the value and the first position is kept.
type Header struct {
	names []string
	keys  []string
	col   map[string]int
}

// NewHeader normalizes raw cells.
func NewHeader(cells []string) *Header {
	h := &Header{
		names: make([]string, len(cells)),
		keys:  make([]string, 0, len(cells)),
		col:   make(map[string]int, len(cells)),
	}
	for i, c := range cells {
		name := NormalizeHeader(c)
		h.names[i] = name
		if _, seen := h.col[name]; !seen {
			h.keys = append(h.keys, name)
		}
		h.col[name] = i
	}
	return h
}

// Len is the number of columns, duplicates included.
func (h *Header) Len() int { return len(h.names) }

// Names returns the normalized names in column order.
func (h *Header) Names() []string { return append([]string(nil), h.names...) }

// Keys returns the distinct names in first-seen order.
func (h *Header) Keys() []string { return append([]string(nil), h.keys...) }

// Index returns the column that supplies name.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.col[name]
	return i, ok
}

// Duplicates lists names that appear in more than one column.
func (h *Header) Duplicates() []string {
	if len(h.keys) == len(h.names) {
		return nil
	}
	count := make(map[string]int, len(h.names))
	for _, n := range h.names {
		count[n]++
	}
	var out []string
	for _, k := range h.keys {
		if count[k] > 1 {
			out = append(out, k)
		}
	}
	return out
}
