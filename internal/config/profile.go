package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// Profile is a saved reader setup. Empty fields leave the config untouched.
type Profile struct {
	Delimiter  string `json:"delimiter" yaml:"delimiter"`
	Enclosure  string `json:"enclosure" yaml:"enclosure"`
	Mode       string `json:"mode" yaml:"mode"`
	Encoding   string `json:"encoding" yaml:"encoding"`
	OnMismatch string `json:"on_mismatch" yaml:"on_mismatch"`
	TimeZone   string `json:"timezone" yaml:"timezone"`
	Table      string `json:"table" yaml:"table"`
}

// LoadProfile reads a .json, .yaml or .yml profile.
func LoadProfile(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Profile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &p); err != nil {
			return nil, fmt.Errorf("profile %s: %w", path, err)
		}
	case ".json":
		if err := sonic.Unmarshal(b, &p); err != nil {
			return nil, fmt.Errorf("profile %s: %w", path, err)
		}
	default:
		return nil, errors.New("unsupported profile format (use .json or .yaml/.yml)")
	}
	return &p, nil
}

// Apply overlays the non-empty profile fields.
func (c *Config) Apply(p *Profile) error {
	if p == nil {
		return nil
	}
	if p.Delimiter != "" {
		r, err := ParseRune(p.Delimiter)
		if err != nil {
			return fmt.Errorf("delimiter: %w", err)
		}
		c.Delimiter = r
	}
	if p.Enclosure != "" {
		r, err := ParseRune(p.Enclosure)
		if err != nil {
			return fmt.Errorf("enclosure: %w", err)
		}
		c.Enclosure = r
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Mode, p.Mode)
	set(&c.Encoding, p.Encoding)
	set(&c.OnMismatch, p.OnMismatch)
	set(&c.TimeZone, p.TimeZone)
	set(&c.MySQLTable, p.Table)
	return nil
}
