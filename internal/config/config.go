package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"csvlib/internal/errs"
)

type Config struct {
	CSVPath    string
	Delimiter  rune
	Enclosure  rune
	Mode       string
	Encoding   string
	OnMismatch string
	TimeZone   string

	MySQLHost      string
	MySQLPort      int
	MySQLUser      string
	MySQLPassword  string
	MySQLDB        string
	MySQLTable     string
	InsertChunk    int
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

// Load reads the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional

	delim, err := ParseRune(getenv("CSV_DELIMITER", ";"))
	if err != nil {
		return nil, err
	}
	encl, err := ParseRune(getenv("CSV_ENCLOSURE", `"`))
	if err != nil {
		return nil, err
	}

	return &Config{
		CSVPath:    getenv("CSV_PATH", ""),
		Delimiter:  delim,
		Enclosure:  encl,
		Mode:       getenv("CSV_MODE", "r"),
		Encoding:   getenv("CSV_ENCODING", ""),
		OnMismatch: getenv("CSV_ON_MISMATCH", "abort"),
		TimeZone:   getenv("CSV_TIMEZONE", "UTC"),

		MySQLHost:      getenv("MYSQL_HOST", "127.0.0.1"),
		MySQLPort:      getenvInt("MYSQL_PORT", 3306),
		MySQLUser:      getenv("MYSQL_USER", "root"),
		MySQLPassword:  getenv("MYSQL_PASSWORD", ""),
		MySQLDB:        getenv("MYSQL_DB", "csvlib"),
		MySQLTable:     getenv("MYSQL_TABLE", ""),
		InsertChunk:    getenvInt("MYSQL_INSERT_CHUNK", 2000),
		ConnectTimeout: time.Duration(getenvInt("DB_CONNECT_TIMEOUT", 5)) * time.Second,
		QueryTimeout:   time.Duration(getenvInt("DB_QUERY_TIMEOUT", 30)) * time.Second,
	}, nil
}

// Location resolves TimeZone; empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, errs.Configf("time zone %q: %v", c.TimeZone, err)
	}
	return loc, nil
}

// ParseRune accepts exactly one character. "\t" and "tab" mean a tab.
func ParseRune(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, errs.Configf("want a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
