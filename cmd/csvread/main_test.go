package main

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"csvlib/internal/config"
	"csvlib/internal/csvin"
	"csvlib/internal/errs"
	"csvlib/internal/fileguard"
)

func TestTableFromPath(t *testing.T) {
	tests := map[string]string{
		"/data/Vendas 2020.csv.gz": "vendas_2020",
		"clientes.csv":             "clientes",
		"Relatório-Final":          "relatorio_final",
	}
	for in, want := range tests {
		if got := tableFromPath(in); got != want {
			t.Errorf("tableFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := &config.Config{Delimiter: ';', Enclosure: '"', Mode: "r", OnMismatch: "abort"}
	if err := applyFlags(cfg, "a.csv", "tab", "'", "", "latin1", "skip", "UTC", ""); err != nil {
		t.Fatal(err)
	}
	if cfg.CSVPath != "a.csv" || cfg.Delimiter != '\t' || cfg.Enclosure != '\'' || cfg.Mode != "r" || cfg.Encoding != "latin1" || cfg.OnMismatch != "skip" {
		t.Fatalf("got %+v", cfg)
	}
	if err := applyFlags(cfg, "", ";;", "", "", "", "", "", ""); err == nil {
		t.Fatalf("expected error for multi-character delimiter")
	}
}

func TestRun_CSVOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(in, []byte("Name;City\nAna;Rio\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{CSVPath: in, Delimiter: ';', Enclosure: '"', Mode: "r", TimeZone: "UTC"}
	if err := run(cfg, "csv", out, false); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(out)
	if string(b) != "name;city\nAna;Rio\n" {
		t.Fatalf("got %q", b)
	}
}

func TestPrintInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte(strings.Repeat("z", 2048)), 0o644); err != nil {
		t.Fatal(err)
	}
	g := fileguard.NewOS()
	g.SetPath(path)
	var buf bytes.Buffer
	if err := printInfo(&buf, g, time.UTC); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "2.00 KB (2048 bytes)") {
		t.Fatalf("info = %q", buf.String())
	}
}

func TestWriteTable(t *testing.T) {
	recs, err := csvin.New(nil, csvin.Options{}).Decode(strings.NewReader("a;bb\n1;2\n"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := writeTable(&buf, []string{"a", "bb"}, recs); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "a  bb\n1  2\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestSkippedRows(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf, "", 0)
	shape := &errs.RowShapeError{Path: "in.csv", Line: 3, Want: 2, Got: 3}
	missing := &errs.PathError{Op: "validate", Path: "in.csv", Err: errs.ErrFileNotFound}

	skippedRows(csvin.SkipRow, l).Report(shape)
	skippedRows(csvin.SkipRow, l).Report(missing)
	skippedRows(csvin.Abort, l).Report(shape)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "[WARN] skipped ") {
		t.Fatalf("log = %q", buf.String())
	}
}

func TestRun_FailureIsOnlyReturned(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	for _, policy := range []string{"abort", "skip", "pad"} {
		cfg := &config.Config{
			CSVPath:    filepath.Join(t.TempDir(), "missing.csv"),
			Delimiter:  ';',
			Enclosure:  '"',
			Mode:       "r",
			OnMismatch: policy,
			TimeZone:   "UTC",
		}
		err := run(cfg, "csv", filepath.Join(t.TempDir(), "out.csv"), false)
		if !errors.Is(err, errs.ErrFileNotFound) {
			t.Fatalf("%s: err = %v", policy, err)
		}
	}
	if buf.Len() != 0 {
		t.Fatalf("failures were also logged: %q", buf.String())
	}
}

func TestCheckJSONL(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.jsonl.gz")
	if err := os.WriteFile(in, []byte("Nome;Cidade\nAna;Rio\nBia;\"São Paulo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{CSVPath: in, Delimiter: ';', Enclosure: '"', Mode: "r", OnMismatch: "abort", TimeZone: "UTC"}
	if err := run(cfg, "jsonl", out, false); err != nil {
		t.Fatal(err)
	}
	if err := checkJSONL("jsonl", out, cfg); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(in, []byte("Nome;Cidade\nAna;Rio\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := checkJSONL("jsonl", out, cfg); err == nil {
		t.Fatal("expected a record count mismatch")
	}
	if err := checkJSONL("csv", out, cfg); err == nil {
		t.Fatal("expected -check to reject non-jsonl formats")
	}
}
