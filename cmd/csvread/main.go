package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"csvlib/internal/config"
	"csvlib/internal/csvin"
	"csvlib/internal/csvout"
	"csvlib/internal/db"
	"csvlib/internal/errs"
	"csvlib/internal/fileguard"
	"csvlib/internal/iox"
	"csvlib/internal/jsonl"
)

var version = "v1.0"

func main() {
	inPath := flag.String("in", "", "Input CSV file (default from .env CSV_PATH)")
	outPath := flag.String("out", "-", "Output file; '-' is stdout, .gz is compressed")
	format := flag.String("format", "table", "Output: table | json | jsonl | csv | mysql")
	delim := flag.String("delim", "", "Field delimiter (single character, 'tab' allowed)")
	encl := flag.String("enclosure", "", "Enclosure (quote) character")
	mode := flag.String("mode", "", "Open mode: r w a x r+ w+ a+ x+")
	encoding := flag.String("encoding", "", "Input charset: utf-8 | latin1 | windows-1252 | utf-16")
	onMismatch := flag.String("on-mismatch", "", "Row shape policy: abort | skip | pad")
	profile := flag.String("profile", "", "Reader profile (.json or .yaml)")
	tz := flag.String("tz", "", "Time zone for -info timestamps (e.g. America/Sao_Paulo)")
	table := flag.String("table", "", "MySQL table for -format mysql (default: file name)")
	showInfo := flag.Bool("info", false, "Print file size and timestamps before reading")
	showPlan := flag.Bool("plan", false, "Show plan and exit")
	check := flag.Bool("check", false, "Re-read a jsonl -out file and compare it with the input records")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if *profile != "" {
		p, err := config.LoadProfile(*profile)
		if err != nil {
			log.Fatalf("profile load error: %v", err)
		}
		if err := cfg.Apply(p); err != nil {
			log.Fatalf("profile %s: %v", *profile, err)
		}
	}
	if err := applyFlags(cfg, *inPath, *delim, *encl, *mode, *encoding, *onMismatch, *tz, *table); err != nil {
		log.Fatal(err)
	}

	if *showPlan {
		fmt.Printf("==== csvread %s Execution Plan ====\n", version)
		fmt.Printf("Input              : %s\n", cfg.CSVPath)
		fmt.Printf("Output             : %s (%s)\n", *outPath, *format)
		fmt.Printf("Delimiter          : %q\n", cfg.Delimiter)
		fmt.Printf("Enclosure          : %q\n", cfg.Enclosure)
		fmt.Printf("Mode               : %s\n", cfg.Mode)
		fmt.Printf("Encoding           : %s\n", cfg.Encoding)
		fmt.Printf("On mismatch        : %s\n", cfg.OnMismatch)
		fmt.Printf("Time zone          : %s\n", cfg.TimeZone)
		return
	}

	start := time.Now()
	err = run(cfg, *format, *outPath, *showInfo)
	if err == nil && *check {
		err = checkJSONL(*format, *outPath, cfg)
	}
	log.Printf("[INFO] completed in %v", time.Since(start))
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func applyFlags(cfg *config.Config, in, delim, encl, mode, encoding, onMismatch, tz, table string) error {
	if delim != "" {
		r, err := config.ParseRune(delim)
		if err != nil {
			return fmt.Errorf("-delim: %w", err)
		}
		cfg.Delimiter = r
	}
	if encl != "" {
		r, err := config.ParseRune(encl)
		if err != nil {
			return fmt.Errorf("-enclosure: %w", err)
		}
		cfg.Enclosure = r
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.CSVPath, in)
	set(&cfg.Mode, mode)
	set(&cfg.Encoding, encoding)
	set(&cfg.OnMismatch, onMismatch)
	set(&cfg.TimeZone, tz)
	set(&cfg.MySQLTable, table)
	return nil
}

func run(cfg *config.Config, format, outPath string, showInfo bool) error {
	if cfg.CSVPath == "" {
		return fmt.Errorf("csvread: -in (or CSV_PATH) is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	policy, err := csvin.ParsePolicy(cfg.OnMismatch)
	if err != nil {
		return err
	}

	guard := fileguard.NewOS()
	if err := guard.SetMode(cfg.Mode); err != nil {
		return err
	}
	guard.SetPath(cfg.CSVPath)

	if showInfo {
		if err := printInfo(os.Stderr, guard, loc); err != nil {
			return err
		}
	}

	dec := csvin.New(guard, csvin.Options{
		Delimiter:  cfg.Delimiter,
		Enclosure:  cfg.Enclosure,
		OnMismatch: policy,
		Encoding:   cfg.Encoding,
		Sink:       skippedRows(policy, log.Default()),
	})
	recs, err := dec.Read("", 0, 0)
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.CSVPath, err)
	}
	header := dec.Header()
	if header == nil {
		log.Printf("[WARN] %s is empty", cfg.CSVPath)
		return nil
	}
	log.Printf("[INFO] %s: lines=%d records=%d columns=%d skipped=%d",
		cfg.CSVPath, dec.LinesRead(), len(recs), header.Len(), len(dec.Skipped()))
	if dups := header.Duplicates(); len(dups) > 0 {
		log.Printf("[WARN] duplicate header names, later column wins: %v", dups)
	}
	keys := header.Keys()

	if format == "mysql" {
		table := cfg.MySQLTable
		if table == "" {
			table = tableFromPath(cfg.CSVPath)
		}
		return toMySQL(cfg, table, keys, recs)
	}

	out, err := iox.CreateAuto(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	switch format {
	case "json":
		err = jsonl.WriteArray(out, recs, true)
	case "jsonl":
		err = jsonl.WriteLines(out, recs)
	case "csv":
		err = csvout.New(out, cfg.Delimiter).WriteRecords(keys, recs)
	case "table":
		err = writeTable(out, keys, recs)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return out.Close()
}

// skippedRows logs rows dropped by the skip policy. Failures that end the read
// are returned by run and logged once by main.
func skippedRows(policy csvin.Policy, l *log.Logger) errs.Sink {
	if policy != csvin.SkipRow {
		return errs.Discard
	}
	warn := errs.LogSink{Logger: l, Prefix: "[WARN] skipped"}
	return errs.SinkFunc(func(err error) {
		if errors.Is(err, errs.ErrRowShape) {
			warn.Report(err)
		}
	})
}

// checkJSONL reads back a jsonl output file and compares it with a fresh
// decode of the input.
func checkJSONL(format, outPath string, cfg *config.Config) error {
	if format != "jsonl" || outPath == "" || outPath == "-" {
		return fmt.Errorf("-check needs -format jsonl and a file -out")
	}
	policy, err := csvin.ParsePolicy(cfg.OnMismatch)
	if err != nil {
		return err
	}
	guard := fileguard.NewOS()
	if err := guard.SetMode(cfg.Mode); err != nil {
		return err
	}
	dec := csvin.New(guard, csvin.Options{
		Delimiter:  cfg.Delimiter,
		Enclosure:  cfg.Enclosure,
		OnMismatch: policy,
		Encoding:   cfg.Encoding,
	})
	recs, err := dec.Read(cfg.CSVPath, 0, 0)
	if err != nil {
		return fmt.Errorf("check: read %s: %w", cfg.CSVPath, err)
	}

	f, err := iox.OpenAuto(outPath, "")
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	defer f.Close()
	got, err := jsonl.ReadLines(f)
	if err != nil {
		return fmt.Errorf("check: decode %s: %w", outPath, err)
	}
	if len(got) != len(recs) {
		return fmt.Errorf("check: %s has %d records, input has %d", outPath, len(got), len(recs))
	}
	for i, r := range recs {
		want := r.Map()
		if len(got[i]) != len(want) {
			return fmt.Errorf("check: record %d has %d fields, want %d", i+1, len(got[i]), len(want))
		}
		for k, v := range want {
			if got[i][k] != v {
				return fmt.Errorf("check: record %d field %s = %q, want %q", i+1, k, got[i][k], v)
			}
		}
	}
	log.Printf("[OK] %s matches %s (%d records)", outPath, cfg.CSVPath, len(recs))
	return nil
}

func printInfo(w io.Writer, g *fileguard.Guard, loc *time.Location) error {
	if err := g.Validate(); err != nil {
		return err
	}
	size, err := g.Size()
	if err != nil {
		return err
	}
	mtime, err := g.ModifiedTime(loc)
	if err != nil {
		return err
	}
	atime, err := g.AccessedTime(loc)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "File               : %s\n", g.Path())
	fmt.Fprintf(w, "Size               : %s (%d bytes)\n", size, size.Bytes)
	fmt.Fprintf(w, "Modified           : %s\n", mtime)
	fmt.Fprintf(w, "Accessed           : %s\n", atime)
	return nil
}

func writeTable(w io.Writer, keys []string, recs []csvin.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(keys, "\t"))
	for _, r := range recs {
		fmt.Fprintln(tw, strings.Join(r.Values(), "\t"))
	}
	return tw.Flush()
}

func toMySQL(cfg *config.Config, table string, keys []string, recs []csvin.Record) error {
	conn, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer conn.Close()

	var lock *db.Lock
	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		lock, err = db.AcquireLock(ctx, conn, "csvread_"+table, 10*time.Second)
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				log.Printf("[WARN] %v", err)
			}
		}()
	}
	sess := lock.Conn()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	exists, err := db.TableExists(ctx, sess, table)
	if err != nil {
		return fmt.Errorf("[SCHEMA] error: %w", err)
	}
	if !exists {
		log.Printf("[SCHEMA] creating table %s with %d columns", table, len(keys))
	}
	if err := db.EnsureTable(ctx, sess, table, keys); err != nil {
		return err
	}
	n, err := db.InsertRecords(ctx, sess, table, keys, recs, cfg.InsertChunk)
	if err != nil {
		return err
	}
	log.Printf("[OK] inserted %d rows into %s", n, table)
	return nil
}

// tableFromPath derives a table name from the file name: "Vendas 2020.csv.gz"
// becomes "vendas_2020".
func tableFromPath(path string) string {
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return csvin.NormalizeHeader(base)
}
