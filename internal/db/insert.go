package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"csvlib/internal/csvin"
)

const defaultChunk = 2000

// InsertRecords writes recs into table in chunks inside one transaction.
// Columns follow keys; a failure rolls back every chunk.
func InsertRecords(ctx context.Context, conn Session, table string, keys []string, recs []csvin.Record, chunk int) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	if chunk <= 0 {
		chunk = defaultChunk
	}
	tx, err := conn.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	var total int64
	for i := 0; i < len(recs); i += chunk {
		j := i + chunk
		if j > len(recs) {
			j = len(recs)
		}
		q, args, err := BuildInsert(table, keys, recs[i:j])
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert rows %d-%d into %s: %w", i+1, j, table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

// BuildInsert renders a multi-row INSERT with placeholders.
func BuildInsert(table string, keys []string, recs []csvin.Record) (string, []any, error) {
	qt, err := QuoteIdent(table)
	if err != nil {
		return "", nil, err
	}
	cols := make([]string, len(keys))
	for i, k := range keys {
		if cols[i], err = QuoteIdent(k); err != nil {
			return "", nil, err
		}
	}
	pl := "(" + strings.TrimRight(strings.Repeat("?,", len(cols)), ",") + ")"
	valPlace := strings.TrimRight(strings.Repeat(pl+",", len(recs)), ",")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", qt, strings.Join(cols, ","), valPlace)

	args := make([]any, 0, len(recs)*len(cols))
	for _, r := range recs {
		for _, k := range keys {
			args = append(args, r.Get(k))
		}
	}
	return query, args, nil
}
