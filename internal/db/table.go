package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"csvlib/internal/errs"
)

// QuoteIdent backtick-quotes a MySQL identifier.
func QuoteIdent(name string) (string, error) {
	if name == "" {
		return "", errs.Configf("empty identifier")
	}
	if len(name) > 64 {
		return "", errs.Configf("identifier %q longer than 64 bytes", name)
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`", nil
}

// CreateTableSQL returns a CREATE TABLE IF NOT EXISTS with one TEXT column per
// key and an auto-increment id that keeps file order.
func CreateTableSQL(table string, keys []string) (string, error) {
	if len(keys) == 0 {
		return "", errs.Configf("table %q: no columns", table)
	}
	qt, err := QuoteIdent(table)
	if err != nil {
		return "", err
	}
	cols := make([]string, 0, len(keys)+1)
	cols = append(cols, "`_row_id` BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY")
	for _, k := range keys {
		qk, err := QuoteIdent(k)
		if err != nil {
			return "", err
		}
		cols = append(cols, qk+" TEXT NULL")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n) DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci",
		qt, strings.Join(cols, ",\n\t")), nil
}

func EnsureTable(ctx context.Context, conn Session, table string, keys []string) error {
	q, err := CreateTableSQL(table, keys)
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// CurrentSchema returns DATABASE() of the connection.
func CurrentSchema(ctx context.Context, conn Session) (string, error) {
	var s sql.NullString
	if err := conn.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&s); err != nil {
		return "", err
	}
	if !s.Valid || s.String == "" {
		return "", errors.New("no database selected")
	}
	return s.String, nil
}

// TableExists looks the table up in information_schema for the current schema.
func TableExists(ctx context.Context, conn Session, table string) (bool, error) {
	schema, err := CurrentSchema(ctx, conn)
	if err != nil {
		return false, err
	}
	const q = `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?
		LIMIT 1
	`
	var c int
	if err := conn.QueryRowContext(ctx, q, schema, table).Scan(&c); err != nil {
		return false, err
	}
	return c > 0, nil
}
