package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrLockBusy means another session holds the named lock.
var ErrLockBusy = errors.New("lock held by another session")

// Session is what the import helpers need: a *sql.DB or a pinned *sql.Conn.
type Session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ Session = (*sql.DB)(nil)
	_ Session = (*sql.Conn)(nil)
)

// Lock is a MySQL named lock. GET_LOCK belongs to the server session, so the
// lock keeps its connection out of the pool until Release.
type Lock struct {
	conn *sql.Conn
	name string
}

// AcquireLock pins one connection of pool and takes name on it, waiting up to
// wait on the server side.
func AcquireLock(ctx context.Context, pool *sql.DB, name string, wait time.Duration) (*Lock, error) {
	conn, err := pool.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", name, err)
	}
	var res sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", name, int(wait/time.Second)).Scan(&res); err != nil {
		conn.Close()
		return nil, fmt.Errorf("GET_LOCK %s: %w", name, err)
	}
	if !res.Valid || res.Int64 != 1 {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrLockBusy)
	}
	return &Lock{conn: conn, name: name}, nil
}

// Conn is the session holding the lock. Work that must happen under the lock
// runs on it.
func (l *Lock) Conn() *sql.Conn { return l.conn }

// Release frees the lock on the session that took it and returns the
// connection to the pool. Calling it twice is a no-op.
func (l *Lock) Release(ctx context.Context) error {
	if l.conn == nil {
		return nil
	}
	var res sql.NullInt64
	err := l.conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", l.name).Scan(&res)
	cerr := l.conn.Close()
	l.conn = nil
	if err != nil {
		return fmt.Errorf("RELEASE_LOCK %s: %w", l.name, err)
	}
	if !res.Valid || res.Int64 != 1 {
		return fmt.Errorf("RELEASE_LOCK %s: not held by this session", l.name)
	}
	return cerr
}
