package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"csvlib/internal/csvin"
)

// recDriver records every statement together with the id of the server
// session it ran on.
type recDriver struct {
	mu         sync.Mutex
	sessions   int
	lockResult int64
	log        []string
}

func (d *recDriver) Connect(context.Context) (driver.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions++
	return &recConn{d: d, id: d.sessions}, nil
}

func (d *recDriver) Driver() driver.Driver { return d }

func (d *recDriver) Open(string) (driver.Conn, error) { return d.Connect(context.Background()) }

func (d *recDriver) record(id int, q string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := strings.Fields(q)
	d.log = append(d.log, fmt.Sprintf("%d:%s %s", id, f[0], f[1]))
}

func (d *recDriver) entries() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.log...)
}

type recConn struct {
	d  *recDriver
	id int
}

func (c *recConn) Prepare(q string) (driver.Stmt, error) { return &recStmt{c: c, q: q}, nil }
func (c *recConn) Close() error                          { return nil }
func (c *recConn) Begin() (driver.Tx, error)             { return recTx{}, nil }

type recTx struct{}

func (recTx) Commit() error   { return nil }
func (recTx) Rollback() error { return nil }

type recStmt struct {
	c *recConn
	q string
}

func (s *recStmt) Close() error  { return nil }
func (s *recStmt) NumInput() int { return -1 }

func (s *recStmt) Exec([]driver.Value) (driver.Result, error) {
	s.c.d.record(s.c.id, s.q)
	return driver.RowsAffected(1), nil
}

func (s *recStmt) Query([]driver.Value) (driver.Rows, error) {
	s.c.d.record(s.c.id, s.q)
	v := int64(1)
	if strings.Contains(s.q, "GET_LOCK") {
		v = s.c.d.lockResult
	}
	return &oneRow{v: v}, nil
}

type oneRow struct {
	v    int64
	done bool
}

func (r *oneRow) Columns() []string { return []string{"v"} }
func (r *oneRow) Close() error      { return nil }

func (r *oneRow) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = r.v
	return nil
}

func TestLock_ReleaseRunsOnLockingSession(t *testing.T) {
	drv := &recDriver{lockResult: 1}
	pool := sql.OpenDB(drv)
	defer pool.Close()
	ctx := context.Background()

	lock, err := AcquireLock(ctx, pool, "csvread_clientes", 10*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	var n int
	if err := pool.QueryRowContext(ctx, "SELECT 1").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	want := []string{"1:SELECT GET_LOCK(?,", "2:SELECT 1", "1:SELECT RELEASE_LOCK(?)"}
	got := drv.entries()
	if len(got) != len(want) {
		t.Fatalf("log = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("log = %q, want %q", got, want)
		}
	}
}

func TestLock_ImportRunsOnLockingSession(t *testing.T) {
	drv := &recDriver{lockResult: 1}
	pool := sql.OpenDB(drv)
	defer pool.Close()
	ctx := context.Background()

	lock, err := AcquireLock(ctx, pool, "csvread_t", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	h := csvin.NewHeader([]string{"nome"})
	d := csvin.New(nil, csvin.Options{})
	recs, err := d.Decode(strings.NewReader("nome\nAna\nBia\nCid\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := TableExists(ctx, lock.Conn(), "t"); err != nil {
		t.Fatal(err)
	}
	if err := EnsureTable(ctx, lock.Conn(), "t", h.Keys()); err != nil {
		t.Fatal(err)
	}
	n, err := InsertRecords(ctx, lock.Conn(), "t", h.Keys(), recs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("rows affected = %d, want one per chunk from the fake", n)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatal(err)
	}
	for _, e := range drv.entries() {
		if !strings.HasPrefix(e, "1:") {
			t.Fatalf("%q ran outside the locking session", e)
		}
	}
}

func TestLock_Busy(t *testing.T) {
	drv := &recDriver{lockResult: 0}
	pool := sql.OpenDB(drv)
	defer pool.Close()

	_, err := AcquireLock(context.Background(), pool, "csvread_t", time.Second)
	if !errors.Is(err, ErrLockBusy) {
		t.Fatalf("err = %v, want ErrLockBusy", err)
	}
	if inUse := pool.Stats().InUse; inUse != 0 {
		t.Fatalf("connections in use after busy lock = %d", inUse)
	}
}
