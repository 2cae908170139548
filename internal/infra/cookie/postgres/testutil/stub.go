// Package testutil provides an in-memory stub database that understands the
// statements issued by the postgres cookie store.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// StubConn records statements and keeps the cookies table in memory.
type StubConn struct {
	mu       sync.Mutex
	Execs    []string
	Rows     map[[2]string]string
	FailPing bool
	FailExec bool
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Rows: make(map[[2]string]string)}
	name := fmt.Sprintf("stubcookiepg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) { return nil, fmt.Errorf("transactions not supported") }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

func normalize(query string) string {
	return strings.ToUpper(strings.Join(strings.Fields(query), " "))
}

func stringArgs(args []driver.NamedValue) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i], _ = a.Value.(string)
	}
	return out
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	q := normalize(query)
	vals := stringArgs(args)
	switch {
	case strings.HasPrefix(q, "CREATE TABLE"):
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(q, "INSERT INTO COOKIES"):
		if len(vals) != 3 {
			return nil, fmt.Errorf("insert expects 3 args, got %d", len(vals))
		}
		c.Rows[[2]string{vals[0], vals[1]}] = vals[2]
		return driver.RowsAffected(1), nil
	case strings.HasPrefix(q, "DELETE FROM COOKIES"):
		if len(vals) != 2 {
			return nil, fmt.Errorf("delete expects 2 args, got %d", len(vals))
		}
		k := [2]string{vals[0], vals[1]}
		if _, ok := c.Rows[k]; !ok {
			return driver.RowsAffected(0), nil
		}
		delete(c.Rows, k)
		return driver.RowsAffected(1), nil
	}
	return nil, fmt.Errorf("unsupported statement: %s", query)
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := normalize(query)
	vals := stringArgs(args)
	switch {
	case strings.HasPrefix(q, "SELECT VALUE FROM COOKIES"):
		if len(vals) != 2 {
			return nil, fmt.Errorf("select value expects 2 args, got %d", len(vals))
		}
		rows := &stubRows{cols: []string{"value"}}
		if v, ok := c.Rows[[2]string{vals[0], vals[1]}]; ok {
			rows.rows = [][]driver.Value{{v}}
		}
		return rows, nil
	case strings.HasPrefix(q, "SELECT NAME FROM COOKIES"):
		if len(vals) != 1 {
			return nil, fmt.Errorf("select name expects 1 arg, got %d", len(vals))
		}
		var names []string
		for k := range c.Rows {
			if k[0] == vals[0] {
				names = append(names, k[1])
			}
		}
		sort.Strings(names)
		rows := &stubRows{cols: []string{"name"}}
		for _, n := range names {
			rows.rows = append(rows.rows, []driver.Value{n})
		}
		return rows, nil
	}
	return nil, fmt.Errorf("unsupported query: %s", query)
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
