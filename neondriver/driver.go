package neondriver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"time"

	neon "github.com/neondatabase/neon-go"
)

const driverName = "neon"

func init() {
	sql.Register(driverName, &Driver{})
}

// Driver is the database/sql driver over the Neon HTTP protocol. The DSN is
// a postgresql:// connection string; queries use $1..$n placeholders.
type Driver struct{}

// Open returns a new connection to the database.
func (d *Driver) Open(name string) (driver.Conn, error) {
	connector, err := d.OpenConnector(name)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector implements driver.DriverContext.
func (d *Driver) OpenConnector(name string) (driver.Connector, error) {
	client, err := neon.NewClient(name)
	if err != nil {
		return nil, err
	}
	return NewConnector(client), nil
}

// Connector wraps an existing client for sql.OpenDB, allowing the client to
// be configured (custom endpoint, registry, hooks) before handing it to
// database/sql.
type Connector struct {
	client *neon.Client
}

// NewConnector returns a Connector over an existing client.
func NewConnector(client *neon.Client) *Connector {
	return &Connector{client: client}
}

// Connect implements driver.Connector. Connections are stateless, so this
// never performs network I/O.
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	return &Conn{client: c.client}, nil
}

// Driver implements driver.Connector.
func (c *Connector) Driver() driver.Driver {
	return &Driver{}
}

// Conn implements driver.Conn. There is no underlying socket; every
// statement is its own HTTP request.
type Conn struct {
	client *neon.Client
}

// Prepare returns a client-side prepared statement. The HTTP protocol has
// no server-side prepare step; the statement just captures the query text.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &Stmt{conn: c, query: query}, nil
}

// Close invalidates the connection. Nothing is held, so this is a no-op.
func (c *Conn) Close() error {
	return nil
}

// Begin is not supported: the HTTP protocol has no interactive
// transactions. Use neon.Client.Transaction for atomic batches.
func (c *Conn) Begin() (driver.Tx, error) {
	return nil, fmt.Errorf("neondriver: interactive transactions are not supported; use neon.Client.Transaction")
}

// QueryContext implements driver.QueryerContext.
func (c *Conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	result, err := c.client.Query(ctx, query, namedValueParams(args), &neon.QueryOptions{
		ArrayMode:   true,
		FullResults: true,
	})
	if err != nil {
		return nil, err
	}
	return &Rows{fields: result.Fields, data: result.RowsArray}, nil
}

// ExecContext implements driver.ExecerContext.
func (c *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	result, err := c.client.Query(ctx, query, namedValueParams(args), &neon.QueryOptions{
		ArrayMode:   true,
		FullResults: true,
	})
	if err != nil {
		return nil, err
	}
	return driver.RowsAffected(result.RowCount), nil
}

func namedValueParams(args []driver.NamedValue) []any {
	params := make([]any, len(args))
	for i, arg := range args {
		params[i] = arg.Value
	}
	return params
}

// Stmt implements driver.Stmt.
type Stmt struct {
	conn  *Conn
	query string
}

// Close closes the statement.
func (s *Stmt) Close() error {
	return nil
}

// NumInput returns -1: the placeholder count is not known client-side.
func (s *Stmt) NumInput() int {
	return -1
}

// Exec executes a statement that does not return rows.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.conn.ExecContext(context.Background(), s.query, valuesToNamed(args))
}

// Query executes a statement that returns rows.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.conn.QueryContext(context.Background(), s.query, valuesToNamed(args))
}

func valuesToNamed(args []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return named
}

// Rows implements driver.Rows over a fully decoded array-mode result.
type Rows struct {
	fields []neon.FieldDef
	data   [][]any
	index  int
}

// Columns returns the column names.
func (r *Rows) Columns() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Close closes the rows. All data is prefetched, so this only drops it.
func (r *Rows) Close() error {
	r.data = nil
	r.index = 0
	return nil
}

// Next populates the next row. Decoded values outside the driver.Value set
// (uuids, arrays, JSON documents) are rendered to text or JSON so that
// database/sql's conversion layer can scan them.
func (r *Rows) Next(dest []driver.Value) error {
	if r.index >= len(r.data) {
		return io.EOF
	}
	row := r.data[r.index]
	if len(row) != len(dest) {
		return fmt.Errorf("neondriver: row has %d values for %d columns", len(row), len(dest))
	}
	for i, v := range row {
		dest[i] = toDriverValue(v)
	}
	r.index++
	return nil
}

func toDriverValue(v any) driver.Value {
	switch v := v.(type) {
	case nil, bool, int64, float64, string, []byte, time.Time:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		if b, err := json.Marshal(v); err == nil {
			return b
		}
		return fmt.Sprintf("%v", v)
	}
}
