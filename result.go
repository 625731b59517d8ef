package neon

import "github.com/neondatabase/neon-go/wire"

// FieldDef is the column metadata reported by the endpoint.
type FieldDef = wire.Field

// Row is one result row in mapping mode, keyed by column name. When a query
// yields duplicate column names the later column wins, mirroring the one
// slot per name the underlying result carries.
type Row map[string]any

// QueryResult is the decoded result of one statement. Exactly one of Rows
// and RowsArray is populated, depending on array mode; the metadata fields
// are always filled in.
type QueryResult struct {
	// Rows holds mapping-mode rows (array mode off).
	Rows []Row
	// RowsArray holds positional rows in column order (array mode on).
	RowsArray [][]any

	Fields     []FieldDef
	RowCount   int
	RowAsArray bool
	Command    string
}

// Len returns the number of rows regardless of mode.
func (r *QueryResult) Len() int {
	if r.RowAsArray {
		return len(r.RowsArray)
	}
	return len(r.Rows)
}
