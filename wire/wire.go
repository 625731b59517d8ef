package wire

import "encoding/json"

// Header names understood by the Neon HTTP SQL endpoint. Batch headers apply
// to transaction requests only.
const (
	HeaderConnectionString = "Neon-Connection-String"
	HeaderRawTextOutput    = "Neon-Raw-Text-Output"
	HeaderArrayMode        = "Neon-Array-Mode"
	HeaderIsolationLevel   = "Neon-Batch-Isolation-Level"
	HeaderReadOnly         = "Neon-Batch-Read-Only"
	HeaderDeferrable       = "Neon-Batch-Deferrable"
)

// QueryRequest is the body for a single-statement request. Params holds the
// Postgres text form of each positional parameter; a nil entry is SQL NULL.
// The server performs the actual parameter binding, so Query keeps its
// $1..$n placeholders untouched.
type QueryRequest struct {
	Query  string    `json:"query"`
	Params []*string `json:"params"`
}

// BatchRequest is the body for a transaction request. Statement order is
// significant: the server executes and answers in the same order.
type BatchRequest struct {
	Queries []QueryRequest `json:"queries"`
}

// Field describes one result column.
type Field struct {
	Name             string `json:"name"`
	DataTypeID       uint32 `json:"dataTypeID"`
	TableID          int    `json:"tableID"`
	ColumnID         int    `json:"columnID"`
	DataTypeSize     int    `json:"dataTypeSize"`
	DataTypeModifier int    `json:"dataTypeModifier"`
	Format           string `json:"format"`
}

// QueryResponse is the per-statement response envelope. Each row is either a
// JSON object keyed by column name or a JSON array in column order, depending
// on the requested array mode; cell values are raw Postgres text or null.
type QueryResponse struct {
	Rows       []json.RawMessage `json:"rows"`
	Fields     []Field           `json:"fields"`
	RowCount   int               `json:"rowCount"`
	RowAsArray bool              `json:"rowAsArray"`
	Command    string            `json:"command"`
}

// BatchResponse wraps the per-statement responses of a transaction request,
// in statement order.
type BatchResponse struct {
	Results []QueryResponse `json:"results"`
}
