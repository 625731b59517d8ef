package neon

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/neondatabase/neon-go/pgcodec"
	"github.com/neondatabase/neon-go/wire"
)

// decodeResponse converts one wire response into native rows, cell by cell,
// using each column's type OID. The row shape on the wire decides how a row
// is parsed; the endpoint echoes the requested array mode in rowAsArray and
// in the row encoding itself.
func (c *Client) decodeResponse(resp *wire.QueryResponse) (*QueryResult, error) {
	result := &QueryResult{
		Fields:     resp.Fields,
		RowCount:   resp.RowCount,
		RowAsArray: resp.RowAsArray,
		Command:    resp.Command,
	}

	for i, raw := range resp.Rows {
		if isJSONArray(raw) {
			row, err := c.decodeArrayRow(i, raw, resp.Fields)
			if err != nil {
				return nil, err
			}
			result.RowsArray = append(result.RowsArray, row)
			result.RowAsArray = true
		} else {
			row, err := c.decodeObjectRow(i, raw, resp.Fields)
			if err != nil {
				return nil, err
			}
			result.Rows = append(result.Rows, row)
		}
	}
	return result, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func (c *Client) decodeArrayRow(rowIndex int, raw json.RawMessage, fields []wire.Field) ([]any, error) {
	var cells []*string
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, newResponseFormatError(0, fmt.Errorf("row %d: %w", rowIndex, err))
	}
	if len(cells) != len(fields) {
		return nil, newResponseFormatError(0,
			fmt.Errorf("row %d has %d values for %d columns", rowIndex, len(cells), len(fields)))
	}

	row := make([]any, len(fields))
	for i, f := range fields {
		oid := pgcodec.OID(f.DataTypeID)
		v, err := c.registry.Decode(cells[i], oid)
		if err != nil {
			return nil, newDecodeError(rowIndex, f.Name, oid, err)
		}
		row[i] = v
	}
	return row, nil
}

func (c *Client) decodeObjectRow(rowIndex int, raw json.RawMessage, fields []wire.Field) (Row, error) {
	var cells map[string]*string
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, newResponseFormatError(0, fmt.Errorf("row %d: %w", rowIndex, err))
	}

	row := make(Row, len(fields))
	for _, f := range fields {
		oid := pgcodec.OID(f.DataTypeID)
		v, err := c.registry.Decode(cells[f.Name], oid)
		if err != nil {
			return nil, newDecodeError(rowIndex, f.Name, oid, err)
		}
		row[f.Name] = v
	}
	return row, nil
}
