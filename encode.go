package neon

import "github.com/neondatabase/neon-go/wire"

// encodeParams adapts each parameter into its Postgres text form, in the
// original positional order. A failure identifies the 1-based position of
// the offending parameter.
func (c *Client) encodeParams(params []any) ([]*string, error) {
	encoded := make([]*string, len(params))
	for i, p := range params {
		text, _, err := c.registry.Encode(p)
		if err != nil {
			return nil, newEncodeError(i+1, err)
		}
		encoded[i] = text
	}
	return encoded, nil
}

// buildQueryRequest assembles the wire body for one statement. Placeholders
// stay in the query text; only the parameter array is adapted.
func buildQueryRequest(query string, params []*string) wire.QueryRequest {
	if params == nil {
		params = []*string{}
	}
	return wire.QueryRequest{Query: query, Params: params}
}
