package neon

import (
	"context"
	"net/http"
	"time"
)

// IsolationLevel is the transaction isolation level requested from
// Postgres. See https://www.postgresql.org/docs/current/transaction-iso.html
// The zero value leaves the level unset and the server default applies.
//
// Note that ReadUncommitted behaves as ReadCommitted in Postgres, which does
// not support dirty reads.
type IsolationLevel string

const (
	IsolationReadUncommitted IsolationLevel = "ReadUncommitted"
	IsolationReadCommitted   IsolationLevel = "ReadCommitted"
	IsolationRepeatableRead  IsolationLevel = "RepeatableRead"
	IsolationSerializable    IsolationLevel = "Serializable"
)

func (l IsolationLevel) valid() bool {
	switch l {
	case "", IsolationReadUncommitted, IsolationReadCommitted,
		IsolationRepeatableRead, IsolationSerializable:
		return true
	}
	return false
}

// AuthTokenFunc produces a bearer token for the Authorization header. It is
// invoked once per network call, before the request is built.
type AuthTokenFunc func(ctx context.Context) (string, error)

// ParameterizedQuery is a query as it goes on the wire: the text with its
// $1..$n placeholders untouched and the adapted parameters in positional
// order. A nil parameter entry is SQL NULL.
type ParameterizedQuery struct {
	Query  string
	Params []*string
}

// QueryHook observes logical statements around their execution. Both
// methods are invoked synchronously, exactly once per statement; for a
// transaction that means once per batched statement around a single
// network call.
type QueryHook interface {
	BeforeQuery(query ParameterizedQuery)
	AfterQuery(query ParameterizedQuery, result *QueryResult, arrayMode, fullResults bool)
}

// FetchOptions is transport passthrough configuration for a single call.
type FetchOptions struct {
	// Timeout bounds the whole request/response cycle. Zero means no
	// per-call timeout beyond the client's and context's own deadlines.
	Timeout time.Duration
	// Header entries are added verbatim to the request.
	Header http.Header
}

// QueryOptions adjusts a single Query call. The zero value is valid:
// mapping-mode rows, no hooks, no auth token.
type QueryOptions struct {
	// ArrayMode selects positional rows ([][]any) instead of rows keyed by
	// column name.
	ArrayMode bool
	// FullResults is forwarded to AfterQuery so hooks can distinguish
	// callers that consume metadata from callers that only read rows.
	FullResults bool
	// FetchOptions, when set, override nothing on the client; they only
	// apply to this call.
	FetchOptions *FetchOptions
	// AuthToken overrides the client-level token source for this call.
	AuthToken AuthTokenFunc
	// Hook overrides the client-level query hook for this call.
	Hook QueryHook
}

// TransactionOptions adjusts a Transaction call. The embedded QueryOptions
// apply to every statement in the batch.
type TransactionOptions struct {
	QueryOptions

	// IsolationLevel requested for the whole batch. Unset omits the header
	// and the server default applies.
	IsolationLevel IsolationLevel
	// ReadOnly marks the transaction read-only.
	ReadOnly bool
	// Deferrable is only valid together with IsolationSerializable and
	// ReadOnly; any other combination is rejected before the network call.
	Deferrable bool
}

func (o *TransactionOptions) validate() error {
	if !o.IsolationLevel.valid() {
		return newTransactionConfigError(o.IsolationLevel, o.ReadOnly, o.Deferrable)
	}
	if o.Deferrable && !(o.IsolationLevel == IsolationSerializable && o.ReadOnly) {
		return newTransactionConfigError(o.IsolationLevel, o.ReadOnly, o.Deferrable)
	}
	return nil
}

// Statement is one (query, params) pair in a transaction batch.
type Statement struct {
	Query  string
	Params []any
}

// Stmt builds a Statement. A statement without parameters is Stmt(query).
func Stmt(query string, params ...any) Statement {
	return Statement{Query: query, Params: params}
}
