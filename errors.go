package neon

import (
	"errors"
	"fmt"

	"github.com/neondatabase/neon-go/pgcodec"
)

// ErrorType represents the closed set of error kinds surfaced by this
// package. Every failure is one of these kinds; callers branch on the kind
// (or use the IsXxxError helpers) rather than inspecting message text.
type ErrorType int

const (
	// ErrorTypeUnknown represents an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeConnectionStringMissing: no connection string was provided
	// and the DATABASE_URL environment variable is not set.
	ErrorTypeConnectionStringMissing
	// ErrorTypeConnectionStringFormat: the connection string does not parse
	// into scheme, user, host and database.
	ErrorTypeConnectionStringFormat
	// ErrorTypeHTTPClient: the transport call failed before a response was
	// received (connection failure, timeout, cancellation).
	ErrorTypeHTTPClient
	// ErrorTypeHTTPResponse: the endpoint answered with a non-success
	// status, or with a body that does not match the protocol.
	ErrorTypeHTTPResponse
	// ErrorTypeAuthToken: the auth token callback returned a value that is
	// not a usable bearer credential.
	ErrorTypeAuthToken
	// ErrorTypeTransactionConfig: invalid transaction option combination.
	ErrorTypeTransactionConfig
	// ErrorTypeEncode: a parameter could not be adapted to its Postgres
	// wire form.
	ErrorTypeEncode
	// ErrorTypeDecode: a response cell could not be converted to a native
	// Go value.
	ErrorTypeDecode
)

// Error is the structured error type returned by this package. Only the
// fields relevant to its Type are populated.
type Error struct {
	Type    ErrorType
	Message string

	// HTTP response errors.
	StatusCode   int
	ResponseBody string

	// Encode errors: 1-based position of the offending parameter.
	ParamIndex int

	// Decode errors: location of the offending cell.
	RowIndex int
	Column   string
	TypeOID  pgcodec.OID

	// Transaction configuration errors: the rejected combination.
	Isolation  IsolationLevel
	ReadOnly   bool
	Deferrable bool

	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsType checks if the error is of a specific type.
func (e *Error) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

func isErrorType(err error, errorType ErrorType) bool {
	var nErr *Error
	if errors.As(err, &nErr) {
		return nErr.IsType(errorType)
	}
	return false
}

// IsConnectionStringMissingError checks if an error reports a missing
// connection string.
func IsConnectionStringMissingError(err error) bool {
	return isErrorType(err, ErrorTypeConnectionStringMissing)
}

// IsConnectionStringFormatError checks if an error reports a malformed
// connection string.
func IsConnectionStringFormatError(err error) bool {
	return isErrorType(err, ErrorTypeConnectionStringFormat)
}

// IsHTTPClientError checks if an error is a transport failure.
func IsHTTPClientError(err error) bool {
	return isErrorType(err, ErrorTypeHTTPClient)
}

// IsHTTPResponseError checks if an error is a non-success HTTP response.
func IsHTTPResponseError(err error) bool {
	return isErrorType(err, ErrorTypeHTTPResponse)
}

// IsAuthTokenError checks if an error reports an invalid auth token.
func IsAuthTokenError(err error) bool {
	return isErrorType(err, ErrorTypeAuthToken)
}

// IsTransactionConfigError checks if an error reports an invalid
// transaction option combination.
func IsTransactionConfigError(err error) bool {
	return isErrorType(err, ErrorTypeTransactionConfig)
}

// IsEncodeError checks if an error is a parameter adaptation failure.
func IsEncodeError(err error) bool {
	return isErrorType(err, ErrorTypeEncode)
}

// IsDecodeError checks if an error is a result conversion failure.
func IsDecodeError(err error) bool {
	return isErrorType(err, ErrorTypeDecode)
}

func newConnectionStringMissingError() *Error {
	return &Error{
		Type:    ErrorTypeConnectionStringMissing,
		Message: "no connection string provided and DATABASE_URL is not set",
	}
}

func newConnectionStringFormatError(connString string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeConnectionStringFormat,
		Message: fmt.Sprintf("connection string %q is not a valid postgresql:// URL", connString),
		Cause:   cause,
	}
}

func newHTTPClientError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeHTTPClient,
		Message: "request to Neon HTTP endpoint failed",
		Cause:   cause,
	}
}

func newHTTPResponseError(statusCode int, body string) *Error {
	return &Error{
		Type:         ErrorTypeHTTPResponse,
		Message:      fmt.Sprintf("Neon HTTP endpoint returned status %d", statusCode),
		StatusCode:   statusCode,
		ResponseBody: body,
	}
}

func newResponseFormatError(statusCode int, cause error) *Error {
	return &Error{
		Type:       ErrorTypeHTTPResponse,
		Message:    "failed to decode Neon HTTP response body",
		StatusCode: statusCode,
		Cause:      cause,
	}
}

func newAuthTokenError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeAuthToken,
		Message: message,
		Cause:   cause,
	}
}

func newTransactionConfigError(isolation IsolationLevel, readOnly, deferrable bool) *Error {
	return &Error{
		Type: ErrorTypeTransactionConfig,
		Message: fmt.Sprintf(
			"deferrable transactions require Serializable isolation and read-only mode (got isolation=%s readOnly=%t deferrable=%t)",
			isolation, readOnly, deferrable),
		Isolation:  isolation,
		ReadOnly:   readOnly,
		Deferrable: deferrable,
	}
}

func newEncodeError(paramIndex int, cause error) *Error {
	return &Error{
		Type:       ErrorTypeEncode,
		Message:    fmt.Sprintf("failed to adapt parameter $%d for Postgres", paramIndex),
		ParamIndex: paramIndex,
		Cause:      cause,
	}
}

func newDecodeError(rowIndex int, column string, oid pgcodec.OID, cause error) *Error {
	return &Error{
		Type:     ErrorTypeDecode,
		Message:  fmt.Sprintf("failed to convert row %d column %q (oid %d) to a Go value", rowIndex, column, oid),
		RowIndex: rowIndex,
		Column:   column,
		TypeOID:  oid,
		Cause:    cause,
	}
}
