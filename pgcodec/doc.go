// Package pgcodec converts values between native Go types and the Postgres
// text format carried by the Neon HTTP SQL protocol.
//
// Conversions run through a Registry: a mapping from a Postgres type OID to
// a pair of converters (encode: Go value to wire text, decode: wire text to
// Go value). NewRegistry preloads codecs for the common types - booleans,
// integers, floats, text, timestamps with and without zone, dates, UUIDs,
// bytea, JSON, network addresses, and one-dimensional arrays of these. The
// fallback chain is deterministic: a registered codec for the column's OID,
// otherwise the raw text form, so unknown column types never fail to decode.
//
// Callers may replace any entry or add new ones:
//
//	reg := pgcodec.NewRegistry()
//	reg.Register(pgcodec.OIDNumeric, pgcodec.Codec{
//		Decode: func(text string) (any, error) { return decimal.Parse(text) },
//	})
//
// Registries are instance-owned (each client holds its own) rather than
// process-global. Register and RegisterType are safe to call concurrently
// with in-flight conversions.
package pgcodec
