package pgcodec

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EncodeFunc converts a native Go value into the Postgres text form sent on
// the wire. The registry handles nil values before the codec is invoked.
type EncodeFunc func(v any) (string, error)

// DecodeFunc converts a Postgres text value into its native Go form. The
// registry handles SQL NULL before the codec is invoked.
type DecodeFunc func(text string) (any, error)

/// Codec is a pair of converters for one wire type. Either side may be nil:
// a nil Encode falls back to a generic textual form, a nil Decode returns
// the raw text unchanged.
type Codec struct {
	Encode EncodeFunc
	Decode DecodeFunc
}

// EncodeError reports a native value that could not be adapted for Postgres.
type EncodeError struct {
	Value any
	Cause error
}

func (e *EncodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pgcodec: cannot adapt %T value for Postgres: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("pgcodec: cannot adapt %T value for Postgres", e.Value)
}

func (e *EncodeError) Unwrap() error { return e.Cause }

// DecodeError reports a wire value that could not be converted to a native
// Go value under its column's type OID.
type DecodeError struct {
	Value string
	OID   OID
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("pgcodec: cannot decode %q as oid %d: %v", e.Value, e.OID, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// Registry maps wire type OIDs to codecs. Each Registry instance is
// self-contained; NewRegistry returns one preloaded with the built-in codecs
// and clients own their registry rather than sharing process-global state.
//
// Registration is guarded by a read-write mutex, so registering a custom
// codec while queries are in flight on other goroutines is safe.
type Registry struct {
	mu     sync.RWMutex
	codecs map[OID]Codec
	types  map[reflect.Type]OID
}

// NewRegistry returns a registry with all built-in codecs loaded.
func NewRegistry() *Registry {
	r := &Registry{
		codecs: make(map[OID]Codec),
		types:  make(map[reflect.Type]OID),
	}
	r.registerBuiltins()
	return r
}

// Register installs a codec for a wire type OID, replacing any existing
// entry for that OID, including a built-in one.
func (r *Registry) Register(oid OID, c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[oid] = c
}

// RegisterType routes values with the same dynamic type as sample to the
// given OID during encoding. Combined with Register this lets callers teach
// the registry entirely new native types.
func (r *Registry) RegisterType(sample any, oid OID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[reflect.TypeOf(sample)] = oid
}

func (r *Registry) codec(oid OID) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[oid]
	return c, ok
}

func (r *Registry) typeOID(t reflect.Type) (OID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	oid, ok := r.types[t]
	return oid, ok
}

// Encode adapts a native value into its wire text form and the OID inferred
// from the value's type. A nil value encodes as SQL NULL (nil text, OID 0).
func (r *Registry) Encode(v any) (*string, OID, error) {
	if v == nil {
		return nil, 0, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, 0, nil
		}
		return r.Encode(rv.Elem().Interface())
	}

	oid, ok := r.inferOID(v)
	if !ok {
		// Generic textual fallback for unknown-but-printable values.
		if s, ok := fallbackText(v); ok {
			return &s, OIDText, nil
		}
		return nil, 0, &EncodeError{Value: v}
	}

	if c, ok := r.codec(oid); ok && c.Encode != nil {
		text, err := c.Encode(v)
		if err != nil {
			return nil, 0, &EncodeError{Value: v, Cause: err}
		}
		return &text, oid, nil
	}

	if s, ok := fallbackText(v); ok {
		return &s, oid, nil
	}
	return nil, 0, &EncodeError{Value: v}
}

// Decode converts a wire text value under the given OID into a native Go
// value. NULL decodes to nil. Unregistered OIDs fall back to the raw text,
// so every column remains readable even without a specific codec.
func (r *Registry) Decode(text *string, oid OID) (any, error) {
	if text == nil {
		return nil, nil
	}
	c, ok := r.codec(oid)
	if !ok || c.Decode == nil {
		return *text, nil
	}
	v, err := c.Decode(*text)
	if err != nil {
		return nil, &DecodeError{Value: *text, OID: oid, Cause: err}
	}
	return v, nil
}

// inferOID determines the wire type for a native value. Explicitly
// registered types win, then the built-in concrete types, then a
// reflection pass that covers named types with basic underlying kinds.
func (r *Registry) inferOID(v any) (OID, bool) {
	if oid, ok := r.typeOID(reflect.TypeOf(v)); ok {
		return oid, true
	}

	switch v.(type) {
	case bool:
		return OIDBool, true
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return OIDInt8, true
	case uint, uint64:
		return OIDNumeric, true
	case float32:
		return OIDFloat4, true
	case float64:
		return OIDFloat8, true
	case string:
		return OIDText, true
	case json.RawMessage:
		return OIDJSONB, true
	case []byte:
		return OIDBytea, true
	case time.Time:
		return OIDTimestamptz, true
	case uuid.UUID:
		return OIDUUID, true
	case netip.Addr:
		return OIDInet, true
	case netip.Prefix:
		return OIDCIDR, true
	case []bool:
		return OIDBoolArray, true
	case []int, []int16, []int32, []int64:
		return OIDInt8Array, true
	case []float32:
		return OIDFloat4Array, true
	case []float64:
		return OIDFloat8Array, true
	case []string:
		return OIDTextArray, true
	case []time.Time:
		return OIDTimestamptzArray, true
	case []uuid.UUID:
		return OIDUUIDArray, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return OIDBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return OIDInt8, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return OIDNumeric, true
	case reflect.Float32:
		return OIDFloat4, true
	case reflect.Float64:
		return OIDFloat8, true
	case reflect.String:
		return OIDText, true
	case reflect.Map, reflect.Struct:
		return OIDJSONB, true
	case reflect.Slice, reflect.Array:
		return OIDTextArray, true
	default:
		return 0, false
	}
}

// fallbackText renders a value through fmt when no specific encoder applies.
// Channels and funcs have no meaningful text form and are rejected.
func fallbackText(v any) (string, bool) {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return "", false
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), true
	}
	return fmt.Sprintf("%v", v), true
}
