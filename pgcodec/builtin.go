package pgcodec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/netip"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Postgres text-format layouts. The server emits timestamps with a space
// separator and an abbreviated numeric zone ("+00", "+05:30"); encoded
// values use the full zone so a round trip preserves the offset exactly.
const (
	dateLayout          = "2006-01-02"
	timestampLayout     = "2006-01-02 15:04:05.999999999"
	timestamptzLayout   = "2006-01-02 15:04:05.999999999-07:00"
	timestamptzLayoutPG = "2006-01-02 15:04:05.999999999-07"
)

var timestamptzLayouts = []string{
	timestamptzLayout,
	timestamptzLayoutPG,
	"2006-01-02 15:04:05.999999999-07:00:00",
	time.RFC3339Nano,
}

func (r *Registry) registerBuiltins() {
	scalars := map[OID]Codec{
		OIDBool:        {Encode: encodeBool, Decode: decodeBool},
		OIDInt2:        {Encode: encodeInt, Decode: decodeInt},
		OIDInt4:        {Encode: encodeInt, Decode: decodeInt},
		OIDInt8:        {Encode: encodeInt, Decode: decodeInt},
		OIDFloat4:      {Encode: encodeFloat, Decode: decodeFloat},
		OIDFloat8:      {Encode: encodeFloat, Decode: decodeFloat},
		OIDText:        {Encode: encodeText, Decode: decodeText},
		OIDVarchar:     {Encode: encodeText, Decode: decodeText},
		OIDBPChar:      {Encode: encodeText, Decode: decodeText},
		OIDName:        {Encode: encodeText, Decode: decodeText},
		OIDBytea:       {Encode: encodeBytea, Decode: decodeBytea},
		OIDDate:        {Encode: encodeDate, Decode: decodeDate},
		OIDTimestamp:   {Encode: encodeTimestamp, Decode: decodeTimestamp},
		OIDTimestamptz: {Encode: encodeTimestamptz, Decode: decodeTimestamptz},
		OIDUUID:        {Encode: encodeUUID, Decode: decodeUUID},
		OIDJSON:        {Encode: encodeJSON, Decode: decodeJSON},
		OIDJSONB:       {Encode: encodeJSON, Decode: decodeJSON},
		OIDInet:        {Encode: encodeInet, Decode: decodeInet},
		OIDCIDR:        {Encode: encodeInet, Decode: decodeCIDR},
	}
	for oid, c := range scalars {
		r.codecs[oid] = c
	}
	for arrayOID, elemOID := range arrayElem {
		r.codecs[arrayOID] = r.arrayCodec(elemOID)
	}
}

func encodeBool(v any) (string, error) {
	b, ok := v.(bool)
	if !ok {
		return "", fmt.Errorf("expected bool, got %T", v)
	}
	return strconv.FormatBool(b), nil
}

func decodeBool(text string) (any, error) {
	return strconv.ParseBool(text)
}

func encodeInt(v any) (string, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	}
	return "", fmt.Errorf("expected integer, got %T", v)
}

func decodeInt(text string) (any, error) {
	return strconv.ParseInt(text, 10, 64)
}

func encodeFloat(v any) (string, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
	}
	return "", fmt.Errorf("expected float, got %T", v)
}

func decodeFloat(text string) (any, error) {
	return strconv.ParseFloat(text, 64)
}

func encodeText(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return fmt.Sprintf("%v", v), nil
}

func decodeText(text string) (any, error) {
	return text, nil
}

// Bytea uses the hex output format: \xdeadbeef.
// https://www.postgresql.org/docs/current/datatype-binary.html
func encodeBytea(v any) (string, error) {
	b, ok := v.([]byte)
	if !ok {
		return "", fmt.Errorf("expected []byte, got %T", v)
	}
	return `\x` + hex.EncodeToString(b), nil
}

func decodeBytea(text string) (any, error) {
	if !strings.HasPrefix(text, `\x`) {
		return nil, fmt.Errorf("bytea value does not use hex format")
	}
	return hex.DecodeString(text[2:])
}

func encodeDate(v any) (string, error) {
	t, ok := v.(time.Time)
	if !ok {
		return "", fmt.Errorf("expected time.Time, got %T", v)
	}
	return t.Format(dateLayout), nil
}

func decodeDate(text string) (any, error) {
	return time.Parse(dateLayout, text)
}

func encodeTimestamp(v any) (string, error) {
	t, ok := v.(time.Time)
	if !ok {
		return "", fmt.Errorf("expected time.Time, got %T", v)
	}
	return t.Format(timestampLayout), nil
}

func decodeTimestamp(text string) (any, error) {
	return time.Parse(timestampLayout, text)
}

func encodeTimestamptz(v any) (string, error) {
	t, ok := v.(time.Time)
	if !ok {
		return "", fmt.Errorf("expected time.Time, got %T", v)
	}
	return t.Format(timestamptzLayout), nil
}

func decodeTimestamptz(text string) (any, error) {
	var lastErr error
	for _, layout := range timestamptzLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func encodeUUID(v any) (string, error) {
	switch u := v.(type) {
	case uuid.UUID:
		return u.String(), nil
	case string:
		return u, nil
	}
	return "", fmt.Errorf("expected uuid.UUID, got %T", v)
}

func decodeUUID(text string) (any, error) {
	return uuid.Parse(text)
}

func encodeJSON(v any) (string, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return string(raw), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func encodeInet(v any) (string, error) {
	switch a := v.(type) {
	case netip.Addr:
		return a.String(), nil
	case netip.Prefix:
		return a.String(), nil
	}
	return "", fmt.Errorf("expected netip.Addr or netip.Prefix, got %T", v)
}

// Inet values may carry a netmask; a masked value decodes as a prefix.
func decodeInet(text string) (any, error) {
	if strings.Contains(text, "/") {
		return netip.ParsePrefix(text)
	}
	return netip.ParseAddr(text)
}

func decodeCIDR(text string) (any, error) {
	return netip.ParsePrefix(text)
}
