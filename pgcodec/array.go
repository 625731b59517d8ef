package pgcodec

import (
	"fmt"
	"reflect"
	"strings"
)

// arrayCodec builds the codec for a one-dimensional array type. Elements are
// delegated to the element OID's codec at call time, so a custom codec
// registered for the element type is picked up by its array type as well.
func (r *Registry) arrayCodec(elem OID) Codec {
	return Codec{
		Encode: func(v any) (string, error) { return r.encodeArray(v, elem) },
		Decode: func(text string) (any, error) { return r.decodeArray(text, elem) },
	}
}

func (r *Registry) encodeElement(v any, elem OID) (string, error) {
	if c, ok := r.codec(elem); ok && c.Encode != nil {
		return c.Encode(v)
	}
	if s, ok := fallbackText(v); ok {
		return s, nil
	}
	return "", fmt.Errorf("no encoder for element oid %d", elem)
}

func (r *Registry) encodeArray(v any, elem OID) (string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("expected slice, got %T", v)
	}

	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		ev := rv.Index(i)
		if isNilValue(ev) {
			b.WriteString("NULL")
			continue
		}
		text, err := r.encodeElement(ev.Interface(), elem)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", i, err)
		}
		b.WriteString(quoteArrayElement(text))
	}
	b.WriteByte('}')
	return b.String(), nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func quoteArrayElement(text string) string {
	if !arrayElementNeedsQuotes(text) {
		return text
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(text); i++ {
		if text[i] == '"' || text[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(text[i])
	}
	b.WriteByte('"')
	return b.String()
}

func arrayElementNeedsQuotes(text string) bool {
	if text == "" || strings.EqualFold(text, "null") {
		return true
	}
	return strings.ContainsAny(text, `{},"\ `+"\t\n\r")
}

// decodeArray parses a one-dimensional array literal and decodes each
// element with the element OID's codec. When every decoded element shares
// one concrete type the result is a typed slice ([]int64, []string, ...);
// otherwise it is []any.
func (r *Registry) decodeArray(text string, elem OID) (any, error) {
	raw, err := parseArrayLiteral(text)
	if err != nil {
		return nil, err
	}
	decoded := make([]any, len(raw))
	for i, el := range raw {
		v, err := r.Decode(el, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		decoded[i] = v
	}
	return typedSlice(decoded), nil
}

func typedSlice(vals []any) any {
	if len(vals) == 0 {
		return vals
	}
	first := reflect.TypeOf(vals[0])
	if first == nil {
		return vals
	}
	for _, v := range vals[1:] {
		if reflect.TypeOf(v) != first {
			return vals
		}
	}
	out := reflect.MakeSlice(reflect.SliceOf(first), len(vals), len(vals))
	for i, v := range vals {
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface()
}

// parseArrayLiteral splits a {..} literal into its elements. A nil entry is
// an unquoted NULL. Multidimensional literals are rejected; the wire
// protocol only carries one-dimensional arrays through this path.
func parseArrayLiteral(text string) ([]*string, error) {
	s := strings.TrimSpace(text)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return nil, fmt.Errorf("malformed array literal %q", text)
	}
	inner := s[1 : len(s)-1]
	if inner == "" {
		return nil, nil
	}

	var (
		elems     []*string
		cur       strings.Builder
		inQuotes  bool
		wasQuoted bool
	)
	flush := func() {
		val := cur.String()
		if !wasQuoted && strings.EqualFold(strings.TrimSpace(val), "null") {
			elems = append(elems, nil)
		} else {
			if !wasQuoted {
				val = strings.TrimSpace(val)
			}
			elems = append(elems, &val)
		}
		cur.Reset()
		wasQuoted = false
	}

	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		if inQuotes {
			switch ch {
			case '\\':
				if i+1 >= len(inner) {
					return nil, fmt.Errorf("malformed array literal %q", text)
				}
				i++
				cur.WriteByte(inner[i])
			case '"':
				inQuotes = false
			default:
				cur.WriteByte(ch)
			}
			continue
		}
		switch ch {
		case '"':
			inQuotes = true
			wasQuoted = true
		case ',':
			flush()
		case '{':
			return nil, fmt.Errorf("multidimensional array literal %q is not supported", text)
		default:
			cur.WriteByte(ch)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("malformed array literal %q", text)
	}
	flush()
	return elems, nil
}
