package ir

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

var errNull = errors.New("null is forbidden in canonical JSON")

const hexDigits = "0123456789abcdef"

// MarshalCanonical produces RFC 8785 canonical JSON for hashing.
// This is the ONLY serialization used for overload identity.
//
// Compared to encoding/json:
//   - object keys are sorted by UTF-16 code units
//   - strings are NFC normalized and only ", \ and control characters are
//     escaped (no HTML escaping, U+2028 and U+2029 stay literal)
//   - floats and null are rejected
func MarshalCanonical(v any) ([]byte, error) {
	var e canonicalEncoder
	if err := e.value(v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type canonicalEncoder struct {
	buf bytes.Buffer
}

func (e *canonicalEncoder) value(v any) error {
	switch val := v.(type) {
	case nil:
		return errNull
	case IRString:
		e.string(string(val))
	case string:
		e.string(val)
	case IRInt:
		e.buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int:
		e.buf.WriteString(strconv.Itoa(val))
	case int64:
		e.buf.WriteString(strconv.FormatInt(val, 10))
	case IRBool:
		e.buf.WriteString(strconv.FormatBool(bool(val)))
	case bool:
		e.buf.WriteString(strconv.FormatBool(val))
	case IRArray:
		return e.array(val)
	case IRObject:
		return e.object(val)
	case float32, float64:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func (e *canonicalEncoder) string(s string) {
	e.buf.WriteByte('"')
	for _, r := range norm.NFC.String(s) {
		switch r {
		case '"':
			e.buf.WriteString(`\"`)
		case '\\':
			e.buf.WriteString(`\\`)
		case '\b':
			e.buf.WriteString(`\b`)
		case '\f':
			e.buf.WriteString(`\f`)
		case '\n':
			e.buf.WriteString(`\n`)
		case '\r':
			e.buf.WriteString(`\r`)
		case '\t':
			e.buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				e.buf.WriteString(`\u00`)
				e.buf.WriteByte(hexDigits[r>>4])
				e.buf.WriteByte(hexDigits[r&0xf])
				continue
			}
			e.buf.WriteRune(r)
		}
	}
	e.buf.WriteByte('"')
}

func (e *canonicalEncoder) array(arr IRArray) error {
	e.buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.value(elem); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *canonicalEncoder) object(obj IRObject) error {
	e.buf.WriteByte('{')
	for i, k := range obj.SortedKeys() {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.string(k)
		e.buf.WriteByte(':')
		if err := e.value(obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	e.buf.WriteByte('}')
	return nil
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units, which
// differs from the UTF-8 byte order sort.Strings uses above U+FFFF).
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
	})
	return keys
}
