package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// MarshalNoEscape encodes v into JSON without escaping <, >, & into \u003c, etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalNoEscapeIndent encodes v into indented JSON without HTML escaping.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnescapeUnicodeString converts JSON unicode escapes like "\u003e" into actual
// characters. Handles double-escaped sequences like "\\u003e" -> ">".
func UnescapeUnicodeString(s string) (string, error) {
	// Trick: force JSON to treat the string as a quoted JSON string
	esc := strings.ReplaceAll(s, `\`, `\\`)
	esc = strings.ReplaceAll(esc, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}

// NormalizeJSONUnicode parses JSON bytes and recursively unescapes any
// remaining double-escaped unicode sequences inside string values. It also
// unwraps payloads that arrive as a JSON-encoded string of JSON.
func NormalizeJSONUnicode(raw []byte) ([]byte, error) {
	var anyVal any
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		return nil, errors.New("jsonutil: cannot parse JSON payload")
	}
	// The entire payload may itself be a quoted JSON string of JSON.
	if s, ok := anyVal.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			anyVal = inner
		}
	}
	return MarshalNoEscape(deepUnescape(anyVal))
}

// UnmarshalFlex tries to unmarshal JSON bytes into v with best effort:
// direct unmarshal first, then a normalize-and-retry pass. This helps when a
// model returns double-escaped unicode or string-wrapped JSON.
func UnmarshalFlex(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	norm, err := NormalizeJSONUnicode(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// deepUnescape recursively traverses maps and slices, unescaping unicode
// sequences in all string values.
func deepUnescape(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := UnescapeUnicodeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepUnescape(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = deepUnescape(vv)
		}
		return out
	default:
		return v
	}
}
