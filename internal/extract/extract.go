// Package extract turns raw model output into structured data. Models wrap
// JSON in prose and fenced code blocks, or return text that is not JSON at
// all; every failure here is recoverable and yields an empty result.
package extract

import (
	"encoding/json"
	"errors"
	"strings"

	"fishbone/internal/util/jsonutil"
)

var ErrNotObject = errors.New("extract: payload is not a JSON object")

const (
	fenceTagged = "```json"
	fencePlain  = "```"
)

// Fenced returns the contents of the first fenced code block in text,
// preferring a block tagged as json over an untagged one. Without a closing
// fence the rest of the text is taken. When no fence is present the input is
// returned unchanged, trimmed.
func Fenced(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, fenceTagged); i >= 0 {
		return cutFence(text[i+len(fenceTagged):])
	}
	if i := strings.Index(text, fencePlain); i >= 0 {
		body := text[i+len(fencePlain):]
		// Drop an optional language tag on the opening line.
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			tag := strings.TrimSpace(body[:nl])
			if tag != "" && !strings.ContainsAny(tag, "{}[]\"") {
				body = body[nl+1:]
			}
		}
		return cutFence(body)
	}
	return text
}

func cutFence(body string) string {
	if j := strings.Index(body, fencePlain); j >= 0 {
		body = body[:j]
	}
	return strings.TrimSpace(body)
}

// Object parses text (optionally fenced) as a JSON object. On any parse
// failure it returns an empty map and the reason; callers treat that the
// same as a model that returned nothing useful.
func Object(text string) (map[string]json.RawMessage, error) {
	body := Fenced(text)
	if body == "" {
		return map[string]json.RawMessage{}, ErrNotObject
	}
	var out map[string]json.RawMessage
	if err := jsonutil.UnmarshalFlex([]byte(body), &out); err != nil {
		return map[string]json.RawMessage{}, err
	}
	if out == nil {
		out = map[string]json.RawMessage{}
	}
	return out, nil
}

// StringList decodes raw as a list of strings, trimming entries and dropping
// blanks. ok is false when raw is absent or not a list of strings.
func StringList(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}
