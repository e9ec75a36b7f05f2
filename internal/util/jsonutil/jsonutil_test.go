package jsonutil

import (
	"strings"
	"testing"
)

func TestMarshalNoEscapeIndent(t *testing.T) {
	b, err := MarshalNoEscapeIndent(map[string]string{"k": "<a> & 渋滞"}, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "<a> & 渋滞") {
		t.Fatalf("output escaped: %s", s)
	}
	if strings.Contains(s, `\u`) {
		t.Fatalf("unicode escapes kept: %s", s)
	}
	if !strings.Contains(s, "\n  \"k\"") {
		t.Fatalf("output not indented: %s", s)
	}
	if strings.HasSuffix(s, "\n") {
		t.Fatalf("trailing newline kept: %q", s)
	}
}

func TestUnmarshalFlex_StringWrappedJSON(t *testing.T) {
	// A payload that arrives as a JSON string containing JSON.
	raw := []byte(`"{\"a\": [\"x\"]}"`)
	var out map[string][]string
	if err := UnmarshalFlex(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out["a"]) != 1 || out["a"][0] != "x" {
		t.Fatalf("got %v", out)
	}
}

func TestUnmarshalFlex_DirectFirst(t *testing.T) {
	var out map[string]int
	if err := UnmarshalFlex([]byte(`{"n": 3}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["n"] != 3 {
		t.Fatalf("got %v", out)
	}
}
