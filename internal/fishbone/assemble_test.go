package fishbone

import (
	"testing"
	"time"
)

func TestAssemble_Metadata(t *testing.T) {
	st := &State{
		Effect:     "traffic jam",
		Categories: []string{"Machine", "Method"},
		Causes: map[string][]string{
			"Machine": {"Overheating", "Faulty RAM"},
			"Method":  {"No load testing"},
		},
	}
	NewAssembleStage(Config{Model: "gpt-4o-mini"}).Run(st)

	md := st.Metadata
	if md.Method != "Fishbone Diagram" {
		t.Fatalf("method = %q", md.Method)
	}
	if md.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", md.Model)
	}
	if md.CategoriesAnalyzed != 2 {
		t.Fatalf("categories_analyzed = %d", md.CategoriesAnalyzed)
	}
	if md.TotalCauses != 3 {
		t.Fatalf("total_causes = %d", md.TotalCauses)
	}
	if _, err := time.Parse(time.RFC3339, md.Timestamp); err != nil {
		t.Fatalf("timestamp %q is not RFC3339: %v", md.Timestamp, err)
	}
}

func TestAssemble_IdempotentApartFromTimestamp(t *testing.T) {
	st := &State{
		Effect:     "traffic jam",
		Categories: []string{"Machine"},
		Causes:     map[string][]string{"Machine": {"Overheating"}},
	}
	stage := NewAssembleStage(Config{Model: "gpt-4o-mini"})

	stage.Run(st)
	first := st.Metadata
	stage.Run(st)
	second := st.Metadata

	if first.CategoriesAnalyzed != second.CategoriesAnalyzed || first.TotalCauses != second.TotalCauses ||
		first.Method != second.Method || first.Model != second.Model {
		t.Fatalf("assembly not idempotent: %+v vs %+v", first, second)
	}
}
