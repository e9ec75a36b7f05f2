package fishbone

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"fishbone/internal/extract"
	"fishbone/internal/llm"
)

// StageIdentify names the cause-identification stage in logs and hooks.
const StageIdentify = "identify"

// IdentifyStage produces up to MaxCausesPerCategory causes for every
// category. A failed generation or extraction degrades to an empty list per
// category; the stage never reports an error.
type IdentifyStage struct {
	llm llm.Client
	max int
}

func NewIdentifyStage(cli llm.Client, cfg Config) *IdentifyStage {
	cfg = cfg.withDefaults()
	return &IdentifyStage{llm: cli, max: cfg.MaxCausesPerCategory}
}

func (s *IdentifyStage) Run(ctx context.Context, st *State) {
	text, err := s.llm.Generate(llm.WithStage(ctx, StageIdentify), s.prompt(st.Effect, st.Categories))
	if err != nil {
		log.Printf("identify: degrading to empty causes: %v", err)
		st.Causes = emptyCauses(st.Categories)
		return
	}
	data, err := extract.Object(text)
	if err != nil {
		log.Printf("identify: degrading to empty causes: %v", err)
		st.Causes = emptyCauses(st.Categories)
		return
	}
	st.Causes = s.collect(data, st.Categories)
}

func (s *IdentifyStage) prompt(effect string, categories []string) []llm.Message {
	return []llm.Message{
		{
			Role: llm.RoleSystem,
			Content: fmt.Sprintf(
				"You are a Root Cause Analysis expert. Return only JSON. "+
					"Maximum %d causes per category. "+
					"Each cause should be 5 words or less.", s.max),
		},
		{
			Role: llm.RoleUser,
			Content: fmt.Sprintf(
				"Effect: %s\nCategories: %s\n\nReturn JSON format:\n"+
					`{"effect": %q, "causes": {"Category": ["cause1", "cause2", "cause3"]}}`,
				effect, strings.Join(categories, ", "), effect),
		},
	}
}

// collect builds one entry per category, in order: a trimmed, truncated list
// when the payload has a string list for the category, an empty list
// otherwise. No category key is ever missing.
func (s *IdentifyStage) collect(data map[string]json.RawMessage, categories []string) map[string][]string {
	var byCat map[string]json.RawMessage
	if raw, ok := data["causes"]; ok {
		_ = json.Unmarshal(raw, &byCat)
	}
	out := make(map[string][]string, len(categories))
	for _, cat := range categories {
		list, ok := extract.StringList(byCat[cat])
		if !ok {
			out[cat] = []string{}
			continue
		}
		if len(list) > s.max {
			list = list[:s.max]
		}
		out[cat] = list
	}
	return out
}

func emptyCauses(categories []string) map[string][]string {
	out := make(map[string][]string, len(categories))
	for _, cat := range categories {
		out[cat] = []string{}
	}
	return out
}
