package fishbone

import (
	"context"
	"fmt"
	"log"
	"strings"

	"fishbone/internal/extract"
	"fishbone/internal/llm"
)

// StageExpand names the root-cause expansion stage in logs and hooks.
const StageExpand = "expand"

// ExpandStage asks, for every identified cause, why it occurs (5 Whys) and
// records up to MaxRootCausesPerCause reasons per cause. When nothing was
// identified it short-circuits without a generator call. A failed generation
// or extraction resets the whole mapping to empty rather than keeping a
// partial result.
type ExpandStage struct {
	llm llm.Client
	max int
}

func NewExpandStage(cli llm.Client, cfg Config) *ExpandStage {
	cfg = cfg.withDefaults()
	return &ExpandStage{llm: cli, max: cfg.MaxRootCausesPerCause}
}

func (s *ExpandStage) Run(ctx context.Context, st *State) {
	if !hasCauses(st.Causes) {
		st.RootCauses = map[string]map[string][]string{}
		return
	}
	text, err := s.llm.Generate(llm.WithStage(ctx, StageExpand), s.prompt(st))
	if err != nil {
		log.Printf("expand: degrading to empty root causes: %v", err)
		st.RootCauses = map[string]map[string][]string{}
		return
	}
	data, err := extract.Object(text)
	if err != nil {
		log.Printf("expand: degrading to empty root causes: %v", err)
		st.RootCauses = map[string]map[string][]string{}
		return
	}

	out := make(map[string]map[string][]string, len(st.Categories))
	for _, cat := range st.Categories {
		causes, ok := st.Causes[cat]
		if !ok {
			continue
		}
		inner := make(map[string][]string, len(causes))
		for _, cause := range causes {
			list, ok := extract.StringList(data[cat+":"+cause])
			if !ok {
				inner[cause] = []string{}
				continue
			}
			if len(list) > s.max {
				list = list[:s.max]
			}
			inner[cause] = list
		}
		out[cat] = inner
	}
	st.RootCauses = out
}

func (s *ExpandStage) prompt(st *State) []llm.Message {
	var tokens []string
	for _, cat := range st.Categories {
		for _, cause := range st.Causes[cat] {
			tokens = append(tokens, fmt.Sprintf("%q", cat+":"+cause))
		}
	}
	return []llm.Message{
		{
			Role: llm.RoleSystem,
			Content: fmt.Sprintf(
				"Perform root cause analysis using 5 Whys. Return only JSON. "+
					"%d reasons per cause. "+
					"Each reason should be 8 words or less.", s.max),
		},
		{
			Role: llm.RoleUser,
			Content: fmt.Sprintf(
				"Analyze why these causes occur:\n[%s]\n\nReturn JSON format:\n"+
					`{"Category:cause": ["why1", "why2", "why3"]}`,
				strings.Join(tokens, ", ")),
		},
	}
}

func hasCauses(causes map[string][]string) bool {
	for _, list := range causes {
		if len(list) > 0 {
			return true
		}
	}
	return false
}
