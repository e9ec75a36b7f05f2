// Package fishbone implements a three-stage root-cause analysis pipeline:
// identify candidate causes per category, expand each cause into deeper
// "why" explanations, then attach run metadata. The generator is treated as
// an unreliable collaborator; every stage degrades to well-formed empty data
// instead of failing the run.
package fishbone

import "time"

// DefaultCategories is the 6M framework used when the caller does not supply
// its own buckets.
var DefaultCategories = []string{
	"Man (People)",
	"Machine",
	"Method",
	"Material",
	"Measurement",
	"Environment",
}

// methodLabel names the analysis technique in result metadata.
const methodLabel = "Fishbone Diagram"

// Token budgets per stage, matching the generator call sizes each stage needs.
const (
	IdentifyTokenBudget = 800
	ExpandTokenBudget   = 1000
)

// Config carries everything a stage needs beyond its client. Stages hold no
// other state, so one set of stage instances can serve concurrent runs.
type Config struct {
	// Model is the generation model id reported in result metadata.
	Model string
	// MaxCausesPerCategory caps stage-1 output per category (default 3).
	MaxCausesPerCategory int
	// MaxRootCausesPerCause caps stage-2 output per cause (default 3).
	MaxRootCausesPerCause int
}

func (c Config) withDefaults() Config {
	if c.MaxCausesPerCategory <= 0 {
		c.MaxCausesPerCategory = 3
	}
	if c.MaxRootCausesPerCause <= 0 {
		c.MaxRootCausesPerCause = 3
	}
	return c
}

// State is the single object threaded through the pipeline. Each stage owns
// exactly one field and never rewrites a field populated by an earlier stage.
type State struct {
	Effect     string
	Categories []string
	Causes     map[string][]string
	RootCauses map[string]map[string][]string
	Metadata   Metadata
}

// Metadata describes one pipeline run.
type Metadata struct {
	Method             string `json:"method"`
	Model              string `json:"model"`
	Timestamp          string `json:"timestamp"`
	CategoriesAnalyzed int    `json:"categories_analyzed"`
	TotalCauses        int    `json:"total_causes"`
}

// Result is the caller-facing projection of a finished State. Categories are
// not re-exposed: they are exactly the keys of Causes.
type Result struct {
	Effect     string                         `json:"effect"`
	Causes     map[string][]string            `json:"causes"`
	RootCauses map[string]map[string][]string `json:"root_causes"`
	Metadata   Metadata                       `json:"metadata"`
}

func (s *State) result() Result {
	return Result{
		Effect:     s.Effect,
		Causes:     s.Causes,
		RootCauses: s.RootCauses,
		Metadata:   s.Metadata,
	}
}

func timestamp() string { return time.Now().Format(time.RFC3339) }
