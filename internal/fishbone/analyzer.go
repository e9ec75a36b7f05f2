package fishbone

import (
	"context"
	"errors"
	"strings"

	"fishbone/internal/llm"
)

// ErrEmptyEffect rejects an analyze call whose effect is blank after
// trimming. It is the only error Analyze can return; generation and
// extraction failures are absorbed inside the stages.
var ErrEmptyEffect = errors.New("fishbone: effect must not be empty")

// phase is the orchestrator's position in the fixed Identify -> Expand ->
// Assemble -> Done sequence. There are no retries, skips, or backward edges.
type phase int

const (
	phaseIdentify phase = iota
	phaseExpand
	phaseAssemble
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseIdentify:
		return StageIdentify
	case phaseExpand:
		return StageExpand
	case phaseAssemble:
		return StageAssemble
	default:
		return "done"
	}
}

// Analyzer threads one State through the three stages in fixed order. The
// stages are stateless beyond their configuration, so a single Analyzer can
// serve concurrent runs; each run allocates its own State.
type Analyzer struct {
	identify *IdentifyStage
	expand   *ExpandStage
	assemble *AssembleStage
}

// NewAnalyzer wires the stages. identify and expand may be the same client;
// the original runs them with different token budgets, hence two parameters.
func NewAnalyzer(cfg Config, identify, expand llm.Client) *Analyzer {
	cfg = cfg.withDefaults()
	return &Analyzer{
		identify: NewIdentifyStage(identify, cfg),
		expand:   NewExpandStage(expand, cfg),
		assemble: NewAssembleStage(cfg),
	}
}

// Analyze runs the pipeline for one effect. categories defaults to the 6M
// set when empty; otherwise the caller's order and membership are
// authoritative. The returned result is always fully shaped: every category
// has a causes entry even when every stage degraded to nothing.
func (a *Analyzer) Analyze(ctx context.Context, effect string, categories []string) (Result, error) {
	effect = strings.TrimSpace(effect)
	if effect == "" {
		return Result{}, ErrEmptyEffect
	}
	if len(categories) == 0 {
		categories = append([]string(nil), DefaultCategories...)
	}

	st := &State{Effect: effect, Categories: categories}
	hook := HookFrom(ctx)

	for p := phaseIdentify; p != phaseDone; p++ {
		if hook != nil {
			hook.StageStart(p.String())
		}
		switch p {
		case phaseIdentify:
			a.identify.Run(ctx, st)
		case phaseExpand:
			a.expand.Run(ctx, st)
		case phaseAssemble:
			a.assemble.Run(st)
		}
		if hook != nil {
			hook.StageDone(p.String(), st)
		}
	}
	return st.result(), nil
}
