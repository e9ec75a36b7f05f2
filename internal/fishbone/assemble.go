package fishbone

// StageAssemble names the metadata-assembly stage in logs and hooks.
const StageAssemble = "assemble"

// AssembleStage attaches run metadata. It makes no external call and cannot
// fail; apart from the timestamp it is deterministic.
type AssembleStage struct {
	model string
}

func NewAssembleStage(cfg Config) *AssembleStage {
	return &AssembleStage{model: cfg.Model}
}

func (s *AssembleStage) Run(st *State) {
	total := 0
	for _, list := range st.Causes {
		total += len(list)
	}
	st.Metadata = Metadata{
		Method:             methodLabel,
		Model:              s.model,
		Timestamp:          timestamp(),
		CategoriesAnalyzed: len(st.Categories),
		TotalCauses:        total,
	}
}
