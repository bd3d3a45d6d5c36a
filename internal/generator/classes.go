package generator

import (
	"github.com/kyiku/aggpack/internal/config"
	"github.com/kyiku/aggpack/internal/model"
)

// classState tracks the fill progress of one size class during a run.
type classState struct {
	id         int // 1-based
	cfg        config.ClassConfig
	targetArea float64
	area       float64
	count      int
}

func newClassStates(sc *config.Scenario, regionArea float64) []*classState {
	states := make([]*classState, len(sc.Classes))
	for i, cc := range sc.Classes {
		states[i] = &classState{
			id:         i + 1,
			cfg:        cc,
			targetArea: regionArea * cc.AreaRatio / 100,
		}
	}
	return states
}

// nextClass picks the class with the lowest fill progress that is still
// under its max count, so the mix converges toward the configured area
// ratios. Returns nil when every class is capped.
func nextClass(states []*classState) *classState {
	var best *classState
	bestProgress := 0.0
	for _, st := range states {
		if st.targetArea <= 0 || st.count >= st.cfg.MaxCount {
			continue
		}
		progress := st.area / st.targetArea
		if best == nil || progress < bestProgress {
			best = st
			bestProgress = progress
		}
	}
	return best
}

func classStats(states []*classState) []model.ClassStats {
	out := make([]model.ClassStats, len(states))
	for i, st := range states {
		out[i] = model.ClassStats{
			Class:      st.id,
			Count:      st.count,
			Area:       st.area,
			TargetArea: st.targetArea,
		}
	}
	return out
}
