package model

import "time"

// Status of a finished generation run.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

// Stop reasons for a finished generation run.
const (
	ReasonCompleted       = "completed"
	ReasonBudgetExhausted = "budget_exhausted"
	ReasonStreakExhausted = "streak_exhausted"
	ReasonClassesCapped   = "classes_capped"
	ReasonCanceled        = "canceled"
)

// ClassStats reports per-class progress of a generation run.
type ClassStats struct {
	Class      int     `json:"class"`
	Count      int     `json:"count"`
	Area       float64 `json:"area"`
	TargetArea float64 `json:"target_area"`
}

// Result is the outcome of one generation run: the frozen aggregate plus
// the completion status. A partial result is a distinguishable success
// variant, not an error.
type Result struct {
	Aggregate *Aggregate
	Status    string
	Reason    string
	Requested int // target shape count (0 in porosity mode)
	Achieved  int
	Attempts  int
	Porosity  float64
	Classes   []ClassStats
	Elapsed   time.Duration
}

// Partial reports whether the run stopped before reaching its target.
func (r *Result) Partial() bool {
	return r.Status == StatusPartial
}
