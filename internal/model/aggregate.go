package model

import (
	"github.com/kyiku/aggpack/internal/geometry"
)

// Aggregate is the ordered set of placed, mutually non-overlapping
// shapes within a bounding region. It grows monotonically during
// generation and is frozen when generation terminates.
type Aggregate struct {
	Region geometry.Region
	Shapes []Shape

	frozen bool
}

// NewAggregate returns an empty aggregate for the given region.
func NewAggregate(region geometry.Region) *Aggregate {
	return &Aggregate{Region: region}
}

// Append adds an accepted shape. It panics when called after Freeze,
// which would violate the frozen-aggregate contract.
func (a *Aggregate) Append(s Shape) {
	if a.frozen {
		panic("model: append to frozen aggregate")
	}
	a.Shapes = append(a.Shapes, s)
}

// Freeze marks the aggregate as final.
func (a *Aggregate) Freeze() {
	a.frozen = true
}

// Frozen reports whether generation has terminated.
func (a *Aggregate) Frozen() bool {
	return a.frozen
}

// Count returns the number of placed shapes.
func (a *Aggregate) Count() int {
	return len(a.Shapes)
}

// CoveredArea returns the summed area of all placed shapes.
func (a *Aggregate) CoveredArea() float64 {
	total := 0.0
	for _, s := range a.Shapes {
		total += s.Area
	}
	return total
}

// Porosity returns the fraction of the region not covered by shapes,
// in [0, 1].
func (a *Aggregate) Porosity() float64 {
	area := a.Region.Area()
	if area <= 0 {
		return 0
	}
	p := 1 - a.CoveredArea()/area
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
