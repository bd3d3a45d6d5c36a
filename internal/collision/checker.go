package collision

import (
	"github.com/kyiku/aggpack/internal/geometry"
	"github.com/kyiku/aggpack/internal/model"
)

// Checker validates candidate shapes against the bounding region and all
// previously accepted shapes. It is deterministic given its inputs and
// has no side effects beyond Add.
type Checker struct {
	region    geometry.Region
	clearance float64 // minimum distance from the region boundary
	gap       float64 // minimum distance between any two shapes
	index     *Index
	maxMargin float64 // largest ITZ margin seen so far, widens the search window
}

// NewChecker creates a checker for the given region, boundary clearance
// and inter-shape gap.
func NewChecker(region geometry.Region, clearance, gap float64) *Checker {
	return &Checker{
		region:    region,
		clearance: clearance,
		gap:       gap,
		index:     NewIndex(region.Bounds()),
	}
}

// Add records an accepted shape for future validity checks.
func (c *Checker) Add(s model.Shape) {
	c.index.Add(s)
	if s.Margin > c.maxMargin {
		c.maxMargin = s.Margin
	}
}

// Placed returns the number of shapes recorded so far.
func (c *Checker) Placed() int {
	return c.index.Len()
}

// Validate reports whether the candidate may be placed: it must lie
// fully inside the region minus the clearance, must not overlap any
// placed shape, and must keep the required gap (the configured minimum
// distance plus both ITZ margins) from every placed shape. Touching at
// exactly the required gap is allowed.
func (c *Checker) Validate(cand model.Shape) bool {
	if !c.region.Contains(cand.Outline, c.clearance) {
		return false
	}

	window := Expand(cand.Bounds(), c.gap+cand.Margin+c.maxMargin)
	for _, other := range c.index.Near(window) {
		if geometry.Overlap(cand.Outline, other.Outline) {
			return false
		}
		need := c.gap + cand.Margin + other.Margin
		if need > 0 && geometry.Distance(cand.Outline, other.Outline) < need {
			return false
		}
	}
	return true
}
