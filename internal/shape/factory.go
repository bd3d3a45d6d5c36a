// Package shape provides the factory that produces randomized candidate
// shapes for the aggregate generator.
package shape

import (
	"math"
	"math/rand"

	"github.com/jbeda/geom"

	"github.com/kyiku/aggpack/internal/config"
	"github.com/kyiku/aggpack/internal/geometry"
	"github.com/kyiku/aggpack/internal/model"
)

// Factory builds candidate shapes for one scenario. It is pure given a
// random source: all randomness flows through the *rand.Rand passed to
// Candidate.
type Factory struct {
	region    geometry.Region
	clearance float64
	classes   []config.ClassConfig
}

// NewFactory validates the scenario and returns a factory for it.
func NewFactory(sc *config.Scenario) (*Factory, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &Factory{
		region:    sc.Region.Region(),
		clearance: sc.BoundaryClearance,
		classes:   sc.Classes,
	}, nil
}

// Region returns the bounding region of the factory's scenario.
func (f *Factory) Region() geometry.Region {
	return f.region
}

// Candidate produces one randomized shape for the given 1-based class.
// The position is sampled uniformly inside the region inset by the
// candidate's own bounding radius plus the boundary clearance, so
// trivially out-of-bounds candidates are avoided. Returns false when the
// sampled form cannot fit the region at all.
func (f *Factory) Candidate(rng *rand.Rand, class int) (model.Shape, bool) {
	cc := f.classes[class-1]
	sc := pickWeighted(rng, cc.Shapes)

	var outline geometry.Outline
	switch sc.Kind {
	case config.ShapeCircle:
		radius := uniform(rng, sc.MinRadius, sc.MaxRadius)
		outline = geometry.Circle(geom.Coord{}, radius)
	case config.ShapePolygon:
		size := uniform(rng, sc.MinSize, sc.MaxSize)
		sides := sc.MinSides + rng.Intn(sc.MaxSides-sc.MinSides+1)
		minEdge := sc.MinEdgeLength
		if minEdge == 0 {
			minEdge = size / 10
		}
		ring := randomRing(rng, size, sides, sc.Irregularity, sc.Spikiness, sc.OptimizeEdges, minEdge)
		outline = geometry.Polygon(ring)
	case config.ShapeEllipse:
		major := uniform(rng, sc.MinMajor, sc.MaxMajor)
		minor := uniform(rng, sc.MinMinor, sc.MaxMinor)
		rotation := rng.Float64() * 2 * math.Pi
		segments := sc.Segments
		if segments == 0 {
			segments = 36
		}
		outline = geometry.Ellipse(geom.Coord{}, major, minor, rotation, segments)
	}

	inset := outline.BoundingRadius() + f.clearance
	center, ok := f.region.SamplePoint(rng, inset)
	if !ok {
		return model.Shape{}, false
	}
	outline = outline.Translate(center.Minus(outline.Center))

	return model.Shape{
		Class:   class,
		Outline: outline,
		Margin:  cc.ITZ,
		Area:    outline.Area(),
	}, true
}

func pickWeighted(rng *rand.Rand, shapes []config.ShapeConfig) config.ShapeConfig {
	total := 0.0
	for _, s := range shapes {
		total += s.Weight
	}
	r := rng.Float64() * total
	for _, s := range shapes {
		r -= s.Weight
		if r < 0 {
			return s
		}
	}
	return shapes[len(shapes)-1]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
