package shape

import (
	"math"
	"math/rand"

	"github.com/jbeda/geom"
)

// randomRing builds a closed random polygon ring centered at the origin.
// Irregularity jitters the angular steps between vertices, spikiness
// jitters the vertex distance from the center with a gaussian clipped to
// [0.3r, 1.8r].
func randomRing(rng *rand.Rand, radius float64, sides int, irregularity, spikiness float64, optimize bool, minEdge float64) []geom.Coord {
	irregularity = clip(irregularity, 0, 1)
	spikiness = clip(spikiness, 0, 1)

	variation := irregularity * 2 * math.Pi / float64(sides)
	lower := 2*math.Pi/float64(sides) - variation
	upper := 2*math.Pi/float64(sides) + variation

	steps := make([]float64, sides)
	total := 0.0
	for i := range steps {
		steps[i] = lower + rng.Float64()*(upper-lower)
		total += steps[i]
	}
	// Normalize so the steps sum to a full turn.
	for i := range steps {
		steps[i] *= 2 * math.Pi / total
	}

	ring := make([]geom.Coord, 0, sides+1)
	angle := rng.Float64() * 2 * math.Pi
	sigma := spikiness * radius
	for i := 0; i < sides; i++ {
		r := clip(rng.NormFloat64()*sigma+radius, 0.3*radius, 1.8*radius)
		ring = append(ring, geom.Coord{X: r * math.Cos(angle), Y: r * math.Sin(angle)})
		angle += steps[i]
	}
	ring = append(ring, ring[0])

	if optimize {
		ring = widenShortEdges(ring, minEdge)
	}
	return ring
}

// widenShortEdges nudges vertex pairs apart along their neighboring
// edges when an edge falls below minEdge, so tiny slivers do not survive
// into the mesh.
func widenShortEdges(ring []geom.Coord, minEdge float64) []geom.Coord {
	if len(ring) < 4 {
		return ring
	}
	out := make([]geom.Coord, len(ring))
	copy(out, ring)
	sides := len(ring) - 1

	for i := 0; i < sides; i++ {
		current := out[i]
		next := out[i+1]
		edge := current.DistanceFrom(next)
		if edge >= minEdge {
			continue
		}

		prev := out[(i-1+sides)%sides]
		after := out[(i+2)%len(out)]

		prevDir := direction(current, prev)
		nextDir := direction(next, after)

		adjust := (minEdge - edge) / 2
		out[i] = current.Minus(prevDir.Times(adjust))
		out[i+1] = next.Plus(nextDir.Times(adjust))
	}

	// Keep the ring closed after adjustments.
	out[len(out)-1] = out[0]
	return out
}

func direction(from, to geom.Coord) geom.Coord {
	d := to.Minus(from)
	if d.X == 0 && d.Y == 0 {
		return geom.Coord{}
	}
	return d.Unit()
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
