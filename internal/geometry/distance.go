package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// Overlap reports whether the interiors of two outlines intersect.
// Outlines that only touch (zero-area contact) do not overlap.
func Overlap(a, b Outline) bool {
	if a.Kind == KindCircle && b.Kind == KindCircle {
		return a.Center.DistanceFrom(b.Center) < a.Radius+b.Radius
	}
	if a.Kind == KindCircle {
		return circleRingOverlap(a, b.Ring)
	}
	if b.Kind == KindCircle {
		return circleRingOverlap(b, a.Ring)
	}
	return ringsOverlap(a.Ring, b.Ring)
}

// Distance returns the minimum distance between two outlines. It is 0
// when the outlines touch or overlap.
func Distance(a, b Outline) float64 {
	if a.Kind == KindCircle && b.Kind == KindCircle {
		d := a.Center.DistanceFrom(b.Center) - a.Radius - b.Radius
		if d < 0 {
			return 0
		}
		return d
	}
	if a.Kind == KindCircle {
		return circleRingDistance(a, b.Ring)
	}
	if b.Kind == KindCircle {
		return circleRingDistance(b, a.Ring)
	}
	return ringDistance(a.Ring, b.Ring)
}

func circleRingOverlap(c Outline, ring []geom.Coord) bool {
	if pointInRing(c.Center, ring) {
		return true
	}
	for i := 0; i < len(ring)-1; i++ {
		if pointSegDistance(c.Center, ring[i], ring[i+1]) < c.Radius {
			return true
		}
	}
	return false
}

func circleRingDistance(c Outline, ring []geom.Coord) float64 {
	if pointInRing(c.Center, ring) {
		return 0
	}
	min := math.Inf(1)
	for i := 0; i < len(ring)-1; i++ {
		if d := pointSegDistance(c.Center, ring[i], ring[i+1]); d < min {
			min = d
		}
	}
	d := min - c.Radius
	if d < 0 {
		return 0
	}
	return d
}

func ringsOverlap(a, b []geom.Coord) bool {
	// Vertex containment catches one ring fully inside the other.
	if pointInRing(a[0], b) || pointInRing(b[0], a) {
		return true
	}
	for i := 0; i < len(a)-1; i++ {
		for j := 0; j < len(b)-1; j++ {
			if segmentsCross(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}
	return false
}

func ringDistance(a, b []geom.Coord) float64 {
	if ringsOverlap(a, b) {
		return 0
	}
	min := math.Inf(1)
	for i := 0; i < len(a)-1; i++ {
		for j := 0; j < len(b)-1; j++ {
			if d := segSegDistance(a[i], a[i+1], b[j], b[j+1]); d < min {
				min = d
			}
		}
	}
	return min
}

// pointInRing performs a ray-casting containment test against a closed
// ring.
func pointInRing(p geom.Coord, ring []geom.Coord) bool {
	inside := false
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func pointSegDistance(p, a, b geom.Coord) float64 {
	ab := b.Minus(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.DistanceFrom(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceFrom(a.Plus(ab.Times(t)))
}

func segSegDistance(a1, a2, b1, b2 geom.Coord) float64 {
	if segmentsCross(a1, a2, b1, b2) {
		return 0
	}
	d := pointSegDistance(a1, b1, b2)
	if v := pointSegDistance(a2, b1, b2); v < d {
		d = v
	}
	if v := pointSegDistance(b1, a1, a2); v < d {
		d = v
	}
	if v := pointSegDistance(b2, a1, a2); v < d {
		d = v
	}
	return d
}

// segmentsCross reports a proper crossing of two segments. Shared
// endpoints and collinear touching count as distance 0, not a crossing,
// which keeps edge-touching outlines non-overlapping.
func segmentsCross(a1, a2, b1, b2 geom.Coord) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(o, a, b geom.Coord) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
