package geometry

import (
	"math"
	"math/rand"

	"github.com/jbeda/geom"
)

// RegionKind identifies the bounding region variant.
type RegionKind string

// Supported region kinds.
const (
	RegionRect   RegionKind = "rectangle"
	RegionCircle RegionKind = "circle"
)

// Region is the bounding area every placed outline must stay inside.
type Region struct {
	Kind   RegionKind
	Rect   geom.Rect  // rectangle only
	Center geom.Coord // circle only
	Radius float64    // circle only
}

// RectRegion returns a rectangular region.
func RectRegion(minX, minY, maxX, maxY float64) Region {
	return Region{
		Kind: RegionRect,
		Rect: geom.Rect{
			Min: geom.Coord{X: minX, Y: minY},
			Max: geom.Coord{X: maxX, Y: maxY},
		},
	}
}

// CircleRegion returns a circular region.
func CircleRegion(center geom.Coord, radius float64) Region {
	return Region{Kind: RegionCircle, Center: center, Radius: radius}
}

// Area returns the region area.
func (r Region) Area() float64 {
	if r.Kind == RegionCircle {
		return math.Pi * r.Radius * r.Radius
	}
	return r.Rect.Width() * r.Rect.Height()
}

// Bounds returns the axis-aligned bounding box of the region.
func (r Region) Bounds() geom.Rect {
	if r.Kind == RegionCircle {
		return geom.Rect{
			Min: geom.Coord{X: r.Center.X - r.Radius, Y: r.Center.Y - r.Radius},
			Max: geom.Coord{X: r.Center.X + r.Radius, Y: r.Center.Y + r.Radius},
		}
	}
	return r.Rect
}

// Degenerate reports whether the region has no interior.
func (r Region) Degenerate() bool {
	if r.Kind == RegionCircle {
		return r.Radius <= 0
	}
	return r.Rect.Min.X >= r.Rect.Max.X || r.Rect.Min.Y >= r.Rect.Max.Y
}

// Contains reports whether the outline lies fully inside the region with
// at least the given clearance from the boundary. Both region kinds are
// convex, so ring vertices decide containment exactly.
func (r Region) Contains(o Outline, clearance float64) bool {
	if r.Kind == RegionCircle {
		if o.Kind == KindCircle {
			return o.Center.DistanceFrom(r.Center)+o.Radius <= r.Radius-clearance
		}
		for _, v := range o.Ring {
			if v.DistanceFrom(r.Center) > r.Radius-clearance {
				return false
			}
		}
		return true
	}
	min := r.Rect.Min
	max := r.Rect.Max
	if o.Kind == KindCircle {
		return o.Center.X-o.Radius >= min.X+clearance &&
			o.Center.Y-o.Radius >= min.Y+clearance &&
			o.Center.X+o.Radius <= max.X-clearance &&
			o.Center.Y+o.Radius <= max.Y-clearance
	}
	for _, v := range o.Ring {
		if v.X < min.X+clearance || v.X > max.X-clearance ||
			v.Y < min.Y+clearance || v.Y > max.Y-clearance {
			return false
		}
	}
	return true
}

// SamplePoint draws a uniform random point inside the region inset by
// the given margin. It returns false when the inset leaves no interior.
func (r Region) SamplePoint(rng *rand.Rand, inset float64) (geom.Coord, bool) {
	if r.Kind == RegionCircle {
		rr := r.Radius - inset
		if rr <= 0 {
			return geom.Coord{}, false
		}
		// sqrt keeps the distribution uniform over the disk area.
		dist := rr * math.Sqrt(rng.Float64())
		angle := 2 * math.Pi * rng.Float64()
		return r.Center.Plus(geom.Coord{
			X: dist * math.Cos(angle),
			Y: dist * math.Sin(angle),
		}), true
	}
	minX := r.Rect.Min.X + inset
	minY := r.Rect.Min.Y + inset
	maxX := r.Rect.Max.X - inset
	maxY := r.Rect.Max.Y - inset
	if minX >= maxX || minY >= maxY {
		return geom.Coord{}, false
	}
	return geom.Coord{
		X: minX + rng.Float64()*(maxX-minX),
		Y: minY + rng.Float64()*(maxY-minY),
	}, true
}
