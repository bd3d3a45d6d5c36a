// Package geometry provides the 2D shape primitives used by the packing
// core: particle outlines, exact distance/overlap tests, and bounding
// regions.
package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// Kind identifies the geometric variant of an outline.
type Kind string

// Supported outline kinds.
const (
	KindCircle  Kind = "circle"
	KindEllipse Kind = "ellipse"
	KindPolygon Kind = "polygon"
)

// Outline is the placed geometry of a single particle. Circles are kept
// analytic; ellipses and polygons carry a closed vertex ring (the first
// vertex is repeated at the end).
type Outline struct {
	Kind     Kind
	Center   geom.Coord
	Radius   float64      // circle only
	Ring     []geom.Coord // ellipse and polygon only
	Major    float64      // ellipse semi-major axis
	Minor    float64      // ellipse semi-minor axis
	Rotation float64      // ellipse only, radians
}

// Circle returns a circular outline.
func Circle(center geom.Coord, radius float64) Outline {
	return Outline{Kind: KindCircle, Center: center, Radius: radius}
}

// Polygon returns a polygonal outline from a closed ring. The centroid
// of the distinct vertices becomes the outline center.
func Polygon(ring []geom.Coord) Outline {
	return Outline{Kind: KindPolygon, Center: ringCentroid(ring), Ring: ring}
}

// Ellipse returns an ellipse outline approximated by a closed ring of
// the given segment count.
func Ellipse(center geom.Coord, major, minor, rotation float64, segments int) Outline {
	if segments < 8 {
		segments = 8
	}
	ring := make([]geom.Coord, 0, segments+1)
	for i := 0; i <= segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		x := major*math.Cos(angle)*math.Cos(rotation) - minor*math.Sin(angle)*math.Sin(rotation)
		y := major*math.Cos(angle)*math.Sin(rotation) + minor*math.Sin(angle)*math.Cos(rotation)
		ring = append(ring, center.Plus(geom.Coord{X: x, Y: y}))
	}
	return Outline{
		Kind:     KindEllipse,
		Center:   center,
		Ring:     ring,
		Major:    major,
		Minor:    minor,
		Rotation: rotation,
	}
}

// Bounds returns the axis-aligned bounding box of the outline.
func (o Outline) Bounds() geom.Rect {
	if o.Kind == KindCircle {
		return geom.Rect{
			Min: geom.Coord{X: o.Center.X - o.Radius, Y: o.Center.Y - o.Radius},
			Max: geom.Coord{X: o.Center.X + o.Radius, Y: o.Center.Y + o.Radius},
		}
	}
	r := geom.Rect{Min: o.Ring[0], Max: o.Ring[0]}
	for _, v := range o.Ring[1:] {
		r.ExpandToContainCoord(v)
	}
	return r
}

// Area returns the enclosed area. Circle and ellipse areas are analytic,
// polygon areas use the shoelace formula.
func (o Outline) Area() float64 {
	switch o.Kind {
	case KindCircle:
		return math.Pi * o.Radius * o.Radius
	case KindEllipse:
		return math.Pi * o.Major * o.Minor
	default:
		return ringArea(o.Ring)
	}
}

// BoundingRadius returns the radius of the smallest circle around the
// outline center that contains the whole outline.
func (o Outline) BoundingRadius() float64 {
	if o.Kind == KindCircle {
		return o.Radius
	}
	max := 0.0
	for _, v := range o.Ring {
		if d := v.DistanceFrom(o.Center); d > max {
			max = d
		}
	}
	return max
}

// Translate returns a copy of the outline moved by delta.
func (o Outline) Translate(delta geom.Coord) Outline {
	out := o
	out.Center = o.Center.Plus(delta)
	if len(o.Ring) > 0 {
		out.Ring = make([]geom.Coord, len(o.Ring))
		for i, v := range o.Ring {
			out.Ring[i] = v.Plus(delta)
		}
	}
	return out
}

// ringArea computes the shoelace area of a closed ring.
func ringArea(ring []geom.Coord) float64 {
	if len(ring) < 4 {
		return 0
	}
	area := 0.0
	for i := 0; i < len(ring)-1; i++ {
		area += ring[i].X*ring[i+1].Y - ring[i+1].X*ring[i].Y
	}
	return math.Abs(area) / 2
}

func ringCentroid(ring []geom.Coord) geom.Coord {
	n := len(ring)
	if n == 0 {
		return geom.Coord{}
	}
	if ring[0] == ring[n-1] && n > 1 {
		n-- // skip the closing vertex
	}
	var sum geom.Coord
	for _, v := range ring[:n] {
		sum = sum.Plus(v)
	}
	return sum.Times(1 / float64(n))
}
