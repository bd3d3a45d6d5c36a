// Package model provides the data model shared by the packing core and
// the API layer: placed shapes, aggregates, generation results, and the
// WebSocket connection interface.
package model

import (
	"github.com/jbeda/geom"

	"github.com/kyiku/aggpack/internal/geometry"
)

// Shape is a single placed particle. Immutable once accepted into an
// aggregate.
type Shape struct {
	ID      int              // unique within an aggregate, 1-based
	Class   int              // size class, 1-based
	Outline geometry.Outline // placed geometry
	Margin  float64          // ITZ thickness, adds to the required gap
	Area    float64
}

// Bounds returns the axis-aligned bounding box of the shape.
func (s Shape) Bounds() geom.Rect {
	return s.Outline.Bounds()
}

// ShapeJSON is the wire form of a placed shape.
type ShapeJSON struct {
	ID       int         `json:"id"`
	Class    int         `json:"class"`
	Kind     string      `json:"kind"`
	Center   [2]float64  `json:"center"`
	Radius   float64     `json:"radius,omitempty"`
	Major    float64     `json:"major,omitempty"`
	Minor    float64     `json:"minor,omitempty"`
	Rotation float64     `json:"rotation,omitempty"`
	Vertices [][2]float64 `json:"vertices,omitempty"`
	Margin   float64     `json:"margin"`
	Area     float64     `json:"area"`
}

// JSON converts the shape to its wire form.
func (s Shape) JSON() ShapeJSON {
	out := ShapeJSON{
		ID:     s.ID,
		Class:  s.Class,
		Kind:   string(s.Outline.Kind),
		Center: [2]float64{s.Outline.Center.X, s.Outline.Center.Y},
		Margin: s.Margin,
		Area:   s.Area,
	}
	switch s.Outline.Kind {
	case geometry.KindCircle:
		out.Radius = s.Outline.Radius
	case geometry.KindEllipse:
		out.Major = s.Outline.Major
		out.Minor = s.Outline.Minor
		out.Rotation = s.Outline.Rotation
	default:
		out.Vertices = make([][2]float64, len(s.Outline.Ring))
		for i, v := range s.Outline.Ring {
			out.Vertices[i] = [2]float64{v.X, v.Y}
		}
	}
	return out
}
