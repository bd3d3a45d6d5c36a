// Package collision provides the two-phase collision engine: a quadtree
// broad phase over bounding boxes and an exact narrow phase over shape
// geometry.
package collision

import (
	"github.com/jbeda/geom"
	"github.com/jbeda/geom/qtree"

	"github.com/kyiku/aggpack/internal/model"
)

// item adapts a placed shape to the quadtree interface.
type item struct {
	shape model.Shape
}

func (i item) Bounds() geom.Rect {
	return i.shape.Bounds()
}

func (i item) Equals(oi interface{}) bool {
	o, ok := oi.(item)
	return ok && o.shape.ID == i.shape.ID
}

// Index is the broad-phase spatial index over placed shapes. Queries
// return only shapes whose bounding boxes intersect the search window,
// keeping narrow-phase calls bounded as the aggregate grows.
type Index struct {
	tree  *qtree.Tree
	count int
}

// NewIndex creates an index covering the given bounds.
func NewIndex(bounds geom.Rect) *Index {
	return &Index{tree: qtree.New(qtree.ConfigDefault(), bounds)}
}

// Add inserts a placed shape.
func (x *Index) Add(s model.Shape) {
	x.tree.Insert(item{shape: s})
	x.count++
}

// Len returns the number of indexed shapes.
func (x *Index) Len() int {
	return x.count
}

// Near returns every indexed shape whose bounding box intersects the
// search window.
func (x *Index) Near(window geom.Rect) []model.Shape {
	col := make(map[qtree.Item]bool)
	x.tree.CollectIntersect(window, col)
	out := make([]model.Shape, 0, len(col))
	for it := range col {
		out = append(out, it.(item).shape)
	}
	return out
}

// Expand grows a bounding box by the given margin on every side.
func Expand(r geom.Rect, margin float64) geom.Rect {
	return geom.Rect{
		Min: geom.Coord{X: r.Min.X - margin, Y: r.Min.Y - margin},
		Max: geom.Coord{X: r.Max.X + margin, Y: r.Max.Y + margin},
	}
}
