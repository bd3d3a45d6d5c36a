package collision

import (
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"

	"github.com/kyiku/aggpack/internal/geometry"
	"github.com/kyiku/aggpack/internal/model"
)

func circleShape(id int, x, y, radius, margin float64) model.Shape {
	outline := geometry.Circle(geom.Coord{X: x, Y: y}, radius)
	return model.Shape{
		ID:      id,
		Class:   1,
		Outline: outline,
		Margin:  margin,
		Area:    outline.Area(),
	}
}

func TestChecker_Validate(t *testing.T) {
	region := geometry.RectRegion(0, 0, 100, 100)

	tests := []struct {
		name      string
		clearance float64
		gap       float64
		placed    []model.Shape
		cand      model.Shape
		want      bool
	}{
		{
			name: "正常系: 空の領域に収まる",
			cand: circleShape(0, 50, 50, 5, 0),
			want: true,
		},
		{
			name: "異常系: 領域をはみ出す",
			cand: circleShape(0, 2, 50, 5, 0),
			want: false,
		},
		{
			name:      "異常系: クリアランス不足",
			clearance: 3,
			cand:      circleShape(0, 7, 50, 5, 0),
			want:      false,
		},
		{
			name:   "異常系: 既存形状と重なる",
			placed: []model.Shape{circleShape(1, 50, 50, 5, 0)},
			cand:   circleShape(0, 55, 50, 5, 0),
			want:   false,
		},
		{
			name:   "正常系: ギャップ0なら接していてもよい",
			placed: []model.Shape{circleShape(1, 50, 50, 5, 0)},
			cand:   circleShape(0, 60, 50, 5, 0),
			want:   true,
		},
		{
			name:   "異常系: 最小距離を下回る",
			gap:    2,
			placed: []model.Shape{circleShape(1, 50, 50, 5, 0)},
			cand:   circleShape(0, 61, 50, 5, 0),
			want:   false,
		},
		{
			name:   "正常系: ちょうど最小距離なら許容",
			gap:    2,
			placed: []model.Shape{circleShape(1, 50, 50, 5, 0)},
			cand:   circleShape(0, 62, 50, 5, 0),
			want:   true,
		},
		{
			name:   "異常系: ITZマージンがギャップに加算される",
			placed: []model.Shape{circleShape(1, 50, 50, 5, 1)},
			cand:   circleShape(0, 61.5, 50, 5, 1),
			want:   false,
		},
		{
			name:   "正常系: ITZマージン分を確保",
			placed: []model.Shape{circleShape(1, 50, 50, 5, 1)},
			cand:   circleShape(0, 62, 50, 5, 1),
			want:   true,
		},
		{
			name:   "正常系: 離れた形状は影響しない",
			gap:    1,
			placed: []model.Shape{circleShape(1, 10, 10, 5, 0)},
			cand:   circleShape(0, 90, 90, 5, 0),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(region, tt.clearance, tt.gap)
			for _, s := range tt.placed {
				checker.Add(s)
			}

			assert.Equal(t, tt.want, checker.Validate(tt.cand))
		})
	}
}

func TestChecker_ValidateManyPlaced(t *testing.T) {
	region := geometry.RectRegion(0, 0, 100, 100)
	checker := NewChecker(region, 0, 1)

	// A grid of radius-2 circles spaced 10 apart.
	id := 1
	for x := 5.0; x <= 95; x += 10 {
		for y := 5.0; y <= 95; y += 10 {
			checker.Add(circleShape(id, x, y, 2, 0))
			id++
		}
	}
	assert.Equal(t, 100, checker.Placed())

	// The grid leaves no room for a radius-5 circle anywhere near a cell
	// center.
	assert.False(t, checker.Validate(circleShape(0, 50, 50, 5, 0)))

	// A radius-2 circle in the middle of four neighbors keeps a gap of
	// about 3.07 to each.
	assert.True(t, checker.Validate(circleShape(0, 50, 50, 2, 0)))
}

func TestIndex_Near(t *testing.T) {
	bounds := geometry.RectRegion(0, 0, 100, 100).Bounds()
	index := NewIndex(bounds)

	a := circleShape(1, 10, 10, 3, 0)
	b := circleShape(2, 90, 90, 3, 0)
	index.Add(a)
	index.Add(b)

	assert.Equal(t, 2, index.Len())

	near := index.Near(Expand(a.Bounds(), 1))
	ids := make([]int, 0, len(near))
	for _, s := range near {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, 1)
	assert.NotContains(t, ids, 2)
}
