package group

import (
	"context"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/aggpack/internal/config"
	"github.com/kyiku/aggpack/internal/generator"
	"github.com/kyiku/aggpack/internal/geometry"
	"github.com/kyiku/aggpack/internal/model"
)

func circleAggregate(region geometry.Region, centers []geom.Coord, radius float64) *model.Aggregate {
	agg := model.NewAggregate(region)
	for i, c := range centers {
		outline := geometry.Circle(c, radius)
		agg.Append(model.Shape{
			ID:      i + 1,
			Class:   1,
			Outline: outline,
			Area:    outline.Area(),
		})
	}
	agg.Freeze()
	return agg
}

func TestCompute_ThresholdSemantics(t *testing.T) {
	region := geometry.RectRegion(-50, -50, 50, 50)
	// Two radius-5 circles with centers 11 apart: the gap between their
	// boundaries is exactly 1.
	centers := []geom.Coord{{X: -5.5, Y: 0}, {X: 5.5, Y: 0}}

	tests := []struct {
		name       string
		threshold  float64
		wantGroups int
	}{
		{name: "閾値1ちょうどで隣接", threshold: 1, wantGroups: 1},
		{name: "閾値が大きければ隣接", threshold: 2, wantGroups: 1},
		{name: "閾値が隙間未満なら別グループ", threshold: 0.999, wantGroups: 2},
		{name: "閾値0では非接触は別グループ", threshold: 0, wantGroups: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := circleAggregate(region, centers, 5)
			part := Compute(agg, tt.threshold)

			assert.Len(t, part.Groups, tt.wantGroups)
			assert.Equal(t, tt.threshold, part.Threshold)
		})
	}
}

func TestCompute_TransitiveChain(t *testing.T) {
	region := geometry.RectRegion(-100, -100, 100, 100)
	// A chain a-b-c where a and c are far apart but both near b.
	centers := []geom.Coord{{X: 0, Y: 0}, {X: 11, Y: 0}, {X: 22, Y: 0}}

	agg := circleAggregate(region, centers, 5)
	part := Compute(agg, 1)

	require.Len(t, part.Groups, 1)
	assert.Equal(t, []int{1, 2, 3}, part.Groups[0].Members)
	assert.Equal(t, 1, part.ByShape[1])
	assert.Equal(t, 1, part.ByShape[3])
}

func TestCompute_Completeness(t *testing.T) {
	sc := &config.Scenario{
		Region:      config.RegionConfig{Kind: "rectangle", MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
		Mode:        config.ModeCount,
		TargetCount: 60,
		Classes: []config.ClassConfig{
			{
				AreaRatio: 100,
				MaxCount:  100,
				Shapes: []config.ShapeConfig{
					{Kind: config.ShapeCircle, Weight: 1, MinRadius: 2, MaxRadius: 4},
				},
			},
		},
		MaxAttempts: 20000,
		MaxStreak:   2000,
		Seed:        7,
	}
	g, err := generator.New(sc)
	require.NoError(t, err)
	res := g.Generate(context.Background())
	require.Equal(t, model.StatusSuccess, res.Status)

	part := Compute(res.Aggregate, 1.5)

	// Every shape lands in exactly one group.
	seen := make(map[int]int)
	for _, grp := range part.Groups {
		require.NotEmpty(t, grp.Members)
		for _, id := range grp.Members {
			seen[id]++
			assert.Equal(t, grp.ID, part.ByShape[id])
		}
	}
	assert.Len(t, seen, res.Aggregate.Count())
	for id, n := range seen {
		assert.Equal(t, 1, n, "shape %d appears in more than one group", id)
	}

	// Group IDs are sequential from 1.
	for i, grp := range part.Groups {
		assert.Equal(t, i+1, grp.ID)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	region := geometry.RectRegion(-100, -100, 100, 100)
	centers := []geom.Coord{
		{X: 0, Y: 0}, {X: 11, Y: 0}, {X: 40, Y: 40}, {X: -30, Y: 20},
	}
	agg := circleAggregate(region, centers, 5)

	first := Compute(agg, 1)
	second := Compute(agg, 1)

	assert.Equal(t, first.Groups, second.Groups)
	assert.Equal(t, first.ByShape, second.ByShape)
}

func TestCompute_EmptyAggregate(t *testing.T) {
	agg := model.NewAggregate(geometry.RectRegion(0, 0, 10, 10))
	agg.Freeze()

	part := Compute(agg, 1)

	assert.Empty(t, part.Groups)
	assert.Empty(t, part.ByShape)
}
