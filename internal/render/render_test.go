package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/aggpack/internal/geometry"
	"github.com/kyiku/aggpack/internal/group"
	"github.com/kyiku/aggpack/internal/model"
)

func renderAggregate() *model.Aggregate {
	agg := model.NewAggregate(geometry.RectRegion(0, 0, 50, 50))
	for i, c := range []geom.Coord{{X: 10, Y: 10}, {X: 30, Y: 30}} {
		outline := geometry.Circle(c, 5)
		agg.Append(model.Shape{ID: i + 1, Class: 1, Outline: outline, Area: outline.Area()})
	}
	agg.Freeze()
	return agg
}

func TestRenderer_Render(t *testing.T) {
	agg := renderAggregate()
	part := group.Compute(agg, 1)

	r := NewRenderer(Options{Scale: 4, Padding: 10})
	img := r.Render(agg, part)

	// 50 world units at 4 px/unit plus padding on both sides.
	assert.Equal(t, 220, img.Bounds().Dx())
	assert.Equal(t, 220, img.Bounds().Dy())

	// Something other than the background must have been drawn.
	drawn := 0
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if img.RGBAAt(x, y) != background {
				drawn++
			}
		}
	}
	assert.Greater(t, drawn, 100)
}

func TestRenderer_RenderNilPartition(t *testing.T) {
	agg := renderAggregate()

	r := NewRenderer(Options{})
	img := r.Render(agg, nil)

	assert.NotNil(t, img)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestRenderer_DefaultOptions(t *testing.T) {
	r := NewRenderer(Options{})
	assert.Equal(t, 6.0, r.opts.Scale)
	assert.Equal(t, 16, r.opts.Padding)
}

func TestEncodePNG(t *testing.T) {
	agg := renderAggregate()
	img := NewRenderer(Options{Scale: 2, Padding: 4}).Render(agg, nil)

	data, err := EncodePNG(img)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}
