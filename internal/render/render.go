// Package render draws a generated aggregate to a PNG image, coloring
// shapes by their adjacency group.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"github.com/jbeda/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kyiku/aggpack/internal/geometry"
	"github.com/kyiku/aggpack/internal/group"
	"github.com/kyiku/aggpack/internal/model"
)

// palette follows the classic CAD layer colors.
var palette = []color.RGBA{
	{R: 0xff, A: 0xff},                   // red
	{R: 0xff, G: 0xff, A: 0xff},          // yellow
	{G: 0xff, A: 0xff},                   // green
	{G: 0xff, B: 0xff, A: 0xff},          // cyan
	{B: 0xff, A: 0xff},                   // blue
	{R: 0xff, B: 0xff, A: 0xff},          // magenta
	{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}, // gray
}

var (
	background = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	boundary   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Options controls the rendered output.
type Options struct {
	Scale   float64 // pixels per world unit, 0 means 6
	Padding int     // pixels around the region, 0 means 16
	Labels  bool    // draw group IDs at shape centers
}

// Renderer draws aggregates. Safe for concurrent use.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts Options) *Renderer {
	if opts.Scale <= 0 {
		opts.Scale = 6
	}
	if opts.Padding <= 0 {
		opts.Padding = 16
	}
	return &Renderer{opts: opts}
}

// Render draws the aggregate with per-group outline colors. part may be
// nil, in which case every shape uses the first palette color.
func (r *Renderer) Render(agg *model.Aggregate, part *group.Partition) *image.RGBA {
	bounds := agg.Region.Bounds()
	w := int(bounds.Width()*r.opts.Scale) + 2*r.opts.Padding
	h := int(bounds.Height()*r.opts.Scale) + 2*r.opts.Padding

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	c := canvas{
		img:    img,
		scale:  r.opts.Scale,
		pad:    r.opts.Padding,
		origin: bounds.Min,
		height: h,
	}
	c.drawRegion(agg.Region)

	for _, s := range agg.Shapes {
		col := palette[0]
		if part != nil {
			if gid, ok := part.ByShape[s.ID]; ok {
				col = palette[(gid-1)%len(palette)]
			}
		}
		c.drawOutline(s.Outline, col)
		if r.opts.Labels && part != nil {
			c.label(s.Outline.Center, strconv.Itoa(part.ByShape[s.ID]), col)
		}
	}
	return img
}

// EncodePNG encodes an image to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// canvas maps world coordinates onto the image with a flipped Y axis.
type canvas struct {
	img    *image.RGBA
	scale  float64
	pad    int
	origin geom.Coord // world coordinate of the lower-left region corner
	height int
}

func (c canvas) pixel(p geom.Coord) (int, int) {
	px := c.pad + int((p.X-c.origin.X)*c.scale+0.5)
	py := c.height - c.pad - int((p.Y-c.origin.Y)*c.scale+0.5)
	return px, py
}

func (c canvas) set(px, py int, col color.RGBA) {
	if image.Pt(px, py).In(c.img.Bounds()) {
		c.img.SetRGBA(px, py, col)
	}
}

func (c canvas) line(p1, p2 geom.Coord, col color.RGBA) {
	x1, y1 := c.pixel(p1)
	x2, y2 := c.pixel(p2)
	steps := int(math.Max(math.Abs(float64(x2-x1)), math.Abs(float64(y2-y1)))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.set(int(float64(x1)+t*float64(x2-x1)+0.5), int(float64(y1)+t*float64(y2-y1)+0.5), col)
	}
}

func (c canvas) drawOutline(o geometry.Outline, col color.RGBA) {
	if o.Kind == geometry.KindCircle {
		const segments = 72
		for i := 0; i < segments; i++ {
			a1 := 2 * math.Pi * float64(i) / segments
			a2 := 2 * math.Pi * float64(i+1) / segments
			c.line(
				o.Center.Plus(geom.Coord{X: o.Radius * math.Cos(a1), Y: o.Radius * math.Sin(a1)}),
				o.Center.Plus(geom.Coord{X: o.Radius * math.Cos(a2), Y: o.Radius * math.Sin(a2)}),
				col,
			)
		}
		return
	}
	for i := 0; i < len(o.Ring)-1; i++ {
		c.line(o.Ring[i], o.Ring[i+1], col)
	}
}

func (c canvas) drawRegion(region geometry.Region) {
	if region.Kind == geometry.RegionCircle {
		c.drawOutline(geometry.Circle(region.Center, region.Radius), boundary)
		return
	}
	min := region.Rect.Min
	max := region.Rect.Max
	c.line(min, geom.Coord{X: max.X, Y: min.Y}, boundary)
	c.line(geom.Coord{X: max.X, Y: min.Y}, max, boundary)
	c.line(max, geom.Coord{X: min.X, Y: max.Y}, boundary)
	c.line(geom.Coord{X: min.X, Y: max.Y}, min, boundary)
}

func (c canvas) label(at geom.Coord, text string, col color.RGBA) {
	px, py := c.pixel(at)
	d := font.Drawer{
		Dst:  c.img,
		Src:  &image.Uniform{C: col},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(px-len(text)*3, py+4),
	}
	d.DrawString(text)
}
