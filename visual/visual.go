// Package visual renders inspection overlays for clustered polygons and
// interpolated staff regions onto a page-sized image. The overlays are a
// debugging aid: each polygon group gets a color, each region its bounding
// box, curves, and staff-number label.
package visual

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/chantlab/neumatic/model"
)

// palette cycles across polygon groups.
var palette = []color.RGBA{
	{R: 0xd6, G: 0x28, B: 0x28, A: 0xff},
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

var (
	boxColor   = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	curveColor = color.RGBA{R: 0x00, G: 0x80, B: 0x80, A: 0xff}
	labelColor = color.RGBA{A: 0xff}
)

// Config controls overlay rendering.
type Config struct {
	// PointRadius is the half-size of the square drawn per polygon point.
	PointRadius int

	// DrawCurves toggles plotting the interpolated curves.
	DrawCurves bool

	// DrawLabels toggles the staff-number labels.
	DrawLabels bool
}

// DefaultConfig returns rendering defaults.
func DefaultConfig() Config {
	return Config{PointRadius: 1, DrawCurves: true, DrawLabels: true}
}

// Renderer draws overlays with a fixed configuration.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a renderer.
func NewRenderer(cfg Config) *Renderer {
	if cfg.PointRadius < 0 {
		cfg.PointRadius = 0
	}
	return &Renderer{cfg: cfg}
}

// RenderOverlay draws the polygon groups and staff regions onto a white
// image of the given page size. Groups cycle through a fixed palette;
// regions get an outlined bounding box, their curves, and a staff-number
// label at the upper-left corner. Geometry outside the page is clipped.
func (r *Renderer) RenderOverlay(width, height int, groups [][]model.Polygon, regions []model.StaffRegion) *image.RGBA {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for gi, group := range groups {
		c := palette[gi%len(palette)]
		for _, poly := range group {
			for _, pt := range poly {
				r.drawPoint(img, pt.X, pt.Y, c)
			}
		}
	}

	for _, region := range regions {
		drawRect(img, region.BBox, boxColor)
		if r.cfg.DrawCurves {
			for _, curve := range region.Curves {
				drawPolyline(img, curve, curveColor)
			}
		}
		if r.cfg.DrawLabels {
			drawLabel(img, region.BBox.ULX+3, region.BBox.ULY+13,
				fmt.Sprintf("%d", region.N))
		}
	}
	return img
}

// EncodePNG writes the image as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	return nil
}

func (r *Renderer) drawPoint(img *image.RGBA, x, y int, c color.RGBA) {
	for dy := -r.cfg.PointRadius; dy <= r.cfg.PointRadius; dy++ {
		for dx := -r.cfg.PointRadius; dx <= r.cfg.PointRadius; dx++ {
			setPixel(img, x+dx, y+dy, c)
		}
	}
}

func drawRect(img *image.RGBA, box model.BBox, c color.RGBA) {
	for x := box.ULX; x <= box.LRX(); x++ {
		setPixel(img, x, box.ULY, c)
		setPixel(img, x, box.LRY(), c)
	}
	for y := box.ULY; y <= box.LRY(); y++ {
		setPixel(img, box.ULX, y, c)
		setPixel(img, box.LRX(), y, c)
	}
}

func drawPolyline(img *image.RGBA, points []model.Point, c color.RGBA) {
	for i := 1; i < len(points); i++ {
		drawLine(img, points[i-1], points[i], c)
	}
}

// drawLine plots the segment with integer Bresenham stepping.
func drawLine(img *image.RGBA, a, b model.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		setPixel(img, x, y, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
