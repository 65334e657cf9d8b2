package standard

import (
	"image/color"
)

var (
	_shapeRectangle IShape = rectangle{}
	_shapeCircle    IShape = circle{}
)

type IShape interface {
	// Draw the shape of a QR module in IShape implemented way.
	Draw(ctx *DrawContext)

	// DrawFinder fills a module that belongs to a finder pattern.
	DrawFinder(ctx *DrawContext)
}

// GraphicsContext is the subset of drawing operations a shape may use.
// *gg.Context satisfies it for raster output, the SVG encoder supplies its
// own implementation.
type GraphicsContext interface {
	DrawRectangle(x, y, w, h float64)
	DrawCircle(x, y, r float64)
	SetColor(c color.Color)
	Fill()
}

// DrawContext is a rectangle area
type DrawContext struct {
	GraphicsContext

	x, y float64
	w, h int

	color color.Color
}

// UpperLeft returns the point which indicates the upper left position.
func (dc *DrawContext) UpperLeft() (dx, dy float64) {
	return dc.x, dc.y
}

// Edge returns width and height of each shape could take at most.
func (dc *DrawContext) Edge() (width, height int) {
	return dc.w, dc.h
}

// Color returns the color which should be fill into the shape. Note that if you're not
// using this color but your coded color.Color, WithFgColor would take no effect.
func (dc *DrawContext) Color() color.Color {
	return dc.color
}

// rectangle IShape
type rectangle struct{}

func (r rectangle) Draw(c *DrawContext) {
	c.DrawRectangle(c.x, c.y, float64(c.w), float64(c.h))
	c.SetColor(c.color)
	c.Fill()
}

func (r rectangle) DrawFinder(ctx *DrawContext) {
	r.Draw(ctx)
}

// circle IShape
type circle struct{}

func (r circle) Draw(c *DrawContext) {
	// choose a proper radius values
	radius := c.w / 2
	r2 := c.h / 2
	if r2 <= radius {
		radius = r2
	}

	cx, cy := c.x+float64(c.w)/2.0, c.y+float64(c.h)/2.0 // get center point
	c.DrawCircle(cx, cy, float64(radius))
	c.SetColor(c.color)
	c.Fill()
}

// DrawFinder keeps finder patterns square so that readers can locate the
// symbol.
func (r circle) DrawFinder(ctx *DrawContext) {
	rectangle{}.Draw(ctx)
}
