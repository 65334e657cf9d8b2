package standard

import (
	"fmt"
	"image"
	"image/color"
)

var (
	color_WHITE = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	color_BLACK = color.RGBA{A: 255}
)

const (
	// _defaultQRWidth is the side of one module in pixels.
	_defaultQRWidth = 10
	// _defaultPadding is the quiet zone in pixels, four modules wide.
	_defaultPadding = 4 * _defaultQRWidth
)

type ImageOption interface {
	apply(o *outputImageOptions)
}

type outputImageOptions struct {
	// bgColor is the background color, white by default.
	bgColor color.RGBA
	// qrColor is the module color, black by default.
	qrColor color.RGBA

	// logo is composited over the center of the symbol.
	logo image.Image

	// qrWidth is the side of each module in pixels.
	qrWidth int
	// shape draws modules, rectangle by default.
	shape IShape
	// imageEncoder is picked from the file extension unless set.
	imageEncoder ImageEncoder

	// borderWidths are the top, right, bottom and left quiet zones in pixels.
	borderWidths [4]int

	// err records the first option that failed, New reports it.
	err error
}

func defaultOutputImageOption() *outputImageOptions {
	return &outputImageOptions{
		bgColor:      color_WHITE,
		qrColor:      color_BLACK,
		qrWidth:      _defaultQRWidth,
		shape:        _shapeRectangle,
		borderWidths: [4]int{_defaultPadding, _defaultPadding, _defaultPadding, _defaultPadding},
	}
}

func (oo *outputImageOptions) fail(err error) {
	if oo.err == nil {
		oo.err = err
	}
}

func (oo *outputImageOptions) qrBlockWidth() int {
	if oo == nil || oo.qrWidth <= 0 {
		return _defaultQRWidth
	}
	return oo.qrWidth
}

func (oo *outputImageOptions) getShape() IShape {
	if oo == nil || oo.shape == nil {
		return _shapeRectangle
	}
	return oo.shape
}

// canvasSize returns the image size for a symbol of cols×rows modules.
func (oo *outputImageOptions) canvasSize(cols, rows int) (width, height int) {
	b := oo.borderWidths
	width = cols*oo.qrBlockWidth() + b[1] + b[3]
	height = rows*oo.qrBlockWidth() + b[0] + b[2]
	return width, height
}

// modulePosition returns the upper left pixel of module (x, y).
func (oo *outputImageOptions) modulePosition(x, y int) (px, py int) {
	return x*oo.qrBlockWidth() + oo.borderWidths[3], y*oo.qrBlockWidth() + oo.borderWidths[0]
}

func parseFromColor(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// hexString formats c as #rrggbb, alpha is dropped.
func hexString(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
