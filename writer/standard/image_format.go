package standard

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	svgo "github.com/ajstarks/svgo"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"github.com/Mictilt/qrgen/bitmap"
	"github.com/Mictilt/qrgen/writer/standard/imgkit"
)

type formatTyp uint8

const (
	// JPEG_FORMAT for .jpg and .jpeg files.
	JPEG_FORMAT formatTyp = iota
	// PNG_FORMAT as default output file format.
	PNG_FORMAT
	// BMP_FORMAT .
	BMP_FORMAT
	// SVG_FORMAT .
	SVG_FORMAT
)

// ErrUnknownFormat is returned when the output extension maps to no encoder.
var ErrUnknownFormat = errors.New("unsupported image format")

// FormatFromPath picks the output format from the extension of path,
// case-insensitively.
func FormatFromPath(path string) (formatTyp, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return PNG_FORMAT, nil
	case ".jpg", ".jpeg":
		return JPEG_FORMAT, nil
	case ".bmp":
		return BMP_FORMAT, nil
	case ".svg":
		return SVG_FORMAT, nil
	default:
		return 0, errors.Wrapf(ErrUnknownFormat, "extension %q", ext)
	}
}

func builtinEncoder(format formatTyp) (ImageEncoder, error) {
	switch format {
	case JPEG_FORMAT:
		return jpegEncoder{}, nil
	case PNG_FORMAT:
		return pngEncoder{}, nil
	case BMP_FORMAT:
		return bmpEncoder{}, nil
	case SVG_FORMAT:
		return svgEncoder{}, nil
	}

	return nil, errors.Wrapf(ErrUnknownFormat, "format %d", format)
}

// ImageEncoder is an interface which describes the rule how to encode image.Image into io.Writer
type ImageEncoder interface {
	// Encode specify which format to encode image into io.Writer.
	Encode(w io.Writer, img image.Image) error
}

// ImageEncoderWithGrid is implemented by encoders that render the module
// grid themselves instead of a raster image.
type ImageEncoderWithGrid interface {
	ImageEncoder
	EncodeGrid(w io.Writer, g *bitmap.Grid, opts *outputImageOptions) error
}

type jpegEncoder struct{}

func (j jpegEncoder) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

type pngEncoder struct{}

func (j pngEncoder) Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

type bmpEncoder struct{}

func (j bmpEncoder) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// svgEncoder writes vector output with svgo.
type svgEncoder struct{}

// Encode embeds img as a base64 PNG, used when only a raster is available.
func (s svgEncoder) Encode(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	canvas := svgo.New(w)
	canvas.Startview(width, height, 0, 0, width, height)

	dataURL, err := pngDataURL(img)
	if err != nil {
		return err
	}
	canvas.Image(0, 0, width, height, dataURL)

	canvas.End()
	return nil
}

// EncodeGrid draws the symbol as vector shapes. With the rectangle shape
// horizontally adjacent dark modules are merged into a single rect.
func (s svgEncoder) EncodeGrid(w io.Writer, g *bitmap.Grid, opts *outputImageOptions) error {
	width, height := opts.canvasSize(g.Width(), g.Height())
	block := opts.qrBlockWidth()

	canvas := svgo.New(w)
	canvas.Startview(width, height, 0, 0, width, height)

	if opts.bgColor.A > 0 {
		canvas.Rect(0, 0, width, height, fillStyle(opts.bgColor))
	}

	canvas.Gstyle(fillStyle(opts.qrColor))
	if opts.getShape() == _shapeRectangle {
		for _, r := range moduleRuns(g) {
			x, y := opts.modulePosition(r.x, r.y)
			canvas.Rect(x, y, r.n*block, block)
		}
	} else {
		recorder := &svgoRecorder{canvas: canvas}
		ctx := &DrawContext{
			GraphicsContext: recorder,
			w:               block,
			h:               block,
			color:           opts.qrColor,
		}
		shape := opts.getShape()
		g.Iterate(func(x, y int, dark bool) {
			if !dark {
				return
			}

			px, py := opts.modulePosition(x, y)
			ctx.x, ctx.y = float64(px), float64(py)
			if g.IsFinder(x, y) {
				shape.DrawFinder(ctx)
			} else {
				shape.Draw(ctx)
			}
		})
	}
	canvas.Gend()

	if opts.logo != nil {
		if err := embedLogoWithSvgo(canvas, opts.logo, width, height); err != nil {
			return err
		}
	}

	canvas.End()
	return nil
}

// run is a horizontal sequence of n dark modules starting at (x, y).
type run struct {
	x, y, n int
}

func moduleRuns(g *bitmap.Grid) []run {
	var runs []run
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); {
			if !g.IsSet(x, y) {
				x++
				continue
			}

			start := x
			for x < g.Width() && g.IsSet(x, y) {
				x++
			}
			runs = append(runs, run{x: start, y: y, n: x - start})
		}
	}

	return runs
}

// embedLogoWithSvgo lays a white backing square and the shrunk logo over
// the center, with the same geometry as imgkit.EmbedLogo.
func embedLogoWithSvgo(canvas *svgo.SVG, logo image.Image, totalWidth, totalHeight int) error {
	box := imgkit.LogoBox(totalWidth, totalHeight)
	if box == 0 {
		return nil
	}

	thumb := imgkit.Thumbnail(logo, box)
	side := imgkit.BackingSide(box)
	bx, by := (totalWidth-side)/2, (totalHeight-side)/2
	canvas.Rect(bx, by, side, side, fillStyle(color_WHITE))

	dataURL, err := pngDataURL(thumb)
	if err != nil {
		return errors.Wrap(err, "encode logo")
	}
	tb := thumb.Bounds()
	canvas.Image(bx+(side-tb.Dx())/2, by+(side-tb.Dy())/2, tb.Dx(), tb.Dy(), dataURL)

	return nil
}

func pngDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func fillStyle(c color.RGBA) string {
	if c.A == 255 {
		return "fill:" + hexString(c)
	}
	return fmt.Sprintf("fill:%s;fill-opacity:%.2f", hexString(c), float64(c.A)/255)
}

// svgoRecorder replays shape drawing calls as svgo elements. The fill color
// comes from the enclosing group.
type svgoRecorder struct {
	canvas  *svgo.SVG
	pending []func()
}

func (r *svgoRecorder) DrawRectangle(x, y, w, h float64) {
	r.pending = append(r.pending, func() {
		r.canvas.Rect(int(x), int(y), int(w), int(h))
	})
}

func (r *svgoRecorder) DrawCircle(x, y, radius float64) {
	r.pending = append(r.pending, func() {
		r.canvas.Circle(int(x), int(y), int(radius))
	})
}

func (r *svgoRecorder) SetColor(color.Color) {}

func (r *svgoRecorder) Fill() {
	for _, fn := range r.pending {
		fn()
	}
	r.pending = r.pending[:0]
}
