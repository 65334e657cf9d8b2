// Package standard renders a QR module grid into PNG, JPEG, BMP or SVG
// files.
package standard

import (
	"image"
	"io"
	"os"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/yeqown/go-qrcode/v2"

	"github.com/Mictilt/qrgen/bitmap"
	"github.com/Mictilt/qrgen/writer/standard/imgkit"
)

var _ qrcode.Writer = (*Writer)(nil)

// Writer renders symbols into an output stream. It implements
// qrcode.Writer so it can be passed to (*qrcode.QRCode).Save.
type Writer struct {
	option *outputImageOptions

	closer io.WriteCloser
}

// New creates a Writer that writes to filename. Unless an encoder option is
// given, the format follows the extension; unknown extensions are rejected
// before the file is created.
func New(filename string, opts ...ImageOption) (*Writer, error) {
	oo, err := buildOptions(opts...)
	if err != nil {
		return nil, err
	}

	if oo.imageEncoder == nil {
		format, err := FormatFromPath(filename)
		if err != nil {
			return nil, err
		}
		if oo.imageEncoder, err = builtinEncoder(format); err != nil {
			return nil, err
		}
	}

	fd, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrap(err, "create file")
	}

	return &Writer{option: oo, closer: fd}, nil
}

// NewWithWriter creates a Writer on top of wc. The output is PNG unless an
// encoder option says otherwise.
func NewWithWriter(wc io.WriteCloser, opts ...ImageOption) (*Writer, error) {
	oo, err := buildOptions(opts...)
	if err != nil {
		return nil, err
	}
	if oo.imageEncoder == nil {
		oo.imageEncoder = pngEncoder{}
	}

	return &Writer{option: oo, closer: wc}, nil
}

func buildOptions(opts ...ImageOption) (*outputImageOptions, error) {
	oo := defaultOutputImageOption()
	for _, opt := range opts {
		opt.apply(oo)
	}

	return oo, oo.err
}

// Write renders a matrix produced by go-qrcode.
func (w *Writer) Write(mat qrcode.Matrix) error {
	return w.WriteGrid(bitmap.FromMatrix(mat))
}

// WriteGrid renders g with the writer's options.
func (w *Writer) WriteGrid(g *bitmap.Grid) error {
	if w.closer == nil {
		return errors.New("writer is closed")
	}

	if enc, ok := w.option.imageEncoder.(ImageEncoderWithGrid); ok {
		return errors.Wrap(enc.EncodeGrid(w.closer, g, w.option), "encode svg")
	}

	img := draw(g, w.option)
	return errors.Wrap(w.option.imageEncoder.Encode(w.closer, img), "encode image")
}

// Close releases the underlying file. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}

	err := w.closer.Close()
	w.closer = nil
	return err
}

// Draw renders g into a raster image, logo included.
func Draw(g *bitmap.Grid, opts ...ImageOption) (image.Image, error) {
	oo, err := buildOptions(opts...)
	if err != nil {
		return nil, err
	}

	return draw(g, oo), nil
}

func draw(g *bitmap.Grid, oo *outputImageOptions) image.Image {
	width, height := oo.canvasSize(g.Width(), g.Height())
	block := oo.qrBlockWidth()

	dc := gg.NewContext(width, height)
	dc.SetColor(oo.bgColor)
	dc.Clear()

	ctx := &DrawContext{
		GraphicsContext: dc,
		w:               block,
		h:               block,
		color:           oo.qrColor,
	}
	shape := oo.getShape()

	g.Iterate(func(x, y int, dark bool) {
		if !dark {
			return
		}

		px, py := oo.modulePosition(x, y)
		ctx.x, ctx.y = float64(px), float64(py)
		if g.IsFinder(x, y) {
			shape.DrawFinder(ctx)
		} else {
			shape.Draw(ctx)
		}
	})

	img := dc.Image()
	if oo.logo != nil {
		img = imgkit.EmbedLogo(img, oo.logo)
	}

	return img
}
