package qrgen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/yeqown/go-qrcode/v2"

	"github.com/Mictilt/qrgen/bitmap"
	"github.com/Mictilt/qrgen/microqr"
	"github.com/Mictilt/qrgen/scan"
	"github.com/Mictilt/qrgen/writer/standard"
	"github.com/Mictilt/qrgen/writer/terminal"
)

// ErrVerifyMismatch is returned when the written file decodes to something
// other than the payload.
var ErrVerifyMismatch = errors.New("decoded content does not match payload")

// Generator turns requests into symbols on the terminal and in files.
type Generator struct {
	out    io.Writer
	logger logrus.FieldLogger

	// terminalFormat overrides the per-variant default when set.
	terminalFormat *terminal.Format
}

type GeneratorOption interface {
	apply(g *Generator)
}

type funcOption struct {
	f func(g *Generator)
}

func (fo *funcOption) apply(g *Generator) {
	fo.f(g)
}

func newFuncOption(f func(g *Generator)) *funcOption {
	return &funcOption{f: f}
}

// WithOutput sets where terminal art is printed, os.Stdout by default.
func WithOutput(w io.Writer) GeneratorOption {
	return newFuncOption(func(g *Generator) {
		if w != nil {
			g.out = w
		}
	})
}

// WithLogger sets the logger for warnings and debug details.
func WithLogger(l logrus.FieldLogger) GeneratorOption {
	return newFuncOption(func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	})
}

// WithTerminalFormat forces the terminal format for both variants.
func WithTerminalFormat(f terminal.Format) GeneratorOption {
	return newFuncOption(func(g *Generator) {
		g.terminalFormat = &f
	})
}

// NewGenerator creates a Generator. Without options it prints to os.Stdout
// and logs through the logrus standard logger.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		out:    os.Stdout,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt.apply(g)
	}
	g.logger = g.logger.WithField("component", "generator")

	return g
}

// Generate builds the symbol described by req, prints it when req.Terminal
// is set and writes it when req.OutputPath is set. It returns the written
// path, or "" when no file was requested.
func (g *Generator) Generate(req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	var (
		grid *bitmap.Grid
		err  error
	)
	switch req.Variant {
	case VariantMicro:
		grid, err = g.encodeMicro(req)
	default:
		grid, err = g.encodeStandard(req)
	}
	if err != nil {
		return "", err
	}

	if req.Terminal {
		if err = g.print(grid, req.Variant, req.Border); err != nil {
			return "", err
		}
	}

	if req.OutputPath == "" {
		return "", nil
	}

	if err = g.write(grid, req); err != nil {
		return "", err
	}

	if req.Verify {
		if err = g.verify(req); err != nil {
			return "", err
		}
	}

	return req.OutputPath, nil
}

func (g *Generator) encodeStandard(req Request) (*bitmap.Grid, error) {
	qrc, err := qrcode.NewWith(req.Payload, req.Level.standard())
	if err != nil {
		return nil, errors.Wrap(err, "encode QR code")
	}

	capture := &bitmap.Capture{}
	if err = qrc.Save(capture); err != nil {
		return nil, errors.Wrap(err, "build matrix")
	}

	g.logger.WithFields(logrus.Fields{
		"variant": req.Variant,
		"level":   req.Level,
		"modules": capture.Grid.Width(),
		"dark":    capture.Grid.DarkCount(),
	}).Debug("symbol encoded")

	return capture.Grid, nil
}

func (g *Generator) encodeMicro(req Request) (*bitmap.Grid, error) {
	level := req.Level.micro()
	if req.Level == ECLevelH {
		g.logger.Info("micro QR has no level H, using Q")
	}

	sym, err := microqr.Encode(req.Payload, level)
	if err != nil {
		return nil, errors.Wrap(err, "encode micro QR code")
	}

	g.logger.WithFields(logrus.Fields{
		"variant": req.Variant,
		"version": sym.Version,
		"level":   sym.Level,
		"mode":    sym.Mode,
		"mask":    sym.Mask,
		"dark":    sym.Grid().DarkCount(),
	}).Debug("symbol encoded")

	return sym.Grid(), nil
}

func (g *Generator) print(grid *bitmap.Grid, variant Variant, border int) error {
	opts := []terminal.Option{terminal.WithBorder(border)}
	if variant == VariantMicro {
		opts = append(opts, terminal.WithFormat(terminal.FormatANSI))
	} else {
		opts = append(opts, terminal.WithInvert())
	}
	if g.terminalFormat != nil {
		opts = append(opts, terminal.WithFormat(*g.terminalFormat))
	}

	if err := terminal.Fprint(g.out, grid, opts...); err != nil {
		return err
	}
	_, err := fmt.Fprintln(g.out)
	return errors.Wrap(err, "print symbol")
}

func (g *Generator) write(grid *bitmap.Grid, req Request) error {
	opts := []standard.ImageOption{
		standard.WithQRWidth(req.ModuleSize),
		standard.WithBorderWidth(req.Border * req.ModuleSize),
		standard.WithFgColor(req.FillColor),
		standard.WithBgColor(req.BackColor),
	}
	if req.Shape == ShapeCircle {
		opts = append(opts, standard.WithCircleShape())
	}

	if req.LogoPath != "" && req.Variant == VariantMicro {
		g.logger.WithField("logo", req.LogoPath).Warn("logos are not supported for micro QR codes, ignoring")
	} else if req.LogoPath != "" {
		if req.Level != ECLevelH {
			g.logger.WithField("level", req.Level).Warn("a logo hides modules, use error correction level H to keep the code readable")
		}
		opts = append(opts, standard.WithLogoImageFile(req.LogoPath))
	}

	w, err := standard.New(req.OutputPath, opts...)
	if err != nil {
		return errors.Wrapf(err, "write %s", req.OutputPath)
	}

	if err = w.WriteGrid(grid); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "write %s", req.OutputPath)
	}

	return errors.Wrapf(w.Close(), "write %s", req.OutputPath)
}

func (g *Generator) verify(req Request) error {
	if req.Variant == VariantMicro {
		g.logger.Warn("micro QR codes cannot be verified, skipping")
		return nil
	}
	if strings.EqualFold(filepath.Ext(req.OutputPath), ".svg") {
		g.logger.Warn("SVG output cannot be verified, skipping")
		return nil
	}

	text, err := scan.File(req.OutputPath)
	if err != nil {
		return errors.Wrap(err, "verify")
	}
	if text != req.Payload {
		return errors.Wrapf(ErrVerifyMismatch, "got %q", text)
	}

	g.logger.WithField("path", req.OutputPath).Debug("verified")
	return nil
}
