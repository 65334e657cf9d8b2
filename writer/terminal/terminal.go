// Package terminal prints QR symbols as text art.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"github.com/Mictilt/qrgen/bitmap"
)

// Format selects how modules are drawn.
type Format int

const (
	// FormatAuto is FormatSmall when the half-block characters are one
	// column wide in the current locale, FormatASCII otherwise.
	FormatAuto Format = iota
	// FormatSmall packs two module rows into one line with half blocks.
	FormatSmall
	// FormatLarge draws each module as two full blocks.
	FormatLarge
	// FormatASCII draws each dark module as "##".
	FormatASCII
	// FormatANSI paints each module with a background color. It degrades
	// to FormatLarge when color output is disabled.
	FormatANSI
)

var formatNames = map[Format]string{
	FormatAuto:  "auto",
	FormatSmall: "small",
	FormatLarge: "large",
	FormatASCII: "ascii",
	FormatANSI:  "ansi",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a name such as "small" to its Format, case-insensitively.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatAuto, nil
	}
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return FormatAuto, errors.Errorf("unknown terminal format %q", s)
}

const (
	blockFull  = '█'
	blockUpper = '▀'
	blockLower = '▄'
)

type options struct {
	format Format
	invert bool
	border int
}

type Option interface {
	apply(o *options)
}

type funcOption struct {
	f func(o *options)
}

func (fo *funcOption) apply(o *options) {
	fo.f(o)
}

func newFuncOption(f func(o *options)) *funcOption {
	return &funcOption{f: f}
}

// WithFormat picks the drawing format, FormatAuto by default.
func WithFormat(f Format) Option {
	return newFuncOption(func(o *options) {
		o.format = f
	})
}

// WithInvert swaps dark and light, for terminals with a dark background.
func WithInvert() Option {
	return newFuncOption(func(o *options) {
		o.invert = true
	})
}

// WithBorder sets the quiet zone in modules, 2 by default.
func WithBorder(modules int) Option {
	return newFuncOption(func(o *options) {
		if modules < 0 {
			modules = 0
		}
		o.border = modules
	})
}

// resolve turns FormatAuto and FormatANSI into what the terminal can show.
func resolve(f Format) Format {
	switch f {
	case FormatAuto:
		if runewidth.RuneWidth(blockUpper) != 1 {
			return FormatASCII
		}
		return FormatSmall
	case FormatANSI:
		if color.NoColor {
			return FormatLarge
		}
	}
	return f
}

// Render returns the text art for g.
func Render(g *bitmap.Grid, opts ...Option) string {
	o := &options{border: 2}
	for _, opt := range opts {
		opt.apply(o)
	}

	// painted reports whether the character cell for module (x, y) is
	// drawn, quiet zone included
	painted := func(x, y int) bool {
		return g.IsSet(x-o.border, y-o.border) != o.invert
	}
	width := g.Width() + 2*o.border
	height := g.Height() + 2*o.border

	var sb strings.Builder
	switch resolve(o.format) {
	case FormatSmall:
		for y := 0; y < height; y += 2 {
			for x := 0; x < width; x++ {
				top := painted(x, y)
				bottom := y+1 < height && painted(x, y+1)
				switch {
				case top && bottom:
					sb.WriteRune(blockFull)
				case top:
					sb.WriteRune(blockUpper)
				case bottom:
					sb.WriteRune(blockLower)
				default:
					sb.WriteByte(' ')
				}
			}
			sb.WriteByte('\n')
		}
	case FormatANSI:
		dark := color.New(color.BgBlack)
		light := color.New(color.BgWhite)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if painted(x, y) {
					sb.WriteString(dark.Sprint("  "))
				} else {
					sb.WriteString(light.Sprint("  "))
				}
			}
			sb.WriteByte('\n')
		}
	default:
		cell := string([]rune{blockFull, blockFull})
		if resolve(o.format) == FormatASCII {
			cell = "##"
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if painted(x, y) {
					sb.WriteString(cell)
				} else {
					sb.WriteString("  ")
				}
			}
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// Fprint writes the text art for g to w.
func Fprint(w io.Writer, g *bitmap.Grid, opts ...Option) error {
	_, err := io.WriteString(w, Render(g, opts...))
	return errors.Wrap(err, "print symbol")
}
