package qrgen

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/pkg/errors"
	"github.com/yeqown/go-qrcode/v2"

	"github.com/Mictilt/qrgen/microqr"
)

// ErrNothingToDo is returned for a request with neither an output path nor
// terminal display.
var ErrNothingToDo = errors.New("must specify an output file or terminal display")

// Variant is the symbology family.
type Variant int

const (
	VariantStandard Variant = iota
	VariantMicro
)

func (v Variant) String() string {
	switch v {
	case VariantStandard:
		return "standard"
	case VariantMicro:
		return "micro"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts "standard" and "micro", case-insensitively. The
// empty string is standard.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return VariantStandard, nil
	case "micro":
		return VariantMicro, nil
	}
	return VariantStandard, errors.Errorf("invalid QR type %q, want standard or micro", s)
}

// ECLevel is the error correction level. The zero value is M.
type ECLevel int

const (
	ECLevelM ECLevel = iota
	ECLevelL
	ECLevelQ
	ECLevelH
)

func (l ECLevel) String() string {
	switch l {
	case ECLevelL:
		return "L"
	case ECLevelM:
		return "M"
	case ECLevelQ:
		return "Q"
	case ECLevelH:
		return "H"
	}
	return fmt.Sprintf("ECLevel(%d)", int(l))
}

// ParseECLevel accepts L, M, Q and H in any case. The empty string is M.
func ParseECLevel(s string) (ECLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "M":
		return ECLevelM, nil
	case "L":
		return ECLevelL, nil
	case "Q":
		return ECLevelQ, nil
	case "H":
		return ECLevelH, nil
	}
	return ECLevelM, errors.Errorf("invalid error correction level %q, want L, M, Q or H", s)
}

func (l ECLevel) standard() qrcode.EncodeOption {
	switch l {
	case ECLevelL:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case ECLevelQ:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case ECLevelH:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	}
}

// micro maps the level onto Micro QR, which stops at Q.
func (l ECLevel) micro() microqr.Level {
	switch l {
	case ECLevelL:
		return microqr.LevelL
	case ECLevelQ, ECLevelH:
		return microqr.LevelQ
	default:
		return microqr.LevelM
	}
}

// Shape is how modules are drawn in image files.
type Shape int

const (
	ShapeSquare Shape = iota
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeSquare:
		return "square"
	case ShapeCircle:
		return "circle"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape accepts "square" and "circle". The empty string is square.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "square":
		return ShapeSquare, nil
	case "circle":
		return ShapeCircle, nil
	}
	return ShapeSquare, errors.Errorf("invalid shape %q, want square or circle", s)
}

// Request describes one symbol to generate.
type Request struct {
	// Payload is the text to encode, already formatted by a template.
	Payload string
	// OutputPath is the image file to write; the extension picks the
	// format. Empty means no file.
	OutputPath string
	// ModuleSize is the side of a module in pixels.
	ModuleSize int
	// Border is the quiet zone in modules.
	Border int
	Level  ECLevel
	// Terminal prints the symbol to the generator's output.
	Terminal bool
	// FillColor and BackColor default to black and white when nil.
	FillColor color.Color
	BackColor color.Color
	// LogoPath is composited over standard symbols.
	LogoPath string
	Variant  Variant
	Shape    Shape
	// Verify decodes the written file and compares it with the payload.
	Verify bool
}

// Validate reports the first problem that makes r impossible to generate.
func (r Request) Validate() error {
	if r.OutputPath == "" && !r.Terminal {
		return ErrNothingToDo
	}
	if r.ModuleSize <= 0 {
		return errors.Errorf("module size must be positive, got %d", r.ModuleSize)
	}
	if r.Border < 0 {
		return errors.Errorf("border must not be negative, got %d", r.Border)
	}
	if r.Level < ECLevelM || r.Level > ECLevelH {
		return errors.Errorf("invalid error correction level %s", r.Level)
	}
	if r.Variant != VariantStandard && r.Variant != VariantMicro {
		return errors.Errorf("invalid QR type %s", r.Variant)
	}
	if r.Shape != ShapeSquare && r.Shape != ShapeCircle {
		return errors.Errorf("invalid shape %s", r.Shape)
	}
	return nil
}
