// Package microqr encodes Micro QR symbols (M1 to M4).
//
// Content is stored as a single segment in the most compact mode the
// symbol supports. Reed-Solomon codewords come from
// github.com/yeqown/reedsolomon, the codec go-qrcode uses for full-size
// symbols. Kanji mode and structured append are not supported.
package microqr

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Mictilt/qrgen/bitmap"
)

// Version is the symbol size class.
type Version int

const (
	M1 Version = iota + 1
	M2
	M3
	M4
)

// Size returns the number of modules per side, without quiet zone.
func (v Version) Size() int {
	return 9 + 2*int(v)
}

func (v Version) String() string {
	return fmt.Sprintf("M%d", int(v))
}

// Level is the error correction level. Micro QR has no level H.
type Level int

const (
	LevelL Level = iota + 1
	LevelM
	LevelQ
)

func (l Level) String() string {
	switch l {
	case LevelL:
		return "L"
	case LevelM:
		return "M"
	case LevelQ:
		return "Q"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

var (
	// ErrDataTooLong is returned when no symbol at the requested level can
	// hold the content.
	ErrDataTooLong = errors.New("data too long for a micro QR symbol")
	// ErrInvalidLevel is returned for levels outside L, M and Q.
	ErrInvalidLevel = errors.New("invalid micro QR error correction level")
)

// symbolClass is one row of the version/level capacity table.
type symbolClass struct {
	version Version
	level   Level
	// number is the symbol number carried in the format information.
	number int
	// dataBits is the data capacity. M1 and M3 end with a 4-bit codeword.
	dataBits    int
	ecCodewords int
}

func (s symbolClass) dataCodewords() int {
	return (s.dataBits + 7) / 8
}

// M1 only offers error detection; it is considered for level L requests.
var symbolClasses = []symbolClass{
	{version: M1, level: LevelL, number: 0, dataBits: 20, ecCodewords: 2},
	{version: M2, level: LevelL, number: 1, dataBits: 40, ecCodewords: 5},
	{version: M2, level: LevelM, number: 2, dataBits: 32, ecCodewords: 6},
	{version: M3, level: LevelL, number: 3, dataBits: 84, ecCodewords: 6},
	{version: M3, level: LevelM, number: 4, dataBits: 68, ecCodewords: 8},
	{version: M4, level: LevelL, number: 5, dataBits: 128, ecCodewords: 8},
	{version: M4, level: LevelM, number: 6, dataBits: 112, ecCodewords: 10},
	{version: M4, level: LevelQ, number: 7, dataBits: 80, ecCodewords: 14},
}

// Symbol is an encoded Micro QR code.
type Symbol struct {
	Version Version
	Level   Level
	Mode    Mode
	// Mask is the mask pattern reference, 0 to 3.
	Mask int

	content string
	grid    *bitmap.Grid
}

// Content returns the encoded text.
func (s *Symbol) Content() string { return s.content }

// Size returns the modules per side.
func (s *Symbol) Size() int { return s.Version.Size() }

// Grid returns the module matrix.
func (s *Symbol) Grid() *bitmap.Grid { return s.grid }

// Encode builds the smallest symbol that holds content at level.
func Encode(content string, level Level) (*Symbol, error) {
	if level < LevelL || level > LevelQ {
		return nil, errors.Wrapf(ErrInvalidLevel, "level %d", int(level))
	}

	mode := detectMode(content)
	for _, class := range symbolClasses {
		if class.level != level || !class.version.supports(mode) {
			continue
		}

		data, err := encodeData(content, mode, class)
		if err != nil {
			continue
		}

		codewords := appendErrorCorrection(data, class)
		grid, mask := buildMatrix(class, codewords)

		return &Symbol{
			Version: class.version,
			Level:   level,
			Mode:    mode,
			Mask:    mask,
			content: content,
			grid:    grid,
		}, nil
	}

	return nil, errors.Wrapf(ErrDataTooLong, "%d bytes in %s mode at level %s", len(content), mode, level)
}
