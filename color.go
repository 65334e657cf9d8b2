package qrgen

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// ParseColor accepts SVG color names such as "navy" and hex notations
// #rgb, #rrggbb and #rrggbbaa. The leading # is optional.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty color")
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return nil, errors.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, errors.Errorf("invalid color %q", s)
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
