// Package bitmap holds the module grid shared by the encoders and the
// writers, so that standard and micro symbols render through the same code.
package bitmap

import (
	"github.com/yeqown/go-qrcode/v2"
)

const (
	cellSet uint8 = 1 << iota
	cellFinder
)

// Grid is a width x height matrix of modules. A set module is dark.
type Grid struct {
	width, height int
	cells         []uint8
}

// New creates an empty (all light) grid.
func New(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  make([]uint8, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// IsSet reports whether the module at (x, y) is dark. Positions outside the
// grid are light, which is what a quiet zone looks like.
func (g *Grid) IsSet(x, y int) bool {
	if !g.inside(x, y) {
		return false
	}
	return g.cells[y*g.width+x]&cellSet != 0
}

// IsFinder reports whether (x, y) belongs to a finder pattern.
func (g *Grid) IsFinder(x, y int) bool {
	if !g.inside(x, y) {
		return false
	}
	return g.cells[y*g.width+x]&cellFinder != 0
}

// Set marks the module at (x, y) dark or light.
func (g *Grid) Set(x, y int, dark bool) {
	if !g.inside(x, y) {
		return
	}
	if dark {
		g.cells[y*g.width+x] |= cellSet
	} else {
		g.cells[y*g.width+x] &^= cellSet
	}
}

// MarkFinder flags (x, y) as part of a finder pattern.
func (g *Grid) MarkFinder(x, y int) {
	if !g.inside(x, y) {
		return
	}
	g.cells[y*g.width+x] |= cellFinder
}

// Iterate calls fn for every module, row by row.
func (g *Grid) Iterate(fn func(x, y int, dark bool)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(x, y, g.cells[y*g.width+x]&cellSet != 0)
		}
	}
}

// DarkCount returns the number of dark modules.
func (g *Grid) DarkCount() int {
	n := 0
	for _, c := range g.cells {
		if c&cellSet != 0 {
			n++
		}
	}
	return n
}

// FromMatrix copies a go-qrcode matrix into a Grid.
func FromMatrix(mat qrcode.Matrix) *Grid {
	g := New(mat.Width(), mat.Height())
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		g.Set(x, y, v.IsSet())
		if v.Type() == qrcode.QRType_FINDER {
			g.MarkFinder(x, y)
		}
	})

	return g
}

// Capture is a qrcode.Writer that keeps the written matrix as a Grid
// instead of encoding it anywhere.
type Capture struct {
	Grid *Grid
}

func (c *Capture) Write(mat qrcode.Matrix) error {
	c.Grid = FromMatrix(mat)
	return nil
}

func (c *Capture) Close() error { return nil }
