package microqr

import (
	"github.com/yeqown/reedsolomon/binary"

	"github.com/Mictilt/qrgen/bitmap"
)

const (
	formatMask      = 0x4445
	formatGenerator = 0x537
)

// canvas is the working matrix before it is frozen into a bitmap.Grid.
type canvas struct {
	size     int
	dark     []bool
	reserved []bool
}

func newCanvas(size int) *canvas {
	return &canvas{
		size:     size,
		dark:     make([]bool, size*size),
		reserved: make([]bool, size*size),
	}
}

func (c *canvas) set(x, y int, dark bool) {
	c.dark[y*c.size+x] = dark
}

func (c *canvas) at(x, y int) bool {
	return c.dark[y*c.size+x]
}

func (c *canvas) reserve(x, y int, dark bool) {
	c.reserved[y*c.size+x] = true
	c.set(x, y, dark)
}

func (c *canvas) isReserved(x, y int) bool {
	return c.reserved[y*c.size+x]
}

func (c *canvas) clone() *canvas {
	cp := &canvas{
		size:     c.size,
		dark:     make([]bool, len(c.dark)),
		reserved: c.reserved,
	}
	copy(cp.dark, c.dark)
	return cp
}

// drawFunctionPatterns places the single finder, its separator, both
// timing patterns and reserves the format information area.
func (c *canvas) drawFunctionPatterns() {
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			ring := x == 0 || x == 6 || y == 0 || y == 6
			core := x >= 2 && x <= 4 && y >= 2 && y <= 4
			c.reserve(x, y, ring || core)
		}
	}

	for i := 0; i < 8; i++ {
		c.reserve(i, 7, false)
		c.reserve(7, i, false)
	}

	for i := 8; i < c.size; i++ {
		c.reserve(i, 0, i%2 == 0)
		c.reserve(0, i, i%2 == 0)
	}

	for i := 1; i <= 8; i++ {
		c.reserve(i, 8, false)
		c.reserve(8, i, false)
	}
}

// placeData fills the free modules in two-column strips from the bottom
// right, alternating upward and downward. Column 0 holds the timing pattern
// so no strip needs to skip it.
func (c *canvas) placeData(stream *binary.Binary) int {
	pos := 0
	upward := true
	for right := c.size - 1; right >= 1; right -= 2 {
		for i := 0; i < c.size; i++ {
			y := i
			if upward {
				y = c.size - 1 - i
			}
			for dx := 0; dx < 2; dx++ {
				x := right - dx
				if c.isReserved(x, y) {
					continue
				}
				c.set(x, y, pos < stream.Len() && stream.At(pos))
				pos++
			}
		}
		upward = !upward
	}

	return pos
}

var maskFuncs = [4]func(x, y int) bool{
	func(x, y int) bool { return y%2 == 0 },
	func(x, y int) bool { return (y/2+x/3)%2 == 0 },
	func(x, y int) bool { return ((y*x)%2+(y*x)%3)%2 == 0 },
	func(x, y int) bool { return ((y+x)%2+(y*x)%3)%2 == 0 },
}

func (c *canvas) applyMask(mask int) {
	fn := maskFuncs[mask]
	for y := 0; y < c.size; y++ {
		for x := 0; x < c.size; x++ {
			if !c.isReserved(x, y) && fn(x, y) {
				c.set(x, y, !c.at(x, y))
			}
		}
	}
}

// maskScore favours symbols whose right and bottom edges carry many dark
// modules, which keeps the single-finder symbol locatable.
func (c *canvas) maskScore() int {
	var right, bottom int
	last := c.size - 1
	for i := 1; i < c.size; i++ {
		if c.at(last, i) {
			right++
		}
		if c.at(i, last) {
			bottom++
		}
	}

	if right <= bottom {
		return right*16 + bottom
	}
	return bottom*16 + right
}

// formatInfo returns the 15-bit BCH protected format word.
func formatInfo(number, mask int) int {
	data := number<<2 | mask
	rem := data << 10
	for i := 14; i >= 10; i-- {
		if rem&(1<<uint(i)) != 0 {
			rem ^= formatGenerator << uint(i-10)
		}
	}

	return (data<<10 | rem) ^ formatMask
}

// placeFormatInfo writes bits 0..7 down column 8 and bits 14..7 along row 8.
func (c *canvas) placeFormatInfo(info int) {
	for i := 0; i < 8; i++ {
		c.set(8, i+1, info>>uint(i)&1 == 1)
		c.set(i+1, 8, info>>uint(14-i)&1 == 1)
	}
}

func (c *canvas) grid() *bitmap.Grid {
	g := bitmap.New(c.size, c.size)
	for y := 0; y < c.size; y++ {
		for x := 0; x < c.size; x++ {
			g.Set(x, y, c.at(x, y))
			if x < 7 && y < 7 {
				g.MarkFinder(x, y)
			}
		}
	}
	return g
}

// buildMatrix lays out the stream, evaluates the four masks and returns the
// winning matrix together with its mask reference.
func buildMatrix(class symbolClass, stream *binary.Binary) (*bitmap.Grid, int) {
	base := newCanvas(class.version.Size())
	base.drawFunctionPatterns()
	base.placeData(stream)

	var (
		best      *canvas
		bestMask  int
		bestScore = -1
	)
	for mask := range maskFuncs {
		candidate := base.clone()
		candidate.applyMask(mask)
		candidate.placeFormatInfo(formatInfo(class.number, mask))

		if score := candidate.maskScore(); score > bestScore {
			best, bestMask, bestScore = candidate, mask, score
		}
	}

	return best.grid(), bestMask
}
