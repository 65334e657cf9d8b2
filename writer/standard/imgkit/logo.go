package imgkit

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

const (
	// LogoRatio is how many logos fit along the shorter side of the code.
	LogoRatio = 5
	// backingScale is the size of the white backing relative to the logo
	// box, in tenths.
	backingScale = 12
)

// LogoBox returns the side of the square a logo must fit into for a code
// of the given size.
func LogoBox(width, height int) int {
	side := width
	if height < side {
		side = height
	}
	return side / LogoRatio
}

// BackingSide returns the side of the white square laid under a logo that
// fits into box.
func BackingSide(box int) int {
	return box * backingScale / 10
}

// Thumbnail shrinks src to fit inside box×box keeping its aspect ratio.
// Images that already fit are copied unchanged; they are never enlarged.
func Thumbnail(src image.Image, box int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= box && h <= box {
		return ToRGBA(src)
	}

	if w >= h {
		h = h * box / w
		w = box
	} else {
		w = w * box / h
		h = box
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// EmbedLogo pastes logo over the centre of qr on a white square backing and
// returns the result. The output always has the dimensions of qr; only the
// centred backing square differs from it.
func EmbedLogo(qr, logo image.Image) *image.RGBA {
	qb := qr.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, qb.Dx(), qb.Dy()))
	draw.Draw(dst, dst.Bounds(), qr, qb.Min, draw.Src)

	bounds := dst.Bounds()
	box := LogoBox(bounds.Dx(), bounds.Dy())
	if box == 0 {
		return dst
	}

	thumb := Thumbnail(logo, box)
	side := BackingSide(box)

	backing := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(backing, backing.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	op := draw.Src
	if !thumb.Opaque() {
		op = draw.Over
	}
	tb := thumb.Bounds()
	offset := image.Pt((side-tb.Dx())/2, (side-tb.Dy())/2)
	draw.Draw(backing, tb.Add(offset), thumb, image.Point{}, op)

	at := image.Pt((bounds.Dx()-side)/2, (bounds.Dy()-side)/2)
	draw.Draw(dst, backing.Bounds().Add(at), backing, image.Point{}, draw.Src)

	return dst
}
