package imgkit

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Binaryzation maps every pixel of src to black or white. Pixels brighter
// than threshold turn white.
func Binaryzation(src image.Image, threshold uint8) *image.Gray {
	gray := Gray(src)
	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				gray.SetGray(x, y, color.Gray{Y: 255})
			} else {
				gray.SetGray(x, y, color.Gray{})
			}
		}
	}

	return gray
}

// Gray converts src into a grayscale image with the same bounds.
func Gray(src image.Image) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.GrayModel.Convert(src.At(x, y))
			gray.SetGray(x, y, c.(color.Gray))
		}
	}

	return gray
}

// Scale resizes src into rect. A nil scaler means draw.ApproxBiLinear.
func Scale(src image.Image, rect image.Rectangle, scale draw.Scaler) *image.RGBA {
	if scale == nil {
		scale = draw.ApproxBiLinear
	}

	dst := image.NewRGBA(rect)
	scale.Scale(dst, rect, src, src.Bounds(), draw.Over, nil)
	return dst
}

// ToRGBA returns img itself when it is already an *image.RGBA anchored at
// the origin, otherwise a copy.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
