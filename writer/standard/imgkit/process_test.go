package imgkit_test

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mictilt/qrgen/writer/standard/imgkit"
)

// gradient is a 64x16 image going from black on the left to white on the
// right.
func gradient() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(x * 4)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func Test_Gray(t *testing.T) {
	img := gradient()

	out := imgkit.Gray(img)
	assert.Equal(t, img.Bounds(), out.Bounds())
	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(252), out.GrayAt(63, 3).Y)
}

func TestBinaryzation(t *testing.T) {
	img := gradient()

	out := imgkit.Binaryzation(img, 128)
	assert.Equal(t, img.Bounds(), out.Bounds())

	for x := 0; x < 64; x++ {
		want := uint8(0)
		if x*4 > 128 {
			want = 255
		}
		assert.Equal(t, want, out.GrayAt(x, 5).Y, "x=%d", x)
	}
}

func TestScale(t *testing.T) {
	out := imgkit.Scale(gradient(), image.Rect(0, 0, 100, 100), nil)
	assert.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())
}

func TestToRGBA(t *testing.T) {
	rgba := gradient()
	assert.Same(t, rgba, imgkit.ToRGBA(rgba))

	gray := image.NewGray(image.Rect(10, 10, 20, 30))
	out := imgkit.ToRGBA(gray)
	assert.Equal(t, image.Rect(0, 0, 10, 20), out.Bounds())
}

func TestSaveAndRead(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"a.png", "b.jpg", "c.bmp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, imgkit.Save(gradient(), path))

		img, err := imgkit.Read(path)
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 64, 16), img.Bounds(), name)
	}
}

func TestRead_Errors(t *testing.T) {
	_, err := imgkit.Read(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, imgkit.Save(gradient(), path))
	// written as PNG regardless of the extension
	_, err = imgkit.Read(path)
	assert.NoError(t, err)
}
