package imgkit

import (
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// Read decodes the image stored at path. PNG, JPEG, GIF and BMP are
// recognised by content, not by extension.
func Read(path string) (image.Image, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer fd.Close()

	img, _, err := image.Decode(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "decode image %s", path)
	}

	return img, nil
}

// Save writes img to path, picking the encoder from the extension. Anything
// other than .jpg, .jpeg or .bmp is written as PNG.
func Save(img image.Image, path string) error {
	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create file")
	}
	defer fd.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(fd, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		err = bmp.Encode(fd, img)
	default:
		err = png.Encode(fd, img)
	}

	return errors.Wrapf(err, "encode %s", path)
}
