// Package scan reads QR codes back from images. It is used to verify
// generated files.
package scan

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/pkg/errors"

	"github.com/Mictilt/qrgen/writer/standard/imgkit"
)

// threshold separates dark from light modules before decoding, so that
// colored codes read like black on white ones.
const threshold = 128

// File decodes the QR code in the image file at path.
func File(path string) (string, error) {
	img, err := imgkit.Read(path)
	if err != nil {
		return "", err
	}

	return Image(img)
}

// Image decodes the QR code in img.
func Image(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(imgkit.Binaryzation(img, threshold))
	if err != nil {
		return "", errors.Wrap(err, "creating bitmap")
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", errors.Wrap(err, "no QR code found in image")
	}

	return result.GetText(), nil
}
