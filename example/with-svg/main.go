package main

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/yeqown/go-qrcode/v2"

	"github.com/Mictilt/qrgen/writer/standard"
)

func main() {
	qrc, err := qrcode.NewWith("https://github.com/Mictilt/qrgen",
		qrcode.WithEncodingMode(qrcode.EncModeByte),
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest),
	)
	if err != nil {
		panic(err)
	}

	// rectangles, merged into horizontal runs
	save(qrc, "./qrcode_rect.svg", standard.WithQRWidth(10))

	// custom colors, a translucent foreground gets fill-opacity
	save(qrc, "./qrcode_colored.svg",
		standard.WithQRWidth(20),
		standard.WithFgColor(color.NRGBA{R: 0xCC, A: 0xC0}),
		standard.WithBgColor(color.RGBA{R: 0xFF, G: 0xFF, B: 0xE0, A: 0xFF}),
	)

	save(qrc, "./qrcode_circle.svg",
		standard.WithQRWidth(10),
		standard.WithCircleShape(),
	)

	// the logo is embedded as a PNG data URL on a white backing square
	logo := image.NewRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(logo, logo.Bounds(), &image.Uniform{C: color.RGBA{R: 0x00, G: 0x66, B: 0xCC, A: 0xFF}}, image.Point{}, draw.Src)
	save(qrc, "./qrcode_with_logo.svg",
		standard.WithQRWidth(20),
		standard.WithLogoImage(logo),
	)

	println("SVG files created successfully!")
}

func save(qrc *qrcode.QRCode, path string, opts ...standard.ImageOption) {
	w, err := standard.New(path, opts...)
	if err != nil {
		panic(err)
	}
	if err = qrc.Save(w); err != nil {
		panic(err)
	}
}
