package qrgen_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mictilt/qrgen"
	"github.com/Mictilt/qrgen/template"
)

func ExampleGenerator_Generate() {
	payload, err := template.Format(template.KindWiFi, "HomeNetwork,secret,WPA")
	if err != nil {
		panic(err)
	}

	dir, err := os.MkdirTemp("", "qrgen")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	gen := qrgen.NewGenerator()
	path, err := gen.Generate(qrgen.Request{
		Payload:    payload,
		OutputPath: filepath.Join(dir, "wifi.png"),
		ModuleSize: 10,
		Border:     4,
		Level:      qrgen.ECLevelQ,
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(filepath.Base(path))
	// Output: wifi.png
}

func ExampleParseColor() {
	c, _ := qrgen.ParseColor("#336699")
	r, g, b, _ := c.RGBA()
	fmt.Println(r>>8, g>>8, b>>8)
	// Output: 51 102 153
}
