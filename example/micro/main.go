package main

import (
	"fmt"
	"os"

	"github.com/Mictilt/qrgen/microqr"
	"github.com/Mictilt/qrgen/writer/standard"
	"github.com/Mictilt/qrgen/writer/terminal"
)

func main() {
	for _, level := range []microqr.Level{microqr.LevelL, microqr.LevelM, microqr.LevelQ} {
		sym, err := microqr.Encode("01234567", level)
		if err != nil {
			panic(err)
		}

		fmt.Printf("%s-%s mode=%s mask=%d size=%d\n", sym.Version, sym.Level, sym.Mode, sym.Mask, sym.Size())
		if err = terminal.Fprint(os.Stdout, sym.Grid(), terminal.WithFormat(terminal.FormatANSI)); err != nil {
			panic(err)
		}
	}

	sym, err := microqr.Encode("MICRO QR", microqr.LevelM)
	if err != nil {
		panic(err)
	}

	w, err := standard.New("./micro.png",
		standard.WithQRWidth(20),
		standard.WithBorderWidth(2*20),
	)
	if err != nil {
		panic(err)
	}
	if err = w.WriteGrid(sym.Grid()); err != nil {
		panic(err)
	}
	if err = w.Close(); err != nil {
		panic(err)
	}
}
