// Command qrgen encodes text into a QR or Micro QR code, printed to the
// terminal or written as a PNG, JPEG, BMP or SVG image.
package main

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Mictilt/qrgen"
	"github.com/Mictilt/qrgen/template"
	"github.com/Mictilt/qrgen/writer/terminal"
)

const defaultOutput = "qr_code.png"

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(stdin, stdout, stderr)
	if err := app.Run(reorderArgs(args, app.Flags)); err != nil {
		msg := strings.Join(strings.Fields(err.Error()), " ")
		_, _ = color.New(color.FgRed).Fprintf(stderr, "Error generating QR code: %s\n", msg)
		return 1
	}

	return 0
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "qrgen",
		Usage:     "Generate QR codes from the command line",
		ArgsUsage: "<data>",
		Description: `Examples:
   qrgen "https://example.com"
   qrgen "Hello World" -o qr.png
   qrgen "https://github.com" --terminal
   qrgen "Contact: john@example.com" -o contact.png --size 15
   qrgen "HomeNetwork,secret,WPA" --template wifi -o wifi.svg
   qrgen --type micro -t 12345
   qrgen -t -- "-starts with a dash"`,
		HideHelpCommand: true,
		Reader:          stdin,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file, the extension picks PNG, JPEG, BMP or SVG (default: " + defaultOutput + " unless --terminal)",
				EnvVars: []string{"QRGEN_OUTPUT"},
			},
			&cli.IntFlag{
				Name:    "size",
				Aliases: []string{"s"},
				Value:   10,
				Usage:   "size of each module in pixels",
				EnvVars: []string{"QRGEN_SIZE"},
			},
			&cli.IntFlag{
				Name:    "border",
				Aliases: []string{"b"},
				Value:   4,
				Usage:   "quiet zone width in modules",
				EnvVars: []string{"QRGEN_BORDER"},
			},
			&cli.StringFlag{
				Name:    "error-correction",
				Aliases: []string{"e"},
				Value:   "M",
				Usage:   "error correction level: L(7%), M(15%), Q(25%), H(30%)",
				EnvVars: []string{"QRGEN_ERROR_CORRECTION"},
			},
			&cli.BoolFlag{
				Name:    "terminal",
				Aliases: []string{"t"},
				Usage:   "display the QR code in the terminal",
				EnvVars: []string{"QRGEN_TERMINAL"},
			},
			&cli.StringFlag{
				Name:    "fill-color",
				Value:   "black",
				Usage:   "module color, a name or #rrggbb",
				EnvVars: []string{"QRGEN_FILL_COLOR"},
			},
			&cli.StringFlag{
				Name:    "back-color",
				Value:   "white",
				Usage:   "background color, a name or #rrggbb",
				EnvVars: []string{"QRGEN_BACK_COLOR"},
			},
			&cli.StringFlag{
				Name:    "logo",
				Usage:   "image to place in the center (standard QR codes only)",
				EnvVars: []string{"QRGEN_LOGO"},
			},
			&cli.StringFlag{
				Name:    "type",
				Value:   "standard",
				Usage:   "QR code type: standard or micro",
				EnvVars: []string{"QRGEN_TYPE"},
			},
			&cli.StringFlag{
				Name:    "template",
				Usage:   "format the data as " + kindList(),
				EnvVars: []string{"QRGEN_TEMPLATE"},
			},
			&cli.StringFlag{
				Name:    "shape",
				Value:   "square",
				Usage:   "module shape in image files: square or circle",
				EnvVars: []string{"QRGEN_SHAPE"},
			},
			&cli.StringFlag{
				Name:    "terminal-format",
				Value:   "auto",
				Usage:   "terminal rendering: auto, small, large, ascii or ansi",
				EnvVars: []string{"QRGEN_TERMINAL_FORMAT"},
			},
			&cli.BoolFlag{
				Name:    "verify",
				Usage:   "decode the written file and compare it with the data",
				EnvVars: []string{"QRGEN_VERIFY"},
			},
			&cli.BoolFlag{
				Name:    "no-input",
				Usage:   "fail instead of prompting when template fields are missing",
				EnvVars: []string{"QRGEN_NO_INPUT"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log encoding details",
				EnvVars: []string{"QRGEN_VERBOSE"},
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "disable colored output",
				EnvVars: []string{"QRGEN_NO_COLOR"},
			},
		},
		Action: func(c *cli.Context) error {
			return generate(c, stdin, stdout, stderr)
		},
	}
}

// reorderArgs moves positional arguments behind the flags, so flags may
// follow <data>. Everything after "--" stays positional.
func reorderArgs(args []string, flags []cli.Flag) []string {
	if len(args) == 0 {
		return args
	}

	takesValue := make(map[string]bool)
	for _, f := range flags {
		_, isBool := f.(*cli.BoolFlag)
		for _, name := range f.Names() {
			takesValue[name] = !isBool
		}
	}

	out := []string{args[0]}
	var positional []string
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			positional = append(positional, rest[i+1:]...)
			break
		}
		if len(arg) < 2 || !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}

		out = append(out, arg)
		name := strings.TrimLeft(arg, "-")
		if !strings.Contains(name, "=") && takesValue[name] && i+1 < len(rest) {
			i++
			out = append(out, rest[i])
		}
	}

	if len(positional) > 0 {
		out = append(out, "--")
		out = append(out, positional...)
	}
	return out
}

func kindList() string {
	kinds := template.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func generate(c *cli.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	if c.Bool("no-color") {
		color.NoColor = true
	}

	if c.NArg() == 0 {
		return errors.New("missing <data> argument")
	}
	if c.NArg() > 1 {
		return errors.Errorf("expected a single <data> argument, got %d", c.NArg())
	}

	req, err := buildRequest(c)
	if err != nil {
		return err
	}
	format, err := terminal.ParseFormat(c.String("terminal-format"))
	if err != nil {
		return err
	}

	kind, err := template.ParseKind(c.String("template"))
	if err != nil {
		return err
	}
	var prompter template.Prompter
	if !c.Bool("no-input") {
		prompter = template.NewLinePrompter(stdin, stderr)
	}
	if req.Payload, err = template.Apply(kind, c.Args().First(), prompter); err != nil {
		return err
	}

	if !req.Terminal && req.OutputPath == "" {
		req.OutputPath = defaultOutput
	}
	if !req.Terminal && req.OutputPath == "" {
		return qrgen.ErrNothingToDo
	}

	opts := []qrgen.GeneratorOption{
		qrgen.WithOutput(stdout),
		qrgen.WithLogger(newLogger(stderr, c.Bool("verbose"))),
	}
	// unset keeps the per-variant default
	if c.IsSet("terminal-format") {
		opts = append(opts, qrgen.WithTerminalFormat(format))
	}

	path, err := qrgen.NewGenerator(opts...).Generate(req)
	if err != nil {
		return err
	}
	if path != "" {
		_, _ = color.New(color.FgGreen).Fprintf(stdout, "QR code saved to: %s\n", path)
	}

	return nil
}

// buildRequest parses every flag except the template into a Request.
func buildRequest(c *cli.Context) (qrgen.Request, error) {
	req := qrgen.Request{
		OutputPath: c.String("output"),
		ModuleSize: c.Int("size"),
		Border:     c.Int("border"),
		Terminal:   c.Bool("terminal"),
		LogoPath:   c.String("logo"),
		Verify:     c.Bool("verify"),
	}

	var err error
	if req.Level, err = qrgen.ParseECLevel(c.String("error-correction")); err != nil {
		return req, err
	}
	if req.Variant, err = qrgen.ParseVariant(c.String("type")); err != nil {
		return req, err
	}
	if req.Shape, err = qrgen.ParseShape(c.String("shape")); err != nil {
		return req, err
	}
	if req.FillColor, err = qrgen.ParseColor(c.String("fill-color")); err != nil {
		return req, errors.Wrap(err, "fill color")
	}
	if req.BackColor, err = qrgen.ParseColor(c.String("back-color")); err != nil {
		return req, errors.Wrap(err, "back color")
	}
	return req, nil
}
