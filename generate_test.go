package qrgen_test

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mictilt/qrgen"
	"github.com/Mictilt/qrgen/microqr"
	"github.com/Mictilt/qrgen/scan"
	"github.com/Mictilt/qrgen/writer/standard/imgkit"
	"github.com/Mictilt/qrgen/writer/terminal"
)

func newGenerator(t *testing.T, opts ...qrgen.GeneratorOption) (*qrgen.Generator, *bytes.Buffer, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var out bytes.Buffer
	opts = append([]qrgen.GeneratorOption{qrgen.WithOutput(&out), qrgen.WithLogger(logger)}, opts...)
	return qrgen.NewGenerator(opts...), &out, hook
}

func baseRequest(payload string) qrgen.Request {
	return qrgen.Request{
		Payload:    payload,
		ModuleSize: 10,
		Border:     4,
	}
}

func hasWarning(hook *test.Hook, substr string) bool {
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestGenerate_TerminalOnly(t *testing.T) {
	gen, out, _ := newGenerator(t)

	req := baseRequest("https://example.com")
	req.Terminal = true

	path, err := gen.Generate(req)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NotEmpty(t, out.String())
	assert.True(t, strings.HasSuffix(out.String(), "\n\n"), "art is followed by a blank line")

	_, statErr := os.Stat("qr_code.png")
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_DebugLogsSymbol(t *testing.T) {
	for _, variant := range []qrgen.Variant{qrgen.VariantStandard, qrgen.VariantMicro} {
		gen, _, hook := newGenerator(t)

		req := baseRequest("12345")
		req.Variant = variant
		req.Terminal = true

		_, err := gen.Generate(req)
		require.NoError(t, err)

		var found bool
		for _, e := range hook.AllEntries() {
			if e.Level != logrus.DebugLevel || e.Message != "symbol encoded" {
				continue
			}
			found = true
			assert.Equal(t, "generator", e.Data["component"])
			assert.Equal(t, variant, e.Data["variant"])
			assert.Greater(t, e.Data["dark"], 0, variant.String())
		}
		assert.True(t, found, variant.String())
	}
}

func TestGenerate_NothingToDo(t *testing.T) {
	gen, _, _ := newGenerator(t)

	_, err := gen.Generate(baseRequest("data"))
	assert.True(t, errors.Is(err, qrgen.ErrNothingToDo))
}

func TestGenerate_StandardRoundTripAtH(t *testing.T) {
	gen, _, hook := newGenerator(t)

	req := baseRequest("Hello, World!")
	req.Level = qrgen.ECLevelH
	req.OutputPath = filepath.Join(t.TempDir(), "qr.png")
	req.Verify = true

	path, err := gen.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, req.OutputPath, path)

	text, err := scan.File(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", text)
	assert.False(t, hasWarning(hook, ""))
}

func TestGenerate_TerminalAndFile(t *testing.T) {
	gen, out, _ := newGenerator(t, qrgen.WithTerminalFormat(terminal.FormatASCII))

	req := baseRequest("both")
	req.Terminal = true
	req.OutputPath = filepath.Join(t.TempDir(), "qr.jpg")

	path, err := gen.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, req.OutputPath, path)
	assert.Contains(t, out.String(), "##")

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestGenerate_Dimensions(t *testing.T) {
	gen, _, _ := newGenerator(t)

	req := baseRequest("12345")
	req.Variant = qrgen.VariantMicro
	req.Level = qrgen.ECLevelL
	req.Border = 2
	req.OutputPath = filepath.Join(t.TempDir(), "micro.png")

	_, err := gen.Generate(req)
	require.NoError(t, err)

	img, err := imgkit.Read(req.OutputPath)
	require.NoError(t, err)
	// M1 is 11 modules wide
	assert.Equal(t, image.Rect(0, 0, 150, 150), img.Bounds())
}

func TestGenerate_MicroHBehavesLikeQ(t *testing.T) {
	render := func(level qrgen.ECLevel) string {
		gen, out, _ := newGenerator(t, qrgen.WithTerminalFormat(terminal.FormatASCII))

		req := baseRequest("Test")
		req.Variant = qrgen.VariantMicro
		req.Level = level
		req.Terminal = true

		_, err := gen.Generate(req)
		require.NoError(t, err)
		return out.String()
	}

	assert.Equal(t, render(qrgen.ECLevelQ), render(qrgen.ECLevelH))

	symQ, err := microqr.Encode("Test", microqr.LevelQ)
	require.NoError(t, err)
	// M4 plus a 4 module border on each side, one line per module row
	lines := strings.Split(strings.TrimSuffix(render(qrgen.ECLevelH), "\n\n"), "\n")
	assert.Len(t, lines, symQ.Size()+8)
}

func TestGenerate_MicroTooLong(t *testing.T) {
	gen, _, _ := newGenerator(t)

	req := baseRequest(strings.Repeat("x", 40))
	req.Variant = qrgen.VariantMicro
	req.Terminal = true

	_, err := gen.Generate(req)
	assert.True(t, errors.Is(err, microqr.ErrDataTooLong))
}

func TestGenerate_StandardTooLong(t *testing.T) {
	gen, _, _ := newGenerator(t)

	req := baseRequest(strings.Repeat("x", 4000))
	req.Level = qrgen.ECLevelH
	req.Terminal = true

	_, err := gen.Generate(req)
	assert.Error(t, err)
}

func writeLogo(t *testing.T) string {
	t.Helper()

	logo := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			logo.Set(x, y, color.RGBA{R: 250, G: 200, B: 200, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, imgkit.Save(logo, path))
	return path
}

func TestGenerate_LogoAtHStaysReadable(t *testing.T) {
	gen, _, hook := newGenerator(t)

	req := baseRequest("https://github.com/Mictilt/qrgen")
	req.Level = qrgen.ECLevelH
	req.LogoPath = writeLogo(t)
	req.OutputPath = filepath.Join(t.TempDir(), "logo.png")
	req.Verify = true

	_, err := gen.Generate(req)
	require.NoError(t, err)
	assert.False(t, hasWarning(hook, "logo"))

	img, err := imgkit.Read(req.OutputPath)
	require.NoError(t, err)
	b := img.Bounds()
	c := color.RGBAModel.Convert(img.At(b.Dx()/2, b.Dy()/2)).(color.RGBA)
	assert.InDelta(t, 250, int(c.R), 1)
	assert.InDelta(t, 200, int(c.G), 1)
}

func TestGenerate_LogoBelowHWarns(t *testing.T) {
	gen, _, hook := newGenerator(t)

	req := baseRequest("warn me")
	req.LogoPath = writeLogo(t)
	req.OutputPath = filepath.Join(t.TempDir(), "logo.png")

	_, err := gen.Generate(req)
	require.NoError(t, err)
	assert.True(t, hasWarning(hook, "level H"))
}

func TestGenerate_MicroIgnoresLogo(t *testing.T) {
	gen, _, hook := newGenerator(t)

	req := baseRequest("12345")
	req.Variant = qrgen.VariantMicro
	req.LogoPath = filepath.Join(t.TempDir(), "does-not-exist.png")
	req.OutputPath = filepath.Join(t.TempDir(), "micro.png")
	req.Verify = true

	_, err := gen.Generate(req)
	require.NoError(t, err)
	assert.True(t, hasWarning(hook, "not supported for micro"))
	assert.True(t, hasWarning(hook, "cannot be verified"))
}

func TestGenerate_MissingLogo(t *testing.T) {
	gen, _, _ := newGenerator(t)

	req := baseRequest("data")
	req.LogoPath = filepath.Join(t.TempDir(), "missing.png")
	req.OutputPath = filepath.Join(t.TempDir(), "qr.png")

	_, err := gen.Generate(req)
	assert.Error(t, err)
}

func TestGenerate_UnknownExtension(t *testing.T) {
	gen, _, _ := newGenerator(t)

	req := baseRequest("data")
	req.OutputPath = filepath.Join(t.TempDir(), "qr.tiff")

	_, err := gen.Generate(req)
	assert.Error(t, err)

	_, statErr := os.Stat(req.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_ColorsAndSVG(t *testing.T) {
	gen, _, hook := newGenerator(t)

	fill, err := qrgen.ParseColor("navy")
	require.NoError(t, err)
	back, err := qrgen.ParseColor("#ffffe0")
	require.NoError(t, err)

	req := baseRequest("colors")
	req.FillColor = fill
	req.BackColor = back
	req.Shape = qrgen.ShapeCircle
	req.OutputPath = filepath.Join(t.TempDir(), "qr.svg")
	req.Verify = true

	_, err = gen.Generate(req)
	require.NoError(t, err)
	assert.True(t, hasWarning(hook, "SVG output cannot be verified"))

	data, err := os.ReadFile(req.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fill:#000080")
	assert.Contains(t, string(data), "fill:#ffffe0")
	assert.Contains(t, string(data), "<circle")
}

func TestGenerate_InvalidRequest(t *testing.T) {
	gen, _, _ := newGenerator(t)

	req := baseRequest("data")
	req.Terminal = true
	req.ModuleSize = 0

	_, err := gen.Generate(req)
	assert.Error(t, err)
}
