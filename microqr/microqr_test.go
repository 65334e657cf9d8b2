package microqr

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeqown/reedsolomon/binary"

	"github.com/Mictilt/qrgen/bitmap"
)

func classFor(t *testing.T, v Version, l Level) symbolClass {
	t.Helper()
	for _, s := range symbolClasses {
		if s.version == v && s.level == l {
			return s
		}
	}
	t.Fatalf("no class for %s-%s", v, l)
	return symbolClass{}
}

func TestEncodeData_ReferenceSymbol(t *testing.T) {
	// "01234567" in M2-L, the worked example of the Micro QR standard
	class := classFor(t, M2, LevelL)

	data, err := encodeData("01234567", ModeNumeric, class)
	require.NoError(t, err)
	assert.Equal(t, 40, data.Len())
	assert.Equal(t, []byte{0x40, 0x18, 0xAC, 0xC3, 0x00}, data.Bytes())

	stream := appendErrorCorrection(data, class)
	require.Equal(t, 80, stream.Len())

	ec, err := stream.Subset(40, 80)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x86, 0x0D, 0x22, 0xAE, 0x30}, ec.Bytes())
}

func TestEncodeData_PadsToCapacity(t *testing.T) {
	for _, class := range symbolClasses {
		data, err := encodeData("1", ModeNumeric, class)
		require.NoError(t, err, class.version.String())
		assert.Equal(t, class.dataBits, data.Len(), class.version.String())

		stream := appendErrorCorrection(data, class)
		assert.Equal(t, class.dataBits+8*class.ecCodewords, stream.Len())
	}
}

func TestEncodeData_PadCodewordsAlternate(t *testing.T) {
	// M4-L: 3 mode + 6 count + 4 data + 9 terminator = 22 bits, padded to
	// 24, then 13 pad codewords
	data, err := encodeData("1", ModeNumeric, classFor(t, M4, LevelL))
	require.NoError(t, err)

	b := data.Bytes()
	require.Len(t, b, 16)
	for i, cw := range b[3:] {
		assert.Equal(t, padCodewords[i%2], cw, "pad codeword %d", i)
	}
}

func TestEncodeData_FinalNibbleIsZero(t *testing.T) {
	data, err := encodeData("12", ModeNumeric, classFor(t, M1, LevelL))
	require.NoError(t, err)
	require.Equal(t, 20, data.Len())

	for i := 16; i < 20; i++ {
		assert.False(t, data.At(i))
	}
}

func TestEncodeData_Capacity(t *testing.T) {
	tests := []struct {
		version Version
		level   Level
		mode    Mode
		max     int
	}{
		{M1, LevelL, ModeNumeric, 5},
		{M2, LevelL, ModeNumeric, 10},
		{M2, LevelM, ModeNumeric, 8},
		{M2, LevelL, ModeAlphanumeric, 6},
		{M2, LevelM, ModeAlphanumeric, 5},
		{M3, LevelL, ModeByte, 9},
		{M3, LevelM, ModeByte, 7},
		{M4, LevelL, ModeNumeric, 35},
		{M4, LevelL, ModeAlphanumeric, 21},
		{M4, LevelL, ModeByte, 15},
		{M4, LevelM, ModeByte, 13},
		{M4, LevelQ, ModeNumeric, 21},
		{M4, LevelQ, ModeAlphanumeric, 13},
		{M4, LevelQ, ModeByte, 9},
	}

	fill := map[Mode]string{ModeNumeric: "7", ModeAlphanumeric: "A", ModeByte: "a"}
	for _, tt := range tests {
		name := tt.version.String() + "-" + tt.level.String() + "-" + tt.mode.String()
		t.Run(name, func(t *testing.T) {
			class := classFor(t, tt.version, tt.level)

			_, err := encodeData(strings.Repeat(fill[tt.mode], tt.max), tt.mode, class)
			assert.NoError(t, err)

			_, err = encodeData(strings.Repeat(fill[tt.mode], tt.max+1), tt.mode, class)
			assert.ErrorIs(t, err, errCapacity)
		})
	}
}

func TestDetectMode(t *testing.T) {
	assert.Equal(t, ModeNumeric, detectMode("123456"))
	assert.Equal(t, ModeNumeric, detectMode(""))
	assert.Equal(t, ModeAlphanumeric, detectMode("ABC123"))
	assert.Equal(t, ModeAlphanumeric, detectMode("HTTP://X.Y/$%*+-"))
	assert.Equal(t, ModeByte, detectMode("Hello"))
	assert.Equal(t, ModeByte, detectMode("héllo"))
}

func TestFormatInfo(t *testing.T) {
	assert.Equal(t, 0x4445, formatInfo(0, 0))
	assert.Equal(t, 0x4172, formatInfo(0, 1))
	assert.Equal(t, 0x55AE, formatInfo(1, 0))
	assert.Equal(t, 0x06DE, formatInfo(4, 0))
	assert.Equal(t, 0x3BBA, formatInfo(7, 3))
}

func TestEncode_SelectsSmallestVersion(t *testing.T) {
	tests := []struct {
		content string
		level   Level
		want    Version
		mode    Mode
	}{
		{"12345", LevelL, M1, ModeNumeric},
		{"123456", LevelL, M2, ModeNumeric},
		{"123456", LevelM, M2, ModeNumeric},
		{"ABC123", LevelL, M2, ModeAlphanumeric},
		{"ABC123", LevelM, M3, ModeAlphanumeric},
		{"Hi", LevelM, M3, ModeByte},
		{"Hello", LevelM, M3, ModeByte},
		{"Hello", LevelL, M3, ModeByte},
		{"Test", LevelQ, M4, ModeByte},
		{"Direct", LevelM, M3, ModeByte},
	}

	for _, tt := range tests {
		t.Run(tt.content+"-"+tt.level.String(), func(t *testing.T) {
			sym, err := Encode(tt.content, tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sym.Version)
			assert.Equal(t, tt.mode, sym.Mode)
			assert.Equal(t, tt.level, sym.Level)
			assert.Equal(t, tt.content, sym.Content())
			assert.Equal(t, tt.want.Size(), sym.Grid().Width())
			assert.Equal(t, sym.Size(), sym.Grid().Height())
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(strings.Repeat("x", 16), LevelL)
	assert.True(t, errors.Is(err, ErrDataTooLong))

	_, err = Encode("Too long for Q", LevelQ)
	assert.True(t, errors.Is(err, ErrDataTooLong))

	_, err = Encode("x", Level(9))
	assert.True(t, errors.Is(err, ErrInvalidLevel))
}

func TestEncode_FunctionPatterns(t *testing.T) {
	sym, err := Encode("Hello", LevelM)
	require.NoError(t, err)
	g := sym.Grid()

	// finder: dark ring, light ring, dark 3x3 core
	for i := 0; i < 7; i++ {
		assert.True(t, g.IsSet(i, 0))
		assert.True(t, g.IsSet(0, i))
		assert.True(t, g.IsSet(i, 6))
		assert.True(t, g.IsSet(6, i))
	}
	for i := 1; i < 6; i++ {
		assert.False(t, g.IsSet(i, 1))
		assert.False(t, g.IsSet(1, i))
	}
	assert.True(t, g.IsSet(3, 3))
	assert.True(t, g.IsFinder(3, 3))
	assert.False(t, g.IsFinder(7, 7))

	// separator
	for i := 0; i < 8; i++ {
		assert.False(t, g.IsSet(i, 7))
		assert.False(t, g.IsSet(7, i))
	}

	// timing patterns along the top row and left column
	for i := 8; i < sym.Size(); i++ {
		assert.Equal(t, i%2 == 0, g.IsSet(i, 0), "row timing %d", i)
		assert.Equal(t, i%2 == 0, g.IsSet(0, i), "column timing %d", i)
	}
}

// readBack recovers the format word and the codeword stream from a grid,
// the way a reader would.
func readBack(g *bitmap.Grid, class symbolClass) (info int, stream *binary.Binary) {
	for i := 0; i < 8; i++ {
		if g.IsSet(8, i+1) {
			info |= 1 << uint(i)
		}
		if g.IsSet(i+1, 8) {
			info |= 1 << uint(14-i)
		}
	}

	mask := (info ^ formatMask) >> 10 & 0x3

	layout := newCanvas(class.version.Size())
	layout.drawFunctionPatterns()

	stream = binary.New()
	size := layout.size
	upward := true
	for right := size - 1; right >= 1; right -= 2 {
		for i := 0; i < size; i++ {
			y := i
			if upward {
				y = size - 1 - i
			}
			for dx := 0; dx < 2; dx++ {
				x := right - dx
				if layout.isReserved(x, y) {
					continue
				}
				stream.AppendBools(g.IsSet(x, y) != maskFuncs[mask](x, y))
			}
		}
		upward = !upward
	}

	return info, stream
}

func TestEncode_ReadBack(t *testing.T) {
	tests := []struct {
		content string
		level   Level
	}{
		{"12345", LevelL},
		{"01234567", LevelL},
		{"ABC123", LevelM},
		{"Hello", LevelM},
		{"https://x.io", LevelL},
		{"Test", LevelQ},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			sym, err := Encode(tt.content, tt.level)
			require.NoError(t, err)

			class := classFor(t, sym.Version, sym.Level)
			data, err := encodeData(tt.content, sym.Mode, class)
			require.NoError(t, err)
			want := appendErrorCorrection(data, class)

			info, got := readBack(sym.Grid(), class)
			assert.Equal(t, formatInfo(class.number, sym.Mask), info)
			assert.True(t, want.EqualTo(got), "placed stream differs:\nwant %s\ngot  %s", want, got)
		})
	}
}

func TestPlaceData_FillsEveryFreeModule(t *testing.T) {
	for _, class := range symbolClasses {
		c := newCanvas(class.version.Size())
		c.drawFunctionPatterns()

		stream := binary.New()
		stream.AppendNumBools(class.dataBits+8*class.ecCodewords, true)

		assert.Equal(t, stream.Len(), c.placeData(stream), class.version.String())
	}
}

func TestMaskScore(t *testing.T) {
	c := newCanvas(11)
	assert.Equal(t, 0, c.maskScore())

	// three dark modules on the right edge, one on the bottom edge
	c.set(10, 1, true)
	c.set(10, 2, true)
	c.set(10, 3, true)
	c.set(4, 10, true)
	assert.Equal(t, 1*16+3, c.maskScore())
}
