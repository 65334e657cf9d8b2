package microqr

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/yeqown/reedsolomon"
	"github.com/yeqown/reedsolomon/binary"
)

// Mode is the data encoding mode of the single segment.
type Mode int

const (
	ModeNumeric Mode = iota
	ModeAlphanumeric
	ModeByte
)

func (m Mode) String() string {
	switch m {
	case ModeNumeric:
		return "numeric"
	case ModeAlphanumeric:
		return "alphanumeric"
	case ModeByte:
		return "byte"
	}
	return "unknown"
}

const alphanumericCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

var padCodewords = [2]byte{0xEC, 0x11}

var errCapacity = errors.New("content exceeds symbol capacity")

func detectMode(content string) Mode {
	numeric, alnum := true, true
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c < '0' || c > '9' {
			numeric = false
		}
		if strings.IndexByte(alphanumericCharset, c) < 0 {
			alnum = false
		}
	}

	switch {
	case numeric:
		return ModeNumeric
	case alnum:
		return ModeAlphanumeric
	default:
		return ModeByte
	}
}

func (v Version) supports(m Mode) bool {
	switch m {
	case ModeNumeric:
		return true
	case ModeAlphanumeric:
		return v >= M2
	default:
		return v >= M3
	}
}

// modeIndicatorBits is 0 for M1, which only knows numeric mode.
func (v Version) modeIndicatorBits() int {
	return int(v) - 1
}

func (v Version) countIndicatorBits(m Mode) int {
	switch m {
	case ModeNumeric:
		return [...]int{3, 4, 5, 6}[v-1]
	case ModeAlphanumeric:
		return [...]int{0, 3, 4, 5}[v-1]
	default:
		return [...]int{0, 0, 4, 5}[v-1]
	}
}

func (v Version) terminatorBits() int {
	return 2*int(v) + 1
}

func payloadBits(content string, m Mode) int {
	n := len(content)
	switch m {
	case ModeNumeric:
		return 10*(n/3) + [...]int{0, 4, 7}[n%3]
	case ModeAlphanumeric:
		return 11*(n/2) + 6*(n%2)
	default:
		return 8 * n
	}
}

// encodeData produces exactly class.dataBits bits: header, payload,
// terminator and padding.
func encodeData(content string, m Mode, class symbolClass) (*binary.Binary, error) {
	v := class.version
	countBits := v.countIndicatorBits(m)
	if len(content) >= 1<<uint(countBits) {
		return nil, errCapacity
	}
	if v.modeIndicatorBits()+countBits+payloadBits(content, m) > class.dataBits {
		return nil, errCapacity
	}

	bits := binary.New()
	bits.AppendUint32(uint32(m), v.modeIndicatorBits())
	bits.AppendUint32(uint32(len(content)), countBits)

	switch m {
	case ModeNumeric:
		appendNumeric(bits, content)
	case ModeAlphanumeric:
		appendAlphanumeric(bits, content)
	default:
		bits.AppendBytes([]byte(content)...)
	}

	// the terminator may be truncated when the symbol is full
	term := v.terminatorBits()
	if rest := class.dataBits - bits.Len(); term > rest {
		term = rest
	}
	bits.AppendNumBools(term, false)

	if r := bits.Len() % 8; r != 0 {
		pad := 8 - r
		if rest := class.dataBits - bits.Len(); pad > rest {
			pad = rest
		}
		bits.AppendNumBools(pad, false)
	}

	for i := 0; bits.Len()+8 <= class.dataBits; i++ {
		bits.AppendBytes(padCodewords[i%2])
	}

	// M1 and M3 end with a 4-bit codeword, always zero when it is padding
	if rest := class.dataBits - bits.Len(); rest > 0 {
		bits.AppendNumBools(rest, false)
	}

	return bits, nil
}

func appendNumeric(bits *binary.Binary, digits string) {
	for len(digits) > 0 {
		n := len(digits)
		if n > 3 {
			n = 3
		}

		var value uint32
		for i := 0; i < n; i++ {
			value = value*10 + uint32(digits[i]-'0')
		}
		bits.AppendUint32(value, [...]int{0, 4, 7, 10}[n])
		digits = digits[n:]
	}
}

func appendAlphanumeric(bits *binary.Binary, s string) {
	for len(s) >= 2 {
		a := strings.IndexByte(alphanumericCharset, s[0])
		b := strings.IndexByte(alphanumericCharset, s[1])
		bits.AppendUint32(uint32(a*45+b), 11)
		s = s[2:]
	}
	if len(s) == 1 {
		bits.AppendUint32(uint32(strings.IndexByte(alphanumericCharset, s[0])), 6)
	}
}

// appendErrorCorrection returns the bit stream to place in the symbol: the
// data bits followed by the EC codewords. Micro QR uses a single block. The
// 4-bit final codeword of M1 and M3 enters the RS division as its high
// nibble.
func appendErrorCorrection(data *binary.Binary, class symbolClass) *binary.Binary {
	block := binary.New()
	block.AppendBytes(data.Bytes()...)

	encoded := reedsolomon.Encode(block, class.ecCodewords)
	// Subset cannot fail here: the range lies inside encoded
	ec, _ := encoded.Subset(block.Len(), encoded.Len())

	out := binary.New()
	out.Append(data)
	out.Append(ec)

	return out
}
