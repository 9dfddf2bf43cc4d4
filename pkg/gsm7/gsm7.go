// Package gsm7 converts text to and from the GSM 03.38 default alphabet and
// its 7-bit packed transport form.
package gsm7

import (
	"fmt"
	"strings"
)

const escape = 0x1b

var base = [128]rune{
	'@', '£', '$', '¥', 'è', 'é', 'ù', 'ì', 'ò', 'Ç', '\n', 'Ø', 'ø', '\r', 'Å', 'å',
	'Δ', '_', 'Φ', 'Γ', 'Λ', 'Ω', 'Π', 'Ψ', 'Σ', 'Θ', 'Ξ', 0, 'Æ', 'æ', 'ß', 'É',
	' ', '!', '"', '#', '¤', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'¡', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', 'Ä', 'Ö', 'Ñ', 'Ü', '§',
	'¿', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', 'ä', 'ö', 'ñ', 'ü', 'à',
}

// extension table entries, reached through the escape septet
var ext = map[byte]rune{
	0x0a: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2f: '\\',
	0x3c: '[',
	0x3d: '~',
	0x3e: ']',
	0x40: '|',
	0x65: '€',
}

var (
	baseRev = make(map[rune]byte, len(base))
	extRev  = make(map[rune]byte, len(ext))
)

func init() {
	for i, r := range base {
		if r != 0 {
			baseRev[r] = byte(i)
		}
	}
	for b, r := range ext {
		extRev[r] = b
	}
}

// Decode maps septets to text. An escape followed by an unknown code is
// rendered as a space, as the default alphabet mandates.
func Decode(septets []byte) string {
	var sb strings.Builder
	esc := false
	for _, s := range septets {
		s &= 0x7f
		switch {
		case esc:
			if r, ok := ext[s]; ok {
				sb.WriteRune(r)
			} else {
				sb.WriteRune(' ')
			}
			esc = false
		case s == escape:
			esc = true
		default:
			sb.WriteRune(base[s])
		}
	}
	return sb.String()
}

// Encode maps text to septets. Characters outside the alphabet are an error.
func Encode(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := baseRev[r]; ok {
			out = append(out, b)
			continue
		}
		if b, ok := extRev[r]; ok {
			out = append(out, escape, b)
			continue
		}
		return nil, fmt.Errorf("gsm7: character %q not in default alphabet", r)
	}
	return out, nil
}

// Pack packs septets into octets, least significant bit first.
func Pack(septets []byte) []byte {
	out := make([]byte, 0, (len(septets)*7+7)/8)
	var buf uint32
	var bits uint
	for _, s := range septets {
		buf |= uint32(s&0x7f) << bits
		bits += 7
		for bits >= 8 {
			out = append(out, byte(buf))
			buf >>= 8
			bits -= 8
		}
	}
	if bits > 0 {
		out = append(out, byte(buf))
	}
	return out
}

// Unpack extracts count septets from packed octets. A negative count takes
// every complete septet.
func Unpack(packed []byte, count int) []byte {
	max := len(packed) * 8 / 7
	if count < 0 || count > max {
		count = max
	}
	out := make([]byte, 0, count)
	var buf uint32
	var bits uint
	for _, b := range packed {
		buf |= uint32(b) << bits
		bits += 8
		for bits >= 7 && len(out) < count {
			out = append(out, byte(buf&0x7f))
			buf >>= 7
			bits -= 7
		}
	}
	return out
}

// SpareBits returns the number of unused bits in the last octet once count
// septets are packed.
func SpareBits(count int) int {
	return (8 - (count*7)%8) % 8
}
