package rl3

import (
	"strings"

	"github.com/pkg/errors"

	"gsml3/pkg/xmltree"
)

const (
	plmnTag = "PLMNidentity"

	decimalDigits = "0123456789"
	// called and calling party BCD numbers, TS 24.008 table 10.5.118
	numberDigits = "0123456789*#ABC"

	filler = 0x0f
)

func digit(alphabet string, nibble byte) (byte, error) {
	if int(nibble) >= len(alphabet) {
		return 0, errors.Errorf("invalid digit 0x%x", nibble)
	}
	return alphabet[nibble], nil
}

func nibble(alphabet string, d byte) (byte, error) {
	i := strings.IndexByte(alphabet, d)
	if i < 0 {
		return 0, errors.Errorf("invalid digit %q", d)
	}
	return byte(i), nil
}

// decodeBCD reads digits low nibble first. A filler is only accepted as the
// high nibble of the last octet.
func decodeBCD(b []byte, alphabet string) (string, error) {
	s := make([]byte, 0, 2*len(b))
	for i, v := range b {
		d, err := digit(alphabet, v&0x0f)
		if err != nil {
			return "", err
		}
		s = append(s, d)
		if v>>4 == filler && i == len(b)-1 {
			break
		}
		if d, err = digit(alphabet, v>>4); err != nil {
			return "", err
		}
		s = append(s, d)
	}
	return string(s), nil
}

// encodeBCD is the inverse of decodeBCD, odd lengths end with a filler.
func encodeBCD(s, alphabet string) ([]byte, error) {
	out := make([]byte, 0, (len(s)+1)/2)
	for i := 0; i < len(s); i += 2 {
		lo, err := nibble(alphabet, s[i])
		if err != nil {
			return nil, err
		}
		hi := byte(filler)
		if i+1 < len(s) {
			if hi, err = nibble(alphabet, s[i+1]); err != nil {
				return nil, err
			}
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

// decodePLMN unpacks MCC and MNC from three octets, TS 24.008 10.5.1.3.
// A two digit MNC carries a filler in the high nibble of the second octet.
// All ones means no PLMN.
func decodePLMN(b []byte) (string, bool, error) {
	if len(b) < 3 {
		return "", false, statusErr(MsgTooShort, plmnTag, "need 3 bytes, have %d", len(b))
	}
	if b[0] == 0xff && b[1] == 0xff && b[2] == 0xff {
		return "", false, nil
	}
	nibbles := []byte{b[0] & 0x0f, b[0] >> 4, b[1] & 0x0f, b[2] & 0x0f, b[2] >> 4}
	if b[1]>>4 != filler {
		nibbles = append(nibbles, b[1]>>4)
	}
	s := make([]byte, len(nibbles))
	for i, n := range nibbles {
		d, err := digit(decimalDigits, n)
		if err != nil {
			return "", false, errors.Wrap(err, plmnTag)
		}
		s[i] = d
	}
	return string(s), true, nil
}

func encodePLMN(s string) ([]byte, error) {
	if s == "" {
		return []byte{0xff, 0xff, 0xff}, nil
	}
	if len(s) != 5 && len(s) != 6 {
		return nil, statusErr(ParserErr, plmnTag, "%q is not 5 or 6 digits", s)
	}
	n := make([]byte, len(s))
	for i := range s {
		v, err := nibble(decimalDigits, s[i])
		if err != nil {
			return nil, errors.Wrap(err, plmnTag)
		}
		n[i] = v
	}
	mnc3 := byte(filler)
	if len(s) == 6 {
		mnc3 = n[5]
	}
	return []byte{n[1]<<4 | n[0], mnc3<<4 | n[2], n[4]<<4 | n[3]}, nil
}

// readPLMN consumes three octets and adds a PLMNidentity element when they
// hold one.
func readPLMN(cur *Cursor, out *xmltree.Element) error {
	b, err := cur.Next(3)
	if err != nil {
		return err
	}
	s, ok, err := decodePLMN(b)
	if err != nil {
		return err
	}
	if ok {
		out.AddChild(xmltree.NewText(plmnTag, s))
	}
	return nil
}

func writePLMN(in *xmltree.Element, out *Buffer) error {
	s, _ := in.ChildText(plmnTag)
	b, err := encodePLMN(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	out.Append(b)
	return nil
}
