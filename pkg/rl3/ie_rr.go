package rl3

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"gsml3/pkg/xmltree"
)

// Mobile time difference, TS 44.018 10.5.2.21a. The value occupies the top
// 21 bits of three octets.
func decodeMobileTD(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) != 3 || b[2]&0x07 != 0 {
		return errors.Errorf("malformed mobile time difference % x", b)
	}
	v := uint32(b[0])<<13 | uint32(b[1])<<5 | uint32(b[2])>>3
	out.AddChild(xmltree.NewText(p.Name, itoa(v)))
	return nil
}

func encodeMobileTD(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	v, err := atoi(strings.TrimSpace(in.Text), 32)
	if err != nil {
		return err
	}
	if v > 0x1fffff {
		return errors.Errorf("time difference %d out of range", v)
	}
	out.Append([]byte{byte(v >> 13), byte(v >> 5), byte(v << 3)})
	return nil
}

// Mobile time difference on hyperframe level, TS 44.018 10.5.2.21aa. The
// value occupies the top 33 bits of five octets.
func decodeMobileTDHyper(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) != 5 || b[4]&0x7f != 0 {
		return errors.Errorf("malformed hyperframe time difference % x", b)
	}
	v := uint64(b[0])<<25 | uint64(b[1])<<17 | uint64(b[2])<<9 | uint64(b[3])<<1 | uint64(b[4])>>7
	out.AddChild(xmltree.NewText(p.Name, strconv.FormatUint(v, 10)))
	return nil
}

func encodeMobileTDHyper(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	v, err := strconv.ParseUint(strings.TrimSpace(in.Text), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid time difference %q", in.Text)
	}
	if v > 0x1ffffffff {
		return errors.Errorf("time difference %d out of range", v)
	}
	out.Append([]byte{byte(v >> 25), byte(v >> 17), byte(v >> 9), byte(v >> 1), byte(v << 7)})
	return nil
}
