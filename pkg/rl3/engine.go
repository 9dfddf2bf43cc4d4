package rl3

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"gsml3/pkg/xmltree"
)

func hexString(b []byte) string { return hex.EncodeToString(b) }

// addHex appends an element holding b in hex. Empty values produce an empty
// element without the enc attribute.
func addHex(out *xmltree.Element, tag string, b []byte) *xmltree.Element {
	el := out.AddChild(xmltree.New(tag))
	if len(b) > 0 {
		el.Text = hexString(b)
		el.SetAttr(encAttr, "hex")
	}
	return el
}

// dumpHex is addHex for values kept after a failed decode. The enc attribute
// is set even for empty values so that encoding writes them back verbatim.
func dumpHex(out *xmltree.Element, tag string, b []byte) {
	addHex(out, tag, b).SetAttr(encAttr, "hex")
}

func parseHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex %q", s)
	}
	return b, nil
}

func missing(p *Param) error {
	return statusErr(MissingMandatoryIE, p.Name, "not present")
}

// tagMatches reports whether the octet at cur carries the parameter's IEI.
// Single octet TV fields hold the IEI in the high nibble.
func tagMatches(p *Param, cur *Cursor) bool {
	b, err := cur.Peek()
	if err != nil {
		return false
	}
	if p.Class == TV && p.Bits == 8 {
		return b&0xf0 == p.IEI
	}
	return b == p.IEI
}

// absent handles a tag mismatch. Nothing is consumed.
func absent(p *Param) error {
	if p.Optional {
		return nil
	}
	return missing(p)
}

// lvSpan returns the size of the tag and length octets and the value length
// of a length prefixed parameter, without consuming anything.
func lvSpan(p *Param, cur *Cursor) (hdr, l int, err error) {
	ext := p.Class == LVE || p.Class == TLVE
	hdr = 1
	if ext {
		hdr = 2
	}
	if p.Class == TLV || p.Class == TLVE {
		hdr++
	}
	if err = cur.need(hdr); err != nil {
		return 0, 0, err
	}
	b := cur.Bytes()
	if ext {
		l = int(b[hdr-2])<<8 | int(b[hdr-1])
	} else {
		l = int(b[hdr-1])
	}
	if l > cur.Len()-hdr {
		return 0, 0, statusErr(MsgTooShort, p.Name, "length %d exceeds the %d remaining bytes", l, cur.Len()-hdr)
	}
	return hdr, l, nil
}

// decodeParams decodes params in order from cur, adding the resulting
// elements to out. Optional parameters that fail are kept in hex form and
// reported; the first mandatory failure stops the list.
func (c *call) decodeParams(proto PD, params []Param, cur *Cursor, out *xmltree.Element) error {
	for i := range params {
		p := &params[i]
		if cur.Len() == 0 {
			if p.Optional {
				continue
			}
			return statusErr(MsgTooShort, p.Name, "no data left")
		}
		if !p.Optional {
			if err := c.decodeParam(proto, p, cur, out); err != nil {
				e := fold(p, err)
				c.log.WithError(e).Debug("decoding mandatory IE failed")
				return e
			}
			continue
		}
		start := len(out.Children)
		trial := *cur
		err := c.decodeParam(proto, p, &trial, out)
		if err == nil {
			*cur = trial
			continue
		}
		out.Children = out.Children[:start]
		c.tolerate(fold(p, err))
		if err := c.dumpParamValue(p, cur, out); err != nil {
			// the value cannot be delimited, leave the rest to dumpRest
			if m := firstMandatory(params[i+1:]); m != nil {
				return statusErr(MsgTooShort, m.Name, "not reached after %s", p.Name)
			}
			break
		}
	}
	if cur.Len() > 0 {
		c.dumpRest(proto, cur, out)
	}
	return nil
}

func firstMandatory(params []Param) *Param {
	for i := range params {
		if !params[i].Optional {
			return &params[i]
		}
	}
	return nil
}

func (c *call) decodeParam(proto PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	switch p.Class {
	case V:
		return c.decodeV(proto, p, cur, out)
	case T:
		if !tagMatches(p, cur) {
			return absent(p)
		}
		cur.off++
		out.AddChild(xmltree.New(p.Name))
		return nil
	case TV:
		return c.decodeTV(proto, p, cur, out)
	case LV, LVE, TLV, TLVE:
		return c.decodeLV(proto, p, cur, out)
	}
	return statusErr(ParserErr, p.Name, "unsupported class %s", p.Class)
}

func (c *call) decodeV(proto PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	if cur.Len()*8 < int(p.Bits) {
		return statusErr(MsgTooShort, p.Name, "need %d bits, have %d bytes", p.Bits, cur.Len())
	}
	if p.Placement == Skip {
		return skipParam(p, cur)
	}
	t := p.kind.ieType()
	if t.decode == nil {
		if p.Bits > 0 && p.Bits <= 8 {
			return decodeDictValue(p, t, cur, out)
		}
		return c.dumpParamValue(p, cur, out)
	}
	if p.Placement == Root || t.shared {
		return t.decode(c, proto, p, cur, out)
	}
	n := int(p.Bits) / 8
	switch {
	case p.Bits == 0:
		n = cur.Len()
	case p.Bits <= 8:
		n = 1
	}
	view := NewCursor(cur.Bytes()[:n])
	if !(p.Bits < 8 && p.LowerBits) {
		cur.off += n
	}
	return t.decode(c, proto, p, view, out)
}

func (c *call) decodeTV(proto PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	if !tagMatches(p, cur) {
		return absent(p)
	}
	if cur.Len()*8 < int(p.Bits) {
		return errors.Errorf("need %d bits, have %d bytes", p.Bits, cur.Len())
	}
	t := p.kind.ieType()
	if t.decode == nil {
		if p.Bits <= 8 {
			return decodeDictValue(p, t, cur, out)
		}
		return c.dumpParamValue(p, cur, out)
	}
	skip := 1
	if p.Bits == 8 {
		skip = 0
	}
	b, err := cur.Next(int(p.Bits) / 8)
	if err != nil {
		return err
	}
	return t.decode(c, proto, p, NewCursor(b[skip:]), out)
}

func (c *call) decodeLV(proto PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	if (p.Class == TLV || p.Class == TLVE) && !tagMatches(p, cur) {
		return absent(p)
	}
	hdr, l, err := lvSpan(p, cur)
	if err != nil {
		return err
	}
	t := p.kind.ieType()
	if t.decode != nil && p.Bits > 0 && (l+hdr)*8 > int(p.Bits) {
		return errors.Errorf("length %d exceeds %d bits", l, p.Bits)
	}
	b, err := cur.Next(hdr + l)
	if err != nil {
		return err
	}
	if t.decode == nil {
		addHex(out, p.Name, b[hdr:])
		return nil
	}
	return t.decode(c, proto, p, NewCursor(b[hdr:]), out)
}

// decodeDictValue handles single octet values without a dedicated decoder.
func decodeDictValue(p *Param, t *ieType, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.readField(p)
	if err != nil {
		return err
	}
	if name, ok := t.dict.name(uint32(v)); ok {
		out.AddChild(xmltree.NewText(p.Name, name))
		return nil
	}
	addHex(out, p.Name, []byte{v})
	return nil
}

func skipParam(p *Param, cur *Cursor) error {
	switch p.Class {
	case V, T, TV:
		if p.Bits == 4 {
			if !p.LowerBits {
				return cur.Skip(1)
			}
			return nil
		}
		return cur.Skip(int(p.Bits) / 8)
	case LV, LVE, TLV, TLVE:
		hdr, l, err := lvSpan(p, cur)
		if err != nil {
			return err
		}
		return cur.Skip(hdr + l)
	}
	return nil
}

// dumpParamValue consumes the parameter at cur and stores its value octets
// in hex. Nibble fields keep the nibble value.
func (c *call) dumpParamValue(p *Param, cur *Cursor, out *xmltree.Element) error {
	switch {
	case p.Class == T:
		if err := cur.Skip(1); err != nil {
			return err
		}
		out.AddChild(xmltree.New(p.Name))
		return nil
	case p.Class == V && p.Bits == 4, p.Class == TV && p.Bits == 8:
		v, err := cur.readField(p)
		if err != nil {
			return err
		}
		dumpHex(out, p.Name, []byte{v})
		return nil
	case p.Class == V:
		n := int(p.Bits) / 8
		if p.Bits == 0 {
			n = cur.Len()
		}
		b, err := cur.Next(n)
		if err != nil {
			return err
		}
		dumpHex(out, p.Name, b)
		return nil
	case p.Class == TV:
		b, err := cur.Next(int(p.Bits) / 8)
		if err != nil {
			return err
		}
		dumpHex(out, p.Name, b[1:])
		return nil
	}
	hdr, l, err := lvSpan(p, cur)
	if err != nil {
		return err
	}
	b, err := cur.Next(hdr + l)
	if err != nil {
		return err
	}
	dumpHex(out, p.Name, b[hdr:])
	return nil
}

// unknownIELen guesses the size of an IE from its identifier. Bit 8 set
// means a single octet IE, EPS IEIs with bits 4 to 7 set are TLV-E, anything
// else is TLV.
func unknownIELen(proto PD, b []byte) int {
	iei := b[0]
	if iei&0x80 != 0 || len(b) < 2 {
		return len(b)
	}
	n := int(b[1]) + 2
	if (proto == EPSMM || proto == EPSSM) && iei&0x78 == 0x78 {
		if len(b) < 3 {
			return len(b)
		}
		n = (int(b[1])<<8 | int(b[2])) + 3
	}
	if n > len(b) {
		return len(b)
	}
	return n
}

// dumpRest stores the unparsed octets at the end of a message.
func (c *call) dumpRest(proto PD, cur *Cursor, out *xmltree.Element) {
	if c.flags&XmlDumpIEs == 0 {
		addHex(out, dataTag, cur.Rest())
		return
	}
	for cur.Len() > 0 {
		b, _ := cur.Next(unknownIELen(proto, cur.Bytes()))
		addHex(out, ieTag, b)
	}
}

// encodeParams writes params from the children of in. Failed optional
// parameters are dropped, mandatory failures are reported after the whole
// list was attempted.
func (c *call) encodeParams(proto PD, params []Param, in *xmltree.Element, out *Buffer) error {
	var last error
	for i := range params {
		p := &params[i]
		mark := out.Len()
		err := c.encodeParam(proto, p, in, out)
		if err == nil {
			continue
		}
		e := fold(p, err)
		if p.Optional {
			out.Truncate(mark)
			c.tolerate(e)
			continue
		}
		c.log.WithError(e).Debug("encoding mandatory IE failed")
		last = e
	}
	return last
}

func (c *call) encodeParam(proto PD, p *Param, in *xmltree.Element, out *Buffer) error {
	if p.Placement == Skip {
		out.writeField(p.IEI, p)
		return nil
	}
	t := p.kind.ieType()
	if p.Placement == Root {
		if t.encode == nil {
			return statusErr(ParserErr, p.Name, "no encoder")
		}
		return t.encode(c, proto, p, in, out)
	}
	child := in.Child(p.Name)
	if child == nil {
		switch {
		case p.Optional:
			return nil
		case t.def != "":
			child = xmltree.NewText(p.Name, t.def)
		default:
			return missing(p)
		}
	}
	if child.Attr(encAttr) == "hex" || p.Class == T {
		return encodeHexParam(p, child, out)
	}
	if t.encode == nil {
		if p.Bits > 0 && p.Bits <= 8 && (p.Class == V || p.Class == TV) {
			return encodeDictValue(p, t, child, out)
		}
		return encodeHexParam(p, child, out)
	}
	if p.Class == V {
		return t.encode(c, proto, p, child, out)
	}
	var d Buffer
	if err := t.encode(c, proto, p, child, &d); err != nil {
		return err
	}
	if d.Len() == 0 && p.Optional {
		return nil
	}
	return writeValue(p, d.Bytes(), out)
}

func encodeDictValue(p *Param, t *ieType, child *xmltree.Element, out *Buffer) error {
	v, ok := t.dict.parse(child.Text)
	if !ok || v > 0xff {
		return errors.Errorf("unknown value %q", child.Text)
	}
	if p.Class == TV {
		out.AppendByte(p.IEI | uint8(v)&0x0f)
		return nil
	}
	out.writeField(uint8(v), p)
	return nil
}

// encodeHexParam writes a parameter whose value is held in hex.
func encodeHexParam(p *Param, child *xmltree.Element, out *Buffer) error {
	if p.Class == T {
		out.AppendByte(p.IEI)
		return nil
	}
	d, err := parseHex(child.Text)
	if err != nil {
		return err
	}
	switch p.Class {
	case V:
		if len(d) == 0 {
			return missing(p)
		}
		if p.Bits > 0 && p.Bits <= 8 {
			out.writeField(d[0], p)
			return nil
		}
		out.Append(d)
		return nil
	case TV:
		if len(d) == 0 {
			return missing(p)
		}
		if p.Bits == 8 {
			out.AppendByte(p.IEI | d[0]&0x0f)
			return nil
		}
	}
	return writeValue(p, d, out)
}

// writeValue adds the tag and length octets the class requires before d.
func writeValue(p *Param, d []byte, out *Buffer) error {
	switch p.Class {
	case TV:
		if p.Bits == 8 {
			if len(d) == 0 {
				return missing(p)
			}
			out.AppendByte(p.IEI | d[0]&0x0f)
			return nil
		}
		out.AppendByte(p.IEI)
	case TLV, TLVE:
		out.AppendByte(p.IEI)
	}
	switch p.Class {
	case LV, TLV:
		if len(d) > 0xff {
			return errors.Errorf("value of %d bytes does not fit a length octet", len(d))
		}
		out.AppendByte(byte(len(d)))
	case LVE, TLVE:
		if len(d) > 0xffff {
			return errors.Errorf("value of %d bytes does not fit an extended length", len(d))
		}
		out.AppendUint16(uint16(len(d)))
	}
	out.Append(d)
	return nil
}

// encodeTrailing writes back the unknown IEs and trailing data kept by
// dumpRest.
func encodeTrailing(in *xmltree.Element, out *Buffer) error {
	for _, child := range in.Children {
		if child.Tag != ieTag && child.Tag != dataTag {
			continue
		}
		d, err := parseHex(child.Text)
		if err != nil {
			return err
		}
		out.Append(d)
	}
	return nil
}
