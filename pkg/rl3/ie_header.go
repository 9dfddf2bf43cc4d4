package rl3

import (
	"strconv"

	"github.com/pkg/errors"

	"gsml3/pkg/xmltree"
)

const (
	nsdTag     = "NSD"
	tiFlagAttr = "TIFlag"
	tiExtAttr  = "extended"
	macTag     = "MAC"
	seqTag     = "SequenceNumber"
	payloadTag = "message_payload"
)

func itoa(v uint32) string { return strconv.FormatUint(uint64(v), 10) }

func atoi(s string, bitSize int) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, bitSize)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", s)
	}
	return uint32(v), nil
}

func findProtocol(pd PD) *Protocol {
	for i := range protocols {
		if protocols[i].PD == pd {
			return &protocols[i]
		}
	}
	return nil
}

func findProtocolByName(name string) *Protocol {
	for i := range protocols {
		if protocols[i].Name == name {
			return &protocols[i]
		}
	}
	return nil
}

// TS 24.007 11.2.3.1.1
func decodePD(c *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	payload := cur.Bytes()
	v, err := cur.readField(p)
	if err != nil {
		return err
	}
	pr := findProtocol(PD(v))
	if pr == nil {
		return statusErr(UnknownProto, p.Name, "protocol discriminator %d", v)
	}
	el := out.AddChild(xmltree.New(pr.Name))
	if pr.Header == nil {
		addHex(el, dataTag, cur.Rest())
		err = statusErr(UnknownProto, p.Name, "no message definitions for %s", pr.Name)
	} else {
		err = c.decodeParams(pr.PD, pr.Header, cur, el)
	}
	if c.flags&XmlDumpMsg != 0 {
		el.AddChild(xmltree.NewText(payloadTag, hexString(payload)))
	}
	return err
}

// encodePD expects in to be the protocol element itself.
func encodePD(c *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	pr := findProtocolByName(in.Tag)
	if pr == nil {
		return statusErr(UnknownProto, p.Name, "unknown protocol %q", in.Tag)
	}
	if pr.Header == nil {
		return encodeTrailing(in, out)
	}
	out.writeField(uint8(pr.PD), p)
	return c.encodeParams(pr.PD, pr.Header, in, out)
}

func hasNSD(proto PD) bool {
	switch proto {
	case GCC, BCC, LCS, MM, CC, SS:
		return true
	}
	return false
}

func decodeMsgType(c *call, proto PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.readField(p)
	if err != nil {
		return err
	}
	if hasNSD(proto) {
		if v&0x80 != 0 && (proto == GCC || proto == BCC || proto == LCS) {
			return statusErr(UnknownMsgType, p.Name, "message type 0x%02x", v)
		}
		out.AddChild(xmltree.NewText(nsdTag, itoa(uint32(v>>6))))
		v &= 0x3f
	}
	el := out.AddChild(xmltree.New(p.Name))
	m := findMessage(p.kind.ieType().msgs, v)
	if m == nil {
		el.SetAttr(typeAttr, itoa(uint32(v)))
		if cur.Len() > 0 {
			addHex(el, dataTag, cur.Rest())
		}
		return statusErr(UnknownMsgType, p.Name, "message type 0x%02x", v)
	}
	el.SetAttr(typeAttr, m.Name)
	params := m.params(c.role, false)
	if params == nil {
		if cur.Len() > 0 {
			addHex(el, dataTag, cur.Rest())
		}
		return nil
	}
	return c.decodeParams(proto, params, cur, el)
}

func encodeMsgType(c *call, proto PD, p *Param, in *xmltree.Element, out *Buffer) error {
	var v uint8
	if hasNSD(proto) {
		if s, ok := in.ChildText(nsdTag); ok && s != "" {
			n, err := atoi(s, 8)
			if err != nil {
				return err
			}
			if n > 3 || (n > 1 && (proto == GCC || proto == BCC || proto == LCS)) {
				return errors.Errorf("invalid %s %d", nsdTag, n)
			}
			v = uint8(n) << 6
		}
	}
	el := in.Child(p.Name)
	if el == nil {
		return missing(p)
	}
	typ := el.Attr(typeAttr)
	m := findMessageByName(p.kind.ieType().msgs, typ)
	if m == nil {
		n, err := atoi(typ, 8)
		if err != nil {
			return statusErr(UnknownMsgType, p.Name, "unknown message %q", typ)
		}
		out.writeField(v|uint8(n), p)
		return encodeTrailing(el, out)
	}
	out.writeField(v|m.Type, p)
	params := m.params(c.role, true)
	if params == nil {
		return encodeTrailing(el, out)
	}
	if err := c.encodeParams(proto, params, el, out); err != nil {
		return err
	}
	return encodeTrailing(el, out)
}

// TS 24.007 11.2.3.1.3
func decodeTID(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	el := out.AddChild(xmltree.New(p.Name))
	v, err := cur.readField(p)
	if err != nil {
		return err
	}
	el.SetAttr(tiFlagAttr, strconv.FormatBool(v&0x08 != 0))
	v &= 0x07
	if v != 7 {
		el.Text = itoa(uint32(v))
		return nil
	}
	ext, err := cur.Byte()
	if err != nil {
		return err
	}
	if ext&0x80 == 0 {
		return statusErr(ParserErr, p.Name, "transaction identifier extension longer than one octet")
	}
	ti := ext & 0x7f
	if ti < 7 {
		el.SetAttr(tiExtAttr, "true")
	}
	el.Text = itoa(uint32(ti))
	return nil
}

func encodeTID(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	flag, ok := in.LookupAttr(tiFlagAttr)
	if !ok {
		return errors.Errorf("missing %s attribute", tiFlagAttr)
	}
	var v uint8
	if b, err := strconv.ParseBool(flag); err != nil {
		return errors.Wrapf(err, "invalid %s", tiFlagAttr)
	} else if b {
		v = 0x08
	}
	ti, err := atoi(in.Text, 8)
	if err != nil {
		return err
	}
	if ti > 0x7f {
		return statusErr(ParserErr, p.Name, "transaction identifier %d needs more than one extension octet", ti)
	}
	if ti < 7 && in.Attr(tiExtAttr) != "true" {
		out.writeField(v|uint8(ti), p)
		return nil
	}
	out.writeField(v|0x07, p)
	out.AppendByte(0x80 | uint8(ti))
	return nil
}

// Security header types, TS 24.301 9.3.1.
const (
	plainNAS                         = 0x00
	integrityProtected               = 0x01
	integrityProtectedCiphered       = 0x02
	integrityProtectedNewCtx         = 0x03
	integrityProtectedCipheredNewCtx = 0x04
	serviceRequestHeader             = 0x0c
)

var epsMMMessagePDU = Param{Class: V, Placement: Root, Name: "Message", Bits: 8, kind: kindEPSMMMsg}

func decodeSecHeader(c *call, proto PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.readField(p)
	if err != nil {
		return err
	}
	out.AddChild(xmltree.NewText(p.Name, securityHeaders.nameOr(uint32(v), itoa(uint32(v)))))
	switch v {
	case plainNAS:
		if err := cur.need(1); err != nil {
			return err
		}
		return decodeMsgType(c, proto, &epsMMMessagePDU, cur, out)
	case integrityProtected, integrityProtectedCiphered, integrityProtectedNewCtx, integrityProtectedCipheredNewCtx:
		if err := cur.need(5); err != nil {
			return err
		}
		mac, _ := cur.Next(4)
		seq := cur.Bytes()[0]
		out.AddChild(xmltree.NewText(macTag, hexString(mac)))
		out.AddChild(xmltree.NewText(seqTag, itoa(uint32(seq))))
		if err := c.hooks.CheckIntegrity(mac, seq, cur.Bytes()); err != nil {
			return errors.Wrap(err, "integrity check")
		}
		cur.off++
		body := cur.Rest()
		if v == integrityProtectedCiphered || v == integrityProtectedCipheredNewCtx {
			if body, err = c.hooks.Decipher(seq, body); err != nil {
				return errors.Wrap(err, "decipher")
			}
		}
		return c.decodeParams(proto, rl3Message, NewCursor(body), out)
	}
	// service request and reserved headers keep their body as data
	return nil
}

func encodeSecHeader(c *call, proto PD, p *Param, in *xmltree.Element, out *Buffer) error {
	s, ok := in.ChildText(p.Name)
	if !ok {
		return missing(p)
	}
	v, ok := securityHeaders.parse(s)
	if !ok || v > 0x0f {
		return errors.Errorf("unknown security header %q", s)
	}
	out.writeField(uint8(v), p)
	switch v {
	case plainNAS:
		return encodeMsgType(c, proto, &epsMMMessagePDU, in, out)
	case integrityProtected, integrityProtectedCiphered, integrityProtectedNewCtx, integrityProtectedCipheredNewCtx:
	default:
		return encodeTrailing(in, out)
	}
	seq := c.seq
	if !c.hasSeq {
		txt, ok := in.ChildText(seqTag)
		if !ok || txt == "" {
			return statusErr(MissingMandatoryIE, seqTag, "no sequence number")
		}
		n, err := atoi(txt, 8)
		if err != nil {
			return err
		}
		seq = uint8(n)
	}
	var inner *xmltree.Element
	for _, child := range in.Children {
		if findProtocolByName(child.Tag) != nil {
			inner = child
			break
		}
	}
	if inner == nil {
		return statusErr(MissingMandatoryIE, p.Name, "no protected message")
	}
	var d Buffer
	if err := c.encodeParams(proto, rl3Message, inner, &d); err != nil {
		return err
	}
	body := d.Bytes()
	if v == integrityProtectedCiphered || v == integrityProtectedCipheredNewCtx {
		var err error
		if body, err = c.hooks.Cipher(seq, body); err != nil {
			return errors.Wrap(err, "cipher")
		}
	}
	payload := append([]byte{seq}, body...)
	mac, err := c.hooks.AddIntegrity(seq, payload)
	if err != nil {
		return errors.Wrap(err, "add integrity")
	}
	if len(mac) != 4 {
		return errors.Errorf("MAC of %d bytes", len(mac))
	}
	out.Append(mac)
	out.Append(payload)
	return nil
}

func decodeRL3Msg(c *call, proto PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	if err := cur.need(2); err != nil {
		return err
	}
	el := out.AddChild(xmltree.New(p.Name))
	return c.decodeParams(proto, rl3Message, cur, el)
}

func encodeRL3Msg(c *call, proto PD, p *Param, in *xmltree.Element, out *Buffer) error {
	inner := in.FirstChild()
	if inner == nil {
		return missing(p)
	}
	return c.encodeParams(proto, rl3Message, inner, out)
}

// intBits is the width of an integer value once tag and length octets are
// removed.
func intBits(p *Param) int {
	b := int(p.Bits)
	switch p.Class {
	case LV:
		b -= 8
	case LVE, TLV:
		b -= 16
	case TLVE:
		b -= 24
	case TV:
		if b > 8 {
			b -= 8
		}
	}
	return b
}

func decodeInt(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	var v uint32
	switch cur.Len() {
	case 1:
		b, err := cur.readField(p)
		if err != nil {
			return err
		}
		v = uint32(b)
	case 2:
		n, err := cur.Uint16(true)
		if err != nil {
			return err
		}
		v = uint32(n)
	default:
		return errors.Errorf("integer of %d bytes", cur.Len())
	}
	out.AddChild(xmltree.NewText(p.Name, itoa(v)))
	return nil
}

func encodeInt(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	v, err := atoi(in.Text, 32)
	if err != nil {
		return err
	}
	bits := intBits(p)
	minLen := p.Class == LVE || p.Class == TLV || p.Class == TLVE
	switch {
	case bits <= 8 || (minLen && v <= 0xff):
		if bits > 0 && bits < 8 && v >= 1<<uint(bits) || v > 0xff {
			return errors.Errorf("%d does not fit %d bits", v, bits)
		}
		out.writeField(uint8(v), p)
	case bits <= 16:
		if v > 0xffff {
			return errors.Errorf("%d does not fit %d bits", v, bits)
		}
		out.AppendUint16(uint16(v))
	default:
		return errors.Errorf("unsupported integer width %d", bits)
	}
	return nil
}

func decodeEnum(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.readField(p)
	if err != nil {
		return err
	}
	d := p.kind.ieType().dict
	out.AddChild(xmltree.NewText(p.Name, d.nameOr(uint32(v), itoa(uint32(v)))))
	return nil
}

func encodeEnum(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	v, ok := p.kind.ieType().dict.parse(in.Text)
	if !ok || v > 0xff {
		return errors.Errorf("unknown value %q", in.Text)
	}
	out.writeField(uint8(v), p)
	return nil
}

func decodeFlags(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.readField(p)
	if err != nil {
		return err
	}
	d := p.kind.ieType().dict
	if uint32(v)&^d.mask(d.flags(0xffffffff)) != 0 {
		return errors.Errorf("unknown flags 0x%x", v)
	}
	out.AddChild(xmltree.NewText(p.Name, d.flags(uint32(v))))
	return nil
}

func encodeFlags(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	out.writeField(uint8(p.kind.ieType().dict.mask(in.Text)), p)
	return nil
}
