package rl3

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/pkg/errors"

	"gsml3/pkg/gsm7"
	"gsml3/pkg/xmltree"
)

// TS 24.008 10.5.1.4
var mobileIdentTypes = dict{
	{"no-identity", 0},
	{"IMSI", 1},
	{"IMEI", 2},
	{"IMEISV", 3},
	{"TMSI", 4},
	{"TMGI", 5},
}

const (
	identNone   = 0
	identIMSI   = 1
	identIMEISV = 3
	identTMSI   = 4
	identTMGI   = 5
)

// decodeIdentityDigits reads the digits of an identity whose first digit
// shares the octet with the type of identity.
func decodeIdentityDigits(b []byte) (string, error) {
	odd := b[0]&0x08 != 0
	s := make([]byte, 0, 2*len(b))
	first := b[0] >> 4
	switch {
	case len(b) == 1 && first != filler:
		return "", errors.Errorf("expected filler, got 0x%x", first)
	case len(b) > 1:
		d, err := digit(decimalDigits, first)
		if err != nil {
			return "", err
		}
		s = append(s, d)
	}
	for i := 1; i < len(b); i++ {
		d, err := digit(decimalDigits, b[i]&0x0f)
		if err != nil {
			return "", err
		}
		s = append(s, d)
		hi := b[i] >> 4
		if i == len(b)-1 && !odd {
			if hi != filler {
				return "", errors.Errorf("expected filler, got 0x%x", hi)
			}
			break
		}
		if d, err = digit(decimalDigits, hi); err != nil {
			return "", err
		}
		s = append(s, d)
	}
	return string(s), nil
}

func encodeIdentityDigits(typ uint8, s string) ([]byte, error) {
	if s == "" {
		return []byte{filler<<4 | typ}, nil
	}
	b0 := typ
	if len(s)%2 == 1 {
		b0 |= 0x08
	}
	first, err := nibble(decimalDigits, s[0])
	if err != nil {
		return nil, err
	}
	rest, err := encodeBCD(s[1:], decimalDigits)
	if err != nil {
		return nil, err
	}
	return append([]byte{first<<4 | b0}, rest...), nil
}

func decodeMobileIdent(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) == 0 {
		return statusErr(MsgTooShort, p.Name, "empty identity")
	}
	typ := b[0] & 0x07
	name, ok := mobileIdentTypes.name(uint32(typ))
	if !ok {
		return errors.Errorf("unknown type of identity %d", typ)
	}
	el := out.AddChild(xmltree.New(p.Name))
	switch typ {
	case identTMSI:
		if b[0]>>4 != filler || len(b) < 2 {
			return errors.New("malformed TMSI")
		}
		el.AddChild(xmltree.NewText(name, hexString(b[1:])))
		return nil
	case identTMGI:
		return decodeTMGI(b, el)
	}
	s, err := decodeIdentityDigits(b)
	if err != nil {
		return err
	}
	el.AddChild(xmltree.NewText(name, s))
	return nil
}

func encodeMobileIdent(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	id := in.FirstChild()
	if id == nil {
		return missing(p)
	}
	typ, ok := mobileIdentTypes.value(id.Tag)
	if !ok {
		return errors.Errorf("unknown type of identity %q", id.Tag)
	}
	switch typ {
	case identTMSI:
		d, err := parseHex(id.Text)
		if err != nil {
			return err
		}
		out.AppendByte(filler<<4 | identTMSI)
		out.Append(d)
		return nil
	case identTMGI:
		return encodeTMGI(id, out)
	}
	b, err := encodeIdentityDigits(uint8(typ), strings.TrimSpace(id.Text))
	if err != nil {
		return err
	}
	out.Append(b)
	return nil
}

const (
	tmgiMCCMNC  = 0x10
	tmgiSession = 0x20
)

func decodeTMGI(b []byte, out *xmltree.Element) error {
	el := out.AddChild(xmltree.New("TMGI"))
	cur := NewCursor(b[1:])
	svc, err := cur.Next(3)
	if err != nil {
		return err
	}
	el.AddChild(xmltree.NewText("MBMSServiceID", hexString(svc)))
	if b[0]&tmgiMCCMNC != 0 {
		d, err := cur.Next(3)
		if err != nil {
			return err
		}
		s, _, err := decodePLMN(d)
		if err != nil {
			return err
		}
		el.AddChild(xmltree.NewText(plmnTag, s))
	}
	if b[0]&tmgiSession != 0 {
		sess, err := cur.Byte()
		if err != nil {
			return err
		}
		el.AddChild(xmltree.NewText("MBMSSessionIdentity", itoa(uint32(sess))))
	}
	if cur.Len() > 0 {
		return errors.Errorf("%d extra bytes in TMGI", cur.Len())
	}
	return nil
}

func encodeTMGI(in *xmltree.Element, out *Buffer) error {
	b0 := byte(identTMGI)
	plmn := in.Child(plmnTag) != nil
	if plmn {
		b0 |= tmgiMCCMNC
	}
	sess, hasSess := in.ChildText("MBMSSessionIdentity")
	if hasSess {
		b0 |= tmgiSession
	}
	out.AppendByte(b0)
	if err := writeFixedHex(in, "MBMSServiceID", 3, out); err != nil {
		return err
	}
	if plmn {
		if err := writePLMN(in, out); err != nil {
			return err
		}
	}
	if hasSess {
		v, err := atoi(sess, 8)
		if err != nil {
			return err
		}
		out.AppendByte(uint8(v))
	}
	return nil
}

// TS 24.008 10.5.1.3
func decodeLAI(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	if cur.Len() != 5 {
		return errors.Errorf("LAI of %d bytes", cur.Len())
	}
	el := out.AddChild(xmltree.New(p.Name))
	return readLAI(cur, el)
}

func readLAI(cur *Cursor, el *xmltree.Element) error {
	if err := readPLMN(cur, el); err != nil {
		return err
	}
	lac, err := cur.Next(2)
	if err != nil {
		return err
	}
	el.AddChild(xmltree.NewText("LAC", hexString(lac)))
	return nil
}

func encodeLAI(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	return writeLAI(in, out)
}

func writeLAI(in *xmltree.Element, out *Buffer) error {
	if err := writePLMN(in, out); err != nil {
		return err
	}
	return writeFixedHex(in, "LAC", 2, out)
}

// writeFixedHex appends the hex text of the child tag, which must hold n
// bytes.
func writeFixedHex(in *xmltree.Element, tag string, n int, out *Buffer) error {
	s, ok := in.ChildText(tag)
	if !ok {
		return statusErr(MissingMandatoryIE, tag, "not present")
	}
	d, err := parseHex(s)
	if err != nil {
		return err
	}
	if len(d) != n {
		return errors.Errorf("%s of %d bytes, expected %d", tag, len(d), n)
	}
	out.Append(d)
	return nil
}

// TS 24.008 10.5.5.15
func decodeRAI(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	if cur.Len() != 6 {
		return errors.Errorf("RAI of %d bytes", cur.Len())
	}
	el := out.AddChild(xmltree.New(p.Name))
	if err := readLAI(cur, el); err != nil {
		return err
	}
	rac, _ := cur.Next(1)
	el.AddChild(xmltree.NewText("RAC", hexString(rac)))
	return nil
}

func encodeRAI(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	if err := writeLAI(in, out); err != nil {
		return err
	}
	return writeFixedHex(in, "RAC", 1, out)
}

// TS 24.008 10.5.1.13
func decodePLMNList(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	if cur.Len()%3 != 0 {
		return errors.Errorf("PLMN list of %d bytes", cur.Len())
	}
	el := out.AddChild(xmltree.New(p.Name))
	for cur.Len() > 0 {
		b, _ := cur.Next(3)
		s, _, err := decodePLMN(b)
		if err != nil {
			return err
		}
		el.AddChild(xmltree.NewText(plmnTag, s))
	}
	return nil
}

func encodePLMNList(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	for _, child := range in.Children {
		if child.Tag != plmnTag {
			continue
		}
		b, err := encodePLMN(strings.TrimSpace(child.Text))
		if err != nil {
			return err
		}
		out.Append(b)
	}
	return nil
}

// TS 24.008 10.5.3.5
var locUpdTypes = dict{
	{"normal-location-updating", 0},
	{"periodic-updating", 1},
	{"IMSI-attach", 2},
	{"reserved", 3},
}

func decodeLocUpdType(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.readField(p)
	if err != nil {
		return err
	}
	el := out.AddChild(xmltree.New(p.Name))
	el.AddChild(xmltree.NewText("FOR", strconv.FormatBool(v&0x08 != 0)))
	el.AddChild(xmltree.NewText("LUT", locUpdTypes.nameOr(uint32(v&0x03), "")))
	return nil
}

func encodeLocUpdType(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	return encodeBitFields(in, out, []bitField{
		{tag: "FOR", mask: 0x08, bool: true},
		{tag: "LUT", mask: 0x03, dict: locUpdTypes},
	}, p)
}

// bitField maps a child element, or an attribute, onto bits of a single
// octet value.
type bitField struct {
	tag   string
	mask  uint8
	shift uint8
	dict  dict
	bool  bool
	attr  bool
	def   uint8
}

func (f bitField) decode(v uint8) string {
	x := (v & f.mask) >> f.shift
	if f.bool {
		return strconv.FormatBool(x != 0)
	}
	return f.dict.nameOr(uint32(x), itoa(uint32(x)))
}

func (f bitField) encode(s string, present bool) (uint8, error) {
	x := f.def
	if present {
		switch {
		case f.bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return 0, errors.Wrapf(err, "invalid %s", f.tag)
			}
			x = 0
			if b {
				x = 1
			}
		default:
			v, ok := f.dict.parse(s)
			if !ok {
				return 0, errors.Errorf("invalid %s %q", f.tag, s)
			}
			x = uint8(v)
		}
	}
	v := x << f.shift
	if v&^f.mask != 0 || v>>f.shift != x {
		return 0, errors.Errorf("%s %q out of range", f.tag, s)
	}
	return v, nil
}

func decodeBitFields(v uint8, out *xmltree.Element, fields []bitField) {
	for _, f := range fields {
		if f.attr {
			out.SetAttr(f.tag, f.decode(v))
			continue
		}
		out.AddChild(xmltree.NewText(f.tag, f.decode(v)))
	}
}

// packBitFields builds an octet from the children of in. Missing children
// take the field default.
func packBitFields(in *xmltree.Element, fields []bitField) (uint8, error) {
	var v uint8
	for _, f := range fields {
		s, ok := in.ChildText(f.tag)
		if f.attr {
			s, ok = in.LookupAttr(f.tag)
		}
		x, err := f.encode(strings.TrimSpace(s), ok)
		if err != nil {
			return 0, err
		}
		v |= x
	}
	return v, nil
}

func encodeBitFields(in *xmltree.Element, out *Buffer, fields []bitField, p *Param) error {
	v, err := packBitFields(in, fields)
	if err != nil {
		return err
	}
	out.writeField(v, p)
	return nil
}

// TS 24.008 10.5.1.5
var (
	rfPowerCapabs = dict{
		{"class1", 0},
		{"class2", 1},
		{"class3", 2},
		{"class4", 3},
		{"class5", 4},
		{"irrelevant", 7},
	}
	revisionLevels = dict{
		{"GSM-phase1", 0},
		{"GSM-phase2", 1},
		{"R99-or-later", 2},
		{"reserved", 3},
	}
	classmarkFlags = dict{
		{"no-A5/1", 0x08},
		{"ES-IND", 0x10},
	}
	classmark2Flags2 = dict{
		{"E-GSM-and-R-GSM-support", 0x01},
		{"VGCS-capability", 0x02},
		{"VBS-capability", 0x04},
		{"MT-sms-point-to-point-capability", 0x08},
		{"pseudo-sync-capability", 0x40},
	}
	classmark2Flags3 = dict{
		{"A5/2-support", 0x01},
		{"A5/3-support", 0x02},
		{"CMSP-support", 0x04},
		{"SoLSA-support", 0x08},
		{"no-preference-between-default-alphabet-and-UCS2", 0x10},
		{"LCS-VA-support", 0x20},
		{"CM3-support", 0x80},
	}
	ssScreeningIndicators = dict{
		{"phase1", 0},
		{"ellipsis-notation-and-phase2-error-handling", 1},
	}
)

var classmarkOctet1 = []bitField{
	{tag: "RFPowerCapability", mask: 0x07, dict: rfPowerCapabs},
	{tag: "RevisionLevel", mask: 0x60, shift: 5, dict: revisionLevels},
}

var ssScreening = bitField{tag: "SSScreeningIndicator", mask: 0x30, shift: 4, dict: ssScreeningIndicators}

const flagsTag = "Flags"

func joinFlags(parts ...string) string {
	var out []string
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ",")
}

func decodeMSClassmark1(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.Byte()
	if err != nil {
		return err
	}
	if v&0x80 != 0 {
		return errors.New("spare bit set in classmark 1")
	}
	el := out.AddChild(xmltree.New(p.Name))
	decodeBitFields(v, el, classmarkOctet1)
	el.AddChild(xmltree.NewText(flagsTag, classmarkFlags.flags(uint32(v))))
	return nil
}

func encodeMSClassmark1(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	v, err := packBitFields(in, classmarkOctet1)
	if err != nil {
		return err
	}
	s, _ := in.ChildText(flagsTag)
	out.AppendByte(v | uint8(classmarkFlags.mask(s)))
	return nil
}

func decodeMSClassmark2(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) != 3 {
		return errors.Errorf("classmark 2 of %d bytes", len(b))
	}
	if b[0]&0x80 != 0 || b[1]&0x80 != 0 || b[2]&0x40 != 0 {
		return errors.New("spare bit set in classmark 2")
	}
	el := out.AddChild(xmltree.New(p.Name))
	decodeBitFields(b[0], el, classmarkOctet1)
	el.AddChild(xmltree.NewText(ssScreening.tag, ssScreening.decode(b[1])))
	el.AddChild(xmltree.NewText(flagsTag, joinFlags(
		classmarkFlags.flags(uint32(b[0])),
		classmark2Flags2.flags(uint32(b[1])),
		classmark2Flags3.flags(uint32(b[2])))))
	return nil
}

func encodeMSClassmark2(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	o1, err := packBitFields(in, classmarkOctet1)
	if err != nil {
		return err
	}
	o2, err := packBitFields(in, []bitField{ssScreening})
	if err != nil {
		return err
	}
	s, _ := in.ChildText(flagsTag)
	out.AppendByte(o1 | uint8(classmarkFlags.mask(s)))
	out.AppendByte(o2 | uint8(classmark2Flags2.mask(s)))
	out.AppendByte(uint8(classmark2Flags3.mask(s)))
	return nil
}

// TS 24.008 10.5.1.10a
func decodePDAndSAPI(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.Byte()
	if err != nil {
		return err
	}
	el := out.AddChild(xmltree.New(p.Name))
	el.AddChild(xmltree.NewText("PD", PD(v&0x0f).String()))
	el.AddChild(xmltree.NewText("SAPI", itoa(uint32(v&0x30)>>4)))
	return nil
}

func encodePDAndSAPI(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	return encodeBitFields(in, out, []bitField{
		{tag: "PD", mask: 0x0f, dict: protoNames},
		{tag: "SAPI", mask: 0x30, shift: 4},
	}, p)
}

// GPRS timer 3, TS 24.008 10.5.7.4a
var timerUnits = dict{
	{"2-seconds", 0x00},
	{"1-minute", 0x20},
	{"decihours", 0x40},
	{"deactivated", 0xe0},
}

const unitAttr = "unit"

func decodeMMTimer(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.Byte()
	if err != nil {
		return err
	}
	unit, ok := timerUnits.name(uint32(v & 0xe0))
	if !ok {
		return errors.Errorf("unknown timer unit 0x%02x", v&0xe0)
	}
	el := out.AddChild(xmltree.NewText(p.Name, itoa(uint32(v&0x1f))))
	el.SetAttr(unitAttr, unit)
	return nil
}

func encodeMMTimer(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	v, err := atoi(strings.TrimSpace(in.Text), 8)
	if err != nil {
		return err
	}
	if v > 0x1f {
		return errors.Errorf("timer value %d out of range", v)
	}
	unit := uint32(0x20)
	if s, ok := in.LookupAttr(unitAttr); ok {
		if unit, ok = timerUnits.value(s); !ok {
			return errors.Errorf("unknown timer unit %q", s)
		}
	}
	out.AppendByte(uint8(unit | v))
	return nil
}

// Network name, TS 24.008 10.5.3.5a
var nameCodings = dict{
	{"gsm7", 0},
	{"ucs2", 1},
}

const (
	codingAttr = "coding"
	ciAttr     = "addCI"
)

func decodeNetworkName(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) == 0 {
		return errors.New("empty network name")
	}
	coding, ok := nameCodings.name(uint32(b[0]>>4) & 0x07)
	if !ok || b[0]&0x80 == 0 {
		return errors.Errorf("unsupported network name coding 0x%02x", b[0])
	}
	text := b[1:]
	var s string
	if coding == "gsm7" {
		spare := int(b[0] & 0x07)
		septets := (len(text)*8 - spare) / 7
		if gsm7.SpareBits(septets) != spare {
			return errors.Errorf("%d spare bits for %d characters", spare, septets)
		}
		s = gsm7.Decode(gsm7.Unpack(text, septets))
	} else {
		if len(text)%2 != 0 || b[0]&0x07 != 0 {
			return errors.New("malformed UCS2 network name")
		}
		u := make([]uint16, len(text)/2)
		for i := range u {
			u[i] = uint16(text[2*i])<<8 | uint16(text[2*i+1])
		}
		s = string(utf16.Decode(u))
	}
	el := out.AddChild(xmltree.NewText(p.Name, s))
	el.SetAttr(codingAttr, coding)
	el.SetAttr(ciAttr, strconv.FormatBool(b[0]&0x08 != 0))
	return nil
}

func encodeNetworkName(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	b0 := byte(0x80)
	if ci, ok := in.LookupAttr(ciAttr); ok {
		v, err := strconv.ParseBool(ci)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", ciAttr)
		}
		if v {
			b0 |= 0x08
		}
	}
	if in.Attr(codingAttr) == "ucs2" {
		out.AppendByte(b0 | 0x10)
		for _, u := range utf16.Encode([]rune(in.Text)) {
			out.AppendUint16(u)
		}
		return nil
	}
	septets, err := gsm7.Encode(in.Text)
	if err != nil {
		return err
	}
	out.AppendByte(b0 | byte(gsm7.SpareBits(len(septets))))
	out.Append(gsm7.Pack(septets))
	return nil
}

// TS 24.301 9.9.3.32
func decodeTAI(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	if cur.Len() < 5 {
		return errors.Errorf("TAI of %d bytes", cur.Len())
	}
	el := out.AddChild(xmltree.New(p.Name))
	if err := readPLMN(cur, el); err != nil {
		return err
	}
	el.AddChild(xmltree.NewText("TAC", hexString(cur.Rest())))
	return nil
}

func encodeTAI(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	if err := writePLMN(in, out); err != nil {
		return err
	}
	s, ok := in.ChildText("TAC")
	if !ok {
		return statusErr(MissingMandatoryIE, "TAC", "not present")
	}
	d, err := parseHex(s)
	if err != nil {
		return err
	}
	if len(d) < 2 {
		return errors.Errorf("TAC of %d bytes", len(d))
	}
	out.Append(d)
	return nil
}
