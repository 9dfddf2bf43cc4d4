package rl3

import (
	"strings"

	"github.com/pkg/errors"

	"gsml3/pkg/xmltree"
)

// NAS key set identifier, TS 24.301 9.9.3.21
var securityContexts = dict{
	{"native-security-context-for-KSI_ASME", 0},
	{"mapped-security-context-for-KSI_SGSN", 1},
}

var nasKeySetFields = []bitField{
	{tag: "TSC", mask: 0x08, shift: 3, dict: securityContexts},
	{tag: "NASKeySetId", mask: 0x07},
}

func decodeNASKeySetID(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	v, err := cur.readField(p)
	if err != nil {
		return err
	}
	decodeBitFields(v, out.AddChild(xmltree.New(p.Name)), nasKeySetFields)
	return nil
}

func encodeNASKeySetID(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	return encodeBitFields(in, out, nasKeySetFields, p)
}

// EPS mobile identity, TS 24.301 9.9.3.12
var epsIdentTypes = dict{
	{"IMSI", 1},
	{"IMEI", 3},
	{"GUTI", 6},
}

const (
	epsIdentGUTI = 6
	gutiLen      = 11
)

func decodeEPSMobileIdent(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) == 0 {
		return statusErr(MsgTooShort, p.Name, "empty identity")
	}
	typ := b[0] & 0x07
	name, ok := epsIdentTypes.name(uint32(typ))
	if !ok {
		return errors.Errorf("unknown type of identity %d", typ)
	}
	el := xmltree.New(p.Name)
	if typ != epsIdentGUTI {
		s, err := decodeIdentityDigits(b)
		if err != nil {
			return err
		}
		el.AddChild(xmltree.NewText(name, s))
		out.AddChild(el)
		return nil
	}
	if len(b) != gutiLen || b[0]>>4 != filler {
		return errors.Errorf("malformed GUTI of %d bytes", len(b))
	}
	cur = NewCursor(b[1:])
	guti := el.AddChild(xmltree.New(name))
	if err := readPLMN(cur, guti); err != nil {
		return err
	}
	group, _ := cur.Uint16(true)
	code, _ := cur.Byte()
	guti.AddChild(xmltree.NewText("MMEGroupID", itoa(uint32(group))))
	guti.AddChild(xmltree.NewText("MMECode", itoa(uint32(code))))
	guti.AddChild(xmltree.NewText("M_TMSI", hexString(cur.Rest())))
	out.AddChild(el)
	return nil
}

func encodeEPSMobileIdent(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	id := in.FirstChild()
	if id == nil {
		return missing(p)
	}
	typ, ok := epsIdentTypes.value(id.Tag)
	if !ok {
		return errors.Errorf("unknown type of identity %q", id.Tag)
	}
	if typ != epsIdentGUTI {
		b, err := encodeIdentityDigits(uint8(typ), strings.TrimSpace(id.Text))
		if err != nil {
			return err
		}
		out.Append(b)
		return nil
	}
	out.AppendByte(filler<<4 | epsIdentGUTI)
	if err := writePLMN(id, out); err != nil {
		return err
	}
	group, err := atoi(strings.TrimSpace(textOf(id, "MMEGroupID")), 16)
	if err != nil {
		return err
	}
	code, err := atoi(strings.TrimSpace(textOf(id, "MMECode")), 8)
	if err != nil {
		return err
	}
	out.AppendUint16(uint16(group))
	out.AppendByte(uint8(code))
	return writeFixedHex(id, "M_TMSI", 4, out)
}

func textOf(el *xmltree.Element, tag string) string {
	s, _ := el.ChildText(tag)
	return s
}

// UE network capability, TS 24.301 9.9.3.34. The first two octets are
// mandatory, up to three more may follow.
var (
	ueCapabMandatory = dict{
		{"EEA0", 0x8000},
		{"128-EEA1", 0x4000},
		{"128-EEA2", 0x2000},
		{"128-EEA3", 0x1000},
		{"EEA4", 0x0800},
		{"EEA5", 0x0400},
		{"EEA6", 0x0200},
		{"EEA7", 0x0100},
		{"EIA0", 0x0080},
		{"128-EIA1", 0x0040},
		{"128-EIA2", 0x0020},
		{"128-EIA3", 0x0010},
		{"EIA4", 0x0008},
		{"EIA5", 0x0004},
		{"EIA6", 0x0002},
		{"EIA7", 0x0001},
	}
	ueCapabOptional = dict{
		{"UEA0", 0x000080},
		{"UEA1", 0x000040},
		{"UEA2", 0x000020},
		{"UEA3", 0x000010},
		{"UEA4", 0x000008},
		{"UEA5", 0x000004},
		{"UEA6", 0x000002},
		{"UEA7", 0x000001},
		{"UCS2", 0x008000},
		{"UIA1", 0x004000},
		{"UIA2", 0x002000},
		{"UIA3", 0x001000},
		{"UIA4", 0x000800},
		{"UIA5", 0x000400},
		{"UIA6", 0x000200},
		{"UIA7", 0x000100},
		{"NF", 0x010000},
		{"1xSRVCC", 0x020000},
		{"LCS", 0x040000},
		{"LPP", 0x080000},
		{"ACC-CSFB", 0x100000},
		{"H.245-ASH", 0x200000},
	}
)

const (
	lengthAttr = "length"
	spareAttr  = "spare"
	// optional octets with a defined meaning
	ueCapabOptOctets = 3
)

func optOctets(mask uint32) int {
	n := 0
	for mask != 0 {
		n++
		mask >>= 8
	}
	return n
}

func decodeUENetworkCapab(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) < 2 {
		return errors.Errorf("UE network capability of %d bytes", len(b))
	}
	mand := uint32(b[0])<<8 | uint32(b[1])
	var opt uint32
	n := 0
	for ; n < ueCapabOptOctets && 2+n < len(b); n++ {
		opt |= uint32(b[2+n]) << (8 * uint(n))
	}
	if known := ueCapabOptional.mask(ueCapabOptional.flags(0xffffff)); opt&^known != 0 {
		return errors.Errorf("unknown capabilities 0x%06x", opt&^known)
	}
	el := out.AddChild(xmltree.NewText(p.Name, joinFlags(
		ueCapabMandatory.flags(mand), ueCapabOptional.flags(opt))))
	if n != optOctets(opt) {
		el.SetAttr(lengthAttr, itoa(uint32(2+n)))
	}
	if len(b) > 2+ueCapabOptOctets {
		el.SetAttr(spareAttr, hexString(b[2+ueCapabOptOctets:]))
	}
	return nil
}

func encodeUENetworkCapab(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	var mand, opt uint32
	for _, f := range strings.Split(in.Text, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if v, ok := ueCapabMandatory.value(f); ok {
			mand |= v
		} else if v, ok := ueCapabOptional.value(f); ok {
			opt |= v
		} else {
			return errors.Errorf("unknown capability %q", f)
		}
	}
	n := optOctets(opt)
	if s, ok := in.LookupAttr(lengthAttr); ok {
		l, err := atoi(s, 8)
		if err != nil {
			return err
		}
		if int(l) < 2+n || int(l) > 2+ueCapabOptOctets {
			return errors.Errorf("length %d does not fit the capabilities", l)
		}
		n = int(l) - 2
	}
	out.AppendUint16(uint16(mand))
	for i := 0; i < n; i++ {
		out.AppendByte(uint8(opt >> (8 * uint(i))))
	}
	if s, ok := in.LookupAttr(spareAttr); ok {
		if n != ueCapabOptOctets {
			return errors.New("spare octets after a short capability")
		}
		d, err := parseHex(s)
		if err != nil {
			return err
		}
		out.Append(d)
	}
	return nil
}

// DRX parameter, TS 24.008 10.5.5.6
var (
	splitPGCycles = dict{
		{"704", 0},
		{"71", 65},
		{"72", 66},
		{"74", 67},
		{"75", 68},
		{"77", 69},
		{"79", 70},
		{"80", 71},
		{"83", 72},
		{"86", 73},
		{"88", 74},
		{"90", 75},
		{"92", 76},
		{"96", 77},
		{"101", 78},
		{"103", 79},
		{"107", 80},
		{"112", 81},
		{"116", 82},
		{"118", 83},
		{"128", 84},
		{"141", 85},
		{"144", 86},
		{"150", 87},
		{"160", 88},
		{"171", 89},
		{"176", 90},
		{"192", 91},
		{"214", 92},
		{"224", 93},
		{"235", 94},
		{"256", 95},
		{"288", 96},
		{"320", 97},
		{"352", 98},
	}
	nonDRXTimers = dict{
		{"no-non-DRX-mode", 0},
		{"max-1-sec-non-DRX-mode", 1},
		{"max-2-sec-non-DRX-mode", 2},
		{"max-4-sec-non-DRX-mode", 3},
		{"max-8-sec-non-DRX-mode", 4},
		{"max-16-sec-non-DRX-mode", 5},
		{"max-32-sec-non-DRX-mode", 6},
		{"max-64-sec-non-DRX-mode", 7},
	}
	drxCycleLengths = dict{
		{"not-specified-by-the-MS", 0},
		{"coefficient-6-and-T", 6},
		{"coefficient-7-and-T", 7},
		{"coefficient-8-and-T", 8},
		{"coefficient-9-and-T", 9},
	}
)

const (
	splitPGTag    = "SplitPGCycleCode"
	maxSplitPG    = 98
	maxPlainSplit = 64
)

var drxOctet2 = []bitField{
	{tag: "CNSpecificDRXCycleLength", mask: 0xf0, shift: 4, dict: drxCycleLengths},
	{tag: "SplitOnCCCH", mask: 0x08, shift: 3, bool: true},
	{tag: "NonDRXTimer", mask: 0x07, dict: nonDRXTimers},
}

func decodeDRX(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) != 2 {
		return errors.Errorf("DRX parameter of %d bytes", len(b))
	}
	code := b[0]
	var split string
	switch {
	case code > maxSplitPG:
		return errors.Errorf("reserved split PG cycle code %d", code)
	case code > 0 && code <= maxPlainSplit:
		split = itoa(uint32(code))
	default:
		split, _ = splitPGCycles.name(uint32(code))
	}
	el := out.AddChild(xmltree.New(p.Name))
	el.AddChild(xmltree.NewText(splitPGTag, split))
	decodeBitFields(b[1], el, drxOctet2)
	return nil
}

func encodeDRX(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	s := strings.TrimSpace(textOf(in, splitPGTag))
	code, ok := splitPGCycles.value(s)
	if !ok {
		v, err := atoi(s, 8)
		if err != nil {
			return err
		}
		if v == 0 || v > maxPlainSplit {
			return errors.Errorf("split PG cycle %d cannot be coded", v)
		}
		code = v
	}
	o2, err := packBitFields(in, drxOctet2)
	if err != nil {
		return err
	}
	out.AppendByte(uint8(code))
	out.AppendByte(o2)
	return nil
}

// Voice domain preference and UE's usage setting, TS 24.008 10.5.5.28
var (
	voiceDomainPrefs = dict{
		{"CS-voice-only", 0},
		{"IMS-PS-voice-only", 1},
		{"CS-voice-preferred", 2},
		{"IMS-PS-voice-preferred", 3},
	}
	ueUsageSettings = dict{
		{"voice-centric", 0},
		{"data-centric", 1},
	}
)

var voicePrefFields = []bitField{
	{tag: "UEUsageSetting", mask: 0x04, shift: 2, dict: ueUsageSettings},
	{tag: "VoiceDomainPreference", mask: 0x03, dict: voiceDomainPrefs},
}

func decodeVoicePref(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) != 1 || b[0]&0xf8 != 0 {
		return errors.Errorf("malformed voice domain preference % x", b)
	}
	decodeBitFields(b[0], out.AddChild(xmltree.New(p.Name)), voicePrefFields)
	return nil
}

func encodeVoicePref(_ *call, _ PD, p *Param, in *xmltree.Element, out *Buffer) error {
	return encodeBitFields(in, out, voicePrefFields, p)
}
