package rl3

import (
	"strings"

	"github.com/pkg/errors"

	"gsml3/pkg/xmltree"
)

// Coding standard and location shared by progress indicator and cause,
// TS 24.008 10.5.4.21 and 10.5.4.11.
var (
	codingStandards = dict{
		{"CCITT", 0},
		{"reserved", 1},
		{"national", 2},
		{"GSM-PLMN", 3},
	}
	locations = dict{
		{"U", 0x00},
		{"LPN", 0x01},
		{"LN", 0x02},
		{"RLN", 0x04},
		{"RPN", 0x05},
		{"BI", 0x0a},
	}
	progressDescriptions = dict{
		{"call-is-not-end-to-end-PLMN/ISDN", 1},
		{"destination-address-in-non-PLMN/ISDN", 2},
		{"origination-address-in-non-PLMN/ISDN", 3},
		{"call-has-returned-to-the-PLMN/ISDN", 4},
		{"in-band-information-available", 8},
		{"in-band-multimedia-CAT-available", 9},
		{"call-is-end-to-end-PLMN/ISDN", 32},
		{"queueing", 64},
	}
)

const (
	codingCCITT = 0
	codingGSM   = 3
)

var codingAndLocation = []bitField{
	{tag: "coding", mask: 0x60, shift: 5, dict: codingStandards, attr: true, def: codingGSM},
	{tag: "location", mask: 0x0f, dict: locations, attr: true, def: 0x01},
}

func decodeProgressInd(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	if len(b) != 2 || b[0]&0x90 != 0x80 || b[1]&0x80 == 0 {
		return errors.New("malformed progress indicator")
	}
	el := out.AddChild(xmltree.NewText(p.Name, progressDescriptions.nameOr(uint32(b[1]&0x7f), itoa(uint32(b[1]&0x7f)))))
	decodeBitFields(b[0], el, codingAndLocation)
	return nil
}

func encodeProgressInd(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	o3, err := packBitFields(in, codingAndLocation)
	if err != nil {
		return err
	}
	v, ok := progressDescriptions.parse(strings.TrimSpace(in.Text))
	if !ok || v > 0x7f {
		return errors.Errorf("unknown progress description %q", in.Text)
	}
	out.AppendByte(0x80 | o3)
	out.AppendByte(0x80 | uint8(v))
	return nil
}

// Called and calling party BCD number, TS 24.008 10.5.4.7 and 10.5.4.9
var (
	numberTypes = dict{
		{"unknown", 0},
		{"international", 1},
		{"national", 2},
		{"network-specific", 3},
		{"dedicated-access", 4},
		{"reserved", 5},
		{"abbreviated", 6},
		{"extension-reserved", 7},
	}
	numberPlans = dict{
		{"unknown", 0},
		{"isdn", 1},
		{"data", 3},
		{"telex", 4},
		{"national", 8},
		{"private", 9},
		{"CTS-reserved", 11},
		{"extension-reserved", 15},
	}
	presentations = dict{
		{"allowed", 0},
		{"restricted", 1},
		{"unavailable", 2},
		{"reserved", 3},
	}
	screenings = dict{
		{"user-provided", 0},
		{"user-provided-passed", 1},
		{"user-provided-failed", 2},
		{"network-provided", 3},
	}
)

var (
	numberOctet3 = []bitField{
		{tag: "nature", mask: 0x70, shift: 4, dict: numberTypes, attr: true},
		{tag: "plan", mask: 0x0f, dict: numberPlans, attr: true},
	}
	numberOctet3a = []bitField{
		{tag: "restrict", mask: 0x60, shift: 5, dict: presentations, attr: true},
		{tag: "screened", mask: 0x03, dict: screenings, attr: true},
	}
)

func decodeBCDNumber(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	o3, err := cur.Byte()
	if err != nil {
		return err
	}
	el := xmltree.New(p.Name)
	decodeBitFields(o3, el, numberOctet3)
	if o3&0x80 == 0 {
		o3a, err := cur.Byte()
		if err != nil {
			return err
		}
		if o3a&0x80 == 0 {
			return errors.New("octet 3a without extension bit")
		}
		decodeBitFields(o3a, el, numberOctet3a)
	}
	if el.Text, err = decodeBCD(cur.Rest(), numberDigits); err != nil {
		return err
	}
	out.AddChild(el)
	return nil
}

func encodeBCDNumber(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	o3, err := packBitFields(in, numberOctet3)
	if err != nil {
		return err
	}
	_, restrict := in.LookupAttr("restrict")
	_, screened := in.LookupAttr("screened")
	if restrict || screened {
		o3a, err := packBitFields(in, numberOctet3a)
		if err != nil {
			return err
		}
		out.AppendByte(o3)
		out.AppendByte(0x80 | o3a)
	} else {
		out.AppendByte(0x80 | o3)
	}
	d, err := encodeBCD(strings.TrimSpace(in.Text), numberDigits)
	if err != nil {
		return err
	}
	out.Append(d)
	return nil
}

// Cause values, TS 24.008 table 10.5.123
var causesGSM = dict{
	{"unallocated", 0x01},
	{"noroute", 0x03},
	{"channel-unacceptable", 0x06},
	{"operator-determined-barring", 0x08},
	{"normal-clearing", 0x10},
	{"busy", 0x11},
	{"noresponse", 0x12},
	{"noanswer", 0x13},
	{"rejected", 0x15},
	{"moved", 0x16},
	{"rejected-by-feature", 0x18},
	{"preemption", 0x19},
	{"answered", 0x1a},
	{"out-of-order", 0x1b},
	{"invalid-number", 0x1c},
	{"facility-rejected", 0x1d},
	{"status-enquiry-rsp", 0x1e},
	{"normal", 0x1f},
	{"congestion", 0x22},
	{"net-out-of-order", 0x26},
	{"temporary-failure", 0x29},
	{"switch-congestion", 0x2a},
	{"access-info-discarded", 0x2b},
	{"channel-unavailable", 0x2c},
	{"noresource", 0x2f},
	{"qos-unavailable", 0x31},
	{"facility-not-subscribed", 0x32},
	{"forbidden-in", 0x37},
	{"bearer-cap-not-auth", 0x39},
	{"bearer-cap-not-available", 0x3a},
	{"service-unavailable", 0x3f},
	{"bearer-cap-not-implemented", 0x41},
	{"acm-equal-or-greater-ACM-max", 0x44},
	{"facility-not-implemented", 0x45},
	{"restrict-bearer-cap-avail", 0x46},
	{"service-not-implemented", 0x4f},
	{"invalid-callref", 0x51},
	{"not-subscribed", 0x57},
	{"incompatible-dest", 0x58},
	{"invalid-transit-net", 0x5b},
	{"invalid-message", 0x5f},
	{"missing-mandatory-ie", 0x60},
	{"unknown-message", 0x61},
	{"wrong-message", 0x62},
	{"unknown-ie", 0x63},
	{"invalid-ie", 0x64},
	{"wrong-state-message", 0x65},
	{"timeout", 0x66},
	{"protocol-error", 0x6f},
	{"interworking", 0x7f},
	// aliases
	{"channel-congestion", 0x22},
	{"noconn", 0x29},
	{"nomedia", 0x3a},
}

// Q.850 table 1
var causesCCITT = dict{
	{"unallocated", 0x01},
	{"noroute-to-network", 0x02},
	{"noroute", 0x03},
	{"send-info-tone", 0x04},
	{"misdialed-trunk-prefix", 0x05},
	{"channel-unacceptable", 0x06},
	{"call-delivered", 0x07},
	{"preemption", 0x08},
	{"preemption-circuit-reserved", 0x09},
	{"excess-digits", 0x0e},
	{"normal-clearing", 0x10},
	{"busy", 0x11},
	{"noresponse", 0x12},
	{"noanswer", 0x13},
	{"offline", 0x14},
	{"rejected", 0x15},
	{"moved", 0x16},
	{"redirection", 0x17},
	{"rejected-by-feature", 0x18},
	{"looping", 0x19},
	{"answered", 0x1a},
	{"out-of-order", 0x1b},
	{"invalid-number", 0x1c},
	{"facility-rejected", 0x1d},
	{"status-enquiry-rsp", 0x1e},
	{"normal", 0x1f},
	{"resource-unavailable", 0x20},
	{"congestion", 0x22},
	{"net-out-of-order", 0x26},
	{"frame-mode-conn-down", 0x27},
	{"frame-mode-conn-up", 0x28},
	{"temporary-failure", 0x29},
	{"switch-congestion", 0x2a},
	{"access-info-discarded", 0x2b},
	{"channel-unavailable", 0x2c},
	{"preemption-congestion", 0x2e},
	{"noresource", 0x2f},
	{"qos-unavailable", 0x31},
	{"facility-not-subscribed", 0x32},
	{"forbidden-out", 0x35},
	{"forbidden-in", 0x37},
	{"bearer-cap-not-auth", 0x39},
	{"bearer-cap-not-available", 0x3a},
	{"invalid-access-info-out", 0x3e},
	{"service-unavailable", 0x3f},
	{"bearer-cap-not-implemented", 0x41},
	{"channel-type-not-implemented", 0x42},
	{"facility-not-implemented", 0x45},
	{"restrict-bearer-cap-avail", 0x46},
	{"service-not-implemented", 0x4f},
	{"invalid-callref", 0x51},
	{"unknown-channel", 0x52},
	{"unknown-callid", 0x53},
	{"duplicate-callid", 0x54},
	{"no-call-suspended", 0x55},
	{"suspended-call-cleared", 0x56},
	{"not-subscribed", 0x57},
	{"incompatible-dest", 0x58},
	{"unknown-group", 0x5a},
	{"invalid-transit-net", 0x5b},
	{"invalid-message", 0x5f},
	{"missing-mandatory-ie", 0x60},
	{"unknown-message", 0x61},
	{"wrong-message", 0x62},
	{"unknown-ie", 0x63},
	{"invalid-ie", 0x64},
	{"wrong-state-message", 0x65},
	{"timeout", 0x66},
	{"unknown-param-passed-on", 0x67},
	{"unknown-param-message-droppped", 0x6e},
	{"protocol-error", 0x6f},
	{"interworking", 0x7f},
	{"ported-number", 0x0e},
	{"channel-congestion", 0x22},
	{"noconn", 0x29},
	{"nomedia", 0x3a},
}

const (
	recAttr  = "rec"
	diagAttr = "diagnostic"
)

func causeDict(coding uint8) dict {
	if coding == codingCCITT {
		return causesCCITT
	}
	return causesGSM
}

func decodeCause(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	if cur.Len() < 2 {
		return errors.Errorf("cause of %d bytes", cur.Len())
	}
	o3, _ := cur.Byte()
	if o3&0x10 != 0 {
		return errors.New("spare bit set in cause")
	}
	el := xmltree.New(p.Name)
	decodeBitFields(o3, el, codingAndLocation)
	coding := (o3 & 0x60) >> 5
	if o3&0x80 == 0 {
		rec, _ := cur.Byte()
		if rec&0x80 == 0 {
			return errors.New("octet 3a without extension bit")
		}
		el.SetAttr(recAttr, itoa(uint32(rec&0x7f)))
	}
	if coding != codingCCITT && coding != codingGSM {
		addHex(el, dataTag, cur.Rest())
		out.AddChild(el)
		return nil
	}
	v, err := cur.Byte()
	if err != nil {
		return err
	}
	if v&0x80 == 0 {
		return errors.New("cause value without extension bit")
	}
	el.Text = causeDict(coding).nameOr(uint32(v&0x7f), itoa(uint32(v&0x7f)))
	if cur.Len() > 0 {
		el.SetAttr(diagAttr, hexString(cur.Rest()))
	}
	out.AddChild(el)
	return nil
}

func encodeCause(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	o3, err := packBitFields(in, codingAndLocation)
	if err != nil {
		return err
	}
	if s, ok := in.LookupAttr(recAttr); ok {
		rec, err := atoi(s, 7)
		if err != nil {
			return err
		}
		out.AppendByte(o3)
		out.AppendByte(0x80 | uint8(rec))
	} else {
		out.AppendByte(0x80 | o3)
	}
	coding := (o3 & 0x60) >> 5
	if coding != codingCCITT && coding != codingGSM {
		return encodeTrailing(in, out)
	}
	v, ok := causeDict(coding).parse(strings.TrimSpace(in.Text))
	if !ok || v > 0x7f {
		return errors.Errorf("unknown cause %q", in.Text)
	}
	out.AppendByte(0x80 | uint8(v))
	if s, ok := in.LookupAttr(diagAttr); ok {
		d, err := parseHex(s)
		if err != nil {
			return err
		}
		out.Append(d)
	}
	return nil
}

// Call control capabilities, TS 24.008 10.5.4.5a
var ccCapabFlags = dict{
	{"DTMF", 0x01},
	{"PCP", 0x02},
	{"ENICM", 0x04},
	{"MCAT", 0x08},
}

func decodeCCCapab(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b, err := cur.Next(2)
	if err != nil {
		return err
	}
	if b[1]&0xf0 != 0 {
		return errors.Errorf("spare bits set in 0x%02x", b[1])
	}
	el := out.AddChild(xmltree.New(p.Name))
	el.AddChild(xmltree.NewText(flagsTag, ccCapabFlags.flags(uint32(b[0]))))
	el.AddChild(xmltree.NewText("MaxSupportedBearers", itoa(uint32(b[0]>>4))))
	el.AddChild(xmltree.NewText("MaxSpeechBearers", itoa(uint32(b[1]&0x0f))))
	if cur.Len() > 0 {
		addHex(el, dataTag, cur.Rest())
	}
	return nil
}

func encodeCCCapab(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	s, _ := in.ChildText(flagsTag)
	o3 := uint8(ccCapabFlags.mask(s))
	o, err := packBitFields(in, []bitField{
		{tag: "MaxSupportedBearers", mask: 0xf0, shift: 4},
		{tag: "MaxSpeechBearers", mask: 0x0f},
	})
	if err != nil {
		return err
	}
	out.AppendByte(o3 | o&0xf0)
	out.AppendByte(o & 0x0f)
	return encodeTrailing(in, out)
}

// Bearer capability, TS 24.008 10.5.4.5
var (
	infoTransferCapabs = dict{
		{"speech", 0},
		{"udi", 1},
		{"3.1khz-audio", 2},
		{"facsimile-group3", 3},
		{"other-ITC", 5},
		{"reserved", 7},
	}
	transferModes = dict{
		{"circuit-mode", 0},
		{"packet-mode", 1},
	}
	bearerCodings = dict{
		{"GSM", 0},
		{"reserved", 1},
	}
	radioChanNonSpeech = dict{
		{"reserved", 0},
		{"FR-support-only-MS", 1},
		{"DR-support-MS/HR-preferred", 2},
		{"DR-support-MS/FR-preferred", 3},
	}
	radioChanSpeech = dict{
		{"reserved", 0},
		{"FR-support-only-MS/FR-speech-version1-supported", 1},
		{"DR-support-MS/HR-speech-version1-preferred", 2},
		{"DR-support-MS/FR-speech-version1-preferred", 3},
	}
	radioChanSpeechExt = dict{
		{"reserved", 0},
		{"FR-speech-version1-supported", 1},
		{"FR-and-HR-speech-version1-supported/HR-speech-preferred", 2},
		{"FR-and-HR-speech-version1-supported/FR-speech-preferred", 3},
	}
	speechVersions = dict{
		{"GSM-FR-speech-version1", 0x00},
		{"GSM-HR-speech-version1", 0x01},
		{"GSM-FR-speech-version2", 0x02},
		{"GSM-FR-speech-version3", 0x04},
		{"GSM-HR-speech-version3", 0x05},
		{"GSM-FR-speech-version4", 0x06},
		{"GSM-HR-speech-version4", 0x07},
		{"GSM-FR-speech-version5", 0x08},
		{"GSM-FR-speech-version6", 0x0b},
		{"no-speech-version-for-GERAN", 0x0f},
	}
	bearerStructures = dict{
		{"service-data-unit-integrity", 0},
		{"unstructured", 3},
	}
)

const (
	itcTag         = "ITC"
	speechVersTag  = "SpeechVersions"
	ctmAttr        = "CTMTextTelephony"
	radioChanTag   = "RadioChannelRequirement"
	itcSpeech      = 0
	bearerExtended = 0x80
)

func bearerOctet3(itc uint8, ext bool) []bitField {
	rcr := radioChanNonSpeech
	switch {
	case itc == itcSpeech && ext:
		rcr = radioChanSpeechExt
	case itc == itcSpeech:
		rcr = radioChanSpeech
	}
	return []bitField{
		{tag: itcTag, mask: 0x07, dict: infoTransferCapabs},
		{tag: "TransferMode", mask: 0x08, shift: 3, dict: transferModes},
		{tag: "CodingStandard", mask: 0x10, shift: 4, dict: bearerCodings},
		{tag: radioChanTag, mask: 0x60, shift: 5, dict: rcr},
	}
}

var bearerOctet4 = []bitField{
	{tag: "Establishment", mask: 0x01, dict: dict{{"demand", 0}, {"reserved", 1}}},
	{tag: "NIRR", mask: 0x02, shift: 1, bool: true},
	{tag: "Configuration", mask: 0x04, shift: 2, dict: dict{{"point-to-point", 0}, {"reserved", 1}}},
	{tag: "DuplexMode", mask: 0x08, shift: 3, dict: dict{{"half-duplex", 0}, {"full-duplex", 1}}},
	{tag: "Structure", mask: 0x30, shift: 4, dict: bearerStructures},
	{tag: "Compression", mask: 0x40, shift: 6, dict: dict{{"not-allowed", 0}, {"allowed", 1}}},
}

func decodeBearerCapab(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	o3, err := cur.Byte()
	if err != nil {
		return err
	}
	itc := o3 & 0x07
	ext := o3&bearerExtended == 0
	el := xmltree.New(p.Name)
	decodeBitFields(o3, el, bearerOctet3(itc, ext))
	if ext {
		if itc != itcSpeech {
			return errors.New("octet 3a of a non speech bearer")
		}
		var vers []string
		sv := el.AddChild(xmltree.New(speechVersTag))
		for first := true; ext; first = false {
			v, err := cur.Byte()
			if err != nil {
				return err
			}
			if v&0x40 != 0 || v&0x10 != 0 || (!first && v&0x20 != 0) {
				return errors.Errorf("unsupported octet 3a 0x%02x", v)
			}
			if first && v&0x20 != 0 {
				sv.SetAttr(ctmAttr, "true")
			}
			vers = append(vers, speechVersions.nameOr(uint32(v&0x0f), itoa(uint32(v&0x0f))))
			ext = v&bearerExtended == 0
		}
		sv.Text = strings.Join(vers, ",")
	}
	if cur.Len() > 0 {
		o4, _ := cur.Byte()
		if o4&bearerExtended == 0 {
			return errors.New("octet 4 without extension bit")
		}
		decodeBitFields(o4, el, bearerOctet4)
	}
	if cur.Len() > 0 {
		addHex(el, dataTag, cur.Rest())
	}
	out.AddChild(el)
	return nil
}

func encodeBearerCapab(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	s, ok := in.ChildText(itcTag)
	if !ok {
		return statusErr(MissingMandatoryIE, itcTag, "not present")
	}
	itc, ok := infoTransferCapabs.parse(s)
	if !ok || itc > 7 {
		return errors.Errorf("unknown %s %q", itcTag, s)
	}
	sv := in.Child(speechVersTag)
	ext := sv != nil && strings.TrimSpace(sv.Text) != ""
	o3, err := packBitFields(in, bearerOctet3(uint8(itc), ext))
	if err != nil {
		return err
	}
	if !ext {
		o3 |= bearerExtended
	}
	out.AppendByte(o3)
	if ext {
		vers := strings.Split(sv.Text, ",")
		for i, name := range vers {
			v, ok := speechVersions.parse(strings.TrimSpace(name))
			if !ok || v > 0x0f {
				return errors.Errorf("unknown speech version %q", name)
			}
			if i == 0 && sv.Attr(ctmAttr) == "true" {
				v |= 0x20
			}
			if i == len(vers)-1 {
				v |= bearerExtended
			}
			out.AppendByte(uint8(v))
		}
	}
	if in.Child("Establishment") != nil {
		o4, err := packBitFields(in, bearerOctet4)
		if err != nil {
			return err
		}
		out.AppendByte(bearerExtended | o4)
	}
	return encodeTrailing(in, out)
}

// Keypad facility and user-user style IA5 strings, TS 24.008 10.5.4.17
func decodeIA5Chars(_ *call, _ PD, p *Param, cur *Cursor, out *xmltree.Element) error {
	b := cur.Rest()
	for _, c := range b {
		if c&0x80 != 0 {
			return errors.Errorf("non IA5 character 0x%02x", c)
		}
	}
	out.AddChild(xmltree.NewText(p.Name, string(b)))
	return nil
}

func encodeIA5Chars(_ *call, _ PD, _ *Param, in *xmltree.Element, out *Buffer) error {
	for i := 0; i < len(in.Text); i++ {
		c := in.Text[i]
		if c&0x80 != 0 {
			return errors.Errorf("non IA5 character 0x%02x", c)
		}
		out.AppendByte(c)
	}
	return nil
}
