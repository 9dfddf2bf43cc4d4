package rl3

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsml3/pkg/xmltree"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.Nil(t, err)
	return b
}

// roundTrip decodes data with dec, encodes the tree with enc and expects the
// original octets back.
func roundTrip(t *testing.T, dec, enc *Codec, data []byte) *xmltree.Element {
	t.Helper()
	root, err := dec.Decode(data)
	require.Nil(t, err, "decode")
	require.NotNil(t, root)
	out, err := enc.Encode(root)
	require.Nil(t, err, "encode %s", root)
	assert.Equal(t, hex.EncodeToString(data), hex.EncodeToString(out), root.String())
	return root
}

const attachRequest = "07 41 71" +
	" 0b f6 00 f1 10 80 01 01 c0 00 00 01" +
	" 02 e0 e0" +
	" 00 04 02 01 d0 11" +
	" 52 00 f1 10 00 01" +
	" 5c 00 0a" +
	" 5d 01 01"

func TestDecodeTooShort(t *testing.T) {
	cd := New()

	root, err := cd.Decode([]byte{0x05})
	assert.Nil(t, root)
	assert.Equal(t, MsgTooShort, StatusOf(err))

	root, err = cd.Decode(unhex(t, "05 24"))
	assert.Equal(t, MsgTooShort, StatusOf(err))
	require.NotNil(t, root)
	assert.Equal(t, "MM", root.Tag)
	assert.Equal(t, "CMServiceRequest", root.Child("Message").Attr("type"))
}

func TestLocationUpdatingRequest(t *testing.T) {
	cd := New()
	data := unhex(t, "05 08 70 00 f1 10 00 01 57 08 29 10 10 10 32 54 76 98 33 03 57 18 81")
	root := roundTrip(t, cd, cd, data)

	assert.Equal(t, "MM", root.Tag)
	skip, _ := root.ChildText("SkipIndicator")
	assert.Equal(t, "0", skip)

	msg := root.Child("Message")
	require.NotNil(t, msg)
	assert.Equal(t, "LocationUpdatingRequest", msg.Attr("type"))

	lut := msg.Child("LocationUpdatingType")
	require.NotNil(t, lut)
	assert.Equal(t, "false", textOf(lut, "FOR"))
	assert.Equal(t, "normal-location-updating", textOf(lut, "LUT"))
	assert.Equal(t, "no-key/reserved", textOf(msg, "CKSN"))

	lai := msg.Child("LAI")
	require.NotNil(t, lai)
	assert.Equal(t, "00101", textOf(lai, plmnTag))
	assert.Equal(t, "0001", textOf(lai, "LAC"))

	cm1 := msg.Child("MSClassmark1")
	require.NotNil(t, cm1)
	assert.Equal(t, "irrelevant", textOf(cm1, "RFPowerCapability"))
	assert.Equal(t, "R99-or-later", textOf(cm1, "RevisionLevel"))
	assert.Equal(t, "ES-IND", textOf(cm1, flagsTag))

	assert.Equal(t, "201010123456789", textOf(msg.Child("MobileIdentity"), "IMSI"))

	cm2 := msg.Child("MSClassmark2")
	require.NotNil(t, cm2)
	assert.Equal(t, "ellipsis-notation-and-phase2-error-handling", textOf(cm2, "SSScreeningIndicator"))
	assert.Equal(t, "ES-IND,MT-sms-point-to-point-capability,A5/2-support,CM3-support", textOf(cm2, flagsTag))
}

func TestTransactionIdentifierExtension(t *testing.T) {
	cd := New()

	cases := []struct {
		data string
		ti   string
		flag string
	}{
		{"73 85 0f", "5", "false"},
		{"f3 85 0f", "5", "true"},
		{"73 ff 0f", "127", "false"},
		{"a3 0f", "2", "true"},
	}
	for _, c := range cases {
		root := roundTrip(t, cd, cd, unhex(t, c.data))
		assert.Equal(t, "CC", root.Tag)
		tid := root.Child("TID")
		require.NotNil(t, tid, c.data)
		assert.Equal(t, c.ti, tid.Text, c.data)
		assert.Equal(t, c.flag, tid.Attr(tiFlagAttr), c.data)
		assert.Equal(t, "ConnectAcknowledge", root.Child("Message").Attr("type"))
	}

	root, err := xmltree.Parse([]byte(`<CC><TID TIFlag="false">9</TID><Message type="ConnectAcknowledge"/></CC>`))
	require.Nil(t, err)
	out, err := cd.Encode(root)
	require.Nil(t, err)
	assert.Equal(t, unhex(t, "73 89 0f"), out)

	root.Child("TID").Text = "200"
	_, err = cd.Encode(root)
	assert.NotNil(t, err)

	_, err = cd.Decode(unhex(t, "73 05 0f"))
	assert.Equal(t, ParserErr, StatusOf(err))
}

func TestAttachRequestNestedESM(t *testing.T) {
	cd := New()
	root := roundTrip(t, cd, cd, unhex(t, attachRequest))

	assert.Equal(t, "EPS_MM", root.Tag)
	assert.Equal(t, "plain-NAS-message", textOf(root, "SecurityHeader"))
	msg := root.Child("Message")
	require.NotNil(t, msg)
	assert.Equal(t, "AttachRequest", msg.Attr("type"))
	assert.Equal(t, "EPS-Attach", textOf(msg, "EPSAttachType"))

	ksi := msg.Child("NASKeySetIdentifier")
	require.NotNil(t, ksi)
	assert.Equal(t, "native-security-context-for-KSI_ASME", textOf(ksi, "TSC"))
	assert.Equal(t, "7", textOf(ksi, "NASKeySetId"))

	guti := msg.Child("EPSMobileIdentity").Child("GUTI")
	require.NotNil(t, guti)
	assert.Equal(t, "00101", textOf(guti, plmnTag))
	assert.Equal(t, "32769", textOf(guti, "MMEGroupID"))
	assert.Equal(t, "1", textOf(guti, "MMECode"))
	assert.Equal(t, "c0000001", textOf(guti, "M_TMSI"))

	assert.Equal(t, "EEA0,128-EEA1,128-EEA2,EIA0,128-EIA1,128-EIA2", textOf(msg, "UENetworkCapability"))

	esm := msg.Child("ESMMessageContainer").Child("EPS_SM")
	require.NotNil(t, esm)
	inner := esm.Child("Message")
	require.NotNil(t, inner)
	assert.Equal(t, "PDNConnectivityRequest", inner.Attr("type"))
	assert.Equal(t, "initialRequest", textOf(inner, "RequestType"))
	assert.Equal(t, "ipv4", textOf(inner, "PDNType"))

	// the outer message resumes right after the container
	tai := msg.Child("LastVisitedRegisteredTAI")
	require.NotNil(t, tai)
	assert.Equal(t, "0001", textOf(tai, "TAC"))

	drx := msg.Child("DRXParameter")
	require.NotNil(t, drx)
	assert.Equal(t, "704", textOf(drx, splitPGTag))
	assert.Equal(t, "true", textOf(drx, "SplitOnCCCH"))
	assert.Equal(t, "max-2-sec-non-DRX-mode", textOf(drx, "NonDRXTimer"))

	vp := msg.Child("VoiceDomainPreferenceAndUEsUsageSetting")
	require.NotNil(t, vp)
	assert.Equal(t, "IMS-PS-voice-only", textOf(vp, "VoiceDomainPreference"))
	assert.Nil(t, msg.Child(dataTag))
}

func TestUnknownProtocol(t *testing.T) {
	cd := New()

	root, err := cd.Decode(unhex(t, "0d 00"))
	assert.Nil(t, root)
	assert.Equal(t, UnknownProto, StatusOf(err))

	root, err = cd.Decode(unhex(t, "04 01 02"))
	assert.Equal(t, UnknownProto, StatusOf(err))
	require.NotNil(t, root)
	assert.Equal(t, "GTTP", root.Tag)
	assert.Equal(t, "040102", textOf(root, dataTag))

	out, err := cd.Encode(root)
	require.Nil(t, err)
	assert.Equal(t, unhex(t, "04 01 02"), out)

	_, err = cd.Encode(xmltree.New("NOPE"))
	assert.Equal(t, UnknownProto, StatusOf(err))
}

func TestUnknownMessageType(t *testing.T) {
	cd := New()
	data := unhex(t, "05 7f aa bb")

	root, err := cd.Decode(data)
	assert.Equal(t, UnknownMsgType, StatusOf(err))
	require.NotNil(t, root)
	assert.Equal(t, "1", textOf(root, nsdTag))
	msg := root.Child("Message")
	require.NotNil(t, msg)
	assert.Equal(t, "63", msg.Attr("type"))
	assert.Equal(t, "aabb", textOf(msg, dataTag))

	out, err := cd.Encode(root)
	require.Nil(t, err)
	assert.Equal(t, data, out)
}

func TestTrailingData(t *testing.T) {
	cd := New()
	root := roundTrip(t, cd, cd, unhex(t, "05 1b de ad"))
	assert.Equal(t, "dead", textOf(root.Child("Message"), dataTag))

	root = roundTrip(t, cd, cd, unhex(t, "05 29 11 7e 02 aa bb 01"))
	msg := root.Child("Message")
	assert.Equal(t, "network-failure", textOf(msg, "RejectCause"))
	assert.Equal(t, "7e02aabb01", textOf(msg, dataTag))

	split := New(WithFlags(XmlDumpIEs))
	root = roundTrip(t, split, split, unhex(t, "05 29 11 7e 02 aa bb 01"))
	var ies []string
	for _, c := range root.Child("Message").Children {
		if c.Tag == ieTag {
			ies = append(ies, c.Text)
		}
	}
	assert.Equal(t, []string{"7e02aabb", "01"}, ies)
}

func TestDumpMessagePayload(t *testing.T) {
	cd := New(WithFlags(XmlDumpMsg))
	root, err := cd.Decode(unhex(t, "05 1b"))
	require.Nil(t, err)
	assert.Equal(t, "051b", textOf(root, payloadTag))
}

func TestOptionalIEFallsBackToHex(t *testing.T) {
	cd := New()
	data := unhex(t, "05 02 00 f1 10 00 01 17 02 07 00 a1")

	var report Report
	root, err := cd.Decode(data, WithReport(&report))
	require.Nil(t, err)
	require.Equal(t, 1, len(report.Tolerated))
	assert.Equal(t, IncorrectOptionalIE, report.Tolerated[0].Status)
	assert.Equal(t, "MobileIdentity", report.Tolerated[0].IE)

	msg := root.Child("Message")
	id := msg.Child("MobileIdentity")
	require.NotNil(t, id)
	assert.Equal(t, "hex", id.Attr(encAttr))
	assert.Equal(t, "0700", id.Text)
	assert.NotNil(t, msg.Child("FollowOnProceed"))

	out, err := cd.Encode(root)
	require.Nil(t, err)
	assert.Equal(t, data, out)
}

func TestMandatoryIEFailure(t *testing.T) {
	cd := New()

	root, err := cd.Decode(unhex(t, "05 01 57 02 07 00"))
	require.NotNil(t, root)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, IncorrectMandatoryIE, e.Status)
	assert.Equal(t, "MobileIdentity", e.IE)

	_, err = cd.Decode(unhex(t, "05 01 57 09 29"))
	assert.Equal(t, MsgTooShort, StatusOf(err))

	_, err = cd.Encode(xmltree.New("MM"))
	assert.Equal(t, MissingMandatoryIE, StatusOf(err))
}

func TestTagMismatchDoesNotConsume(t *testing.T) {
	cd := New()
	root := roundTrip(t, cd, cd, unhex(t, "05 02 00 f1 10 00 01 a2"))
	msg := root.Child("Message")
	assert.Nil(t, msg.Child("MobileIdentity"))
	assert.Nil(t, msg.Child("FollowOnProceed"))
	assert.NotNil(t, msg.Child("CTSPermission"))
	assert.Nil(t, msg.Child(dataTag))
}

func TestCallControlDirections(t *testing.T) {
	network := New()
	ms := New(WithRole(MobileStation))

	root := roundTrip(t, network, ms, unhex(t, "03 05 04 03 60 04 81 5e 04 81 21 43 f5"))
	msg := root.Child("Message")
	assert.Equal(t, "Setup", msg.Attr("type"))
	bc := msg.Child("BearerCapability1")
	require.NotNil(t, bc)
	assert.Equal(t, "speech", textOf(bc, itcTag))
	assert.Equal(t, "GSM-FR-speech-version3,GSM-HR-speech-version1", textOf(bc, speechVersTag))
	called := msg.Child("CalledPartyBCDNumber")
	require.NotNil(t, called)
	assert.Equal(t, "12345", called.Text)
	assert.Equal(t, "isdn", called.Attr("plan"))
	assert.Equal(t, "unknown", called.Attr("nature"))

	root = roundTrip(t, ms, network, unhex(t, "03 25 02 e1 90 1e 02 e1 88"))
	msg = root.Child("Message")
	cause := msg.Child("Cause")
	require.NotNil(t, cause)
	assert.Equal(t, "normal-clearing", cause.Text)
	assert.Equal(t, "GSM-PLMN", cause.Attr("coding"))
	assert.Equal(t, "LPN", cause.Attr("location"))
	assert.Equal(t, "in-band-information-available", textOf(msg, "ProgressIndicator"))

	// the mobile station does not send a progress indicator
	root, err := network.Decode(unhex(t, "03 25 02 e1 90 1e 02 e1 88"))
	require.Nil(t, err)
	assert.Nil(t, root.Child("Message").Child("ProgressIndicator"))
	assert.Equal(t, "1e02e188", textOf(root.Child("Message"), dataTag))
}

func TestMMInformation(t *testing.T) {
	cd := New()
	root := roundTrip(t, cd, cd, unhex(t, "05 32 43 0a 82 e8 32 9b fd 46 97 d9 ec 37"))
	name := root.Child("Message").Child("NetworkFullName")
	require.NotNil(t, name)
	assert.Equal(t, "hellohello", name.Text)
	assert.Equal(t, "gsm7", name.Attr(codingAttr))
	assert.Equal(t, "false", name.Attr(ciAttr))
}

func TestOtherProtocols(t *testing.T) {
	cd := New()

	root := roundTrip(t, cd, cd, unhex(t, "06 2c 00 77 03 00 00 08"))
	assert.Equal(t, "RRM", root.Tag)
	msg := root.Child("Message")
	assert.Equal(t, "HandoverComplete", msg.Attr("type"))
	assert.Equal(t, "normal-event", textOf(msg, "RRCause"))
	assert.Equal(t, "1", textOf(msg, "MobileTimeDifference"))

	root = roundTrip(t, cd, cd, unhex(t, "09 01 03 aa bb cc"))
	assert.Equal(t, "SMS", root.Tag)
	assert.Equal(t, "CP-Data", root.Child("Message").Attr("type"))
	assert.Equal(t, "aabbcc", textOf(root.Child("Message"), "RPDU"))

	root = roundTrip(t, cd, cd, unhex(t, "09 10 11"))
	assert.Equal(t, "network-failure", textOf(root.Child("Message"), "CP-Cause"))

	root = roundTrip(t, cd, New(WithRole(MobileStation)), unhex(t, "0b 3b 1c 02 a1 00 7f 01 00"))
	assert.Equal(t, "SS", root.Tag)
	msg = root.Child("Message")
	assert.Equal(t, "Register", msg.Attr("type"))
	assert.Equal(t, "a100", textOf(msg, "Facility"))
}

type xorHooks struct {
	key byte
	mac []byte
}

func (h *xorHooks) CheckIntegrity(mac []byte, _ uint8, _ []byte) error {
	if !bytes.Equal(mac, h.mac) {
		return errors.New("MAC mismatch")
	}
	return nil
}

func (h *xorHooks) AddIntegrity(uint8, []byte) ([]byte, error) { return h.mac, nil }

func (h *xorHooks) Decipher(_ uint8, p []byte) ([]byte, error) { return h.xor(p), nil }

func (h *xorHooks) Cipher(_ uint8, p []byte) ([]byte, error) { return h.xor(p), nil }

func (h *xorHooks) xor(p []byte) []byte {
	out := make([]byte, len(p))
	for i := range p {
		out[i] = p[i] ^ h.key
	}
	return out
}

func TestSecurityProtectedMessage(t *testing.T) {
	hooks := &xorHooks{key: 0x5a, mac: []byte{1, 2, 3, 4}}
	cd := New(WithSecurityHooks(hooks))

	inner := unhex(t, attachRequest)
	data := append(unhex(t, "27 01 02 03 04 05"), hooks.xor(inner)...)
	root := roundTrip(t, cd, cd, data)

	assert.Equal(t, "integrity-protected-and-ciphered", textOf(root, "SecurityHeader"))
	assert.Equal(t, "01020304", textOf(root, macTag))
	assert.Equal(t, "5", textOf(root, seqTag))
	msg := root.Child("EPS_MM").Child("Message")
	require.NotNil(t, msg)
	assert.Equal(t, "AttachRequest", msg.Attr("type"))

	out, err := cd.Encode(root, WithSequenceNumber(9))
	require.Nil(t, err)
	assert.Equal(t, byte(9), out[5])

	hooks.mac = []byte{0, 0, 0, 0}
	_, err = cd.Decode(data)
	assert.Equal(t, IncorrectMandatoryIE, StatusOf(err))
}

func TestServiceRequestHeader(t *testing.T) {
	cd := New()
	root := roundTrip(t, cd, cd, unhex(t, "c7 01 02 03"))
	assert.Equal(t, "security-header-for-the-SERVICE-REQUEST-message", textOf(root, "SecurityHeader"))
	assert.Equal(t, "010203", textOf(root, dataTag))
}

func TestDefaultHooksUseZeroMAC(t *testing.T) {
	cd := New()
	inner := unhex(t, attachRequest)
	root, err := cd.Decode(append(unhex(t, "17 aa bb cc dd 00"), inner...))
	require.Nil(t, err)

	out, err := cd.Encode(root)
	require.Nil(t, err)
	assert.Equal(t, append(unhex(t, "17 00 00 00 00 00"), inner...), out)
}

func TestDecodeEncodeXML(t *testing.T) {
	cd := New()
	doc, err := xmltree.Parse([]byte(`<trace><event><codecTag enc="hex">051bdead</codecTag></event><codecTag enc="hex">zz</codecTag></trace>`))
	require.Nil(t, err)

	err = cd.DecodeXML(doc)
	assert.Equal(t, ParserErr, StatusOf(err))

	marker := doc.Child("event").Child(DefaultCodecTag)
	assert.Equal(t, "xml", marker.Attr(encAttr))
	require.NotNil(t, marker.FirstChild())
	assert.Equal(t, "MM", marker.FirstChild().Tag)
	assert.Equal(t, "hex", doc.Child(DefaultCodecTag).Attr(encAttr))

	require.Nil(t, cd.EncodeXML(doc))
	assert.Equal(t, "hex", marker.Attr(encAttr))
	assert.Equal(t, "051bdead", marker.Text)
	assert.Nil(t, marker.FirstChild())
}

func TestCodecTagOverride(t *testing.T) {
	doc, err := xmltree.Parse([]byte(`<trace><l3 enc="hex">051b</l3></trace>`))
	require.Nil(t, err)

	cd := New()
	require.Nil(t, cd.DecodeXML(doc))
	assert.Equal(t, "hex", doc.Child("l3").Attr(encAttr))

	require.Nil(t, cd.DecodeXML(doc, WithCodecTag("l3")))
	assert.Equal(t, "xml", doc.Child("l3").Attr(encAttr))

	untagged := New(WithDefaultCodecTag(""))
	assert.Equal(t, MissingParam, StatusOf(untagged.DecodeXML(doc)))
	assert.Equal(t, MissingParam, StatusOf(cd.EncodeXML(nil)))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, NoError, StatusOf(nil))
	assert.Equal(t, ParserErr, StatusOf(errors.New("plain")))

	err := errors.Wrap(&Error{Status: UnknownMsgType, IE: "Message"}, "wrapped")
	assert.Equal(t, UnknownMsgType, StatusOf(err))
	assert.Equal(t, "IncorrectOptionalIE", IncorrectOptionalIE.String())
	assert.Equal(t, "Status(42)", Status(42).String())
}

func TestParsePD(t *testing.T) {
	pd, ok := ParsePD("EPS_MM")
	assert.True(t, ok)
	assert.Equal(t, EPSMM, pd)
	assert.Equal(t, "EPS_MM", pd.String())

	_, ok = ParsePD("Unknown")
	assert.False(t, ok)
	_, ok = ParsePD("Message")
	assert.False(t, ok)
}

func TestEmptyOptionalIEKeptOnFailure(t *testing.T) {
	network := New()
	ms := New(WithRole(MobileStation))

	var report Report
	data := unhex(t, "05 04 11 36 00")
	root, err := ms.Decode(data, WithReport(&report))
	require.Nil(t, err)
	require.Len(t, report.Tolerated, 1)
	timer := root.Child("Message").Child("T3246Value")
	require.NotNil(t, timer)
	assert.Equal(t, "hex", timer.Attr(encAttr))
	assert.Equal(t, "", timer.Text)

	out, err := network.Encode(root)
	require.Nil(t, err)
	assert.Equal(t, "0504113600", hex.EncodeToString(out))
}

func TestMandatoryAfterUndelimitedOptional(t *testing.T) {
	params := []Param{
		{TLV, Elem, 0x36, "T3246Value", true, 3 * 8, true, kindMMTimer},
		{V, Elem, 0, "RejectCause", false, 8, true, kindMMRejectCause},
	}
	c := New().newCall(nil)
	err := c.decodeParams(MM, params, NewCursor(unhex(t, "36 05 01")), xmltree.New("Message"))
	assert.Equal(t, MsgTooShort, StatusOf(err))

	// nothing mandatory follows, the rest is kept as data
	out := xmltree.New("Message")
	require.Nil(t, c.decodeParams(MM, params[:1], NewCursor(unhex(t, "36 05 01")), out))
	assert.Equal(t, "360501", textOf(out, dataTag))
}
