package rl3

import (
	"gsml3/pkg/xmltree"
)

// kind identifies the behaviour attached to a parameter value.
type kind uint8

const (
	kindUndef kind = iota
	kindHex
	kindInt
	kindTID
	kindPD
	kindMMMsg
	kindCCMsg
	kindEPSSMMsg
	kindEPSMMMsg
	kindSSMsg
	kindSMSMsg
	kindRRMsg
	kindSecurityHeader
	kindRL3Msg

	kindMobileIdent
	kindLAI
	kindRAI
	kindTAI
	kindPLMNList
	kindLocUpdType
	kindMSClassmark1
	kindMSClassmark2
	kindPDAndSAPI
	kindMMTimer
	kindNetworkName
	kindProgressInd
	kindBCDNumber
	kindCause
	kindCCCapab
	kindBearerCapab
	kindIA5Chars
	kindMobileTD
	kindMobileTDHyper

	kindNASKeySetID
	kindEPSMobileIdent
	kindUENetworkCapab
	kindDRX
	kindVoicePref

	kindMMRejectCause
	kindCiphKeySN
	kindMSNetFeatSupp
	kindMMIdentType
	kindPTMSIType
	kindCMServType
	kindPrioLevel
	kindNotifIndicator
	kindRepeatInd
	kindSSVersion
	kindNetworkCCCapab
	kindSignal
	kindAlertPattern
	kindCauseNoCLI
	kindCongestLvl
	kindRecallType
	kindCPCause
	kindRRCause
	kindPSCause

	kindAdditUpdParams
	kindDevProperties

	kindEpsReqType
	kindEpsPdnType
	kindEsmEITFlag
	kindEpsAttachType
	kindTMSIStatus
	kindAdditionalUpdateType
	kindGUTIType

	kindCount
)

type (
	// decodeFunc turns the bytes at cur into XML below out. Coders with
	// element placement add a child named after the parameter, root
	// placement coders work on out directly.
	decodeFunc func(c *call, proto PD, p *Param, cur *Cursor, out *xmltree.Element) error
	// encodeFunc is the inverse of decodeFunc. For element placement in is
	// the parameter's own element, for root placement it is the enclosing
	// one.
	encodeFunc func(c *call, proto PD, p *Param, in *xmltree.Element, out *Buffer) error
)

type ieType struct {
	decode decodeFunc
	encode encodeFunc
	dict   dict
	msgs   []Message
	protos []Protocol
	// shared coders read from the enclosing cursor instead of a view
	// limited to the declared width.
	shared bool
	// fallback value encoded when the element is missing.
	def string
}

var ieTypes [kindCount]ieType

func (k kind) ieType() *ieType {
	if k >= kindCount {
		return &ieTypes[kindUndef]
	}
	return &ieTypes[k]
}

func enumType(d dict) ieType  { return ieType{decode: decodeEnum, encode: encodeEnum, dict: d} }
func flagsType(d dict) ieType { return ieType{decode: decodeFlags, encode: encodeFlags, dict: d} }
func msgType(m []Message) ieType {
	return ieType{decode: decodeMsgType, encode: encodeMsgType, msgs: m}
}

func init() {
	ieTypes = [kindCount]ieType{
		kindUndef:          {},
		kindHex:            {},
		kindInt:            {decode: decodeInt, encode: encodeInt, def: "0"},
		kindTID:            {decode: decodeTID, encode: encodeTID, shared: true},
		kindPD:             {decode: decodePD, encode: encodePD, protos: protocols},
		kindMMMsg:          msgType(mmMessages),
		kindCCMsg:          msgType(ccMessages),
		kindEPSSMMsg:       msgType(epsSMMessages),
		kindEPSMMMsg:       msgType(epsMMMessages),
		kindSSMsg:          msgType(ssMessages),
		kindSMSMsg:         msgType(smsMessages),
		kindRRMsg:          msgType(rrMessages),
		kindSecurityHeader: {decode: decodeSecHeader, encode: encodeSecHeader, dict: securityHeaders},
		kindRL3Msg:         {decode: decodeRL3Msg, encode: encodeRL3Msg},

		kindMobileIdent:   {decode: decodeMobileIdent, encode: encodeMobileIdent},
		kindLAI:           {decode: decodeLAI, encode: encodeLAI},
		kindRAI:           {decode: decodeRAI, encode: encodeRAI},
		kindTAI:           {decode: decodeTAI, encode: encodeTAI},
		kindPLMNList:      {decode: decodePLMNList, encode: encodePLMNList},
		kindLocUpdType:    {decode: decodeLocUpdType, encode: encodeLocUpdType},
		kindMSClassmark1:  {decode: decodeMSClassmark1, encode: encodeMSClassmark1},
		kindMSClassmark2:  {decode: decodeMSClassmark2, encode: encodeMSClassmark2},
		kindPDAndSAPI:     {decode: decodePDAndSAPI, encode: encodePDAndSAPI},
		kindMMTimer:       {decode: decodeMMTimer, encode: encodeMMTimer},
		kindNetworkName:   {decode: decodeNetworkName, encode: encodeNetworkName},
		kindProgressInd:   {decode: decodeProgressInd, encode: encodeProgressInd},
		kindBCDNumber:     {decode: decodeBCDNumber, encode: encodeBCDNumber},
		kindCause:         {decode: decodeCause, encode: encodeCause},
		kindCCCapab:       {decode: decodeCCCapab, encode: encodeCCCapab},
		kindBearerCapab:   {decode: decodeBearerCapab, encode: encodeBearerCapab},
		kindIA5Chars:      {decode: decodeIA5Chars, encode: encodeIA5Chars},
		kindMobileTD:      {decode: decodeMobileTD, encode: encodeMobileTD},
		kindMobileTDHyper: {decode: decodeMobileTDHyper, encode: encodeMobileTDHyper},

		kindNASKeySetID:    {decode: decodeNASKeySetID, encode: encodeNASKeySetID},
		kindEPSMobileIdent: {decode: decodeEPSMobileIdent, encode: encodeEPSMobileIdent},
		kindUENetworkCapab: {decode: decodeUENetworkCapab, encode: encodeUENetworkCapab},
		kindDRX:            {decode: decodeDRX, encode: encodeDRX},
		kindVoicePref:      {decode: decodeVoicePref, encode: encodeVoicePref},

		kindMMRejectCause:  enumType(mmRejectCauses),
		kindCiphKeySN:      enumType(ciphKeySN),
		kindMSNetFeatSupp:  enumType(msNetworkFeatSupport),
		kindMMIdentType:    enumType(mmIdentTypes),
		kindPTMSIType:      enumType(ptmsiTypes),
		kindCMServType:     enumType(cmServiceTypes),
		kindPrioLevel:      enumType(priorityLevels),
		kindNotifIndicator: enumType(notifIndicators),
		kindRepeatInd:      enumType(repeatIndicators),
		kindSSVersion:      enumType(ssVersions),
		kindNetworkCCCapab: enumType(networkCCCapabs),
		kindSignal:         enumType(signals),
		kindAlertPattern:   enumType(alertPatterns),
		kindCauseNoCLI:     enumType(causesNoCLI),
		kindCongestLvl:     enumType(congestionLevels),
		kindRecallType:     enumType(recallTypes),
		kindCPCause:        enumType(cpCauses),
		kindRRCause:        enumType(rrCauses),
		kindPSCause:        enumType(psCauses),

		kindAdditUpdParams: flagsType(additionalUpdateParams),
		kindDevProperties:  flagsType(deviceProperties),

		kindEpsReqType:           {dict: epsRequestTypes},
		kindEpsPdnType:           {dict: epsPDNTypes},
		kindEsmEITFlag:           {dict: esmInfoTransferFlags},
		kindEpsAttachType:        {dict: epsAttachTypes},
		kindTMSIStatus:           {dict: tmsiStatuses},
		kindAdditionalUpdateType: {dict: additionalUpdateTypes},
		kindGUTIType:             {dict: gutiTypes},
	}
}
