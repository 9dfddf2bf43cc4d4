package rl3

// Parameter tables. Bits counts the whole field including tag and length
// octets.

// Mobility management, TS 24.008 9.2.
var (
	mmIMSIDetachInd = []Param{
		{V, Elem, 0, "MSClassmark1", false, 8, true, kindMSClassmark1},
		{LV, Elem, 0, "MobileIdentity", false, 9 * 8, true, kindMobileIdent},
	}
	mmLocUpdAccept = []Param{
		{V, Elem, 0, "LAI", false, 5 * 8, true, kindLAI},
		{TLV, Elem, 0x17, "MobileIdentity", true, 10 * 8, true, kindMobileIdent},
		{T, Elem, 0xa1, "FollowOnProceed", true, 8, true, kindHex},
		{T, Elem, 0xa2, "CTSPermission", true, 8, true, kindHex},
		{TLV, Elem, 0x4a, "EquivalentPLMNs", true, 47 * 8, true, kindPLMNList},
		{TLV, Elem, 0x34, "EmergencyNumberList", true, 50 * 8, true, kindUndef},
		{TLV, Elem, 0x35, "PerMST3212", true, 3 * 8, true, kindUndef},
	}
	// also CM service reject
	mmLocUpdReject = []Param{
		{V, Elem, 0, "RejectCause", false, 8, true, kindMMRejectCause},
		{TLV, Elem, 0x36, "T3246Value", true, 3 * 8, true, kindMMTimer},
	}
	mmLocUpdRequest = []Param{
		{V, Elem, 0, "LocationUpdatingType", false, 4, true, kindLocUpdType},
		{V, Elem, 0, "CKSN", false, 4, false, kindCiphKeySN},
		{V, Elem, 0, "LAI", false, 5 * 8, true, kindLAI},
		{V, Elem, 0, "MSClassmark1", false, 8, true, kindMSClassmark1},
		{LV, Elem, 0, "MobileIdentity", false, 9 * 8, true, kindMobileIdent},
		{TLV, Elem, 0x33, "MSClassmark2", true, 5 * 8, true, kindMSClassmark2},
		{TV, Elem, 0xc0, "AdditionalUpdateParameters", true, 8, true, kindAdditUpdParams},
		{TV, Elem, 0xd0, "DeviceProperties", true, 8, true, kindDevProperties},
		{TV, Elem, 0xe0, "MSNetworkFeatureSupport", true, 8, true, kindMSNetFeatSupp},
	}
	mmAuthRequest = []Param{
		{V, Elem, 0, "CKSN", false, 4, true, kindCiphKeySN},
		{V, Skip, 0, "SpareHalfOctet", false, 4, false, kindUndef},
		{V, Elem, 0, "rand", false, 16 * 8, false, kindHex},
		{TLV, Elem, 0x20, "autn", true, 18 * 8, false, kindHex},
	}
	mmAuthResponse = []Param{
		{V, Elem, 0, "res", false, 4 * 8, false, kindHex},
		{TLV, Elem, 0x21, "xres2", true, 14 * 8, false, kindHex},
	}
	mmAuthFailure = []Param{
		{V, Elem, 0, "RejectCause", false, 8, true, kindMMRejectCause},
		{TLV, Elem, 0x22, "auts", true, 16 * 8, false, kindHex},
	}
	mmIdentityRequest = []Param{
		{V, Elem, 0, "IdentityType", false, 8, true, kindMMIdentType},
	}
	mmIdentityResponse = []Param{
		{LV, Elem, 0, "MobileIdentity", false, 10 * 8, true, kindMobileIdent},
		{TV, Elem, 0xe0, "P_TMSIType", true, 8, true, kindPTMSIType},
		{TLV, Elem, 0x1b, "RAI", true, 8 * 8, true, kindRAI},
		{TLV, Elem, 0x19, "P_TMSISignature", true, 5 * 8, true, kindHex},
	}
	mmTMSIReallocCmd = []Param{
		{V, Elem, 0, "LAI", false, 5 * 8, true, kindLAI},
		{LV, Elem, 0, "MobileIdentity", false, 9 * 8, true, kindMobileIdent},
	}
	mmCMServiceRequest = []Param{
		{V, Elem, 0, "CMServiceType", false, 4, true, kindCMServType},
		{V, Elem, 0, "CKSN", false, 4, false, kindCiphKeySN},
		{LV, Elem, 0, "MSClassmark2", false, 4 * 8, true, kindMSClassmark2},
		{LV, Elem, 0, "MobileIdentity", false, 9 * 8, true, kindMobileIdent},
		{TV, Elem, 0x80, "Priority", true, 8, true, kindPrioLevel},
		{TV, Elem, 0xc0, "AdditionalUpdateParameters", true, 8, true, kindAdditUpdParams},
		{TV, Elem, 0xd0, "DeviceProperties", true, 8, true, kindDevProperties},
	}
	mmCMServicePrompt = []Param{
		{V, Elem, 0, "PDAndSAPI", false, 8, true, kindPDAndSAPI},
	}
	mmCMReEstRequest = []Param{
		{V, Elem, 0, "CKSN", false, 4, true, kindCiphKeySN},
		{V, Skip, 0, "SpareHalfOctet", false, 4, false, kindUndef},
		{LV, Elem, 0, "MSClassmark2", false, 4 * 8, true, kindMSClassmark2},
		{LV, Elem, 0, "MobileIdentity", false, 9 * 8, true, kindMobileIdent},
		{TV, Elem, 0x13, "LAI", true, 6 * 8, true, kindLAI},
		{TV, Elem, 0xd0, "DeviceProperties", true, 8, true, kindDevProperties},
	}
	// also MM status
	mmAbort = []Param{
		{V, Elem, 0, "RejectCause", false, 8, true, kindMMRejectCause},
	}
	mmInformation = []Param{
		{TLV, Elem, 0x43, "NetworkFullName", true, 255 * 8, true, kindNetworkName},
		{TLV, Elem, 0x45, "NetworkShortName", true, 255 * 8, true, kindNetworkName},
		{TV, Elem, 0x46, "LocalTimezone", true, 2 * 8, true, kindUndef},
		{TV, Elem, 0x47, "UniversalTimeAndTimezone", true, 8 * 8, true, kindUndef},
		{TLV, Elem, 0x48, "LSAIdentity", true, 5 * 8, true, kindUndef},
		{TLV, Elem, 0x49, "NetworkDST", true, 3 * 8, true, kindUndef},
	}
)

var mmMessages = []Message{
	{Type: 0x01, Name: "IMSIDetachIndication", Params: mmIMSIDetachInd},
	{Type: 0x02, Name: "LocationUpdatingAccept", Params: mmLocUpdAccept},
	{Type: 0x04, Name: "LocationUpdatingReject", Params: mmLocUpdReject},
	{Type: 0x08, Name: "LocationUpdatingRequest", Params: mmLocUpdRequest},
	{Type: 0x11, Name: "AuthenticationReject"},
	{Type: 0x12, Name: "AuthenticationRequest", Params: mmAuthRequest},
	{Type: 0x14, Name: "AuthenticationResponse", Params: mmAuthResponse},
	{Type: 0x1c, Name: "AuthenticationFailure", Params: mmAuthFailure},
	{Type: 0x18, Name: "IdentityRequest", Params: mmIdentityRequest},
	{Type: 0x19, Name: "IdentityResponse", Params: mmIdentityResponse},
	{Type: 0x1a, Name: "TMSIReallocationCommand", Params: mmTMSIReallocCmd},
	{Type: 0x1b, Name: "TMSIReallocationComplete"},
	{Type: 0x21, Name: "CMServiceAccept"},
	{Type: 0x22, Name: "CMServiceReject", Params: mmLocUpdReject},
	{Type: 0x23, Name: "CMServiceAbort"},
	{Type: 0x24, Name: "CMServiceRequest", Params: mmCMServiceRequest},
	{Type: 0x25, Name: "CMServicePrompt", Params: mmCMServicePrompt},
	{Type: 0x28, Name: "CMReEstablishmentRequest", Params: mmCMReEstRequest},
	{Type: 0x29, Name: "Abort", Params: mmAbort},
	{Type: 0x30, Name: "MMNull"},
	{Type: 0x31, Name: "MMStatus", Params: mmAbort},
	{Type: 0x32, Name: "MMInformation", Params: mmInformation},
}

// Call control, TS 24.008 9.3. Facility contents are supplementary service
// components and stay in hex.
var (
	ccAlertFromMS = []Param{
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
		{TLV, Elem, 0x7f, "SSVersion", true, 3 * 8, true, kindSSVersion},
	}
	ccAlertToMS = []Param{
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x1e, "ProgressIndicator", true, 4 * 8, true, kindProgressInd},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
	}
	ccCallProceeding = []Param{
		{TV, Elem, 0xd0, "BCRepeatIndicator", true, 8, true, kindRepeatInd},
		{TLV, Elem, 0x04, "BearerCapability1", true, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x04, "BearerCapability2", true, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x1e, "ProgressIndicator", true, 4 * 8, true, kindProgressInd},
		{TV, Elem, 0x80, "Priority", true, 8, true, kindPrioLevel},
		{TLV, Elem, 0x2f, "NetworkCCCapabilities", true, 3 * 8, true, kindNetworkCCCapab},
	}
	ccProgress = []Param{
		{LV, Elem, 0, "ProgressIndicator", false, 3 * 8, true, kindProgressInd},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
	}
	ccEstablishment = []Param{
		{LV, Elem, 0, "SetupContainer", false, 255 * 8, true, kindRL3Msg},
	}
	ccSetupFromMS = []Param{
		{TV, Elem, 0xd0, "BCRepeatIndicator", true, 8, true, kindRepeatInd},
		{TLV, Elem, 0x04, "BearerCapability1", false, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x04, "BearerCapability2", true, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x5d, "CallingPartySubAddress", true, 23 * 8, true, kindUndef},
		{TLV, Elem, 0x5e, "CalledPartyBCDNumber", false, 43 * 8, true, kindBCDNumber},
		{TLV, Elem, 0x6d, "CalledPartySubAddress", true, 23 * 8, true, kindUndef},
		{TV, Elem, 0xd0, "LLCRepeatIndicator", true, 8, true, kindRepeatInd},
		{TLV, Elem, 0x7c, "LowLayerCompatibility1", true, 18 * 8, true, kindUndef},
		{TLV, Elem, 0x7c, "LowLayerCompatibility2", true, 18 * 8, true, kindUndef},
		{TV, Elem, 0xd0, "HLCRepeatIndicator", true, 8, true, kindRepeatInd},
		{TLV, Elem, 0x7d, "HighLayerCompatibility1", true, 5 * 8, true, kindUndef},
		{TLV, Elem, 0x7d, "HighLayerCompatibility2", true, 5 * 8, true, kindUndef},
		{TLV, Elem, 0x7e, "UserUser", true, 35 * 8, true, kindUndef},
		{TLV, Elem, 0x7f, "SSVersion", true, 3 * 8, true, kindSSVersion},
		{T, Elem, 0xa1, "CLIRSuppresion", true, 8, true, kindHex},
		{T, Elem, 0xa2, "CLIRInvocation", true, 8, true, kindHex},
		{TLV, Elem, 0x15, "CCCapabilities", true, 4 * 8, true, kindCCCapab},
		{TLV, Elem, 0x1d, "FacilityCCBSAdvRA", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x1b, "FacilityCCBSRANotEssent", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x2d, "StreamIdentifier", true, 3 * 8, true, kindInt},
		{TLV, Elem, 0x40, "SupportedCodecs", true, 255 * 8, true, kindUndef},
		{T, Elem, 0xa3, "Redial", true, 8, true, kindHex},
	}
	ccSetupToMS = []Param{
		{TV, Elem, 0xd0, "BCRepeatIndicator", true, 8, true, kindRepeatInd},
		{TLV, Elem, 0x04, "BearerCapability1", true, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x04, "BearerCapability2", true, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x1e, "ProgressIndicator", true, 4 * 8, true, kindProgressInd},
		{TV, Elem, 0x34, "Signal", true, 2 * 8, true, kindSignal},
		{TLV, Elem, 0x5c, "CallingPartyBCDNumber", true, 14 * 8, true, kindBCDNumber},
		{TLV, Elem, 0x5d, "CallingPartySubAddress", true, 23 * 8, true, kindUndef},
		{TLV, Elem, 0x5e, "CalledPartyBCDNumber", true, 19 * 8, true, kindBCDNumber},
		{TLV, Elem, 0x6d, "CalledPartySubAddress", true, 23 * 8, true, kindUndef},
		{TLV, Elem, 0x74, "RedirectingPartyBCDNumber", true, 19 * 8, true, kindBCDNumber},
		{TLV, Elem, 0x75, "RedirectingPartySubAddress", true, 23 * 8, true, kindUndef},
		{TV, Elem, 0xd0, "LLCRepeatIndicator", true, 8, true, kindRepeatInd},
		{TLV, Elem, 0x7c, "LowLayerCompatibility1", true, 18 * 8, true, kindUndef},
		{TLV, Elem, 0x7c, "LowLayerCompatibility2", true, 18 * 8, true, kindUndef},
		{TV, Elem, 0xd0, "HLCRepeatIndicator", true, 8, true, kindRepeatInd},
		{TLV, Elem, 0x7d, "HighLayerCompatibility1", true, 5 * 8, true, kindUndef},
		{TLV, Elem, 0x7d, "HighLayerCompatibility2", true, 5 * 8, true, kindUndef},
		{TLV, Elem, 0x7e, "UserUser", true, 35 * 8, true, kindUndef},
		{TV, Elem, 0x80, "Priority", true, 8, true, kindPrioLevel},
		{TLV, Elem, 0x19, "Alert", true, 3 * 8, true, kindAlertPattern},
		{TLV, Elem, 0x2f, "NetworkCCCapabilities", true, 3 * 8, true, kindNetworkCCCapab},
		{TLV, Elem, 0x3a, "CauseOfNoCLI", true, 3 * 8, true, kindCauseNoCLI},
		{TLV, Elem, 0x41, "BackupBearerCapability", true, 15 * 8, true, kindUndef},
	}
	ccEstablishmentConfirmed = []Param{
		{TV, Elem, 0xd0, "BCRepeatIndicator", true, 8, true, kindRepeatInd},
		{TLV, Elem, 0x04, "BearerCapability1", true, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x04, "BearerCapability2", true, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x08, "Cause", true, 32 * 8, true, kindCause},
		{TLV, Elem, 0x40, "SupportedCodecs", true, 255 * 8, true, kindUndef},
	}
	ccConnectFromMS = []Param{
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x4d, "ConnectedSubAddress", true, 23 * 8, true, kindUndef},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
		{TLV, Elem, 0x7f, "SSVersion", true, 3 * 8, true, kindSSVersion},
		{TLV, Elem, 0x2d, "StreamIdentifier", true, 3 * 8, true, kindInt},
	}
	ccConnectToMS = []Param{
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x1e, "ProgressIndicator", true, 4 * 8, true, kindProgressInd},
		{TLV, Elem, 0x4c, "ConnectedNumber", true, 14 * 8, true, kindBCDNumber},
		{TLV, Elem, 0x4d, "ConnectedSubAddress", true, 23 * 8, true, kindUndef},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
	}
	ccDisconnectFromMS = []Param{
		{LV, Elem, 0, "Cause", false, 31 * 8, true, kindCause},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
		{TLV, Elem, 0x7f, "SSVersion", true, 3 * 8, true, kindSSVersion},
	}
	ccDisconnectToMS = []Param{
		{LV, Elem, 0, "Cause", false, 31 * 8, true, kindCause},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x1e, "ProgressIndicator", true, 4 * 8, true, kindProgressInd},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
		{TLV, Elem, 0x7b, "AllowedActions", true, 3 * 8, true, kindUndef},
	}
	ccReleaseFromMS = []Param{
		{TLV, Elem, 0x08, "Cause", true, 32 * 8, true, kindCause},
		{TLV, Elem, 0x08, "SecondCause", true, 32 * 8, true, kindCause},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
		{TLV, Elem, 0x7f, "SSVersion", true, 3 * 8, true, kindSSVersion},
	}
	ccReleaseToMS = []Param{
		{TLV, Elem, 0x08, "Cause", true, 32 * 8, true, kindCause},
		{TLV, Elem, 0x08, "SecondCause", true, 32 * 8, true, kindCause},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
	}
	ccReleaseCompleteFromMS = []Param{
		{TLV, Elem, 0x08, "Cause", true, 32 * 8, true, kindCause},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
		{TLV, Elem, 0x7f, "SSVersion", true, 3 * 8, true, kindSSVersion},
	}
	ccReleaseCompleteToMS = []Param{
		{TLV, Elem, 0x08, "Cause", true, 32 * 8, true, kindCause},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
		{TLV, Elem, 0x7e, "UserUser", true, 131 * 8, true, kindUndef},
	}
	ccCallConfirmed = []Param{
		{TV, Elem, 0xd0, "BCRepeatIndicator", true, 8, true, kindRepeatInd},
		{TLV, Elem, 0x04, "BearerCapability1", true, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x04, "BearerCapability2", true, 16 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x08, "Cause", true, 32 * 8, true, kindCause},
		{TLV, Elem, 0x15, "CCCapabilities", true, 4 * 8, true, kindCCCapab},
		{TLV, Elem, 0x2d, "StreamIdentifier", true, 3 * 8, true, kindInt},
		{TLV, Elem, 0x40, "SupportedCodecs", true, 255 * 8, true, kindUndef},
	}
	ccStartCC = []Param{
		{TLV, Elem, 0x15, "CCCapabilities", true, 4 * 8, true, kindCCCapab},
	}
	ccRecall = []Param{
		{V, Elem, 0, "RecallType", false, 8, true, kindRecallType},
		{LV, Elem, 0, "Facility", false, 255 * 8, true, kindHex},
	}
	ccEmergencySetup = []Param{
		{TLV, Elem, 0x04, "BearerCapability", true, 11 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x2d, "StreamIdentifier", true, 3 * 8, true, kindInt},
		{TLV, Elem, 0x40, "SupportedCodecs", true, 255 * 8, true, kindUndef},
		{TLV, Elem, 0x2e, "EmergencyCategory", true, 3 * 8, true, kindUndef},
	}
	ccUserInformation = []Param{
		{LV, Elem, 0, "UserUser", false, 130 * 8, true, kindUndef},
		{T, Elem, 0xa0, "MoreData", true, 8, true, kindHex},
	}
	ccModify = []Param{
		{LV, Elem, 0, "BearerCapability", false, 15 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x7c, "LowLayerCompatibility", true, 18 * 8, true, kindUndef},
		{TLV, Elem, 0x7d, "HighLayerCompatibility", true, 5 * 8, true, kindUndef},
		{T, Elem, 0xa3, "ReverseCallSetupDirection", true, 8, true, kindHex},
		{T, Elem, 0xa4, "NIServiceUpgradeIndicator", true, 8, true, kindHex},
	}
	ccModifyComplete = []Param{
		{LV, Elem, 0, "BearerCapability", false, 15 * 8, true, kindBearerCapab},
		{TLV, Elem, 0x7c, "LowLayerCompatibility", true, 18 * 8, true, kindUndef},
		{TLV, Elem, 0x7d, "HighLayerCompatibility", true, 5 * 8, true, kindUndef},
		{T, Elem, 0xa3, "ReverseCallSetupDirection", true, 8, true, kindHex},
	}
	ccModifyReject = []Param{
		{LV, Elem, 0, "Cause", false, 31 * 8, true, kindCause},
		{TLV, Elem, 0x7c, "LowLayerCompatibility", true, 18 * 8, true, kindUndef},
		{TLV, Elem, 0x7d, "HighLayerCompatibility", true, 5 * 8, true, kindUndef},
	}
	ccCongestionControl = []Param{
		{V, Elem, 0, "CongestionLevel", false, 4, true, kindCongestLvl},
		{V, Skip, 0, "SpareHalfOctet", false, 4, false, kindUndef},
		{TLV, Elem, 0x08, "Cause", true, 32 * 8, true, kindCause},
	}
	ccNotify = []Param{
		{V, Elem, 0, "NotificationIndicator", false, 8, true, kindNotifIndicator},
	}
	ccStatus = []Param{
		{LV, Elem, 0, "Cause", false, 31 * 8, true, kindCause},
		{V, Elem, 0, "CallState", false, 8, true, kindUndef},
		{TLV, Elem, 0x24, "AuxiliaryStates", true, 3 * 8, true, kindUndef},
	}
	// hold, retrieve and start DTMF rejects
	ccCauseReject = []Param{
		{LV, Elem, 0, "Cause", false, 31 * 8, true, kindCause},
	}
	ccStartDTMF = []Param{
		{TV, Elem, 0x2c, "KeypadFacility", false, 2 * 8, true, kindIA5Chars},
	}
	ccFacilityFromMS = []Param{
		{LV, Elem, 0, "Facility", false, 255 * 8, true, kindHex},
		{TLV, Elem, 0x7f, "SSVersion", true, 3 * 8, true, kindSSVersion},
	}
	ccFacilityToMS = []Param{
		{LV, Elem, 0, "Facility", false, 255 * 8, true, kindHex},
	}
)

var ccMessages = []Message{
	{Type: 0x01, Name: "Alerting", Params: ccAlertFromMS, ToMS: ccAlertToMS},
	{Type: 0x02, Name: "CallProceeding", Params: ccCallProceeding},
	{Type: 0x03, Name: "Progress", Params: ccProgress},
	{Type: 0x04, Name: "CCEstablishment", Params: ccEstablishment},
	{Type: 0x05, Name: "Setup", Params: ccSetupFromMS, ToMS: ccSetupToMS},
	{Type: 0x06, Name: "CCEstablishmentConfirmed", Params: ccEstablishmentConfirmed},
	{Type: 0x07, Name: "Connect", Params: ccConnectFromMS, ToMS: ccConnectToMS},
	{Type: 0x08, Name: "CallConfirmed", Params: ccCallConfirmed},
	{Type: 0x09, Name: "StartCC", Params: ccStartCC},
	{Type: 0x0b, Name: "Recall", Params: ccRecall},
	{Type: 0x0e, Name: "EmergencySetup", Params: ccEmergencySetup},
	{Type: 0x0f, Name: "ConnectAcknowledge"},
	{Type: 0x10, Name: "UserInformation", Params: ccUserInformation},
	{Type: 0x17, Name: "Modify", Params: ccModify},
	{Type: 0x1f, Name: "ModifyComplete", Params: ccModifyComplete},
	{Type: 0x13, Name: "ModifyReject", Params: ccModifyReject},
	{Type: 0x18, Name: "Hold"},
	{Type: 0x19, Name: "HoldAck"},
	{Type: 0x1a, Name: "HoldReject", Params: ccCauseReject},
	{Type: 0x1c, Name: "Retrieve"},
	{Type: 0x1d, Name: "RetrieveAck"},
	{Type: 0x1e, Name: "RetrieveReject", Params: ccCauseReject},
	{Type: 0x25, Name: "Disconnect", Params: ccDisconnectFromMS, ToMS: ccDisconnectToMS},
	{Type: 0x2d, Name: "Release", Params: ccReleaseFromMS, ToMS: ccReleaseToMS},
	{Type: 0x2a, Name: "ReleaseComplete", Params: ccReleaseCompleteFromMS, ToMS: ccReleaseCompleteToMS},
	{Type: 0x39, Name: "CongestionControl", Params: ccCongestionControl},
	{Type: 0x3e, Name: "Notify", Params: ccNotify},
	{Type: 0x34, Name: "StatusEnquiry"},
	{Type: 0x3d, Name: "Status", Params: ccStatus},
	{Type: 0x35, Name: "StartDTMF", Params: ccStartDTMF},
	{Type: 0x36, Name: "StartDTMFAck", Params: ccStartDTMF},
	{Type: 0x37, Name: "StartDTMFReject", Params: ccCauseReject},
	{Type: 0x31, Name: "StopDTMF"},
	{Type: 0x32, Name: "StopDTMFAck"},
	{Type: 0x3a, Name: "Facility", Params: ccFacilityFromMS, ToMS: ccFacilityToMS},
}

// EPS session management, TS 24.301 8.3.
var epsPDNConnectivityRequest = []Param{
	{V, Elem, 0, "RequestType", false, 4, true, kindEpsReqType},
	{V, Elem, 0, "PDNType", false, 4, false, kindEpsPdnType},
	{TV, Elem, 0xd0, "ESMInformationTransferFlag", true, 8, true, kindEsmEITFlag},
	{TLV, Elem, 0x28, "AccessPointName", true, 102 * 8, true, kindUndef},
	{TLV, Elem, 0x27, "ProtocolConfigurationOptions", true, 253 * 8, true, kindUndef},
	{TV, Elem, 0xc0, "DeviceProperties", true, 8, true, kindDevProperties},
}

var epsSMMessages = []Message{
	{Type: 0xc1, Name: "ActivateDefaultEPSBearerContextRequest"},
	{Type: 0xc2, Name: "ActivateDefaultEPSBearerContextAccept"},
	{Type: 0xc3, Name: "ActivateDefaultEPSBearerContextReject"},
	{Type: 0xc5, Name: "ActivateDedicatedEPSBearerContextRequest"},
	{Type: 0xc6, Name: "ActivateDedicatedEPSBearerContextAccept"},
	{Type: 0xc7, Name: "ActivateDedicatedEPSBearerContextReject"},
	{Type: 0xc9, Name: "ModifyEPSBearerContextRequest"},
	{Type: 0xca, Name: "ModifyEPSBearerContextAccept"},
	{Type: 0xcb, Name: "ModifyEPSBearerContextReject"},
	{Type: 0xcd, Name: "DeactivateEPSBearerContextRequest"},
	{Type: 0xce, Name: "DeactivateEPSBearerContextAccept"},
	{Type: 0xd0, Name: "PDNConnectivityRequest", Params: epsPDNConnectivityRequest},
	{Type: 0xd1, Name: "PDNConnectivityReject"},
	{Type: 0xd2, Name: "PDNDisconnectRequest"},
	{Type: 0xd3, Name: "PDNDisconnectReject"},
	{Type: 0xd4, Name: "BearerResourceAllocationRequest"},
	{Type: 0xd5, Name: "BearerResourceAllocationReject"},
	{Type: 0xd6, Name: "BearerResourceModificationRequest"},
	{Type: 0xd7, Name: "BearerResourceModificationReject"},
	{Type: 0xd9, Name: "ESMInformationRequest"},
	{Type: 0xda, Name: "ESMInformationResponse"},
	{Type: 0xdb, Name: "Notification"},
	{Type: 0xe8, Name: "ESMStatus"},
}

// EPS mobility management, TS 24.301 8.2.
var epsAttachRequest = []Param{
	{V, Elem, 0, "EPSAttachType", false, 4, true, kindEpsAttachType},
	{V, Elem, 0, "NASKeySetIdentifier", false, 4, false, kindNASKeySetID},
	{LV, Elem, 0, "EPSMobileIdentity", false, 12 * 8, true, kindEPSMobileIdent},
	{LV, Elem, 0, "UENetworkCapability", false, 14 * 8, true, kindUENetworkCapab},
	{LVE, Elem, 0, "ESMMessageContainer", false, 0, true, kindRL3Msg},
	{TV, Elem, 0x19, "OldPTMSISignature", true, 4 * 8, true, kindUndef},
	{TLV, Elem, 0x50, "AdditionalGUTI", true, 13 * 8, true, kindUndef},
	{TV, Elem, 0x52, "LastVisitedRegisteredTAI", true, 6 * 8, true, kindTAI},
	{TV, Elem, 0x5c, "DRXParameter", true, 3 * 8, true, kindDRX},
	{TLV, Elem, 0x31, "MSNetworkCapability", true, 10 * 8, true, kindUndef},
	{TV, Elem, 0x13, "OldLocationAreaIdentification", true, 6 * 8, true, kindUndef},
	{TV, Elem, 0x90, "TMSIStatus", true, 8, true, kindTMSIStatus},
	{TLV, Elem, 0x11, "MSClassmark2", true, 5 * 8, true, kindMSClassmark2},
	{TLV, Elem, 0x20, "MSClassmark3", true, 34 * 8, true, kindUndef},
	{TLV, Elem, 0x40, "SupportedCodecs", true, 0, true, kindUndef},
	{TV, Elem, 0xf0, "AdditionalUpdateType", true, 8, true, kindAdditionalUpdateType},
	{TLV, Elem, 0x5d, "VoiceDomainPreferenceAndUEsUsageSetting", true, 3 * 8, true, kindVoicePref},
	{TV, Elem, 0xd0, "DeviceProperties", true, 8, true, kindDevProperties},
	{TV, Elem, 0xe0, "OldGUTIType", true, 8, true, kindGUTIType},
	{TV, Elem, 0xc0, "MSNetworkFeatureSupport", true, 8, true, kindMSNetFeatSupp},
	{TLV, Elem, 0x10, "TMSIBasedNRIContainer", true, 4 * 8, true, kindUndef},
}

var epsMMMessages = []Message{
	{Type: 0x41, Name: "AttachRequest", Params: epsAttachRequest},
}

// Supplementary services, TS 24.080 2.
var (
	ssReleaseComplete = []Param{
		{TLV, Elem, 0x08, "Cause", true, 32 * 8, true, kindCause},
		{TLV, Elem, 0x1c, "Facility", true, 255 * 8, true, kindHex},
	}
	ssFacility = []Param{
		{LV, Elem, 0, "Facility", false, 255 * 8, true, kindHex},
	}
	ssRegisterFromMS = []Param{
		{TLV, Elem, 0x1c, "Facility", false, 255 * 8, true, kindHex},
		{TLV, Elem, 0x7f, "SSVersion", true, 3 * 8, true, kindSSVersion},
	}
	ssRegisterToMS = []Param{
		{TLV, Elem, 0x1c, "Facility", false, 255 * 8, true, kindHex},
	}
)

var ssMessages = []Message{
	{Type: 0x2a, Name: "ReleaseComplete", Params: ssReleaseComplete},
	{Type: 0x3a, Name: "Facility", Params: ssFacility},
	{Type: 0x3b, Name: "Register", Params: ssRegisterFromMS, ToMS: ssRegisterToMS},
}

// Short message control protocol, TS 24.011 7.2.
var smsMessages = []Message{
	{Type: 0x01, Name: "CP-Data", Params: []Param{
		{LV, Elem, 0, "RPDU", false, 249 * 8, true, kindHex},
	}},
	{Type: 0x04, Name: "CP-Ack"},
	{Type: 0x10, Name: "CP-Error", Params: []Param{
		{V, Elem, 0, "CP-Cause", false, 8, true, kindCPCause},
	}},
}

// Radio resource management, TS 44.018 9.1.
var (
	rrPagingResponse = []Param{
		{V, Elem, 0, "CKSN", false, 4, true, kindCiphKeySN},
		{V, Skip, 0, "SpareHalfOctet", false, 4, false, kindUndef},
		{LV, Elem, 0, "MSClassmark2", false, 4 * 8, true, kindMSClassmark2},
		{LV, Elem, 0, "MobileIdentity", false, 9 * 8, true, kindMobileIdent},
		{TV, Elem, 0xc0, "AdditionalUpdateParameters", true, 8, true, kindAdditUpdParams},
	}
	rrHandoverFailure = []Param{
		{V, Elem, 0, "RRCause", false, 8, true, kindRRCause},
		{TV, Elem, 0x90, "PSCause", true, 8, true, kindPSCause},
	}
	rrHandoverComplete = []Param{
		{V, Elem, 0, "RRCause", false, 8, true, kindRRCause},
		{TLV, Elem, 0x77, "MobileTimeDifference", true, 5 * 8, true, kindMobileTD},
		{TLV, Elem, 0x67, "MobileTimeDifferenceHyperframe", true, 7 * 8, true, kindMobileTDHyper},
	}
	rrStatus = []Param{
		{V, Elem, 0, "RRCause", false, 8, true, kindRRCause},
	}
)

var rrMessages = []Message{
	{Type: 0x27, Name: "PagingResponse", Params: rrPagingResponse},
	{Type: 0x28, Name: "HandoverFailure", Params: rrHandoverFailure},
	{Type: 0x2c, Name: "HandoverComplete", Params: rrHandoverComplete},
	{Type: 0x12, Name: "RRStatus", Params: rrStatus},
}

// Message headers per protocol, TS 24.007 11.2.3.
var (
	skipIndicator = Param{V, Elem, 0, "SkipIndicator", false, 4, false, kindInt}
	transactionID = Param{V, Elem, 0, "TID", false, 4, false, kindTID}
)

func header(first Param, msgs kind) []Param {
	return []Param{first, {V, Root, 0, "Message", false, 8, false, msgs}}
}

var protocols = []Protocol{
	{GCC, "GCC", nil},
	{BCC, "BCC", nil},
	{EPSSM, "EPS_SM", []Param{
		{V, Elem, 0, "EPSBearerIdentity", false, 4, false, kindUndef},
		{V, Elem, 0, "PTID", false, 8, false, kindUndef},
		{V, Root, 0, "Message", false, 8, false, kindEPSSMMsg},
	}},
	{CC, "CC", header(transactionID, kindCCMsg)},
	{GTTP, "GTTP", nil},
	{MM, "MM", header(skipIndicator, kindMMMsg)},
	{RRM, "RRM", header(skipIndicator, kindRRMsg)},
	{EPSMM, "EPS_MM", []Param{
		{V, Root, 0, "SecurityHeader", false, 4, false, kindSecurityHeader},
	}},
	{GPRSMM, "GPRS_MM", nil},
	{SMS, "SMS", header(transactionID, kindSMSMsg)},
	{GPRSSM, "GPRS_SM", nil},
	{SS, "SS", header(transactionID, kindSSMsg)},
	{LCS, "LCS", nil},
	{Extension, "EXT", nil},
	{Test, "TEST", nil},
}

// rl3Message is the entry point of every layer 3 message: the protocol
// discriminator in the low nibble of the first octet selects the header.
var rl3Message = []Param{
	{V, Root, 0, "PD", false, 4, true, kindPD},
}
