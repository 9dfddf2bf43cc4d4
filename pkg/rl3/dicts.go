package rl3

// Value dictionaries, TS 24.008 unless noted otherwise.

var mmRejectCauses = dict{
	{"IMSI-unknown-in-HLR", 0x02},
	{"illegal-MS", 0x03},
	{"IMSI-unknown-in-VLR", 0x04},
	{"IMEI-not-accepted", 0x05},
	{"illegal-ME", 0x06},
	{"PLMN-not-allowed", 0x0b},
	{"location-area-not-allowed", 0x0c},
	{"roaming-not-allowed-in-this-location-area", 0x0d},
	{"no-suitable-cells-in-location-area", 0x0f},
	{"network-failure", 0x11},
	{"MAC-failure", 0x14},
	{"synch-failure", 0x15},
	{"congestion", 0x16},
	{"GSM-authentication-unacceptable", 0x17},
	{"not-authorized-for-this-CSG", 0x19},
	{"service-option-not-supported", 0x20},
	{"requested-service-option-not-subscribed", 0x21},
	{"service-option-temporarily-out-of-order", 0x22},
	{"call-cannot-be-identified", 0x26},
	{"retry-upon-entry-into-a-new-cell", 0x30},
	{"semantically-incorrect-message", 0x5f},
	{"invalid-mandatory-information", 0x60},
	{"message-type-non-existent-or-not-implemented", 0x61},
	{"message-type-not-compatible-with-the-protocol-state", 0x62},
	{"information-element-non-existent-or-not-implemented", 0x63},
	{"conditional-IE-error", 0x64},
	{"message-not-compatible-with-the-protocol-state", 0x65},
	{"protocol-error-unspecified", 0x6f},
}

var ciphKeySN = dict{
	{"0", 0},
	{"1", 1},
	{"2", 2},
	{"3", 3},
	{"4", 4},
	{"5", 5},
	{"6", 6},
	{"no-key/reserved", 7},
}

var msNetworkFeatSupport = dict{
	{"MS-does-not-support-the-extended-periodic-timer-in-this-domain", 0},
	{"MS-supports-the-extended-periodic-timer-in-this-domain", 1},
}

var mmIdentTypes = dict{
	{"IMSI", 1},
	{"IMEI", 2},
	{"IMEISV", 3},
	{"TMSI", 4},
	{"TMGI", 5},
}

var ptmsiTypes = dict{
	{"native-P_TMSI", 0},
	{"mapped-P_TMSI", 1},
}

var cmServiceTypes = dict{
	{"MO-call-establishment-or-PM-connection-establishment", 0x01},
	{"emergency-call-establishment", 0x02},
	{"SMS", 0x04},
	{"SS-activation", 0x08},
	{"voice-group-call-establishment", 0x09},
	{"voice-broadcast-call-establishment", 0x0a},
	{"location-services", 0x0b},
}

var priorityLevels = dict{
	{"no-priority-applied", 0x00},
	{"call-priority-level-4", 0x01},
	{"call-priority-level-3", 0x02},
	{"call-priority-level-2", 0x03},
	{"call-priority-level-1", 0x04},
	{"call-priority-level-0", 0x05},
	{"call-priority-level-B", 0x06},
	{"call-priority-level-A", 0x07},
}

var notifIndicators = dict{
	{"user-suspended", 0x80},
	{"user-resumed", 0x81},
	{"bearer-changed", 0x82},
}

var repeatIndicators = dict{
	{"circular", 0x01},
	{"fallback", 0x02},
	{"reserved", 0x03},
	{"service-change-and-fallback", 0x04},
}

var networkCCCapabs = dict{
	{"no-MCS", 0x00},
	{"MCS", 0x01},
}

var signals = dict{
	{"dial-tone-on", 0x00},
	{"ringback-tone-on", 0x01},
	{"intercept-tone-on", 0x02},
	{"network-congestion-tone-on", 0x03},
	{"busy-tone-on", 0x04},
	{"confirm-tone-on", 0x05},
	{"answer-tone-on", 0x06},
	{"call-waiting-tone-on", 0x07},
	{"off-hook-warning-tone-on", 0x08},
	{"tones-off", 0x3f},
	{"alerting-off", 0x4f},
}

var alertPatterns = dict{
	{"alertingLevel-0", 0x00},
	{"alertingLevel-1", 0x01},
	{"alertingLevel-2", 0x02},
	{"alertingCategory-1", 0x04},
	{"alertingCategory-2", 0x05},
	{"alertingCategory-3", 0x06},
	{"alertingCategory-4", 0x07},
	{"alertingCategory-5", 0x08},
}

var causesNoCLI = dict{
	{"unavailable", 0x00},
	{"user-reject", 0x01},
	{"interaction-with-other-service", 0x02},
	{"payphone", 0x03},
}

var congestionLevels = dict{
	{"receiver-ready", 0x00},
	{"receiver-not-ready", 0x0f},
}

var recallTypes = dict{
	{"CCBS", 0x00},
	{"reserved", 0x07},
}

var additionalUpdateParams = dict{
	{"CSMT", 0x01},
	{"CSMO", 0x02},
}

var deviceProperties = dict{
	{"NAS-low-priority", 0x01},
}

// TS 24.301 9.9.4.14
var epsRequestTypes = dict{
	{"initialRequest", 1},
	{"handover", 2},
	{"unused", 3},
	{"emergency", 4},
}

// TS 24.301 9.9.4.10
var epsPDNTypes = dict{
	{"ipv4", 1},
	{"ipv6", 2},
	{"ipv4v6", 3},
	{"unused", 4},
}

var esmInfoTransferFlags = dict{
	{"security-protected-ESM-information-transfer-not-required", 0},
	{"security-protected-ESM-information-transfer-required", 1},
}

// TS 24.301 9.9.3.11
var epsAttachTypes = dict{
	{"EPS-Attach", 1},
	{"combined-EPS-IMSI-attach", 2},
	{"EPS-emergency-attach", 6},
	{"reserved", 7},
}

var tmsiStatuses = dict{
	{"no-valid-TMSI-available", 0},
	{"valid-TMSI-available", 1},
}

var additionalUpdateTypes = dict{
	{"no-additional-information", 0},
	{"SMS-only", 1},
}

var gutiTypes = dict{
	{"native-GUTI", 0},
	{"mapped-GUTI", 1},
}

// TS 24.080 3.7.2
var ssVersions = dict{
	{"phase2-service,ellipsis-notation-and-phase2-error-handling-supported", 0},
	{"SS-protocol-version-3-and-phase2-error-handling-supported", 1},
}

// TS 24.011 8.1.4.2
var cpCauses = dict{
	{"network-failure", 0x11},
	{"congestion", 0x16},
	{"invalid-tid", 0x51},
	{"semantically-incorrect-message", 0x5f},
	{"invalid-mandatory-info", 0x60},
	{"message-type-non-existent-or-not-implemented", 0x61},
	{"message-not-compatible-with-SM-protocol-state", 0x62},
	{"information-element-non-existent-or-not-implemented", 0x63},
	{"protocol-error-unspecified", 0x6f},
}

// TS 44.018 10.5.2.31
var rrCauses = dict{
	{"normal-event", 0x00},
	{"unspecified", 0x01},
	{"channel-unacceptable", 0x02},
	{"timeout", 0x03},
	{"no-activity-on-radio-path", 0x04},
	{"preeemtive-release", 0x05},
	{"UTRAN-config-unknown", 0x06},
	{"ho-impossible", 0x08},
	{"channel-mode-unacceptable", 0x09},
	{"frequency-not-implemented", 0x0a},
	{"talker-leaving-GC-area", 0x0b},
	{"lower-layer-failure", 0x0c},
	{"call-already-cleared", 0x41},
	{"semantically-incorrect-message", 0x5f},
	{"invalid-mandatory-information", 0x60},
	{"message-type-non-existent-or-not-implemented", 0x61},
	{"message-type-not-compatible-with-the-protocol-state", 0x62},
	{"conditional-IE-error", 0x64},
	{"no-cell-allocation-available", 0x65},
	{"protocol-error-unspecified", 0x6f},
}

// TS 44.018 10.5.2.67
var psCauses = dict{
	{"DTM-multislot-capabilities-violated", 0x00},
	{"no-uplink-TBFs", 0x01},
	{"too-many-TBFs", 0x02},
}

var securityHeaders = dict{
	{"plain-NAS-message", uint32(plainNAS)},
	{"integrity-protected", uint32(integrityProtected)},
	{"integrity-protected-and-ciphered", uint32(integrityProtectedCiphered)},
	{"integrity-protected-with-new-EPS-security-context", uint32(integrityProtectedNewCtx)},
	{"integrity-protected-and-ciphered-with-new-EPS-security-context", uint32(integrityProtectedCipheredNewCtx)},
	{"security-header-for-the-SERVICE-REQUEST-message", uint32(serviceRequestHeader)},
}
