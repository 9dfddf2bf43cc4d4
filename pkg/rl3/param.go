package rl3

import (
	"strconv"
	"strings"
)

// Class is the wire layout of an information element.
type Class uint8

const (
	T Class = iota + 1
	V
	TV
	LV
	TLV
	LVE
	TLVE
)

var classNames = [...]string{T: "T", V: "V", TV: "TV", LV: "LV", TLV: "TLV", LVE: "LVE", TLVE: "TLVE"}

func (c Class) String() string {
	if int(c) < len(classNames) && classNames[c] != "" {
		return classNames[c]
	}
	return "Class(" + strconv.Itoa(int(c)) + ")"
}

// Placement says where a decoded element lands in the XML tree.
type Placement uint8

const (
	// Elem adds a child element named after the parameter.
	Elem Placement = iota
	// Root lets the element's coder work on the enclosing element.
	Root
	// Skip consumes the field without producing XML.
	Skip
)

// Param describes one information element of a message.
type Param struct {
	Class     Class
	Placement Placement
	IEI       uint8
	Name      string
	Optional  bool
	// Bits is the field width including tag and length. Zero trusts the
	// length carried on the wire.
	Bits      uint16
	LowerBits bool
	kind      kind
}

// Message is one entry of a protocol's message type table. Params describes
// the mobile station to network direction, ToMS the opposite one when it
// differs.
type Message struct {
	Type   uint8
	Name   string
	Params []Param
	ToMS   []Param
}

// PD is a protocol discriminator value.
type PD uint8

const (
	GCC       PD = 0x00
	BCC       PD = 0x01
	EPSSM     PD = 0x02
	CC        PD = 0x03
	GTTP      PD = 0x04
	MM        PD = 0x05
	RRM       PD = 0x06
	EPSMM     PD = 0x07
	GPRSMM    PD = 0x08
	SMS       PD = 0x09
	GPRSSM    PD = 0x0a
	SS        PD = 0x0b
	LCS       PD = 0x0c
	Extension PD = 0x0e
	Test      PD = 0x0f
	Unknown   PD = 0xff
)

var protoNames = dict{
	{"GCC", uint32(GCC)},
	{"BCC", uint32(BCC)},
	{"EPS_SM", uint32(EPSSM)},
	{"CC", uint32(CC)},
	{"GTTP", uint32(GTTP)},
	{"MM", uint32(MM)},
	{"RRM", uint32(RRM)},
	{"EPS_MM", uint32(EPSMM)},
	{"GPRS_MM", uint32(GPRSMM)},
	{"SMS", uint32(SMS)},
	{"GPRS_SM", uint32(GPRSSM)},
	{"SS", uint32(SS)},
	{"LCS", uint32(LCS)},
	{"EXT", uint32(Extension)},
	{"TEST", uint32(Test)},
	{"Unknown", uint32(Unknown)},
}

func (pd PD) String() string {
	return protoNames.nameOr(uint32(pd), strconv.Itoa(int(pd)))
}

// ParsePD returns the discriminator named by a protocol element tag.
func ParsePD(name string) (PD, bool) {
	v, ok := protoNames.value(name)
	if !ok || PD(v) == Unknown {
		return Unknown, false
	}
	return PD(v), true
}

// Protocol binds a discriminator to the parameters of its message header.
type Protocol struct {
	PD     PD
	Name   string
	Header []Param
}

// Role selects which direction's parameter list applies.
type Role uint8

const (
	Network Role = iota
	MobileStation
)

func (r Role) String() string {
	if r == MobileStation {
		return "ms"
	}
	return "network"
}

// ParseRole accepts "network" or "ms".
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(s) {
	case "", "network", "net":
		return Network, true
	case "ms", "mobile", "mobilestation":
		return MobileStation, true
	}
	return Network, false
}

// params returns the parameter list for the given role and direction.
func (m *Message) params(role Role, encode bool) []Param {
	if m.ToMS == nil {
		return m.Params
	}
	if (role == Network) == encode {
		return m.ToMS
	}
	return m.Params
}

func findMessage(msgs []Message, t uint8) *Message {
	for i := range msgs {
		if msgs[i].Type == t {
			return &msgs[i]
		}
	}
	return nil
}

func findMessageByName(msgs []Message, name string) *Message {
	for i := range msgs {
		if msgs[i].Name == name {
			return &msgs[i]
		}
	}
	return nil
}

// token names one value of an enumerated or bit mask field.
type token struct {
	name  string
	value uint32
}

type dict []token

func (d dict) name(v uint32) (string, bool) {
	for _, t := range d {
		if t.value == v {
			return t.name, true
		}
	}
	return "", false
}

func (d dict) nameOr(v uint32, def string) string {
	if s, ok := d.name(v); ok {
		return s
	}
	return def
}

func (d dict) value(name string) (uint32, bool) {
	for _, t := range d {
		if t.name == name {
			return t.value, true
		}
	}
	return 0, false
}

// parse resolves a token or falls back to a decimal number.
func (d dict) parse(s string) (uint32, bool) {
	if v, ok := d.value(s); ok {
		return v, true
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// flags renders the tokens whose bits are set in mask, comma separated.
func (d dict) flags(mask uint32) string {
	var out []string
	for _, t := range d {
		if t.value&mask != 0 {
			out = append(out, t.name)
		}
	}
	return strings.Join(out, ",")
}

func (d dict) mask(s string) uint32 {
	var m uint32
	for _, f := range strings.Split(s, ",") {
		if v, ok := d.value(strings.TrimSpace(f)); ok {
			m |= v
		}
	}
	return m
}
