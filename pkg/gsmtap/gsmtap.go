// Package gsmtap implements the GSMTAP version 2 pseudo header as a gopacket
// layer and extracts the Radio Layer 3 message it carries.
package gsmtap

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"
)

const (
	Port      = 4729
	Version   = 2
	HeaderLen = 16
)

var LayerTypeGSMTAP = gopacket.RegisterLayerType(4729, gopacket.LayerTypeMetadata{
	Name:    "GSMTAP",
	Decoder: gopacket.DecodeFunc(decodeGSMTAP),
})

func init() {
	layers.RegisterUDPPortLayerType(layers.UDPPort(Port), LayerTypeGSMTAP)
}

type Type uint8

const (
	TypeUm      Type = 0x01
	TypeAbis    Type = 0x02
	TypeUmBurst Type = 0x03
	TypeLTERRC  Type = 0x0d
	TypeLTEMAC  Type = 0x0e
	TypeLTENAS  Type = 0x12
)

func (t Type) String() string {
	switch t {
	case TypeUm:
		return "Um"
	case TypeAbis:
		return "Abis"
	case TypeUmBurst:
		return "Um-burst"
	case TypeLTERRC:
		return "LTE-RRC"
	case TypeLTEMAC:
		return "LTE-MAC"
	case TypeLTENAS:
		return "LTE-NAS"
	}
	return fmt.Sprintf("type-%d", uint8(t))
}

// Um logical channel sub types. ChannelACCH marks the slow associated
// control channel of the dedicated channel it is combined with.
const (
	ChannelUnknown uint8 = iota
	ChannelBCCH
	ChannelCCCH
	ChannelRACH
	ChannelAGCH
	ChannelPCH
	ChannelSDCCH
	ChannelSDCCH4
	ChannelSDCCH8
	ChannelTCHF
	ChannelTCHH

	ChannelACCH uint8 = 0x80
)

var channelNames = map[uint8]string{
	ChannelBCCH:   "BCCH",
	ChannelCCCH:   "CCCH",
	ChannelRACH:   "RACH",
	ChannelAGCH:   "AGCH",
	ChannelPCH:    "PCH",
	ChannelSDCCH:  "SDCCH",
	ChannelSDCCH4: "SDCCH/4",
	ChannelSDCCH8: "SDCCH/8",
	ChannelTCHF:   "FACCH/F",
	ChannelTCHH:   "FACCH/H",
}

const (
	arfcnPCS    = 0x8000
	arfcnUplink = 0x4000
	arfcnMask   = 0x3fff

	// a Um block is 23 octets, padded with 0x2b
	umBlockLen = 23
	umPadding  = 0x2b
)

// GSMTAP is the version 2 header. HeaderLength counts octets.
type GSMTAP struct {
	layers.BaseLayer
	Version      uint8
	HeaderLength uint8
	Type         Type
	Timeslot     uint8
	ARFCN        uint16
	PCS          bool
	Uplink       bool
	SignalDBm    int8
	SNRdB        int8
	FrameNumber  uint32
	SubType      uint8
	Antenna      uint8
	SubSlot      uint8
}

func (g *GSMTAP) LayerType() gopacket.LayerType { return LayerTypeGSMTAP }

func (g *GSMTAP) CanDecode() gopacket.LayerClass { return LayerTypeGSMTAP }

func (g *GSMTAP) NextLayerType() gopacket.LayerType { return gopacket.LayerTypePayload }

func (g *GSMTAP) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < HeaderLen {
		df.SetTruncated()
		return errors.Errorf("GSMTAP length %d too short", len(data))
	}
	if data[0] != Version {
		return errors.Errorf("unsupported GSMTAP version %d", data[0])
	}
	hlen := int(data[1]) * 4
	if hlen < HeaderLen || hlen > len(data) {
		return errors.Errorf("invalid GSMTAP header length %d", hlen)
	}

	arfcn := binary.BigEndian.Uint16(data[4:6])
	g.Version = data[0]
	g.HeaderLength = uint8(hlen)
	g.Type = Type(data[2])
	g.Timeslot = data[3]
	g.ARFCN = arfcn & arfcnMask
	g.PCS = arfcn&arfcnPCS != 0
	g.Uplink = arfcn&arfcnUplink != 0
	g.SignalDBm = int8(data[6])
	g.SNRdB = int8(data[7])
	g.FrameNumber = binary.BigEndian.Uint32(data[8:12])
	g.SubType = data[12]
	g.Antenna = data[13]
	g.SubSlot = data[14]
	g.BaseLayer = layers.BaseLayer{Contents: data[:hlen], Payload: data[hlen:]}
	return nil
}

func (g *GSMTAP) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	h, err := b.PrependBytes(HeaderLen)
	if err != nil {
		return errors.Wrap(err, "gsmtap.SerializeTo")
	}
	arfcn := g.ARFCN & arfcnMask
	if g.PCS {
		arfcn |= arfcnPCS
	}
	if g.Uplink {
		arfcn |= arfcnUplink
	}
	h[0] = Version
	h[1] = HeaderLen / 4
	h[2] = byte(g.Type)
	h[3] = g.Timeslot
	binary.BigEndian.PutUint16(h[4:6], arfcn)
	h[6] = byte(g.SignalDBm)
	h[7] = byte(g.SNRdB)
	binary.BigEndian.PutUint32(h[8:12], g.FrameNumber)
	h[12] = g.SubType
	h[13] = g.Antenna
	h[14] = g.SubSlot
	h[15] = 0
	return nil
}

func decodeGSMTAP(data []byte, p gopacket.PacketBuilder) error {
	g := &GSMTAP{}
	if err := g.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(g)
	return p.NextDecoder(g.NextLayerType())
}

// Channel names the logical channel of a Um frame.
func (g *GSMTAP) Channel() string {
	if g.Type != TypeUm {
		return ""
	}
	name, ok := channelNames[g.SubType&^ChannelACCH]
	if !ok {
		name = fmt.Sprintf("channel-%d", g.SubType&^ChannelACCH)
	}
	if g.SubType&ChannelACCH != 0 {
		return "SACCH/" + name
	}
	return name
}

// L3 returns the Radio Layer 3 message in the payload. ok is false for
// frames that carry none, such as LAPDm supervisory frames or bursts.
func (g *GSMTAP) L3() ([]byte, bool, error) {
	switch g.Type {
	case TypeLTENAS:
		return g.Payload, len(g.Payload) > 0, nil
	case TypeUm:
		return umL3(g.SubType, g.Payload)
	}
	return nil, false, nil
}

func umL3(sub uint8, data []byte) ([]byte, bool, error) {
	if sub&ChannelACCH != 0 {
		// SACCH L1 header: ordered power and timing advance
		if len(data) < 2 {
			return nil, false, errors.New("SACCH block too short")
		}
		return lapdm(data[2:])
	}
	switch sub {
	case ChannelBCCH, ChannelCCCH, ChannelAGCH, ChannelPCH:
		return pseudoLength(data)
	case ChannelRACH:
		return nil, false, nil
	}
	return lapdm(data)
}

func pseudoLength(data []byte) ([]byte, bool, error) {
	if len(data) < 1 {
		return nil, false, errors.New("missing L2 pseudo length")
	}
	n := int(data[0] >> 2)
	if 1+n > len(data) {
		return nil, false, errors.Errorf("L2 pseudo length %d exceeds block", n)
	}
	return data[1 : 1+n], n > 0, nil
}

// lapdm strips an A or B format LAPDm header, TS 44.006. Only I and UI
// frames carry information.
func lapdm(data []byte) ([]byte, bool, error) {
	if len(data) < 3 {
		return nil, false, errors.New("LAPDm frame too short")
	}
	ctrl := data[1]
	if ctrl&0x01 != 0 && ctrl&0xef != 0x03 {
		return nil, false, nil
	}
	n := int(data[2] >> 2)
	if 3+n > len(data) {
		return nil, false, errors.Errorf("LAPDm length %d exceeds frame", n)
	}
	return data[3 : 3+n], n > 0, nil
}

// Encapsulate builds the GSMTAP payload carrying l3 on the given channel:
// an L2 pseudo length for the common channels, a LAPDm UI frame on SAPI
// sapi for the dedicated ones and the bare message for LTE NAS.
func Encapsulate(t Type, sub uint8, sapi uint8, l3 []byte) ([]byte, error) {
	if t == TypeLTENAS {
		return l3, nil
	}
	if t != TypeUm {
		return nil, errors.Errorf("cannot encapsulate into %s", t)
	}

	var hdr []byte
	switch sub &^ ChannelACCH {
	case ChannelBCCH, ChannelCCCH, ChannelAGCH, ChannelPCH:
		hdr = []byte{byte(len(l3))<<2 | 0x01}
	default:
		hdr = []byte{sapi<<2 | 0x01, 0x03, byte(len(l3))<<2 | 0x01}
	}
	if sub&ChannelACCH != 0 {
		hdr = append([]byte{0, 0}, hdr...)
	}
	if len(l3) > 0x3f || len(hdr)+len(l3) > umBlockLen {
		return nil, errors.Errorf("message of %d octets does not fit a Um block", len(l3))
	}

	out := make([]byte, umBlockLen)
	copy(out, hdr)
	copy(out[len(hdr):], l3)
	for i := len(hdr) + len(l3); i < len(out); i++ {
		out[i] = umPadding
	}
	return out, nil
}

// Datagram wraps payload in GSMTAP, UDP and IPv4 headers, ready for a TUN
// device or a raw socket.
func Datagram(src, dst net.IP, g *GSMTAP, payload []byte) ([]byte, error) {
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    src,
		DstIP:    dst,
	}
	udp := &layers.UDP{SrcPort: Port, DstPort: Port}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, errors.Wrap(err, "udp.SetNetworkLayerForChecksum")
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, ip, udp, g, gopacket.Payload(payload)); err != nil {
		return nil, errors.Wrap(err, "gopacket.SerializeLayers")
	}
	return buf.Bytes(), nil
}
