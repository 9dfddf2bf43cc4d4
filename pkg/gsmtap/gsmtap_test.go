package gsmtap

import (
	"net"
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var locUpdRequest = []byte{0x05, 0x08, 0x70, 0x00, 0xf1, 0x10, 0x00, 0x01, 0x57, 0x05, 0xf4, 0x01, 0x02, 0x03, 0x04}

func serialize(t *testing.T, g *GSMTAP, payload []byte) []byte {
	t.Helper()
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IPv4(127, 0, 0, 1),
		DstIP:    net.IPv4(127, 0, 0, 2),
	}
	udp := &layers.UDP{SrcPort: 40000, DstPort: Port}
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true},
		ip, udp, g, gopacket.Payload(payload))
	require.Nil(t, err)
	return buf.Bytes()
}

func TestDecodeFromUDP(t *testing.T) {
	payload, err := Encapsulate(TypeUm, ChannelSDCCH, 0, locUpdRequest)
	require.Nil(t, err)
	require.Equal(t, umBlockLen, len(payload))

	data := serialize(t, &GSMTAP{Type: TypeUm, ARFCN: 871, Uplink: true, FrameNumber: 1234, SubType: ChannelSDCCH}, payload)

	pkt := gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default)
	l := pkt.Layer(LayerTypeGSMTAP)
	require.NotNil(t, l, pkt.String())
	g := l.(*GSMTAP)
	assert.Equal(t, uint8(Version), g.Version)
	assert.Equal(t, uint8(HeaderLen), g.HeaderLength)
	assert.Equal(t, uint16(871), g.ARFCN)
	assert.True(t, g.Uplink)
	assert.False(t, g.PCS)
	assert.Equal(t, uint32(1234), g.FrameNumber)
	assert.Equal(t, "SDCCH", g.Channel())

	l3, ok, err := g.L3()
	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, locUpdRequest, l3)
}

func TestCommonChannelPseudoLength(t *testing.T) {
	msg := []byte{0x06, 0x21, 0x00}
	payload, err := Encapsulate(TypeUm, ChannelPCH, 0, msg)
	require.Nil(t, err)
	assert.Equal(t, byte(0x0d), payload[0])
	assert.Equal(t, byte(umPadding), payload[len(payload)-1])

	g := &GSMTAP{}
	data := append([]byte{2, 4, byte(TypeUm), 0, 0, 1, 0, 0, 0, 0, 0, 0, ChannelPCH, 0, 0, 0}, payload...)
	require.Nil(t, g.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	l3, ok, err := g.L3()
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, msg, l3)
	assert.Equal(t, "PCH", g.Channel())
}

func TestSACCHAndSupervisoryFrames(t *testing.T) {
	payload, err := Encapsulate(TypeUm, ChannelSDCCH|ChannelACCH, 0, []byte{0x06, 0x15})
	require.Nil(t, err)
	l3, ok, err := umL3(ChannelSDCCH|ChannelACCH, payload)
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x06, 0x15}, l3)

	// RR frame, S format
	_, ok, err = lapdm([]byte{0x01, 0x01, 0x01})
	require.Nil(t, err)
	assert.False(t, ok)

	_, _, err = lapdm([]byte{0x01, 0x03, 0x41, 0x00})
	assert.NotNil(t, err)
}

func TestLTENAS(t *testing.T) {
	nas := []byte{0x07, 0x41, 0x71}
	payload, err := Encapsulate(TypeLTENAS, 0, 0, nas)
	require.Nil(t, err)

	data := serialize(t, &GSMTAP{Type: TypeLTENAS}, payload)
	pkt := gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default)
	g := pkt.Layer(LayerTypeGSMTAP).(*GSMTAP)
	l3, ok, err := g.L3()
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, nas, l3)
	assert.Equal(t, "", g.Channel())
}

func TestDecodeErrors(t *testing.T) {
	g := &GSMTAP{}
	assert.NotNil(t, g.DecodeFromBytes(make([]byte, 10), gopacket.NilDecodeFeedback))

	hdr := []byte{3, 4, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	assert.NotNil(t, g.DecodeFromBytes(hdr, gopacket.NilDecodeFeedback))

	hdr[0], hdr[1] = 2, 8
	assert.NotNil(t, g.DecodeFromBytes(hdr, gopacket.NilDecodeFeedback))

	_, err := Encapsulate(TypeUm, ChannelSDCCH, 0, make([]byte, 21))
	assert.NotNil(t, err)
	_, err = Encapsulate(TypeAbis, 0, 0, nil)
	assert.NotNil(t, err)
}

func TestDatagram(t *testing.T) {
	data, err := Datagram(net.IPv4(127, 0, 0, 1), net.IPv4(127, 0, 0, 1), &GSMTAP{Type: TypeLTENAS, Uplink: true}, []byte{0x07, 0x45})
	require.Nil(t, err)

	pkt := gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default)
	require.Nil(t, pkt.ErrorLayer())
	udp := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	assert.Equal(t, layers.UDPPort(Port), udp.SrcPort)
	assert.NotZero(t, udp.Checksum)

	g := pkt.Layer(LayerTypeGSMTAP).(*GSMTAP)
	assert.True(t, g.Uplink)
	l3, ok, err := g.L3()
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x07, 0x45}, l3)
}
