package packet

import (
	"net"
	"strings"
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsml3/pkg/gsmtap"
)

var nas = []byte{0x07, 0x41, 0x71, 0x0b}

func buildFrame(t *testing.T, withEthernet bool, dstPort layers.UDPPort) []byte {
	t.Helper()
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0, 1, 2, 3, 4, 5},
		DstMAC:       net.HardwareAddr{0, 1, 2, 3, 4, 6},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IPv4(10, 0, 0, 1),
		DstIP:    net.IPv4(10, 0, 0, 2),
	}
	udp := &layers.UDP{SrcPort: 50000, DstPort: dstPort}
	tap := &gsmtap.GSMTAP{Type: gsmtap.TypeLTENAS, Uplink: true, FrameNumber: 7}

	stack := []gopacket.SerializableLayer{ip, udp, tap, gopacket.Payload(nas)}
	if withEthernet {
		stack = append([]gopacket.SerializableLayer{eth}, stack...)
	}
	buf := gopacket.NewSerializeBuffer()
	require.Nil(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true}, stack...))
	return buf.Bytes()
}

func TestFrameDecoder(t *testing.T) {
	var frames []*Frame
	d := NewFrameDecoder(layers.LayerTypeEthernet, func(f *Frame, err error) {
		require.Nil(t, err)
		frames = append(frames, f)
	})

	require.Nil(t, d.Decode(buildFrame(t, true, gsmtap.Port), nil))
	require.Equal(t, 1, len(frames))
	f := frames[0]
	assert.Equal(t, nas, f.L3)
	assert.Equal(t, "10.0.0.1", f.SrcIP.String())
	assert.Equal(t, gsmtap.TypeLTENAS, f.GSMTAP.Type)
	assert.True(t, f.GSMTAP.Uplink)
	assert.Equal(t, "10.0.0.1 > 10.0.0.2: GSMTAP LTE-NAS uplink, arfcn 0, ts 0, fn 7, l3 length 4", f.Summary())

	// other UDP traffic is skipped
	require.Nil(t, d.Decode(buildFrame(t, true, 53), nil))
	assert.Equal(t, 1, len(frames))
}

func TestFrameDecoderRawIP(t *testing.T) {
	var got []byte
	d := NewFrameDecoder(layers.LayerTypeIPv4, func(f *Frame, err error) {
		require.Nil(t, err)
		got = f.L3
	})
	require.Nil(t, d.Decode(buildFrame(t, false, gsmtap.Port), nil))
	assert.Equal(t, nas, got)

	// reused layers do not leak into the returned frame
	require.Nil(t, d.Decode(buildFrame(t, false, gsmtap.Port), nil))
	assert.Equal(t, nas, got)
}

func TestFormat(t *testing.T) {
	var line string
	d := NewLayersDecoder(WithCompletedHook(func(dl []DecodingLayer) {
		b, err := Format(dl)
		require.Nil(t, err)
		line = string(b)
	}))
	require.Nil(t, d.Decode(buildFrame(t, true, gsmtap.Port), nil))
	assert.True(t, strings.HasPrefix(line, "00:01:02:03:04:05 > 00:01:02:03:04:06, ethertype IPv4 (0x0800)"), line)
	assert.True(t, strings.HasSuffix(line, ", 10.0.0.1.50000 > 10.0.0.2.4729: GSMTAP LTE-NAS uplink, arfcn 0, ts 0, fn 7, length 4"), line)

	require.Nil(t, d.Decode(buildFrame(t, true, 53), nil))
	assert.True(t, strings.HasSuffix(line, "10.0.0.2.53: UDP, length 20"), line)
}

func TestFirstLayerOf(t *testing.T) {
	lt, err := FirstLayerOf(layers.LinkTypeRaw)
	require.Nil(t, err)
	assert.Equal(t, layers.LayerTypeIPv4, lt)

	_, err = FirstLayerOf(layers.LinkTypeLinuxSLL)
	assert.NotNil(t, err)

	d := NewLayersDecoder(WithFirstLayer(layers.LayerTypeTCP))
	assert.NotNil(t, d.Decode([]byte{0}, nil))
}
