package trace

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsml3/pkg/gsmtap"
	"gsml3/pkg/packet"
	"gsml3/pkg/rl3"
)

func locUpdFrame() *packet.Frame {
	return &packet.Frame{
		SrcIP: net.IPv4(10, 0, 0, 1).To4(),
		DstIP: net.IPv4(10, 0, 0, 2).To4(),
		GSMTAP: gsmtap.GSMTAP{
			Type:        gsmtap.TypeUm,
			SubType:     gsmtap.ChannelSDCCH,
			ARFCN:       871,
			Uplink:      true,
			FrameNumber: 42,
		},
		L3: []byte{0x05, 0x08, 0x70, 0x00, 0xf1, 0x10, 0x00, 0x01, 0x57, 0x05, 0xf4, 0x01, 0x02, 0x03, 0x04},
	}
}

func TestFrameElement(t *testing.T) {
	network := rl3.New()
	ms := rl3.New(rl3.WithRole(rl3.MobileStation))
	f := locUpdFrame()
	assert.Same(t, network, CodecFor(network, ms, f))

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	el, err := FrameElement(network, f, ts, true)
	require.Nil(t, err)
	assert.Equal(t, FrameTag, el.Tag)
	assert.Equal(t, "2024-05-01T12:00:00.000000Z", el.Attr("time"))
	assert.Equal(t, "10.0.0.1", el.Attr("src"))
	assert.Equal(t, "SDCCH", el.Attr("channel"))
	assert.Equal(t, "871", el.Attr("arfcn"))
	assert.Equal(t, "42", el.Attr("fn"))
	assert.Equal(t, "true", el.Attr("uplink"))

	msg := el.Child(rl3.DefaultCodecTag)
	require.NotNil(t, msg)
	assert.Equal(t, "xml", msg.Attr("enc"))
	mm := msg.Child("MM")
	require.NotNil(t, mm)
	assert.Equal(t, "LocationUpdatingRequest", mm.Child("Message").Attr("type"))

	// the document encodes back to the captured octets
	doc := NewDocument()
	doc.AddChild(el)
	require.Nil(t, network.EncodeXML(doc))
	assert.Equal(t, "05087000f11000015705f401020304", msg.Text)
}

func TestFrameElementUndecoded(t *testing.T) {
	f := locUpdFrame()
	f.GSMTAP = gsmtap.GSMTAP{Type: gsmtap.TypeLTENAS}
	f.SrcIP = nil
	f.L3 = []byte{0x05}

	el, err := FrameElement(rl3.New(), f, time.Time{}, false)
	require.Nil(t, err)
	_, ok := el.LookupAttr("time")
	assert.False(t, ok)
	_, ok = el.LookupAttr("channel")
	assert.False(t, ok)
	assert.Equal(t, "LTE-NAS", el.Attr("type"))
	assert.Equal(t, "hex", el.Child(rl3.DefaultCodecTag).Attr("enc"))

	_, err = FrameElement(rl3.New(), f, time.Time{}, true)
	assert.Equal(t, rl3.MsgTooShort, rl3.StatusOf(err))
}
