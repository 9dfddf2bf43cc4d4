// Package trace renders captured GSMTAP frames as XML trace documents with
// the Radio Layer 3 message embedded in a codec marker element.
package trace

import (
	"encoding/hex"
	"strconv"
	"time"

	"gsml3/pkg/packet"
	"gsml3/pkg/rl3"
	"gsml3/pkg/xmltree"
)

const (
	RootTag  = "trace"
	FrameTag = "frame"

	timeLayout = "2006-01-02T15:04:05.000000Z07:00"
)

func NewDocument() *xmltree.Element {
	return xmltree.New(RootTag)
}

// FrameElement describes f and embeds its message as hex under the codec
// marker. With decode set the message is expanded in place; the element is
// returned even when that fails.
func FrameElement(cd *rl3.Codec, f *packet.Frame, ts time.Time, decode bool, opts ...rl3.CallOpt) (*xmltree.Element, error) {
	el := xmltree.New(FrameTag)
	if !ts.IsZero() {
		el.SetAttr("time", ts.UTC().Format(timeLayout))
	}
	if f.SrcIP != nil {
		el.SetAttr("src", f.SrcIP.String())
		el.SetAttr("dst", f.DstIP.String())
	}
	el.SetAttr("type", f.GSMTAP.Type.String())
	if ch := f.GSMTAP.Channel(); ch != "" {
		el.SetAttr("channel", ch)
		el.SetAttr("arfcn", strconv.Itoa(int(f.GSMTAP.ARFCN)))
		el.SetAttr("ts", strconv.Itoa(int(f.GSMTAP.Timeslot)))
	}
	el.SetAttr("fn", strconv.FormatUint(uint64(f.GSMTAP.FrameNumber), 10))
	el.SetAttr("uplink", strconv.FormatBool(f.GSMTAP.Uplink))

	msg := xmltree.NewText(cd.Tag(), hex.EncodeToString(f.L3))
	msg.SetAttr("enc", "hex")
	el.AddChild(msg)
	if !decode {
		return el, nil
	}
	return el, cd.DecodeXML(el, opts...)
}

// CodecFor picks the codec that decodes the direction of f: a network side
// codec for uplink frames and a mobile station codec for downlink ones.
func CodecFor(network, ms *rl3.Codec, f *packet.Frame) *rl3.Codec {
	if f.GSMTAP.Uplink {
		return network
	}
	return ms
}
