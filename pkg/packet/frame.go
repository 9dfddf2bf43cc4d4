package packet

import (
	"fmt"
	"net"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"gsml3/pkg/gsmtap"
)

// Frame is a captured GSMTAP frame reduced to what the codec needs. It owns
// its memory and outlives the pooled layers it was built from.
type Frame struct {
	SrcIP  net.IP
	DstIP  net.IP
	GSMTAP gsmtap.GSMTAP
	L3     []byte
}

// Summary is the one line form of the frame headers.
func (f *Frame) Summary() string {
	var fm formatter
	fm.WriteString(fmt.Sprintf("%s > %s: ", f.SrcIP, f.DstIP))
	fm.formatGSMTAP(&f.GSMTAP)
	fm.WriteString(fmt.Sprintf(", l3 length %d", len(f.L3)))
	return fm.String()
}

// ExtractFrame builds the frame of a decoded layer stack. It returns nil
// when the stack holds no GSMTAP header or the header carries no Radio
// Layer 3 message.
func ExtractFrame(layerList []DecodingLayer) (*Frame, error) {
	var f Frame
	var tap *gsmtap.GSMTAP
	for _, layer := range layerList {
		switch l := layer.(type) {
		case *layers.IPv4:
			f.SrcIP = append(net.IP(nil), l.SrcIP...)
			f.DstIP = append(net.IP(nil), l.DstIP...)
		case *gsmtap.GSMTAP:
			tap = l
		}
	}
	if tap == nil {
		return nil, nil
	}

	l3, ok, err := tap.L3()
	if err != nil || !ok {
		return nil, err
	}
	f.GSMTAP = *tap
	f.GSMTAP.BaseLayer = layers.BaseLayer{}
	f.L3 = append([]byte(nil), l3...)
	return &f, nil
}

type FrameHandler func(*Frame, error)

// NewFrameDecoder returns a decoder that calls fn once for every frame
// carrying a Radio Layer 3 message, starting at the link layer first.
func NewFrameDecoder(first gopacket.LayerType, fn FrameHandler, opts ...DecodeOpt) *LayersDecoder {
	opts = append(opts, WithFirstLayer(first), WithCompletedHook(func(dl []DecodingLayer) {
		f, err := ExtractFrame(dl)
		if f == nil && err == nil {
			return
		}
		fn(f, err)
	}))
	return NewLayersDecoder(opts...)
}
