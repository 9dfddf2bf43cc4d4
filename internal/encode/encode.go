package encode

import (
	"encoding/hex"
	"fmt"
	"io"
	"net"

	"github.com/pkg/errors"

	"gsml3/pkg/gsmtap"
	"gsml3/pkg/rl3"
	"gsml3/pkg/xmltree"
)

// Injector receives every encoded message as a GSMTAP datagram.
type Injector interface {
	WriteIP([]byte) error
}

type Encoder struct {
	Codec    *rl3.Codec
	Out      io.Writer
	Injector Injector
	SrcIP    net.IP
	DstIP    net.IP
}

// EncodeDocument encodes the message in r. The document is either a single
// protocol element or a wrapper whose children are protocol elements.
func (e *Encoder) EncodeDocument(r io.Reader, opts ...rl3.CallOpt) error {
	doc, err := xmltree.Decode(r)
	if err != nil {
		return errors.Wrap(err, "xmltree.Decode")
	}
	if _, ok := rl3.ParsePD(doc.Tag); ok {
		return e.encode(doc, opts)
	}

	var last error
	for _, child := range doc.Children {
		if _, ok := rl3.ParsePD(child.Tag); !ok {
			continue
		}
		if err := e.encode(child, opts); err != nil {
			last = err
		}
	}
	return last
}

func (e *Encoder) encode(root *xmltree.Element, opts []rl3.CallOpt) error {
	data, err := e.Codec.Encode(root, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.Out, hex.EncodeToString(data))
	if e.Injector == nil {
		return nil
	}

	pd, _ := rl3.ParsePD(root.Tag)
	pkt, err := e.datagram(pd, data)
	if err != nil {
		return err
	}
	return e.Injector.WriteIP(pkt)
}

// datagram wraps data as the codec's role would send it: EPS NAS over LTE,
// everything else in a LAPDm UI frame on SDCCH. Short messages go on SAPI 3.
func (e *Encoder) datagram(pd rl3.PD, data []byte) ([]byte, error) {
	tap := &gsmtap.GSMTAP{Type: gsmtap.TypeUm, SubType: gsmtap.ChannelSDCCH}
	if e.Codec.Role() == rl3.MobileStation {
		tap.Uplink = true
	}
	var sapi uint8
	switch pd {
	case rl3.EPSMM, rl3.EPSSM:
		tap.Type, tap.SubType = gsmtap.TypeLTENAS, 0
	case rl3.SMS:
		sapi = 3
	}

	payload, err := gsmtap.Encapsulate(tap.Type, tap.SubType, sapi, data)
	if err != nil {
		return nil, err
	}
	return gsmtap.Datagram(e.SrcIP, e.DstIP, tap, payload)
}
