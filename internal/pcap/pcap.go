package pcap

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gsml3/internal/trace"
	"gsml3/pkg/packet"
	"gsml3/pkg/rl3"
)

var ngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// NewReader opens a pcap or pcapng stream.
func NewReader(r io.Reader) (packetReader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, errors.Wrap(err, "read magic")
	}
	if bytes.Equal(magic, ngMagic) {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		return ng, errors.Wrap(err, "pcapgo.NewNgReader")
	}
	pr, err := pcapgo.NewReader(br)
	return pr, errors.Wrap(err, "pcapgo.NewReader")
}

type Stats struct {
	Packets int
	Frames  int
	Failed  int
}

// Converter turns the GSMTAP frames of a capture into a trace document.
type Converter struct {
	Network *rl3.Codec
	MS      *rl3.Codec
	Decode  bool
}

// Convert reads every packet of r and writes the trace document to w.
func (c *Converter) Convert(r io.Reader, w io.Writer, indent bool) (Stats, error) {
	var stats Stats
	pr, err := NewReader(r)
	if err != nil {
		return stats, err
	}
	first, err := packet.FirstLayerOf(pr.LinkType())
	if err != nil {
		return stats, err
	}

	doc := trace.NewDocument()
	var ts time.Time
	d := packet.NewFrameDecoder(first, func(f *packet.Frame, err error) {
		if err != nil {
			stats.Failed++
			logrus.WithField("packet", stats.Packets).WithError(err).Warn("Invalid GSMTAP frame")
			return
		}
		stats.Frames++
		el, err := trace.FrameElement(trace.CodecFor(c.Network, c.MS, f), f, ts, c.Decode)
		if err != nil {
			stats.Failed++
			logrus.WithField("packet", stats.Packets).WithError(err).Debug("Fail to decode")
		}
		doc.AddChild(el)
	})

	for {
		data, ci, err := pr.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, errors.Wrap(err, "ReadPacketData")
		}
		stats.Packets++
		ts = ci.Timestamp
		if err := d.Decode(data, nil); err != nil {
			logrus.WithField("packet", stats.Packets).WithError(err).Debug("Skip packet")
		}
	}

	if indent {
		fmt.Fprintln(w, doc.Indent("  "))
	} else {
		fmt.Fprintln(w, doc.String())
	}
	return stats, nil
}
