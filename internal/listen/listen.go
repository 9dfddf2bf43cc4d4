package listen

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gsml3/internal/trace"
	"gsml3/pkg/gsmtap"
	"gsml3/pkg/packet"
	"gsml3/pkg/rl3"
)

const maxDatagram = 65535

// Listener receives GSMTAP datagrams on a UDP socket, the way radio stacks
// such as osmocom send them, and prints their messages as trace frames.
type Listener struct {
	Network *rl3.Codec
	MS      *rl3.Codec
	Decode  bool
	Out     io.Writer
}

// Serve reads from conn until ctx is done or the socket fails.
func (l *Listener) Serve(ctx context.Context, conn net.PacketConn) error {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, maxDatagram)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "conn.ReadFrom")
		}
		if err := l.HandleDatagram(buf[:n], addr, time.Now()); err != nil {
			logrus.WithField("addr", addr).WithError(err).Warn("Invalid GSMTAP datagram")
		}
	}
}

// HandleDatagram prints the frame carried by one GSMTAP datagram.
// Datagrams without a Radio Layer 3 message are ignored.
func (l *Listener) HandleDatagram(data []byte, from net.Addr, ts time.Time) error {
	var g gsmtap.GSMTAP
	if err := g.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return err
	}
	l3, ok, err := g.L3()
	if err != nil || !ok {
		return err
	}

	f := &packet.Frame{GSMTAP: g, L3: append([]byte(nil), l3...)}
	if udp, ok := from.(*net.UDPAddr); ok {
		f.SrcIP = udp.IP
		f.DstIP = net.IPv4zero
	}
	f.GSMTAP.BaseLayer.Contents, f.GSMTAP.BaseLayer.Payload = nil, nil

	el, err := trace.FrameElement(trace.CodecFor(l.Network, l.MS, f), f, ts, l.Decode)
	if err != nil {
		logrus.WithField("fn", f.GSMTAP.FrameNumber).WithError(err).Debug("Fail to decode")
	}
	_, werr := fmt.Fprintln(l.Out, el.Indent("  "))
	return errors.Wrap(werr, "write trace")
}
