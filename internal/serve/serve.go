package serve

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gsml3/internal/trace"
	"gsml3/pkg/gsmtap"
	"gsml3/pkg/packet"
	"gsml3/pkg/rl3"
	"gsml3/pkg/tlv"
	"gsml3/pkg/xmltree"
)

// Server answers TLV framed codec requests. Decode and encode requests use
// the configured codec; forwarded frames pick a codec by direction.
type Server struct {
	Codec   *rl3.Codec
	Network *rl3.Codec
	MS      *rl3.Codec
	Metrics *Metrics

	wg sync.WaitGroup
}

// Serve accepts connections until ctx is done, then waits for the open
// connections to finish.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		lis.Close()
	}()
	defer s.wg.Wait()

	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "lis.Accept")
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeConn(ctx, conn)
		}()
	}
}

// ServeConn handles the requests of one client until it disconnects.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	l := logrus.WithField("addr", conn.RemoteAddr())
	l.Info("New conn")
	s.Metrics.Connections.Inc()
	defer s.Metrics.Connections.Dec()

	sess := s.newSession(l)
	for {
		typ, value, err := tlv.ReadMessage(conn)
		if err != nil {
			if err != io.EOF && ctx.Err() == nil {
				l.WithError(err).Error("Fail to decode tlv")
			}
			return
		}

		rtyp, resp, ok := sess.handle(typ, value)
		if !ok {
			continue
		}
		if err := tlv.WriteMessage(conn, rtyp, resp); err != nil {
			l.WithError(err).Error("Fail to write response")
			return
		}
	}
}

// session holds the per connection frame decoder, which is not safe for
// concurrent use.
type session struct {
	s       *Server
	log     *logrus.Entry
	decoder *packet.LayersDecoder
}

func (s *Server) newSession(l *logrus.Entry) *session {
	sess := &session{s: s, log: l}
	sess.decoder = packet.NewFrameDecoder(layers.LayerTypeEthernet, sess.onFrame,
		packet.WithLayerDecodedHook(gsmtap.LayerTypeGSMTAP, func(l packet.DecodingLayer) {
			s.Metrics.Headers.WithLabelValues(l.(*gsmtap.GSMTAP).Type.String()).Inc()
		}))
	return sess
}

// handle returns the response to one request. Frames are traced and get
// no response.
func (sess *session) handle(typ uint16, value []byte) (uint16, []byte, bool) {
	start := time.Now()
	var (
		rtyp uint16
		resp []byte
		err  error
	)
	switch typ {
	case tlv.TypeFrame:
		err = sess.decoder.Decode(value, nil)
	case tlv.TypeDecodeRequest:
		rtyp, resp, err = sess.decode(value)
	case tlv.TypeEncodeRequest:
		rtyp, resp, err = sess.encode(value)
	default:
		err = errors.Errorf("unexpected message type %d", typ)
	}

	name := tlv.TypeName(typ)
	sess.s.Metrics.Duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	sess.s.Metrics.Requests.WithLabelValues(name, rl3.StatusOf(err).String()).Inc()

	if typ == tlv.TypeFrame {
		if err != nil {
			sess.log.WithError(err).Debug("Skip frame")
		}
		return 0, nil, false
	}
	if err != nil && resp == nil {
		sess.log.WithField("type", name).WithError(err).Info("Request failed")
		return tlv.TypeError, []byte(err.Error()), true
	}
	return rtyp, resp, true
}

// decode answers with the XML of the message, partial trees included.
func (sess *session) decode(data []byte) (uint16, []byte, error) {
	var report rl3.Report
	root, err := sess.s.Codec.Decode(data, rl3.WithReport(&report))
	for _, e := range report.Tolerated {
		sess.log.WithField("ie", e.IE).WithError(e.Err).Debug(e.Status.String())
	}
	if root == nil {
		return 0, nil, err
	}
	return tlv.TypeDecodeResponse, []byte(root.String()), err
}

func (sess *session) encode(text []byte) (uint16, []byte, error) {
	root, err := xmltree.Parse(text)
	if err != nil {
		return 0, nil, err
	}
	data, err := sess.s.Codec.Encode(root)
	if err != nil {
		return 0, nil, err
	}
	return tlv.TypeEncodeResponse, data, nil
}

func (sess *session) onFrame(f *packet.Frame, err error) {
	if err != nil {
		sess.log.WithError(err).Debug("Invalid GSMTAP frame")
		return
	}
	el, err := trace.FrameElement(trace.CodecFor(sess.s.Network, sess.s.MS, f), f, time.Now(), true)
	proto := "unknown"
	if msg := el.FirstChild().FirstChild(); msg != nil {
		proto = msg.Tag
	}
	sess.s.Metrics.Frames.WithLabelValues(proto).Inc()

	l := sess.log.WithField("frame", f.Summary())
	if err != nil {
		l = l.WithError(err)
	}
	l.Info(el.String())
}
