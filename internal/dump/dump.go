package dump

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/songgao/water"

	"gsml3/internal/trace"
	"gsml3/pkg/capture"
	"gsml3/pkg/packet"
	"gsml3/pkg/rl3"
	"gsml3/pkg/tlv"
	"gsml3/pkg/utils"
)

type DumpWriter interface {
	Type() string
	WritePacket(capture.Packet) error
	io.Closer
}

// snapLen matches the capture buffer, so no frame is ever truncated.
const snapLen = 64 * 1024

type FileWriter struct {
	file   *os.File
	buffer *bytes.Buffer
	pcapw  *pcapgo.Writer
}

func NewFileWriter(filename string) (*FileWriter, error) {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY, 0644)
	if os.IsNotExist(err) {
		f, err = os.OpenFile(filename, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	}
	if err != nil {
		return nil, errors.Wrap(err, "os.OpenFile")
	}

	b := bytes.NewBuffer(make([]byte, 0, 1024*64))

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "file.Stat")
	}
	if info.Size() == 0 {
		w := pcapgo.NewWriter(b)
		if err := w.WriteFileHeader(snapLen, layers.LinkTypeEthernet); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "pcapgo.WriteFileHeader")
		}
		if _, err = f.Write(b.Bytes()); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "file.Write")
		}
		b.Reset()
	}

	return &FileWriter{
		file:   f,
		buffer: b,
		pcapw:  pcapgo.NewWriter(b),
	}, nil
}

func (d *FileWriter) Type() string { return "file" }

func (d *FileWriter) WritePacket(p capture.Packet) error {
	d.buffer.Reset()

	err := d.pcapw.WritePacket(gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		Length:        len(p.Data),
		CaptureLength: len(p.Data),
	}, p.Data)
	if err != nil {
		return errors.Wrap(err, "pcapgo.WritePacket")
	}

	_, err = d.file.Write(d.buffer.Bytes())
	return errors.Wrap(err, "file.Write")
}

func (d *FileWriter) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// TCPWriter forwards frames to a codec service.
type TCPWriter struct {
	tx         *utils.TxLoop
	onceTxLoop *sync.Once
}

func NewTCPWriter(addr string) (*TCPWriter, error) {
	txLoop, err := utils.NewTxLoop("tcp", addr, utils.WithTxLoopOutput(func(d *utils.TxLoopOutputData) {
		l := logrus.WithField("addr", addr)
		if d.Err != nil {
			l.WithError(d.Err).Warn(d.Message)
			return
		}

		if logrus.GetLevel() >= logrus.DebugLevel {
			if d.RawData != nil {
				l = l.WithField("datalen", len(d.RawData))
			}
			l.Debug(d.Message)
		}
	}))
	if err != nil {
		return nil, err
	}
	return &TCPWriter{
		tx:         txLoop,
		onceTxLoop: new(sync.Once),
	}, nil
}

func (d *TCPWriter) Type() string { return "tcp" }

func (d *TCPWriter) WritePacket(p capture.Packet) error {
	d.onceTxLoop.Do(func() { go d.tx.Serve(context.Background()) })
	return d.tx.Send(tlv.TypeFrame, p.Data)
}

func (d *TCPWriter) Close() error {
	return d.tx.Close()
}

// TraceWriter prints one summary line per GSMTAP frame followed by its
// decoded message.
type TraceWriter struct {
	out     io.Writer
	network *rl3.Codec
	ms      *rl3.Codec
	decoder *packet.LayersDecoder
	decode  bool
	err     error
}

func NewTraceWriter(out io.Writer, network, ms *rl3.Codec, decode bool) *TraceWriter {
	w := &TraceWriter{out: out, network: network, ms: ms, decode: decode}
	w.decoder = packet.NewFrameDecoder(layers.LayerTypeEthernet, w.onFrame)
	return w
}

func (w *TraceWriter) Type() string { return "trace" }

func (w *TraceWriter) WritePacket(p capture.Packet) error {
	w.err = nil
	if err := w.decoder.Decode(p.Data, p.OOB); err != nil {
		return errors.Wrap(err, "packet.Decode")
	}
	return w.err
}

func (w *TraceWriter) onFrame(f *packet.Frame, err error) {
	if err != nil {
		w.err = err
		return
	}
	fmt.Fprintf(w.out, "%s %s\n", FormatDumpTime(time.Now()), f.Summary())

	el, err := trace.FrameElement(trace.CodecFor(w.network, w.ms, f), f, time.Time{}, w.decode)
	if err != nil {
		logrus.WithField("frame", f.Summary()).WithError(err).Debug("Fail to decode")
	}
	for _, c := range el.Children {
		fmt.Fprintln(w.out, c.Indent("  "))
	}
}

func (w *TraceWriter) Close() error { return nil }

type TunWriter struct {
	tun *water.Interface
}

func NewTunWriter(tunName string) (*TunWriter, error) {
	ifaceTun, err := water.New(water.Config{
		DeviceType: water.TUN,
		PlatformSpecificParams: water.PlatformSpecificParams{
			Name:    tunName,
			Persist: true,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "water.New")
	}
	return &TunWriter{tun: ifaceTun}, nil
}

func (t *TunWriter) Type() string { return "tun" }

// WritePacket replays the IP part of an Ethernet frame.
func (t *TunWriter) WritePacket(p capture.Packet) error {
	if len(p.Data) <= 14 {
		return errors.New("frame without IP payload")
	}
	return t.WriteIP(p.Data[14:])
}

func (t *TunWriter) WriteIP(pkt []byte) error {
	_, err := t.tun.Write(pkt)
	return errors.Wrap(err, "tun.Write")
}

func (t *TunWriter) Close() error {
	if t.tun != nil {
		return t.tun.Close()
	}
	return nil
}

func FormatDumpTime(t time.Time) string {
	return t.Local().Format("15:04:05.000")
}
