package capture

import (
	"context"
	"net"
	"syscall"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type captureOpts struct {
	timeout          time.Duration
	readErrorHandler func(error)
	port             uint16
	auxData          bool
	promisc          bool
}

type CaptureOpt func(*captureOpts)

func WithCaptureTimeout(d time.Duration) CaptureOpt {
	return func(o *captureOpts) { o.timeout = d }
}

func WithCaptureReadErrorHandle(eh func(error)) CaptureOpt {
	return func(o *captureOpts) { o.readErrorHandler = eh }
}

// WithCaptureUDPPort keeps only IPv4 UDP datagrams from or to port, the
// GSMTAP port for the dump command. Zero captures everything.
func WithCaptureUDPPort(port uint16) CaptureOpt {
	return func(o *captureOpts) { o.port = port }
}

// WithCaptureAuxData requests the packet auxiliary data so that VLAN tags
// stripped by the kernel can be rebuilt.
func WithCaptureAuxData(enable bool) CaptureOpt {
	return func(o *captureOpts) { o.auxData = enable }
}

// WithCapturePromisc puts the interface in promiscuous mode for the
// lifetime of the socket.
func WithCapturePromisc(enable bool) CaptureOpt {
	return func(o *captureOpts) { o.promisc = enable }
}

// Packet is one captured link layer frame and its control messages.
type Packet struct {
	Data []byte
	OOB  []byte
}

type Capture struct {
	rawFd  int
	poller *readPoller
	buffer []byte
	oob    []byte
	dataCh chan Packet
	opts   captureOpts
}

func NewCaptureByIfaceIndex(ifIndex int, opts ...CaptureOpt) (*Capture, error) {
	var o captureOpts
	for _, opt := range opts {
		opt(&o)
	}

	rawFd, err := OpenRawSocket(ifIndex)
	if err != nil {
		return nil, err
	}
	if err := configure(rawFd, ifIndex, &o); err != nil {
		syscall.Close(rawFd)
		return nil, err
	}

	poller, err := newReadPoller(rawFd)
	if err != nil {
		syscall.Close(rawFd)
		return nil, err
	}

	return &Capture{
		rawFd:  rawFd,
		poller: poller,
		buffer: make([]byte, 1024*64),
		oob:    make([]byte, 128),
		dataCh: make(chan Packet, 128),
		opts:   o,
	}, nil
}

func NewCaptureByIfaceName(name string, opts ...CaptureOpt) (*Capture, error) {
	link, err := net.InterfaceByName(name)
	if err != nil {
		return nil, errors.Wrap(err, "net.InterfaceByName")
	}
	return NewCaptureByIfaceIndex(link.Index, opts...)
}

func configure(fd, ifIndex int, o *captureOpts) error {
	if o.promisc {
		if err := SetPacketMembership(fd, int32(ifIndex)); err != nil {
			return errors.Wrap(err, "SetPacketMembership")
		}
	}
	if o.auxData {
		if err := SetPacketAuxData(fd); err != nil {
			return errors.Wrap(err, "SetPacketAuxData")
		}
	}
	if o.port != 0 {
		if err := AttachUDPPortFilter(fd, o.port); err != nil {
			return errors.Wrap(err, "AttachUDPPortFilter")
		}
	}
	return nil
}

// Serve reads frames until ctx is done.
func (c *Capture) Serve(ctx context.Context) error {
	return c.poller.poll(ctx, c.opts.timeout, c.onReadable)
}

func (c *Capture) onReadable(fd int) {
	p, err := c.recvmsg(fd)
	if err != nil {
		if c.opts.readErrorHandler != nil {
			c.opts.readErrorHandler(err)
		}
		return
	}

	// the receive buffers are reused by the next read
	c.dataCh <- Packet{
		Data: append([]byte(nil), p.Data...),
		OOB:  append([]byte(nil), p.OOB...),
	}
}

// Read returns the captured packets. The channel is closed by Close.
func (c *Capture) Read() <-chan Packet {
	return c.dataCh
}

func (c *Capture) Close() {
	if c.poller != nil {
		c.poller.close()
	}
	syscall.Close(c.rawFd)
	close(c.dataCh)
}

func (c *Capture) recvmsg(fd int) (Packet, error) {
	// ref: https://github.com/google/gopacket/blob/master/pcapgo/capture.go#L45
	// we could use unix.Recvmsg, but that does a memory allocation (for the returned sockaddr) :(
	var msg unix.Msghdr
	var sa unix.RawSockaddrLinklayer

	msg.Name = (*byte)(unsafe.Pointer(&sa))
	msg.Namelen = uint32(unsafe.Sizeof(sa))

	var iov unix.Iovec
	if len(c.buffer) > 0 {
		iov.Base = &c.buffer[0]
		iov.SetLen(len(c.buffer))
	}
	msg.Iov = &iov
	msg.Iovlen = 1
	if c.opts.auxData {
		msg.Control = &c.oob[0]
		msg.SetControllen(len(c.oob))
	}

	// use msg_trunc so we know packet size without auxdata, which might be missing
	n, _, e := syscall.Syscall(unix.SYS_RECVMSG, uintptr(fd), uintptr(unsafe.Pointer(&msg)), uintptr(unix.MSG_TRUNC))
	if e != 0 {
		return Packet{}, errors.Wrap(e, "unix.SYS_RECVMSG")
	}

	captureLen := min(int(n), len(c.buffer)-1)
	p := Packet{Data: c.buffer[:captureLen]}
	if c.opts.auxData {
		p.OOB = c.oob[:int(msg.Controllen)]
	}
	return p, nil
}
