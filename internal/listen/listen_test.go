package listen

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsml3/pkg/gsmtap"
	"gsml3/pkg/rl3"
)

var identityReq = []byte{0x05, 0x18, 0x01}

func gsmtapDatagram(t *testing.T, g *gsmtap.GSMTAP, l3 []byte) []byte {
	t.Helper()
	payload, err := gsmtap.Encapsulate(g.Type, g.SubType, 0, l3)
	require.Nil(t, err)
	buf := gopacket.NewSerializeBuffer()
	require.Nil(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, g, gopacket.Payload(payload)))
	return buf.Bytes()
}

func newListener(out *bytes.Buffer) *Listener {
	return &Listener{
		Network: rl3.New(),
		MS:      rl3.New(rl3.WithRole(rl3.MobileStation)),
		Decode:  true,
		Out:     out,
	}
}

func TestHandleDatagram(t *testing.T) {
	var out bytes.Buffer
	l := newListener(&out)

	data := gsmtapDatagram(t, &gsmtap.GSMTAP{Type: gsmtap.TypeUm, SubType: gsmtap.ChannelSDCCH, ARFCN: 12}, identityReq)
	from := &net.UDPAddr{IP: net.IPv4(192, 168, 1, 5), Port: 4729}
	require.Nil(t, l.HandleDatagram(data, from, time.Time{}))

	s := out.String()
	assert.True(t, strings.HasPrefix(s, `<frame src="192.168.1.5"`), s)
	assert.Contains(t, s, `arfcn="12"`)
	assert.Contains(t, s, `uplink="false"`)
	assert.Contains(t, s, "IdentityRequest")
}

func TestHandleDatagramSkipsAndRejects(t *testing.T) {
	var out bytes.Buffer
	l := newListener(&out)

	// RACH bursts carry no message
	rach := gsmtapDatagram(t, &gsmtap.GSMTAP{Type: gsmtap.TypeUm, SubType: gsmtap.ChannelRACH}, nil)
	assert.Nil(t, l.HandleDatagram(rach, nil, time.Time{}))
	assert.Equal(t, 0, out.Len())

	assert.NotNil(t, l.HandleDatagram([]byte{2, 4, 1}, nil, time.Time{}))
}

func TestServe(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.Nil(t, err)

	var out syncBuffer
	l := &Listener{Network: rl3.New(), MS: rl3.New(rl3.WithRole(rl3.MobileStation)), Out: &out}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx, conn) }()

	client, err := net.Dial("udp", conn.LocalAddr().String())
	require.Nil(t, err)
	defer client.Close()
	_, err = client.Write(gsmtapDatagram(t, &gsmtap.GSMTAP{Type: gsmtap.TypeLTENAS, Uplink: true}, []byte{0x07, 0x46}))
	require.Nil(t, err)

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), `<codecTag enc="hex">0746</codecTag>`)
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
