package encode

import (
	"bytes"
	"encoding/hex"
	"net"
	"strings"
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsml3/pkg/gsmtap"
	"gsml3/pkg/rl3"
)

type captured struct {
	pkts [][]byte
}

func (c *captured) WriteIP(pkt []byte) error {
	c.pkts = append(c.pkts, pkt)
	return nil
}

const locUpdHex = "05087000f11000015705f401020304"

func xmlOf(t *testing.T, cd *rl3.Codec, s string) string {
	t.Helper()
	data, err := hex.DecodeString(s)
	require.Nil(t, err)
	root, err := cd.Decode(data)
	require.Nil(t, err)
	return root.String()
}

func TestEncodeDocument(t *testing.T) {
	cd := rl3.New(rl3.WithRole(rl3.MobileStation))
	doc := "<trace>" + xmlOf(t, rl3.New(), locUpdHex) + "<comment/>" + "</trace>"

	var out bytes.Buffer
	inj := &captured{}
	e := &Encoder{Codec: cd, Out: &out, Injector: inj, SrcIP: net.IPv4(127, 0, 0, 1), DstIP: net.IPv4(127, 0, 0, 2)}
	require.Nil(t, e.EncodeDocument(strings.NewReader(doc)))
	assert.Equal(t, locUpdHex+"\n", out.String())

	require.Equal(t, 1, len(inj.pkts))
	pkt := gopacket.NewPacket(inj.pkts[0], layers.LayerTypeIPv4, gopacket.Default)
	tap, ok := pkt.Layer(gsmtap.LayerTypeGSMTAP).(*gsmtap.GSMTAP)
	require.True(t, ok)
	assert.Equal(t, gsmtap.TypeUm, tap.Type)
	assert.True(t, tap.Uplink)
	l3, ok, err := tap.L3()
	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, locUpdHex, hex.EncodeToString(l3))
}

func TestEncodeErrors(t *testing.T) {
	e := &Encoder{Codec: rl3.New(), Out: &bytes.Buffer{}}
	assert.NotNil(t, e.EncodeDocument(strings.NewReader("<MM>")))
	assert.NotNil(t, e.EncodeDocument(strings.NewReader("<MM><Message type=\"NoSuchMessage\"/></MM>")))
}
