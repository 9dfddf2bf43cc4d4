package packet

import (
	"bytes"
	"fmt"

	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"

	"gsml3/pkg/gsmtap"
)

type Formatter interface {
	Format([]DecodingLayer) ([]byte, error)
}

func Format(layerList []DecodingLayer) ([]byte, error) {
	f := formatter{}
	err := f.format(layerList)
	if err != nil {
		return nil, err
	}
	return f.Bytes(), nil
}

// like tcpdump
type formatter struct {
	ipv4 *layers.IPv4
	bytes.Buffer
}

func (f *formatter) format(layerList []DecodingLayer) error {
	for i, layer := range layerList {
		switch l := layer.(type) {
		case *layers.Ethernet:
			f.formatEthernet(l)
		case *layers.Dot1Q:
			f.formatVLAN(l)
		case *layers.IPv4:
			f.ipv4 = l
			if i == 0 {
				f.WriteString(fmt.Sprintf("IP length %d", l.Length))
			}
		case *layers.UDP:
			if f.ipv4 == nil {
				return errors.New("the underlying layer of UDP is not IPv4")
			}
			f.formatUDP(l)
		case *gsmtap.GSMTAP:
			f.WriteString(": ")
			f.formatGSMTAP(l)
			f.WriteString(fmt.Sprintf(", length %d", len(l.Payload)))
		}
	}
	return nil
}

func (f *formatter) formatEthernet(layer *layers.Ethernet) {
	f.WriteString(fmt.Sprintf("%s > %s, ethertype %s (0x%04x), length %d",
		layer.SrcMAC, layer.DstMAC, layer.EthernetType, int(layer.EthernetType), len(layer.Contents)+len(layer.Payload)))
}

func (f *formatter) formatVLAN(layer *layers.Dot1Q) {
	f.WriteString(fmt.Sprintf(": vlan %d ethertype %s (0x%04x)", layer.VLANIdentifier, layer.Type, int(layer.Type)))
}

func (f *formatter) formatUDP(udp *layers.UDP) {
	f.WriteString(fmt.Sprintf(", %s.%d > %s.%d", f.ipv4.SrcIP, udp.SrcPort, f.ipv4.DstIP, udp.DstPort))
	if udp.NextLayerType() != gsmtap.LayerTypeGSMTAP {
		f.WriteString(fmt.Sprintf(": UDP, length %d", len(udp.Payload)))
	}
}

func (f *formatter) formatGSMTAP(g *gsmtap.GSMTAP) {
	f.WriteString(fmt.Sprintf("GSMTAP %s", g.Type))
	if ch := g.Channel(); ch != "" {
		f.WriteString(" " + ch)
	}
	dir := "downlink"
	if g.Uplink {
		dir = "uplink"
	}
	f.WriteString(fmt.Sprintf(" %s, arfcn %d, ts %d, fn %d", dir, g.ARFCN, g.Timeslot, g.FrameNumber))
}
