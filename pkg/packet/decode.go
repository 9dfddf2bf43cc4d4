package packet

import (
	"encoding/binary"
	"sync"
	"syscall"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"gsml3/pkg/gsmtap"
)

var globalLayerPools map[gopacket.LayerType]*sync.Pool

func addLayerPool[T any](layerType gopacket.LayerType) {
	_, ok := globalLayerPools[layerType]
	if ok {
		return
	}
	globalLayerPools[layerType] = &sync.Pool{
		New: func() any {
			var v T
			return &v
		},
	}
}

func init() {
	globalLayerPools = make(map[gopacket.LayerType]*sync.Pool)
	addLayerPool[layers.Ethernet](layers.LayerTypeEthernet)
	addLayerPool[layers.Dot1Q](layers.LayerTypeDot1Q)
	addLayerPool[layers.IPv4](layers.LayerTypeIPv4)
	addLayerPool[layers.UDP](layers.LayerTypeUDP)
	addLayerPool[gsmtap.GSMTAP](gsmtap.LayerTypeGSMTAP)
}

type LayerDecodePostFn func(DecodingLayer)
type LayersDecodePostFn func([]DecodingLayer)

type decodeOpts struct {
	firstLayer     gopacket.LayerType
	layersHooks    map[gopacket.LayerType][]LayerDecodePostFn
	completedHooks []LayersDecodePostFn
}

type DecodeOpt func(*decodeOpts)

// WithFirstLayer sets the link layer of the frames, Ethernet by default.
// Frames read from a TUN device or a raw IP capture start at IPv4.
func WithFirstLayer(layerType gopacket.LayerType) DecodeOpt {
	return func(do *decodeOpts) { do.firstLayer = layerType }
}

// FirstLayerOf maps a pcap link type to the first layer to decode.
func FirstLayerOf(link layers.LinkType) (gopacket.LayerType, error) {
	switch link {
	case layers.LinkTypeEthernet:
		return layers.LayerTypeEthernet, nil
	case layers.LinkTypeRaw, layers.LinkTypeIPv4:
		return layers.LayerTypeIPv4, nil
	}
	return gopacket.LayerTypeZero, errors.Errorf("unsupported link type %s", link)
}

// WithLayerDecodedHook registers a hook for a specific layer type
func WithLayerDecodedHook(layerType gopacket.LayerType, hook LayerDecodePostFn) DecodeOpt {
	return func(do *decodeOpts) {
		hooks, ok := do.layersHooks[layerType]
		if !ok {
			hooks = []LayerDecodePostFn{}
		}
		hooks = append(hooks, hook)
		do.layersHooks[layerType] = hooks
	}
}

// WithCompletedHook registers a hook that will be called after all layers are decoded
func WithCompletedHook(hook LayersDecodePostFn) DecodeOpt {
	return func(do *decodeOpts) {
		do.completedHooks = append(do.completedHooks, hook)
	}
}

// Decoder defines the interface for decoding layers
type Decoder interface {
	Decode(data []byte, oob []byte) error
}

// DecodingLayer extends gopacket.DecodingLayer and includes layer type info
type DecodingLayer interface {
	gopacket.DecodingLayer
	LayerType() gopacket.LayerType
}

type LayersDecoder struct {
	opts       decodeOpts
	layers     []DecodingLayer
	layerPools map[gopacket.LayerType]*sync.Pool
}

func NewLayersDecoder(opts ...DecodeOpt) *LayersDecoder {
	o := decodeOpts{
		firstLayer:  layers.LayerTypeEthernet,
		layersHooks: make(map[gopacket.LayerType][]LayerDecodePostFn),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &LayersDecoder{opts: o, layerPools: globalLayerPools}
}

func (d *LayersDecoder) Decode(data []byte, oob []byte) error {
	defer func() {
		for _, layer := range d.layers {
			pool, ok := d.layerPools[layer.LayerType()]
			if !ok {
				continue
			}
			pool.Put(layer)
		}
	}()
	d.layers = d.layers[:0]
	return d.decode(data, oob)
}

func (d *LayersDecoder) decode(data []byte, oob []byte) error {
	var (
		currLayerType    gopacket.LayerType
		currLayerPayload []byte
	)

	// The first layer is decoded on its own so that invalid frames are
	// rejected early and the VLAN tag stripped by the kernel can be rebuilt
	// from the auxiliary data.
	pool, ok := d.layerPools[d.opts.firstLayer]
	if !ok {
		return errors.Errorf("no decoder for first layer %s", d.opts.firstLayer)
	}
	firstLayer, err := d.decodeLayerAndCallHooks(pool, data)
	if err != nil {
		return err
	}
	currLayerType = firstLayer.NextLayerType()
	currLayerPayload = firstLayer.LayerPayload()

	if ether, ok := firstLayer.(*layers.Ethernet); ok && len(oob) != 0 && currLayerType == layers.LayerTypeIPv4 {
		d.buildVLANLayerAndCallHooks(ether, oob)
	}

	// General protocol layer decoding
	for len(currLayerPayload) > 0 {
		pool, ok = d.layerPools[currLayerType]
		if !ok {
			break
		}
		nextLayer, err := d.decodeLayerAndCallHooks(pool, currLayerPayload)
		if err != nil {
			return errors.Wrapf(err, "decode %s", currLayerType)
		}
		currLayerType = nextLayer.NextLayerType()
		currLayerPayload = nextLayer.LayerPayload()
	}

	for _, hook := range d.opts.completedHooks {
		hook(d.layers)
	}
	return nil
}

func (d *LayersDecoder) decodeLayerAndCallHooks(pool *sync.Pool, data []byte) (DecodingLayer, error) {
	layer := pool.Get().(DecodingLayer)
	err := layer.DecodeFromBytes(data, gopacket.NilDecodeFeedback)
	if err != nil {
		return nil, err
	}
	d.layers = append(d.layers, layer)

	d.callLayerHooks(layer)
	return layer, nil
}

func (d *LayersDecoder) buildVLANLayerAndCallHooks(ether *layers.Ethernet, oob []byte) error {
	vlanId, err := decodeVlanIdByAuxData(oob)
	if err != nil {
		return errors.Wrap(err, "syscall.ParseSocketControlMessage")
	}
	if vlanId == 0 {
		return nil
	}

	pool, ok := d.layerPools[layers.LayerTypeDot1Q]
	if !ok {
		return nil
	}
	vlan := pool.Get().(*layers.Dot1Q)
	vlan.VLANIdentifier = vlanId
	vlan.Type = layers.EthernetTypeIPv4

	// Fix ethernet type
	ether.EthernetType = layers.EthernetTypeDot1Q
	d.layers = append(d.layers, vlan)

	d.callLayerHooks(vlan)
	return nil
}

func (d *LayersDecoder) callLayerHooks(layer DecodingLayer) {
	hooks, ok := d.opts.layersHooks[layer.LayerType()]
	if !ok {
		return
	}
	for _, hook := range hooks {
		hook(layer)
	}
}

func decodeVlanIdByAuxData(oob []byte) (uint16, error) {
	msgs, err := syscall.ParseSocketControlMessage(oob)
	if err != nil {
		return 0, err
	}

	for _, m := range msgs {
		// Check for relevant level and type for VLAN data
		if m.Header.Level == syscall.SOL_PACKET && m.Header.Type == 8 && len(m.Data) >= 20 {
			auxdata := unix.TpacketAuxdata{
				Status:   binary.LittleEndian.Uint32(m.Data[0:4]),
				Vlan_tci: binary.LittleEndian.Uint16(m.Data[16:18]),
			}
			if auxdata.Status&unix.TP_STATUS_VLAN_VALID != 0 {
				return auxdata.Vlan_tci, nil
			}
		}
	}
	return 0, nil
}
