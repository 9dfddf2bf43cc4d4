package capture

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

// runFilter interprets the subset of classic BPF used by udpPortFilter.
func runFilter(t *testing.T, prog []unix.SockFilter, pkt []byte) uint32 {
	t.Helper()
	var a, x uint32
	load := func(off uint32, n int) (uint32, bool) {
		if int(off)+n > len(pkt) {
			return 0, false
		}
		if n == 1 {
			return uint32(pkt[off]), true
		}
		return uint32(binary.BigEndian.Uint16(pkt[off:])), true
	}
	for pc := 0; pc < len(prog); pc++ {
		ins := prog[pc]
		var ok bool
		switch ins.Code {
		case bpfLdhAbs:
			a, ok = load(ins.K, 2)
		case bpfLdbAbs:
			a, ok = load(ins.K, 1)
		case bpfLdhInd:
			a, ok = load(x+ins.K, 2)
		case bpfLdxbMsh:
			var b uint32
			b, ok = load(ins.K, 1)
			x = 4 * (b & 0x0f)
		case bpfJeqK, bpfJsetK:
			hit := a == ins.K
			if ins.Code == bpfJsetK {
				hit = a&ins.K != 0
			}
			if hit {
				pc += int(ins.Jt)
			} else {
				pc += int(ins.Jf)
			}
			continue
		case bpfRetK:
			return ins.K
		default:
			t.Fatalf("unexpected opcode %#x", ins.Code)
		}
		if !ok {
			return 0
		}
	}
	t.Fatal("filter fell off the end")
	return 0
}

func udpFrame(etherType uint16, proto uint8, frag uint16, sport, dport uint16) []byte {
	b := make([]byte, 14+20+8)
	binary.BigEndian.PutUint16(b[12:], etherType)
	b[14] = 0x45
	binary.BigEndian.PutUint16(b[20:], frag)
	b[23] = proto
	binary.BigEndian.PutUint16(b[34:], sport)
	binary.BigEndian.PutUint16(b[36:], dport)
	return b
}

func TestUDPPortFilter(t *testing.T) {
	prog := udpPortFilter(4729)
	accept := func(pkt []byte) bool { return runFilter(t, prog, pkt) != 0 }

	assert.True(t, accept(udpFrame(0x0800, 17, 0, 40000, 4729)))
	assert.True(t, accept(udpFrame(0x0800, 17, 0x4000, 4729, 40000)))
	assert.False(t, accept(udpFrame(0x0800, 17, 0, 40000, 53)))
	assert.False(t, accept(udpFrame(0x0800, 6, 0, 40000, 4729)))
	assert.False(t, accept(udpFrame(0x86dd, 17, 0, 40000, 4729)))
	assert.False(t, accept(udpFrame(0x0800, 17, 0x0010, 40000, 4729)))
	assert.False(t, accept(make([]byte, 10)))
}
