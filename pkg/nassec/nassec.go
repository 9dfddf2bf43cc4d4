// Package nassec protects EPS NAS messages with 128-EIA2 and 128-EEA2,
// TS 33.401 annex B.
package nassec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"

	"github.com/aead/cmac"
	"github.com/pkg/errors"
)

type Direction uint8

const (
	Uplink Direction = iota
	Downlink
)

const (
	keyLen = 16
	macLen = 4
	// NAS signalling uses bearer identity 0, TS 33.401 8.1.1
	nasBearer = 0
)

type opts struct {
	recv     Direction
	overflow uint16
	cipher   bool
}

type Opt func(*opts)

// WithReceiveDirection sets the direction of the messages being checked and
// deciphered. Protected messages go the other way.
func WithReceiveDirection(d Direction) Opt {
	return func(o *opts) { o.recv = d }
}

// WithOverflow sets the NAS overflow counter, the upper 16 bits of COUNT.
func WithOverflow(v uint16) Opt {
	return func(o *opts) { o.overflow = v }
}

// WithNullCipher leaves payloads in clear, as 128-EEA0 does.
func WithNullCipher() Opt {
	return func(o *opts) { o.cipher = false }
}

// Hooks implements rl3.SecurityHooks with fixed keys.
type Hooks struct {
	opts
	integrity cipher.Block
	ciphering cipher.Block
}

// New returns the hooks for the integrity key kint and the ciphering key
// kenc, both 128 bits.
func New(kint, kenc []byte, opt ...Opt) (*Hooks, error) {
	o := opts{recv: Uplink, cipher: true}
	for _, fn := range opt {
		fn(&o)
	}
	if len(kint) != keyLen || len(kenc) != keyLen {
		return nil, errors.Errorf("nassec.New: keys must be %d bytes", keyLen)
	}
	ib, err := aes.NewCipher(kint)
	if err != nil {
		return nil, errors.Wrap(err, "nassec.New")
	}
	cb, err := aes.NewCipher(kenc)
	if err != nil {
		return nil, errors.Wrap(err, "nassec.New")
	}
	return &Hooks{opts: o, integrity: ib, ciphering: cb}, nil
}

func (h *Hooks) count(seq uint8) uint32 {
	return uint32(h.overflow)<<8 | uint32(seq)
}

func (h *Hooks) send() Direction {
	if h.recv == Uplink {
		return Downlink
	}
	return Uplink
}

// header is COUNT, BEARER and DIRECTION as laid out for both algorithms.
func header(count uint32, bearer uint8, dir Direction) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b, count)
	b[4] = bearer<<3 | byte(dir)<<2
	return b
}

// EIA2 computes the 32 bit MAC of msg, TS 33.401 B.2.3.
func EIA2(block cipher.Block, count uint32, bearer uint8, dir Direction, msg []byte) ([]byte, error) {
	m := append(header(count, bearer, dir), msg...)
	mac, err := cmac.Sum(m, block, aes.BlockSize)
	if err != nil {
		return nil, errors.Wrap(err, "nassec.EIA2")
	}
	return mac[:macLen], nil
}

// EEA2 ciphers or deciphers msg, TS 33.401 B.1.3.
func EEA2(block cipher.Block, count uint32, bearer uint8, dir Direction, msg []byte) []byte {
	iv := make([]byte, aes.BlockSize)
	copy(iv, header(count, bearer, dir))
	out := make([]byte, len(msg))
	cipher.NewCTR(block, iv).XORKeyStream(out, msg)
	return out
}

func (h *Hooks) CheckIntegrity(mac []byte, seq uint8, payload []byte) error {
	want, err := EIA2(h.integrity, h.count(seq), nasBearer, h.recv, payload)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(mac, want) != 1 {
		return errors.Errorf("MAC %x does not match %x", mac, want)
	}
	return nil
}

func (h *Hooks) AddIntegrity(seq uint8, payload []byte) ([]byte, error) {
	return EIA2(h.integrity, h.count(seq), nasBearer, h.send(), payload)
}

func (h *Hooks) Decipher(seq uint8, payload []byte) ([]byte, error) {
	if !h.cipher {
		return payload, nil
	}
	return EEA2(h.ciphering, h.count(seq), nasBearer, h.recv, payload), nil
}

func (h *Hooks) Cipher(seq uint8, payload []byte) ([]byte, error) {
	if !h.cipher {
		return payload, nil
	}
	return EEA2(h.ciphering, h.count(seq), nasBearer, h.send(), payload), nil
}
