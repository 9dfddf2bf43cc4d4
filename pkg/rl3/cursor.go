package rl3

import (
	"github.com/pkg/errors"
)

// Cursor is a read position over an immutable byte slice. Reads never go past
// the end of the slice; they fail with a MsgTooShort error instead.
type Cursor struct {
	data []byte
	off  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.data) - c.off }

func (c *Cursor) Offset() int { return c.off }

// Bytes returns the unread bytes without consuming them.
func (c *Cursor) Bytes() []byte { return c.data[c.off:] }

func (c *Cursor) need(n int) error {
	if n < 0 || c.Len() < n {
		return &Error{Status: MsgTooShort, Err: errors.Errorf("need %d bytes, have %d", n, c.Len())}
	}
	return nil
}

func (c *Cursor) Peek() (byte, error) {
	return c.PeekAt(0)
}

func (c *Cursor) PeekAt(i int) (byte, error) {
	if err := c.need(i + 1); err != nil {
		return 0, err
	}
	return c.data[c.off+i], nil
}

func (c *Cursor) Byte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

// Next consumes n bytes and returns them.
func (c *Cursor) Next(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *Cursor) Skip(n int) error {
	_, err := c.Next(n)
	return err
}

// Rest consumes and returns every unread byte.
func (c *Cursor) Rest() []byte {
	b := c.data[c.off:]
	c.off = len(c.data)
	return b
}

// Uint16 reads a big endian value, consuming it only when advance is set.
func (c *Cursor) Uint16(advance bool) (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := uint16(c.data[c.off])<<8 | uint16(c.data[c.off+1])
	if advance {
		c.off += 2
	}
	return v, nil
}

// Sub returns a cursor over the next n bytes and advances past them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	b, err := c.Next(n)
	if err != nil {
		return nil, err
	}
	return NewCursor(b), nil
}

// readField extracts the value of a field of at most one octet. A low nibble
// is read without advancing, the octet is then shared with the high nibble
// field that follows it.
func (c *Cursor) readField(p *Param) (uint8, error) {
	if p.Bits != 0 && p.Bits != 4 && p.Bits != 8 && p.Bits < 16 {
		return 0, statusErr(ParserErr, p.Name, "field of %d bits", p.Bits)
	}
	b, err := c.Peek()
	if err != nil {
		return 0, err
	}
	switch {
	case p.Bits == 4 && p.LowerBits:
		return b & 0x0f, nil
	case p.Bits == 4:
		c.off++
		return b >> 4, nil
	case p.Bits == 8 && p.Class == TV:
		c.off++
		return b & 0x0f, nil
	}
	c.off++
	return b, nil
}

// Buffer accumulates encoded octets.
type Buffer struct {
	b []byte
}

func (b *Buffer) Bytes() []byte { return b.b }

func (b *Buffer) Len() int { return len(b.b) }

func (b *Buffer) AppendByte(v byte) { b.b = append(b.b, v) }

func (b *Buffer) Append(p []byte) { b.b = append(b.b, p...) }

func (b *Buffer) AppendUint16(v uint16) { b.b = append(b.b, byte(v>>8), byte(v)) }

// Truncate drops everything written after the first n octets.
func (b *Buffer) Truncate(n int) {
	if n < len(b.b) {
		b.b = b.b[:n]
	}
}

// writeField is the inverse of readField. A high nibble is merged into the
// last octet, which holds the low nibble written just before it.
func (b *Buffer) writeField(v uint8, p *Param) {
	if p.Bits == 4 && !p.LowerBits && len(b.b) > 0 {
		b.b[len(b.b)-1] |= v << 4
		return
	}
	if p.Bits == 4 && !p.LowerBits {
		v <<= 4
	}
	b.b = append(b.b, v)
}
