package tlv

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"unsafe"

	"github.com/pkg/errors"
)

// Message types of the codec service.
const (
	TypeFrame          uint16 = 1 // captured link layer frame
	TypeDecodeRequest  uint16 = 2 // Radio Layer 3 octets
	TypeDecodeResponse uint16 = 3 // XML text
	TypeEncodeRequest  uint16 = 4 // XML text
	TypeEncodeResponse uint16 = 5 // Radio Layer 3 octets
	TypeError          uint16 = 6 // error text
)

var typeNames = map[uint16]string{
	TypeFrame:          "frame",
	TypeDecodeRequest:  "decode-request",
	TypeDecodeResponse: "decode-response",
	TypeEncodeRequest:  "encode-request",
	TypeEncodeResponse: "encode-response",
	TypeError:          "error",
}

func TypeName(t uint16) string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

type TLV struct {
	Type   uint16
	Length uint16
}

// Type(2) + Length(2)
const tlvHdrLen = 4

func (t *TLV) Len() int {
	return tlvHdrLen + int(t.Length)
}

func (t *TLV) decodeHeader(r io.Reader) error {
	var x uint32
	h := (*[tlvHdrLen]byte)(unsafe.Pointer(&x))

	_, err := io.ReadFull(r, h[:])
	if err != nil {
		return err
	}

	t.Type = binary.BigEndian.Uint16(h[:2])
	t.Length = binary.BigEndian.Uint16(h[2:4])

	return nil
}

func (t *TLV) DecodeFrom(r io.Reader) ([]byte, error) {
	err := t.decodeHeader(r)
	if err != nil {
		return nil, err
	}

	value := make([]byte, t.Length)
	_, err = io.ReadFull(r, value)
	return value, err
}

func (t *TLV) Decode(data []byte) ([]byte, error) {
	if len(data) < tlvHdrLen {
		return nil, errors.New("data less than TLV header length")
	}

	b := bytes.NewBuffer(data)
	err := t.decodeHeader(b)
	if err != nil {
		return nil, err
	}

	if len(data) < t.Len() {
		return nil, errors.New("data less than TLV length")
	}

	return data[tlvHdrLen:t.Len()], nil
}

// ReadMessage reads one message from r.
func ReadMessage(r io.Reader) (uint16, []byte, error) {
	var t TLV
	value, err := t.DecodeFrom(r)
	if err != nil {
		return 0, nil, err
	}
	return t.Type, value, nil
}

// WriteMessage writes value as one message of type typ.
func WriteMessage(w io.Writer, typ uint16, value []byte) error {
	if len(value) > math.MaxUint16 {
		return errors.Errorf("%s value of %d octets exceeds TLV length", TypeName(typ), len(value))
	}
	t := TLV{Type: typ, Length: uint16(len(value))}
	b, err := t.Encode(value)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return errors.Wrap(err, "tlv.WriteMessage")
}

func (t *TLV) EncodeTo(w io.Writer, value []byte) (int, error) {
	var x uint32
	h := (*[tlvHdrLen]byte)(unsafe.Pointer(&x))

	binary.BigEndian.PutUint16(h[:2], t.Type)
	binary.BigEndian.PutUint16(h[2:4], t.Length)

	nh, err := w.Write(h[:])
	if err != nil {
		return nh, err
	}

	nv, err := w.Write(value)
	return nh + nv, err
}

func (t *TLV) Encode(value []byte) ([]byte, error) {
	b := bytes.NewBuffer(make([]byte, 0, tlvHdrLen+len(value)))
	_, err := t.EncodeTo(b, value)
	return b.Bytes(), err
}
