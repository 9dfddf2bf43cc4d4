package rl3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPLMN(t *testing.T) {
	cases := []struct {
		wire string
		plmn string
	}{
		{"00 f1 10", "00101"},
		{"13 00 14", "310410"},
		{"62 f2 10", "26201"},
		{"21 63 54", "123456"},
	}
	for _, c := range cases {
		s, ok, err := decodePLMN(unhex(t, c.wire))
		require.Nil(t, err, c.wire)
		assert.True(t, ok)
		assert.Equal(t, c.plmn, s)

		b, err := encodePLMN(c.plmn)
		require.Nil(t, err, c.plmn)
		assert.Equal(t, unhex(t, c.wire), b)
	}

	_, ok, err := decodePLMN(unhex(t, "ff ff ff"))
	require.Nil(t, err)
	assert.False(t, ok)
	b, err := encodePLMN("")
	require.Nil(t, err)
	assert.Equal(t, []byte{0xff, 0xff, 0xff}, b)

	_, _, err = decodePLMN(unhex(t, "0a f1 10"))
	assert.NotNil(t, err)
	_, _, err = decodePLMN(unhex(t, "00 f1"))
	assert.Equal(t, MsgTooShort, StatusOf(err))
	_, err = encodePLMN("1234")
	assert.NotNil(t, err)
	_, err = encodePLMN("12a45")
	assert.NotNil(t, err)
}

func TestBCD(t *testing.T) {
	s, err := decodeBCD(unhex(t, "21 43 f5"), decimalDigits)
	require.Nil(t, err)
	assert.Equal(t, "12345", s)

	b, err := encodeBCD("12345", decimalDigits)
	require.Nil(t, err)
	assert.Equal(t, unhex(t, "21 43 f5"), b)

	b, err = encodeBCD("1234", decimalDigits)
	require.Nil(t, err)
	assert.Equal(t, unhex(t, "21 43"), b)

	// a filler is only valid in the last octet
	_, err = decodeBCD(unhex(t, "f1 43"), decimalDigits)
	assert.NotNil(t, err)

	s, err = decodeBCD(unhex(t, "ba"), numberDigits)
	require.Nil(t, err)
	assert.Equal(t, "*#", s)

	_, err = encodeBCD("12*", decimalDigits)
	assert.NotNil(t, err)
}

func TestIdentityDigits(t *testing.T) {
	b, err := encodeIdentityDigits(identIMSI, "001010123456789")
	require.Nil(t, err)
	assert.Equal(t, unhex(t, "09 10 10 10 32 54 76 98"), b)

	s, err := decodeIdentityDigits(b)
	require.Nil(t, err)
	assert.Equal(t, "001010123456789", s)

	b, err = encodeIdentityDigits(identIMSI, "0010101234")
	require.Nil(t, err)
	assert.Equal(t, unhex(t, "01 10 10 10 32 f4"), b)
	_, err = decodeIdentityDigits(unhex(t, "01 10 10 10 32 04"))
	assert.NotNil(t, err)
}
