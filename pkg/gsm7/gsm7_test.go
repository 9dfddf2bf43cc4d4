package gsm7

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackHello(t *testing.T) {
	septets, err := Encode("hellohello")
	require.Nil(t, err)

	packed := Pack(septets)
	assert.Equal(t, []byte{0xe8, 0x32, 0x9b, 0xfd, 0x46, 0x97, 0xd9, 0xec, 0x37}, packed)
	assert.Equal(t, 2, SpareBits(len(septets)))

	assert.Equal(t, "hellohello", Decode(Unpack(packed, len(septets))))
}

func TestExtensionTable(t *testing.T) {
	septets, err := Encode("[€]")
	require.Nil(t, err)
	assert.Equal(t, []byte{escape, 0x3c, escape, 0x65, escape, 0x3e}, septets)
	assert.Equal(t, "[€]", Decode(septets))
}

func TestEncodeRejectsUnknown(t *testing.T) {
	_, err := Encode("日本")
	assert.NotNil(t, err)
}

func TestUnpackCount(t *testing.T) {
	packed := Pack([]byte{0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47})
	assert.Equal(t, 7, len(packed))
	assert.Equal(t, "ABC", Decode(Unpack(packed, 3)))
	assert.Equal(t, 8, len(Unpack(packed, -1)))
}
