package nassec

import (
	"crypto/aes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsml3/pkg/rl3"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.Nil(t, err)
	return b
}

func TestEIA2(t *testing.T) {
	// TS 33.401 C.2, test set 2
	block, err := aes.NewCipher(unhex(t, "d3c5d592 327fb11c 4035c668 0af8c6d1"))
	require.Nil(t, err)

	mac, err := EIA2(block, 0x398a59b4, 0x1a, Downlink, unhex(t, "484583d5 afe082ae"))
	require.Nil(t, err)
	assert.Equal(t, "b93787e6", hex.EncodeToString(mac))

	other, err := EIA2(block, 0x398a59b4, 0x1a, Uplink, unhex(t, "484583d5 afe082ae"))
	require.Nil(t, err)
	assert.NotEqual(t, mac, other)
}

func TestEEA2(t *testing.T) {
	block, err := aes.NewCipher(unhex(t, "2bd6459f 82c440e0 952c4910 4805ff48"))
	require.Nil(t, err)

	plain := []byte("attach request payload")
	ct := EEA2(block, 7, 0, Uplink, plain)
	assert.Equal(t, len(plain), len(ct))
	assert.NotEqual(t, plain, ct)
	assert.Equal(t, plain, EEA2(block, 7, 0, Uplink, ct))
	assert.NotEqual(t, plain, EEA2(block, 8, 0, Uplink, ct))
}

func TestNewRejectsShortKeys(t *testing.T) {
	_, err := New(make([]byte, 8), make([]byte, 16))
	assert.NotNil(t, err)
	_, err = New(make([]byte, 16), nil)
	assert.NotNil(t, err)
}

func TestHooksDirections(t *testing.T) {
	kint := unhex(t, "000102030405060708090a0b0c0d0e0f")
	kenc := unhex(t, "f0e0d0c0b0a090807060504030201000")

	ue, err := New(kint, kenc, WithReceiveDirection(Downlink), WithOverflow(1))
	require.Nil(t, err)
	mme, err := New(kint, kenc, WithOverflow(1))
	require.Nil(t, err)

	payload := []byte{0x03, 0x07, 0x41, 0x71}
	mac, err := ue.AddIntegrity(3, payload)
	require.Nil(t, err)
	assert.Equal(t, macLen, len(mac))
	assert.Nil(t, mme.CheckIntegrity(mac, 3, payload))
	assert.NotNil(t, ue.CheckIntegrity(mac, 3, payload))
	assert.NotNil(t, mme.CheckIntegrity(mac, 4, payload))

	ct, err := ue.Cipher(3, payload)
	require.Nil(t, err)
	pt, err := mme.Decipher(3, ct)
	require.Nil(t, err)
	assert.Equal(t, payload, pt)

	null, err := New(kint, kenc, WithNullCipher())
	require.Nil(t, err)
	ct, err = null.Cipher(3, payload)
	require.Nil(t, err)
	assert.Equal(t, payload, ct)
}

const attachRequest = "07 41 71" +
	" 0b f6 00 f1 10 80 01 01 c0 00 00 01" +
	" 02 e0 e0" +
	" 00 04 02 01 d0 11" +
	" 52 00 f1 10 00 01" +
	" 5c 00 0a" +
	" 5d 01 01"

func TestProtectedAttachRequest(t *testing.T) {
	kint := unhex(t, "000102030405060708090a0b0c0d0e0f")
	kenc := unhex(t, "f0e0d0c0b0a090807060504030201000")
	ueHooks, err := New(kint, kenc, WithReceiveDirection(Downlink))
	require.Nil(t, err)
	mmeHooks, err := New(kint, kenc)
	require.Nil(t, err)

	inner := unhex(t, attachRequest)
	template, err := rl3.New().Decode(append(unhex(t, "27 00 00 00 00 05"), inner...))
	require.Nil(t, err)

	ue := rl3.New(rl3.WithRole(rl3.MobileStation), rl3.WithSecurityHooks(ueHooks))
	wire, err := ue.Encode(template)
	require.Nil(t, err)
	require.Equal(t, 6+len(inner), len(wire))
	assert.Equal(t, byte(5), wire[5])
	assert.NotEqual(t, inner, wire[6:])

	mme := rl3.New(rl3.WithSecurityHooks(mmeHooks))
	root, err := mme.Decode(wire)
	require.Nil(t, err)
	msg := root.Child("EPS_MM").Child("Message")
	require.NotNil(t, msg)
	assert.Equal(t, "AttachRequest", msg.Attr("type"))

	again, err := ue.Encode(root)
	require.Nil(t, err)
	assert.Equal(t, wire, again)

	wire[len(wire)-1] ^= 0x01
	_, err = mme.Decode(wire)
	assert.Equal(t, rl3.IncorrectMandatoryIE, rl3.StatusOf(err))
}
