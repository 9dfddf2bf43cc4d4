package xmldoc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsml3/pkg/rl3"
)

const doc = `<trace><event id="1"><codecTag enc="hex">05087000f11000015705f401020304</codecTag></event></trace>`

func TestTransformRoundTrip(t *testing.T) {
	cd := rl3.New()

	var decoded bytes.Buffer
	require.Nil(t, Transform(cd, strings.NewReader(doc), &decoded, false, true))
	assert.Contains(t, decoded.String(), `<codecTag enc="xml">`)
	assert.Contains(t, decoded.String(), "LocationUpdatingRequest")

	var encoded bytes.Buffer
	require.Nil(t, Transform(rl3.New(rl3.WithRole(rl3.MobileStation)), &decoded, &encoded, true, false))
	assert.Equal(t, doc+"\n", encoded.String())
}

func TestTransformErrors(t *testing.T) {
	var out bytes.Buffer
	assert.NotNil(t, Transform(rl3.New(), strings.NewReader("<trace>"), &out, false, false))
	assert.Empty(t, out.String())

	err := Transform(rl3.New(), strings.NewReader(`<a><codecTag enc="hex">0524</codecTag></a>`), &out, false, false)
	assert.Equal(t, rl3.MsgTooShort, rl3.StatusOf(err))
	assert.NotEmpty(t, out.String())

	out.Reset()
	custom := `<a><nas enc="hex">05087000f11000015705f401020304</nas></a>`
	require.Nil(t, Transform(rl3.New(), strings.NewReader(custom), &out, false, false, rl3.WithCodecTag("nas")))
	assert.Contains(t, out.String(), `<nas enc="xml"><MM>`)
}
