package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsml3/pkg/tlv"
)

func TestTxLoopSend(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	outputs := make(chan *TxLoopOutputData, 8)
	tx, err := NewTxLoop("pipe", "peer",
		WithTxLoopDial(func(string, string) (net.Conn, error) { return client, nil }),
		WithTxLoopOutput(func(d *TxLoopOutputData) { outputs <- d }),
		WithTxLoopHealthCheckDur(time.Hour))
	require.Nil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tx.Serve(ctx)

	require.Nil(t, tx.Send(tlv.TypeFrame, []byte{1, 2, 3}))
	typ, value, err := tlv.ReadMessage(server)
	require.Nil(t, err)
	assert.Equal(t, tlv.TypeFrame, typ)
	assert.Equal(t, []byte{1, 2, 3}, value)

	d := <-outputs
	assert.Nil(t, d.Err)
	assert.Equal(t, "Write", d.Message)

	require.Nil(t, tx.Close())
	_, err = tx.Write([]byte{0})
	assert.NotNil(t, err)
}
