package chat

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"chat-relay/internal/store"
)

func TestReadPump_ForwardsDecodableFrames(t *testing.T) {
	h := NewHub(store.New(), zerolog.Nop())
	conn := &fakeConn{frames: [][]byte{
		[]byte(`{"event":"join","data":{"id":"u1","name":"Ann"}}`),
		[]byte(`not json`),
		[]byte(`{"event":"clearAll"}`),
	}}
	c := NewClient("c1", conn, h, 16)

	c.ReadPump()

	require.Len(t, h.Commands, 2, "malformed frame is skipped")
	first := <-h.Commands
	require.Equal(t, CmdJoin, first.Frame.Event)
	require.Same(t, c, first.Client)
	second := <-h.Commands
	require.Equal(t, CmdClearAll, second.Frame.Event)
}

func TestWritePump_DrainsUntilClosedThenClosesConn(t *testing.T) {
	h := NewHub(store.New(), zerolog.Nop())
	conn := &fakeConn{}
	c := NewClient("c1", conn, h, 16)

	c.Send <- []byte(`{"event":"messages:cleared"}`)
	c.Send <- []byte(`{"event":"messages:cleared"}`)
	close(c.Send)

	c.WritePump()

	conn.mu.Lock()
	defer conn.mu.Unlock()
	require.Len(t, conn.writes, 2)
	require.True(t, conn.closed)
}
