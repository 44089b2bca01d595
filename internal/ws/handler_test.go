package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/typerace-backend/internal/broadcast"
	"github.com/DoyleJ11/typerace-backend/internal/hub"
	"github.com/DoyleJ11/typerace-backend/internal/protocol"
)

func TestConn_SendFullOutboxIsSlowConsumer(t *testing.T) {
	c := newConn("c1", 2)

	require.NoError(t, c.Send([]byte("1")))
	require.NoError(t, c.Send([]byte("2")))
	assert.ErrorIs(t, c.Send([]byte("3")), broadcast.ErrSlowConsumer)
	assert.True(t, c.slow.Load())

	select {
	case <-c.closed:
	default:
		t.Fatal("expected conn to be closed")
	}
	assert.ErrorIs(t, c.Send([]byte("4")), errClosed)
}

func newTestServer(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h, err := hub.NewHub(ctx, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(Handler(h, Config{}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.CloseNow() })
	return c
}

func sendFrame(t *testing.T, c *websocket.Conn, raw string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(raw)))
}

func readFrame(t *testing.T, c *websocket.Conn) map[string]any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, p, err := c.Read(ctx)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(p, &m))
	return m
}

func TestHandler_CreateJoinAndDisconnect(t *testing.T) {
	url := newTestServer(t)
	a, b := dial(t, url), dial(t, url)

	sendFrame(t, a, `{"type":"create_room"}`)
	created := readFrame(t, a)
	require.Equal(t, protocol.TypeRoomCreated, created["type"])
	code := created["roomId"].(string)

	sendFrame(t, b, `{"type":"join_room","roomId":"`+code+`"}`)
	assert.Equal(t, protocol.TypePlayerJoined, readFrame(t, a)["type"])
	joined := readFrame(t, b)
	assert.Equal(t, protocol.TypePlayerJoined, joined["type"])
	assert.Len(t, joined["players"], 2)

	require.NoError(t, a.Close(websocket.StatusNormalClosure, ""))

	left := readFrame(t, b)
	assert.Equal(t, protocol.TypePlayerDisconnected, left["type"])
	assert.Equal(t, protocol.MsgOpponentDisconnected, left["message"])
}

func TestHandler_ThirdClientGetsRoomFull(t *testing.T) {
	url := newTestServer(t)
	a, b, c := dial(t, url), dial(t, url), dial(t, url)

	sendFrame(t, a, `{"type":"create_room"}`)
	code := readFrame(t, a)["roomId"].(string)
	sendFrame(t, b, `{"type":"join_room","roomId":"`+code+`"}`)
	readFrame(t, b)

	sendFrame(t, c, `{"type":"join_room","roomId":"`+code+`"}`)
	assert.Equal(t, map[string]any{"type": protocol.TypeError, "message": protocol.MsgRoomFull}, readFrame(t, c))
}
