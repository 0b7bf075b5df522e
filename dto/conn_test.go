package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveConn upgrades one request and hands the server side to fn.
func serveConn(t *testing.T, fn func(conn *RealConn)) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		fn(&RealConn{Conn: conn, WriteWait: 100 * time.Millisecond})
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRealConnWrites(t *testing.T) {
	client := serveConn(t, func(conn *RealConn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"player_list"}`))
		time.Sleep(50 * time.Millisecond)
	})

	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"player_list"}`, string(msg))
}

func TestRealConnWriteTimesOutOnStalledReader(t *testing.T) {
	result := make(chan error, 1)
	serveConn(t, func(conn *RealConn) {
		payload := make([]byte, 1<<20)
		for i := 0; i < 256; i++ {
			if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
				result <- err
				return
			}
		}
		result <- nil
	})

	select {
	case err := <-result:
		assert.Error(t, err, "a client that never reads cannot absorb 256MB")
	case <-time.After(10 * time.Second):
		t.Fatal("write blocked past its deadline")
	}
}
