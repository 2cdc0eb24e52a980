package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWSConn dials a throwaway upgrade server so the hub gets a real
// connection it can close.
func newWSConn(t *testing.T) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubJoinLeave(t *testing.T) {
	hub := NewHub(0)
	ws := newWSConn(t)

	assert.Zero(t, hub.Count())

	hub.Join(ws, "s1")
	assert.Equal(t, 1, hub.Count())

	hub.Leave(ws)
	assert.Zero(t, hub.Count())
	assert.Nil(t, hub.history(ws))
}

func TestHubRecordCapsHistory(t *testing.T) {
	hub := NewHub(3)
	ws := newWSConn(t)
	hub.Join(ws, "s1")

	for i := 0; i < 5; i++ {
		hub.Record(ws, Message{Type: "user", SessionID: "s1", Text: string(rune('a' + i))})
	}

	history := hub.history(ws)
	require.Len(t, history, 3)
	assert.Equal(t, "c", history[0].Text)
	assert.Equal(t, "e", history[2].Text)
}

func TestHubRecordUnknownConnIsNoop(t *testing.T) {
	hub := NewHub(0)
	ws := newWSConn(t)

	hub.Record(ws, Message{Type: "user"})
	assert.Nil(t, hub.history(ws))
}
