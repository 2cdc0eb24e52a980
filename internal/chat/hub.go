package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultHistorySize = 50

// Message is one websocket chat frame, user or bot.
type Message struct {
	Type      string    `json:"type"` // "user" | "bot" | "session"
	SessionID string    `json:"session_id"`
	Text      string    `json:"text,omitempty"`
	Intent    string    `json:"intent,omitempty"`
	Source    string    `json:"source,omitempty"`
	At        time.Time `json:"at"`
}

type conversation struct {
	sessionID string
	history   []Message
}

// Hub tracks live websocket conversations. Sessions are transient: a
// conversation and its transcript vanish when the connection closes.
type Hub struct {
	mu          sync.Mutex
	convs       map[*websocket.Conn]*conversation
	historySize int
}

func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Hub{
		convs:       make(map[*websocket.Conn]*conversation),
		historySize: historySize,
	}
}

func (h *Hub) Join(ws *websocket.Conn, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.convs[ws] = &conversation{sessionID: sessionID}
}

func (h *Hub) Leave(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.convs, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Record appends a message to the connection's transcript, keeping at most
// historySize entries.
func (h *Hub) Record(ws *websocket.Conn, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conv, ok := h.convs[ws]
	if !ok {
		return
	}
	conv.history = append(conv.history, msg)
	if len(conv.history) > h.historySize {
		conv.history = conv.history[len(conv.history)-h.historySize:]
	}
}

// history returns a copy of the connection's transcript.
func (h *Hub) history(ws *websocket.Conn) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conv, ok := h.convs[ws]; ok {
		return append([]Message(nil), conv.history...)
	}
	return nil
}

// Count reports how many chat connections are open.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.convs)
}
