package chat

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type incomingMessage struct {
	Type             string `json:"type"`
	Text             string `json:"text"`
	SourcePreference string `json:"source_preference"`
}

// historyFrame answers a {"type":"history"} request with the connection's
// transcript.
type historyFrame struct {
	Type      string    `json:"type"` // "history"
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

// WSHandler upgrades the connection and answers each incoming message with
// the local chat pipeline. The client may bring its own session id via
// ?session_id=, otherwise one is generated for the connection.
func WSHandler(hub *Hub, h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.Query("session_id"))
		if sessionID == "" {
			sessionID = "session_" + uuid.NewString()
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		hub.Join(ws, sessionID)
		defer hub.Leave(ws)

		_ = ws.WriteJSON(Message{
			Type:      "session",
			SessionID: sessionID,
			At:        time.Now().UTC(),
		})

		for {
			_, payload, err := ws.ReadMessage()
			if err != nil {
				break
			}

			var incoming incomingMessage
			if err := json.Unmarshal(payload, &incoming); err != nil {
				// plain text frames work too
				incoming = incomingMessage{Text: string(payload)}
			}

			if incoming.Type == "history" {
				messages := hub.history(ws)
				if messages == nil {
					messages = []Message{}
				}
				if err := ws.WriteJSON(historyFrame{
					Type:      "history",
					SessionID: sessionID,
					Messages:  messages,
				}); err != nil {
					break
				}
				continue
			}

			text := strings.TrimSpace(incoming.Text)
			if text == "" {
				continue
			}

			hub.Record(ws, Message{
				Type:      "user",
				SessionID: sessionID,
				Text:      text,
				At:        time.Now().UTC(),
			})

			reply, intent, source := h.Reply(c.Request.Context(), text, incoming.SourcePreference)
			msg := Message{
				Type:      "bot",
				SessionID: sessionID,
				Text:      reply,
				Intent:    string(intent),
				Source:    source,
				At:        time.Now().UTC(),
			}
			hub.Record(ws, msg)

			if err := ws.WriteJSON(msg); err != nil {
				break
			}
		}
	}
}
