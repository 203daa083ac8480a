package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgWatch = "watch"
)

// WebSocket message types to client.
const (
	wsMsgProgress = "progress"
	wsMsgComplete = "complete"
	wsMsgFailed   = "failed"
	wsMsgError    = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsWatch is the payload for "watch" messages.
type wsWatch struct {
	JobID string `json:"job_id"`
}

const wsPollInterval = 100 * time.Millisecond

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sendWSError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgWatch:
			s.handleWSWatch(conn, msg.Data)
		default:
			sendWSError(conn, "unknown message type: "+msg.Type)
		}
	}
}

// handleWSWatch streams a job's progress until it reaches a terminal
// state. Each distinct progress value is pushed once.
func (s *Server) handleWSWatch(conn *websocket.Conn, data json.RawMessage) {
	var req wsWatch
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(conn, "invalid watch data")
		return
	}

	if _, ok := s.snapshot(req.JobID); !ok {
		sendWSError(conn, "no such job: "+req.JobID)
		return
	}

	lastProgress := -1
	for {
		j, ok := s.snapshot(req.JobID)
		if !ok {
			sendWSError(conn, "job vanished: "+req.JobID)
			return
		}

		switch j.Status {
		case statusComplete:
			sendWSMessage(conn, wsMsgComplete, jobView(j))
			return
		case statusFailed:
			sendWSMessage(conn, wsMsgFailed, jobView(j))
			return
		}

		if j.Progress != lastProgress {
			lastProgress = j.Progress
			sendWSMessage(conn, wsMsgProgress, jobView(j))
		}
		time.Sleep(wsPollInterval)
	}
}

func sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("ws marshal: %v", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write: %v", err)
	}
}

func sendWSError(conn *websocket.Conn, errMsg string) {
	sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
