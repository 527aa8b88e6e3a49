package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/pipeline"
)

// writeWait bounds a single WebSocket write.
const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// resultMessage is the JSON message sent for every processed frame.
type resultMessage struct {
	Seq       uint64           `json:"seq"`
	Timestamp int64            `json:"timestamp"`
	Result    *pipeline.Result `json:"result"`
}

// ResultsHandler pushes finger counting results to WebSocket clients.
type ResultsHandler struct {
	source Source
}

// NewResultsHandler creates a new ResultsHandler over source.
func NewResultsHandler(source Source) *ResultsHandler {
	return &ResultsHandler{source: source}
}

// ServeHTTP upgrades the connection and streams one message per published
// frame until the client disconnects.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	snapshots, cancel := h.source.Subscribe()
	defer cancel()

	// Reading is only needed to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}

			msg := resultMessage{
				Seq:       snap.Seq,
				Timestamp: snap.Time.UnixMilli(),
				Result:    snap.Result,
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
