package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/finsight/finsight/internal/pipeline"
)

// StreamEvent is one message on the /ws/runs stream
type StreamEvent struct {
	Type      string    `json:"type"` // run_started, step_started, step_completed, run_completed
	RunID     string    `json:"run_id"`
	Step      string    `json:"step,omitempty"`
	Success   *bool     `json:"success,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StreamHub broadcasts pipeline run events to websocket subscribers.
// It implements pipeline.EventSink.
type StreamHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewStreamHub creates an empty hub
func NewStreamHub() *StreamHub {
	return &StreamHub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeWS upgrades the connection and registers the subscriber
func (h *StreamHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Run stream subscriber connected")

	// Reader loop detects disconnects; inbound messages are ignored
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// SubscriberCount returns the number of connected clients
func (h *StreamHub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *StreamHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *StreamHub) broadcast(event StreamEvent) {
	event.Timestamp = time.Now().UTC()

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.WriteJSON(event); err != nil {
			h.drop(c)
		}
	}
}

// RunStarted implements pipeline.EventSink
func (h *StreamHub) RunStarted(runID string) {
	h.broadcast(StreamEvent{Type: "run_started", RunID: runID})
}

// StepStarted implements pipeline.EventSink
func (h *StreamHub) StepStarted(runID, step string) {
	h.broadcast(StreamEvent{Type: "step_started", RunID: runID, Step: step})
}

// StepCompleted implements pipeline.EventSink
func (h *StreamHub) StepCompleted(runID string, result pipeline.StepResult) {
	h.broadcast(StreamEvent{Type: "step_completed", RunID: runID, Step: result.Step, Success: &result.Success})
}

// RunCompleted implements pipeline.EventSink
func (h *StreamHub) RunCompleted(result pipeline.RunResult) {
	h.broadcast(StreamEvent{Type: "run_completed", RunID: result.RunID, Success: &result.Success})
}
