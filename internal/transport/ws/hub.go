package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"hellosleep/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgPipelineEvent MessageType = "pipeline_event"
	MsgHello         MessageType = "hello"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Connection represents one operator WebSocket connection
type Connection struct {
	AdminID string
	Send    chan []byte
	Hub     *Hub
}

// Hub fans pipeline events out to every connected operator. Slow
// connections drop messages instead of blocking the pipeline.
type Hub struct {
	conns map[*Connection]bool
	mu    sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once

	log *zap.Logger
}

// NewHub creates a hub and starts its loop; Close stops it.
func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			h.mu.Unlock()
			h.log.Info("operator connected", zap.String("adminId", conn.AdminID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
				h.log.Info("operator disconnected", zap.String("adminId", conn.AdminID))
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for conn := range h.conns {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Connections returns the number of connected operators
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastPipeline queues an event for every operator (implements service.Broadcaster).
// It never blocks; when the queue is full the event is dropped.
func (h *Hub) BroadcastPipeline(event model.PipelineEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("pipeline event not encodable", zap.Error(err))
		return
	}
	data, _ := json.Marshal(&Message{Type: MsgPipelineEvent, Payload: payload})

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.log.Debug("pipeline event dropped", zap.String("type", string(event.Type)))
	}
}

// Close stops the hub loop and closes every connection's send channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}
