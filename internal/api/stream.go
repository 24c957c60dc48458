package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event is one pipeline stage transition pushed to streaming clients.
type Event struct {
	Type      string    `json:"type"`
	RequestID string    `json:"request_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// wsClient wraps a websocket connection with a write lock, since gorilla
// connections allow only one concurrent writer.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// ProgressNotifier fans pipeline stage events out to websocket subscribers.
type ProgressNotifier struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	last    *Event

	upgrader websocket.Upgrader
	logger   logrus.FieldLogger
}

// NewProgressNotifier builds an empty notifier.
func NewProgressNotifier(logger logrus.FieldLogger) *ProgressNotifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProgressNotifier{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handle upgrades the request and keeps the connection registered until the
// peer goes away.
func (n *ProgressNotifier) Handle(c *gin.Context) {
	conn, err := n.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		n.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := &wsClient{conn: conn}
	n.register(client)
	defer n.unregister(client)

	// Reads only serve to detect close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (n *ProgressNotifier) register(c *wsClient) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clients[c] = struct{}{}
	if n.last != nil {
		// Late joiners still see where the current request stands.
		go c.writeJSON(*n.last)
	}
}

func (n *ProgressNotifier) unregister(c *wsClient) {
	n.mu.Lock()
	delete(n.clients, c)
	n.mu.Unlock()
	c.conn.Close()
}

// Broadcast pushes a stage event to every subscriber. Dead connections are
// dropped on write failure.
func (n *ProgressNotifier) Broadcast(requestID, stage, message string) {
	ev := Event{
		Type:      "progress",
		RequestID: requestID,
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	n.mu.Lock()
	n.last = &ev
	targets := make([]*wsClient, 0, len(n.clients))
	for c := range n.clients {
		targets = append(targets, c)
	}
	n.mu.Unlock()

	for _, c := range targets {
		if err := c.writeJSON(ev); err != nil {
			n.logger.WithError(err).Debug("dropping dead websocket subscriber")
			n.unregister(c)
		}
	}
}

// LastEvent returns the most recently broadcast event, if any.
func (n *ProgressNotifier) LastEvent() *Event {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.last == nil {
		return nil
	}
	ev := *n.last
	return &ev
}
