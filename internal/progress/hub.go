package progress

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	clientBuffer = 64
	maxHistory   = 512
	writeTimeout = 5 * time.Second
)

type client struct {
	send chan Event
}

// Hub broadcasts events to websocket clients. Clients that connect late get
// the events emitted so far replayed first. A client that cannot keep up is
// disconnected instead of stalling the generator.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	history []Event
	closed  bool
	log     zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log.With().Str("component", "hub").Logger(),
	}
}

// Emit records e and queues it for every connected client.
func (h *Hub) Emit(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if len(h.history) < maxHistory {
		h.history = append(h.history, e)
	}
	for c := range h.clients {
		select {
		case c.send <- e:
		default:
			h.log.Warn().Msg("dropping slow websocket client")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Close ends every client stream. Clients connecting afterwards receive the
// recorded history and are then closed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register() *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := &client{send: make(chan Event, len(h.history)+clientBuffer)}
	for _, e := range h.history {
		c.send <- e
	}
	if h.closed {
		close(c.send)
		return c
	}
	h.clients[c] = struct{}{}
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// LocalOrigins are the cross-origin hosts allowed to open the feed. Requests
// without an Origin header or from the feed's own host are always accepted.
// Patterns use filepath.Match syntax, so "[[]" matches a literal bracket.
var LocalOrigins = []string{"localhost", "localhost:*", "127.0.0.1", "127.0.0.1:*", "[[]::1]", "[[]::1]:*"}

// ServeHTTP upgrades the request to a websocket and streams events as JSON
// text messages until the hub closes or the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: LocalOrigins,
	})
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	// Incoming messages are ignored; CloseRead handles pings and close frames.
	ctx := conn.CloseRead(r.Context())

	c := h.register()
	defer h.unregister(c)
	h.log.Debug().Str("remote", r.RemoteAddr).Msg("client connected")

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-c.send:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "stream ended")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, e)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}
