// Package stream pushes day records to websocket subscribers while a
// simulation runs, so dashboards can watch a run live.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"viwo-token-lab/internal/observability"
)

const (
	defaultWriteTimeout = 10 * time.Second
	defaultPingInterval = 30 * time.Second
)

// Broadcaster fans out JSON messages to all connected websocket clients.
// A slow or dead client is dropped rather than blocking the run.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool

	writeTimeout time.Duration
	done         chan struct{}
}

// NewBroadcaster creates a Broadcaster and starts its ping loop.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Dashboards connect from anywhere; there is nothing
			// sensitive on this endpoint.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients:      make(map[*websocket.Conn]struct{}),
		writeTimeout: defaultWriteTimeout,
		done:         make(chan struct{}),
	}

	go b.pingLoop(defaultPingInterval)
	return b
}

// ServeHTTP upgrades the request and registers the client.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.clients[conn] = struct{}{}
	count := len(b.clients)
	b.mu.Unlock()

	observability.DefaultMetrics.WSClientsConnected.Set(float64(count))

	// Subscribers never send data; the read loop only notices closes.
	go b.readLoop(conn)
}

// Broadcast marshals v as JSON and sends it to every client.
func (b *Broadcaster) Broadcast(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.clients {
		conn.SetWriteDeadline(time.Now().Add(b.writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			b.dropLocked(conn)
			continue
		}
		observability.DefaultMetrics.WSMessagesSent.Inc()
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects all clients and stops the ping loop.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.done)

	for conn := range b.clients {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}
	b.clients = make(map[*websocket.Conn]struct{})
	observability.DefaultMetrics.WSClientsConnected.Set(0)
}

func (b *Broadcaster) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			b.mu.Lock()
			b.dropLocked(conn)
			b.mu.Unlock()
			return
		}
	}
}

func (b *Broadcaster) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.mu.Lock()
			for conn := range b.clients {
				conn.SetWriteDeadline(time.Now().Add(b.writeTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					b.dropLocked(conn)
				}
			}
			b.mu.Unlock()
		}
	}
}

// dropLocked removes and closes a client. Caller holds b.mu.
func (b *Broadcaster) dropLocked(conn *websocket.Conn) {
	if _, ok := b.clients[conn]; !ok {
		return
	}
	delete(b.clients, conn)
	conn.Close()
	observability.DefaultMetrics.WSClientsConnected.Set(float64(len(b.clients)))
}
