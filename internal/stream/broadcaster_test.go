package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"viwo-token-lab/internal/domain"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, b *Broadcaster, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", b.ClientCount(), want)
}

func TestBroadcaster_DeliversToAllClients(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	server := httptest.NewServer(b)
	defer server.Close()

	first := dial(t, server)
	defer first.Close()
	second := dial(t, server)
	defer second.Close()

	waitForClients(t, b, 2)

	rec := &domain.DayRecord{Day: 7, CurrentPrice: 0.11, TotalSupply: 1e6}
	if err := b.Broadcast(rec); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}

		var got domain.DayRecord
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if got.Day != 7 || got.CurrentPrice != 0.11 {
			t.Errorf("got %+v, want day 7 price 0.11", got)
		}
	}
}

func TestBroadcaster_DropsDisconnectedClient(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	server := httptest.NewServer(b)
	defer server.Close()

	conn := dial(t, server)
	waitForClients(t, b, 1)

	conn.Close()
	waitForClients(t, b, 0)

	// Broadcasting with no clients is a no-op, not an error
	if err := b.Broadcast(map[string]int{"day": 1}); err != nil {
		t.Errorf("Broadcast failed: %v", err)
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()

	server := httptest.NewServer(b)
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()
	waitForClients(t, b, 1)

	b.Close()

	if b.ClientCount() != 0 {
		t.Errorf("client count after Close = %d, want 0", b.ClientCount())
	}

	// Client sees the close frame
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected close error on read")
	}

	// Second Close is safe
	b.Close()
}

func TestBroadcaster_RejectsAfterClose(t *testing.T) {
	b := NewBroadcaster()
	server := httptest.NewServer(b)
	defer server.Close()

	b.Close()

	// Connection attempt after close is turned away
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		// Upgrade may succeed before the server drops the conn; the
		// client must then see an immediate close.
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err == nil {
			t.Error("expected closed connection")
		}
		conn.Close()
	}

	if b.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", b.ClientCount())
	}
}
