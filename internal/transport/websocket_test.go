// SPDX-License-Identifier: MIT
package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTestTransport builds a broadcaster without binding a listening
// port; the test serves handleWebSocket through httptest instead.
func newTestTransport() *WebSocketTransport {
	t := &WebSocketTransport{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, 16),
	}
	go t.handleBroadcasts()
	return t
}

func clientCount(tr *WebSocketTransport) int {
	tr.clientsMu.Lock()
	defer tr.clientsMu.Unlock()
	return len(tr.clients)
}

func waitForClients(t *testing.T, tr *WebSocketTransport, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if clientCount(tr) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", clientCount(tr), want)
}

func dialTestServer(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

func TestWebSocketBroadcast(t *testing.T) {
	tr := newTestTransport()
	srv := httptest.NewServer(http.HandlerFunc(tr.handleWebSocket))
	defer srv.Close()
	defer tr.Close()

	conn := dialTestServer(t, srv)
	defer conn.Close()
	waitForClients(t, tr, 1)

	sent := Frame{Seq: 9, Width: 800, Height: 600, Trace: []uint16{1, 2, 3}}
	if err := tr.Send(sent); err != nil {
		t.Fatalf("Send: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Frame
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Seq != sent.Seq || got.Width != sent.Width || len(got.Trace) != len(sent.Trace) {
		t.Errorf("received frame %+v, want %+v", got, sent)
	}
}

// A client that talks before hanging up must still be deregistered when
// the connection drops, not linger until a broadcast write fails.
func TestWebSocketDeregisterAfterClientMessage(t *testing.T) {
	tr := newTestTransport()
	srv := httptest.NewServer(http.HandlerFunc(tr.handleWebSocket))
	defer srv.Close()
	defer tr.Close()

	conn := dialTestServer(t, srv)
	waitForClients(t, tr, 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatalf("client write: %v", err)
	}
	conn.Close()

	waitForClients(t, tr, 0)
}

func TestWebSocketSendNeverBlocks(t *testing.T) {
	tr := newTestTransport()
	defer tr.Close()

	// No clients and a bounded queue: flooding drops frames instead of
	// blocking the capture loop.
	for i := 0; i < 1000; i++ {
		if err := tr.Send(Frame{Seq: uint32(i)}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
}
