package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// Opens a real websocket session against the hub and returns the server-side
// client once it is registered.
func dialTestHub(t *testing.T, hub *RealtimeHub, userID uint) (*WSClient, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	registered := make(chan *WSClient, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cl := &WSClient{UserID: userID, Conn: conn}
		hub.Register(cl)
		registered <- cl
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return <-registered, client
}

// Broadcasts, per-user alerts, and keepalive pings may all fire at once; the
// connection must only ever see one writer.
func TestConcurrentWritesToOneSession(t *testing.T) {
	hub := NewRealtimeHub()
	cl, client := dialTestHub(t, hub, 1)

	const rounds = 25

	// Drain everything the server writes so its sends never block.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for i := 0; i < 2*rounds; i++ {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			hub.Broadcast(ForegroundMessage{Title: "t", Body: "b"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			hub.BroadcastAlert(1, map[string]any{"kind": "alert.created"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = cl.Ping()
		}
	}()
	wg.Wait()
	<-readerDone
}
