package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solareda/internal/infrastructure"
	"solareda/pkg/contracts/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startServer(t *testing.T, hub *Hub, origins []string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(hub, origins, testLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) events.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev events.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n },
		2*time.Second, 10*time.Millisecond)
}

func TestHubStartStop(t *testing.T) {
	hub := NewHub(testLogger())
	assert.False(t, hub.running)

	hub.Start()
	assert.True(t, hub.running)

	// Starting again should be idempotent
	hub.Start()
	assert.True(t, hub.running)

	hub.Stop()
	assert.False(t, hub.running)

	// Stopping again should be idempotent
	hub.Stop()
	assert.False(t, hub.running)

	// Publishing after stop is dropped silently
	assert.NotPanics(t, func() {
		hub.Publish(context.Background(), events.TypeCacheCleared, events.CacheCleared{})
	})
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	t.Cleanup(hub.Stop)
	srv := startServer(t, hub, nil)

	first := dial(t, srv, nil)
	second := dial(t, srv, nil)

	for _, conn := range []*websocket.Conn{first, second} {
		hello := readEvent(t, conn)
		assert.Equal(t, events.TypeConnection, hello.Type)
	}
	waitForClients(t, hub, 2)

	ctx := infrastructure.WithTraceID(context.Background(), "req-42")
	hub.Publish(ctx, events.TypeDatasetRemoved, events.DatasetRemoved{ID: "0123456789abcdef", Removed: 2})

	for _, conn := range []*websocket.Conn{first, second} {
		ev := readEvent(t, conn)
		assert.Equal(t, events.TypeDatasetRemoved, ev.Type)
		assert.Equal(t, "req-42", ev.TraceID)

		data, err := json.Marshal(ev.Data)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"0123456789abcdef","removed":2}`, string(data))
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	t.Cleanup(hub.Stop)
	srv := startServer(t, hub, nil)

	conn := dial(t, srv, nil)
	readEvent(t, conn)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	waitForClients(t, hub, 0)
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	srv := startServer(t, hub, nil)

	conn := dial(t, srv, nil)
	readEvent(t, conn)
	waitForClients(t, hub, 1)

	hub.Stop()
	assert.Equal(t, 0, hub.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "connection closed by the server")
}

func TestHandlerOriginCheck(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	t.Cleanup(hub.Stop)
	srv := startServer(t, hub, []string{"http://localhost:8080"})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"listed origin", "http://localhost:8080", true},
		{"no origin", "", true},
		{"foreign origin", "http://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if tt.allowed {
				require.NoError(t, err)
				conn.Close()
				return
			}
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"empty list", "http://a", nil, true},
		{"wildcard", "http://a", []string{"*"}, true},
		{"exact match", "http://a", []string{"http://b", "http://a"}, true},
		{"mismatch", "http://a", []string{"http://b"}, false},
		{"missing header", "", []string{"http://b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, originAllowed(tt.origin, tt.allowed))
		})
	}
}
