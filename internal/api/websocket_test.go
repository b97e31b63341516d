package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/crossplay/satxword/internal/realtime"
	"github.com/crossplay/satxword/pkg/orchestrator"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func setupWsTestServer(t *testing.T) (*httptest.Server, *realtime.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := realtime.NewHub()
	go hub.Run()

	orch := orchestrator.New()
	h := NewHandlers(nil, hub, orch)

	router := gin.New()
	router.GET("/engine/ws", h.WatchGeneration)

	server := httptest.NewServer(router)
	return server, hub
}

func TestWatchGeneration_ReceivesEncodedEvent(t *testing.T) {
	server, hub := setupWsTestServer(t)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/engine/ws?generationId=gen-ws-1"

	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	// Give the hub a moment to process the registration before broadcasting.
	time.Sleep(50 * time.Millisecond)
	hub.BroadcastEncoded("gen-ws-1", 100, 400, 12.5)

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	if !strings.Contains(string(message), `"type":"encoded"`) {
		t.Errorf("expected an encoded event, got: %s", message)
	}
}

func TestWatchGeneration_MissingGenerationIDRejected(t *testing.T) {
	server, _ := setupWsTestServer(t)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/engine/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Error("expected dial to fail without a generationId")
	}
	if resp != nil && resp.StatusCode != 400 {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestWatchGeneration_IsolatesDifferentGenerations(t *testing.T) {
	server, hub := setupWsTestServer(t)
	defer server.Close()

	wsA, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/engine/ws?generationId=gen-a", nil)
	if err != nil {
		t.Fatalf("failed to connect gen-a: %v", err)
	}
	defer wsA.Close()

	wsB, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/engine/ws?generationId=gen-b", nil)
	if err != nil {
		t.Fatalf("failed to connect gen-b: %v", err)
	}
	defer wsB.Close()

	time.Sleep(50 * time.Millisecond)
	hub.BroadcastSolved("gen-a", nil, 200.0)

	wsA.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := wsA.ReadMessage(); err != nil {
		t.Errorf("gen-a subscriber should have received the solved event: %v", err)
	}

	wsB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := wsB.ReadMessage(); err == nil {
		t.Error("gen-b subscriber should not have received gen-a's event")
	}
}
