package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub := NewHub(logger.NewNop())
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// Connection registration races the broadcast without a small wait
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastScanComplete(contracts.TimeframeSwing, 10)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event ScanEvent
	require.NoError(t, json.Unmarshal(payload, &event))

	assert.Equal(t, "scan_complete", event.Type)
	assert.Equal(t, contracts.TimeframeSwing, event.Timeframe)
	assert.Equal(t, 10, event.PickCount)
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub(logger.NewNop())

	assert.Equal(t, 0, hub.ClientCount())
	assert.NotPanics(t, func() {
		hub.BroadcastScanComplete(contracts.TimeframeShort, 5)
	})
}

func TestHub_DisconnectRemovesClient(t *testing.T) {
	hub := NewHub(logger.NewNop())
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
