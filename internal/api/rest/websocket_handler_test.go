package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paysentinel/fraud-detection-backend/internal/service/scoring"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	ts := httptest.NewServer(hub)
	t.Cleanup(ts.Close)

	return hub, ts
}

func dialHub(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	hub, ts := startHub(t)

	first := dialHub(t, ts)
	second := dialHub(t, ts)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast([]byte(`{"type":"fraud_alert"}`))

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"fraud_alert"}`, string(payload))
	}
}

func TestHub_DisconnectUpdatesCount(t *testing.T) {
	hub, ts := startHub(t)

	conn := dialHub(t, ts)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownReleasesClients(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	ts := httptest.NewServer(hub)
	t.Cleanup(ts.Close)

	conn := dialHub(t, ts)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	// The connected client is closed rather than left hanging.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assertNotTimeout(t, err)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)

	// A connection arriving after shutdown is rejected instead of blocking
	// on registration.
	late, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = late.Close() })

	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = late.ReadMessage()
	require.Error(t, err)
	assertNotTimeout(t, err)
}

// assertNotTimeout distinguishes a prompt server-side close from a read
// deadline expiring, which would mean a goroutine was left blocked.
func assertNotTimeout(t *testing.T, err error) {
	t.Helper()

	var nerr net.Error
	if errors.As(err, &nerr) {
		assert.False(t, nerr.Timeout(), "expected connection close, got read timeout")
	}
}

func TestFraudNotifier_DeliversEnvelope(t *testing.T) {
	hub, ts := startHub(t)
	conn := dialHub(t, ts)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := NewFraudNotifier(hub, nil, logger)

	event := scoring.FraudEvent{
		TransactionID: uuid.New(),
		UserID:        "fraudster",
		Amount:        20000,
		RiskScore:     0.91,
		RiskLevel:     scoring.RiskCritical,
		OccurredAt:    time.Now().UTC(),
	}

	notifier.NotifyFraud(context.Background(), event)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Type string             `json:"type"`
		Data scoring.FraudEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &envelope))

	assert.Equal(t, wsTypeFraudAlert, envelope.Type)
	assert.Equal(t, event.TransactionID, envelope.Data.TransactionID)
	assert.Equal(t, event.RiskScore, envelope.Data.RiskScore)
	assert.Equal(t, scoring.RiskCritical, envelope.Data.RiskLevel)
}
