package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/cache"
	"github.com/paysentinel/fraud-detection-backend/internal/service/scoring"
)

// wsEnvelope is the frame sent to websocket subscribers.
type wsEnvelope struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

const wsTypeFraudAlert = "fraud_alert"

// FraudNotifier fans fraud events out to the local websocket hub and
// mirrors them on Redis pub/sub so sibling instances can serve their own
// subscribers. Both paths are best-effort; failures are logged and
// swallowed, matching the fire-and-forget Notifier contract.
type FraudNotifier struct {
	hub    *Hub
	cache  cache.Cache
	logger *slog.Logger
}

var _ scoring.Notifier = (*FraudNotifier)(nil)

// NewFraudNotifier creates the notifier. cache may be nil when the event
// mirror is disabled.
func NewFraudNotifier(hub *Hub, c cache.Cache, logger *slog.Logger) *FraudNotifier {
	return &FraudNotifier{hub: hub, cache: c, logger: logger}
}

func (n *FraudNotifier) NotifyFraud(ctx context.Context, event scoring.FraudEvent) {
	frame, err := json.Marshal(wsEnvelope{
		Type:      wsTypeFraudAlert,
		Data:      event,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "marshaling fraud event failed", "error", err)
		return
	}

	n.hub.Broadcast(frame)

	if n.cache != nil {
		if err := n.cache.PublishJSON(ctx, cache.FraudEventChannel, event); err != nil {
			n.logger.WarnContext(ctx, "fraud event mirror failed",
				"transaction_id", event.TransactionID,
				"error", err,
			)
		}
	}
}
