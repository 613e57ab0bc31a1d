package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds the OpenTelemetry instruments used across the scoring
// pipeline. A nil *Registry is safe to call; every Record method is a
// no-op in that case so unit tests don't need a meter provider.
type Registry struct {
	meter metric.Meter

	// Scoring pipeline
	transactionsScored metric.Int64Counter
	scoringDuration    metric.Float64Histogram
	riskScores         metric.Float64Histogram

	// Alerts
	alertsCreated  metric.Int64Counter
	alertsResolved metric.Int64Counter

	// Notification fan-out
	notificationsDelivered metric.Int64Counter
	notificationsDropped   metric.Int64Counter

	// Observable state
	trackedEntities  metric.Int64ObservableGauge
	websocketClients metric.Int64ObservableGauge
}

// NewRegistry creates a Registry backed by the given meter. Gauge
// callbacks are registered lazily via RegisterTrackedEntities and
// RegisterWebSocketClients once the observed components exist.
func NewRegistry(meter metric.Meter) (*Registry, error) {
	if meter == nil {
		meter = otel.Meter("fraud-detection-backend")
	}

	r := &Registry{meter: meter}

	if err := r.initScoringMetrics(); err != nil {
		return nil, fmt.Errorf("init scoring metrics: %w", err)
	}
	if err := r.initAlertMetrics(); err != nil {
		return nil, fmt.Errorf("init alert metrics: %w", err)
	}
	if err := r.initNotificationMetrics(); err != nil {
		return nil, fmt.Errorf("init notification metrics: %w", err)
	}

	return r, nil
}

func (r *Registry) initScoringMetrics() error {
	var err error

	r.transactionsScored, err = r.meter.Int64Counter(
		"fds.scoring.transactions_total",
		metric.WithDescription("Total transactions scored"),
		metric.WithUnit("{transaction}"),
	)
	if err != nil {
		return err
	}

	r.scoringDuration, err = r.meter.Float64Histogram(
		"fds.scoring.duration",
		metric.WithDescription("End-to-end scoring latency"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250),
	)
	if err != nil {
		return err
	}

	r.riskScores, err = r.meter.Float64Histogram(
		"fds.scoring.risk_score",
		metric.WithDescription("Distribution of ensemble risk scores"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9),
	)
	return err
}

func (r *Registry) initAlertMetrics() error {
	var err error

	r.alertsCreated, err = r.meter.Int64Counter(
		"fds.alerts.created_total",
		metric.WithDescription("Fraud alerts created"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return err
	}

	r.alertsResolved, err = r.meter.Int64Counter(
		"fds.alerts.resolved_total",
		metric.WithDescription("Fraud alerts resolved"),
		metric.WithUnit("{alert}"),
	)
	return err
}

func (r *Registry) initNotificationMetrics() error {
	var err error

	r.notificationsDelivered, err = r.meter.Int64Counter(
		"fds.notifications.delivered_total",
		metric.WithDescription("Fraud notifications delivered to subscribers"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return err
	}

	r.notificationsDropped, err = r.meter.Int64Counter(
		"fds.notifications.dropped_total",
		metric.WithDescription("Fraud notifications dropped due to slow subscribers"),
		metric.WithUnit("{notification}"),
	)
	return err
}

// RecordTransactionScored records one completed scoring run.
func (r *Registry) RecordTransactionScored(ctx context.Context, action, riskLevel string, score float64, duration time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("risk_level", riskLevel),
	)
	r.transactionsScored.Add(ctx, 1, attrs)
	r.scoringDuration.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	r.riskScores.Record(ctx, score)
}

// RecordAlertCreated records a newly raised fraud alert.
func (r *Registry) RecordAlertCreated(ctx context.Context, severity string) {
	if r == nil {
		return
	}
	r.alertsCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("severity", severity),
	))
}

// RecordAlertResolved records an alert marked resolved by an operator.
func (r *Registry) RecordAlertResolved(ctx context.Context) {
	if r == nil {
		return
	}
	r.alertsResolved.Add(ctx, 1)
}

// RecordNotificationDelivered records a notification accepted by a subscriber.
func (r *Registry) RecordNotificationDelivered(ctx context.Context) {
	if r == nil {
		return
	}
	r.notificationsDelivered.Add(ctx, 1)
}

// RecordNotificationDropped records a notification discarded because the
// subscriber's send buffer was full.
func (r *Registry) RecordNotificationDropped(ctx context.Context) {
	if r == nil {
		return
	}
	r.notificationsDropped.Add(ctx, 1)
}

// RegisterTrackedEntities wires an observable gauge to the velocity
// tracker population. fn must be safe for concurrent use.
func (r *Registry) RegisterTrackedEntities(fn func() int64) error {
	if r == nil {
		return nil
	}
	var err error
	r.trackedEntities, err = r.meter.Int64ObservableGauge(
		"fds.velocity.tracked_entities",
		metric.WithDescription("Entities currently held by the velocity trackers"),
		metric.WithUnit("{entity}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(fn())
			return nil
		}),
	)
	return err
}

// RegisterWebSocketClients wires an observable gauge to the live
// websocket subscriber count.
func (r *Registry) RegisterWebSocketClients(fn func() int64) error {
	if r == nil {
		return nil
	}
	var err error
	r.websocketClients, err = r.meter.Int64ObservableGauge(
		"fds.websocket.clients",
		metric.WithDescription("Connected websocket subscribers"),
		metric.WithUnit("{client}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(fn())
			return nil
		}),
	)
	return err
}
