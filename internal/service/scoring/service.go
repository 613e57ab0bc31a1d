package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/alert"
	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
	"github.com/paysentinel/fraud-detection-backend/internal/domain/transaction"
	"github.com/paysentinel/fraud-detection-backend/internal/metrics"
)

// service implements the Service interface
type service struct {
	extractor *Extractor
	ensemble  *Ensemble
	repo      Repository
	notifier  Notifier
	registry  *metrics.Registry
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewService creates the risk-scoring service.
func NewService(extractor *Extractor, ensemble *Ensemble, repo Repository, notifier Notifier, registry *metrics.Registry, logger *slog.Logger) Service {
	return &service{
		extractor: extractor,
		ensemble:  ensemble,
		repo:      repo,
		notifier:  notifier,
		registry:  registry,
		logger:    logger,
		tracer:    otel.Tracer("service.scoring"),
	}
}

// ScoreTransaction runs the full pipeline for one transaction: feature
// extraction (which observes the velocity trackers), ensemble scoring,
// policy decision, persistence and, for fraud outcomes, alerting. The
// notification fan-out is dispatched after the assessment is finalized and
// never affects the returned result.
func (s *service) ScoreTransaction(ctx context.Context, txn *transaction.Transaction) (*Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "scoring.score_transaction",
		trace.WithAttributes(
			attribute.String("transaction_id", txn.ID.String()),
			attribute.String("user_id", txn.UserID),
		),
	)
	defer span.End()

	start := time.Now()

	features := s.extractor.Extract(txn)
	scores := s.ensemble.Score(features)
	decision := Decide(scores.EnsembleScore)

	assessment := &Assessment{
		Transaction: txn,
		Scores:      scores,
		Decision:    decision,
	}

	span.SetAttributes(
		attribute.Float64("risk_score", scores.EnsembleScore),
		attribute.String("risk_level", string(decision.RiskLevel)),
		attribute.String("decision", string(decision.Action)),
	)

	if err := s.repo.SaveAssessment(ctx, assessment); err != nil {
		span.RecordError(err)
		return nil, errors.NewInternalError("failed to persist assessment").WithCause(err)
	}

	if decision.IsFraud {
		if err := s.raiseAlert(ctx, assessment); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	if s.registry != nil {
		s.registry.RecordTransactionScored(ctx, string(decision.Action), string(decision.RiskLevel), scores.EnsembleScore, time.Since(start))
	}

	s.logger.InfoContext(ctx, "transaction scored",
		"transaction_id", txn.ID,
		"risk_score", scores.EnsembleScore,
		"risk_level", decision.RiskLevel,
		"decision", decision.Action,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return assessment, nil
}

// raiseAlert persists the alert record and dispatches the real-time event.
// Persistence failures are surfaced; notification failures are not.
func (s *service) raiseAlert(ctx context.Context, assessment *Assessment) error {
	txn := assessment.Transaction

	al, err := alert.New(
		txn.ID,
		alert.TypeHighRiskTransaction,
		string(assessment.Decision.RiskLevel),
		fmt.Sprintf("High risk transaction detected: %s", txn.Amount),
		map[string]interface{}{
			"ensemble_score":    assessment.Scores.EnsembleScore,
			"fraud_probability": assessment.Scores.FraudProbability,
			"model_scores":      assessment.Scores.ModelScores,
			"reasons":           assessment.Scores.Reasons,
		},
	)
	if err != nil {
		return errors.NewInternalError("failed to build alert").WithCause(err)
	}

	if err := s.repo.SaveAlert(ctx, al); err != nil {
		return errors.NewInternalError("failed to persist alert").WithCause(err)
	}

	if s.registry != nil {
		s.registry.RecordAlertCreated(ctx, string(assessment.Decision.RiskLevel))
	}

	event := FraudEvent{
		TransactionID: txn.ID,
		UserID:        txn.UserID,
		Amount:        txn.Amount.ToFloat64(),
		RiskScore:     assessment.Scores.EnsembleScore,
		RiskLevel:     assessment.Decision.RiskLevel,
		OccurredAt:    txn.OccurredAt,
	}

	// The fan-out runs on a detached context so a slow subscriber or a
	// caller that has already gone away cannot stall or cancel delivery.
	notifyCtx := context.WithoutCancel(ctx)
	go s.notifier.NotifyFraud(notifyCtx, event)

	return nil
}
