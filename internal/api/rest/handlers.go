package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
	"github.com/paysentinel/fraud-detection-backend/internal/domain/transaction"
	"github.com/paysentinel/fraud-detection-backend/internal/domain/values"
	"github.com/paysentinel/fraud-detection-backend/internal/service/analytics"
	"github.com/paysentinel/fraud-detection-backend/internal/service/scoring"
)

// Handler bundles the HTTP endpoints over the scoring and analytics
// services.
type Handler struct {
	scoring   scoring.Service
	analytics analytics.Service
	logger    *slog.Logger
}

func NewHandler(scoringSvc scoring.Service, analyticsSvc analytics.Service, logger *slog.Logger) *Handler {
	return &Handler{
		scoring:   scoringSvc,
		analytics: analyticsSvc,
		logger:    logger,
	}
}

// scoreTransaction handles POST /api/v1/transactions/score.
func (h *Handler) scoreTransaction(w http.ResponseWriter, r *http.Request) {
	var req ScoreTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.NewValidationError("INVALID_JSON", "request body is not valid JSON"))
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := values.NewMoneyFromFloat(req.Amount, req.Currency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	txn, err := transaction.New(
		req.UserID,
		req.MerchantID,
		amount,
		req.Country,
		req.DeviceID,
		req.IPAddress,
		transaction.Type(req.Type),
		transaction.Channel(req.Channel),
		occurredAt,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	assessment, err := h.scoring.ScoreTransaction(r.Context(), txn)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ScoreTransactionResponse{
		TransactionID:    txn.ID,
		RiskScore:        assessment.Scores.EnsembleScore,
		FraudProbability: assessment.Scores.FraudProbability,
		RiskLevel:        string(assessment.Decision.RiskLevel),
		Decision:         string(assessment.Decision.Action),
		IsFraud:          assessment.Decision.IsFraud,
		ModelScores:      assessment.Scores.ModelScores,
		Reasons:          assessment.Scores.Reasons,
		Timestamp:        time.Now().UTC(),
	})
}

// recentTransactions handles GET /api/v1/transactions/recent.
func (h *Handler) recentTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)

	records, err := h.analytics.RecentTransactions(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": records,
		"count":        len(records),
	})
}

// getTransaction handles GET /api/v1/transactions/{id}.
func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, errors.NewValidationError("INVALID_ID", "transaction id must be a UUID"))
		return
	}

	record, err := h.analytics.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// dashboard handles GET /api/v1/analytics/dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// trends handles GET /api/v1/analytics/trends.
func (h *Handler) trends(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 0)

	points, err := h.analytics.Trends(r.Context(), days)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trends": points,
	})
}

// listAlerts handles GET /api/v1/analytics/alerts.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	includeResolved := r.URL.Query().Get("include_resolved") == "true"

	alerts, err := h.analytics.ListAlerts(r.Context(), limit, includeResolved)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// resolveAlert handles POST /api/v1/alerts/{id}/resolve.
func (h *Handler) resolveAlert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, errors.NewValidationError("INVALID_ID", "alert id must be a UUID"))
		return
	}

	resolved, err := h.analytics.ResolveAlert(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolved)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
