package rest

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain errors onto HTTP responses. Validation failures
// from the request validator get a field-level breakdown; unknown errors
// are masked as internal.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		if appErr.Type == errors.ErrorTypeInternal {
			slog.ErrorContext(r.Context(), "request failed",
				"path", r.URL.Path,
				"error", err,
			)
		}
		writeJSON(w, appErr.StatusCode, errorBody{Error: errorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}})
		return
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		details := make(map[string]interface{}, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Code:    "VALIDATION_FAILED",
			Message: "request validation failed",
			Details: details,
		}})
		return
	}

	slog.ErrorContext(r.Context(), "unhandled error",
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}})
}
