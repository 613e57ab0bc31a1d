package repository

import (
	stderrors "errors"

	"github.com/jackc/pgx/v5"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
)

// notFound maps a pgx no-rows result onto the domain not-found error,
// leaving other failures wrapped as internal errors.
func notFound(err error, resource string) error {
	if stderrors.Is(err, pgx.ErrNoRows) {
		return errors.NewNotFoundError(resource)
	}
	return errors.NewInternalError("query failed").WithCause(err)
}
