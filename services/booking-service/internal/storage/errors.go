package storage

import (
	"errors"
	"fmt"

	"github.com/apimastery/appointments/services/booking-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeExclusionViolation = "23P01"
	codeInvalidText        = "22P02"
)

// translate maps driver errors onto the model error kinds.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", model.ErrNotFound, what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeExclusionViolation:
			return fmt.Errorf("%w: %s: %s", model.ErrConflict, what, pgErr.ConstraintName)
		case codeInvalidText:
			// Malformed ids cannot match any row.
			return fmt.Errorf("%w: %s", model.ErrNotFound, what)
		}
	}
	return err
}
