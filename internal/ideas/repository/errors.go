package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/dateideas/date-ideas-api/internal/ideas/domain"
)

// sqlState pulls the SQLSTATE and column out of either driver's error type.
func sqlState(err error) (code, column string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ColumnName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Column, true
	}
	return "", "", false
}

// mapError converts driver errors into domain errors. Context errors pass through
// so callers can tell a timeout from a broken database.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if code, column, ok := sqlState(err); ok {
		switch code {
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", op, domain.NewValidationError(column, "Value violates a constraint on date ideas."))
		case "22003": // numeric_value_out_of_range
			return fmt.Errorf("%s: %w", op, domain.NewValidationError(column, "Numeric value is out of range."))
		case "22P02": // invalid_text_representation
			return fmt.Errorf("%s: %w", op, domain.NewValidationError(column, "Value has an invalid format."))
		}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
