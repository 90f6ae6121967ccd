package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/immunet/immunet-backend/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors. It is the single
// place where store-specific error codes are interpreted; services and
// transports only ever see the domain taxonomy.
//
// context.Canceled passes through; a cancelled caller is not a store failure.
func MapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	// Timeouts leave no partial state: the transaction rolls back, so the
	// whole operation is safe to retry.
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w: %w", entity, id, domain.ErrTransientStore, err)
	}

	// pgx.ErrNoRows → domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case pgErr.Code == "23503": // foreign_key_violation
			// Inserts pre-check their references at the service layer, so a
			// violation here is either a RESTRICT delete or a reference row
			// deleted concurrently. Both refuse the mutation.
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrHasDependents)
		case pgErr.Code == "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		case pgErr.Code == "40001" || pgErr.Code == "40P01": // serialization failure, deadlock
			return fmt.Errorf("%s %s: %w: %w", entity, id, domain.ErrTransientStore, err)
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception
			return fmt.Errorf("%s %s: %w: %w", entity, id, domain.ErrTransientStore, err)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%s %s: %w: %w", entity, id, domain.ErrTransientStore, err)
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
