package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/pokedex-api/internal/domain/repository"
)

const (
	uniqueViolation = "23505"
	invalidTextForm = "22P02"
)

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextForm {
		// malformed uuid key
		return repository.ErrNotFound
	}
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "accounts_email_key":
			return repository.ErrDuplicateEmail
		case "accounts_handle_key":
			return repository.ErrDuplicateHandle
		}
	}
	return err
}
