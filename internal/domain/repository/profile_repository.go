package repository

import (
	"context"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
)

// MutateFunc changes a profile in place. Returning an error aborts the
// write and the error is passed back to the caller unchanged.
type MutateFunc func(p *entity.Profile) error

// ProfileRepository owns the profile aggregate documents.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error)
	// Mutate loads the profile, applies fn and persists the result as one
	// atomic read-modify-write of the document.
	Mutate(ctx context.Context, accountID string, fn MutateFunc) (*entity.Profile, error)
}
