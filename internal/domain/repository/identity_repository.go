package repository

import (
	"context"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
)

// IdentityRepository creates an account and its profile as one unit.
// On success a.ID, a.CreatedAt and p.AccountID are populated.
type IdentityRepository interface {
	CreateIdentity(ctx context.Context, a *entity.Account, p *entity.Profile) error
}
