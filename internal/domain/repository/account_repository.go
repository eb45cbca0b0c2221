package repository

import (
	"context"
	"time"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
)

// CredentialsPatch carries the account fields to overwrite. Nil fields are left untouched.
type CredentialsPatch struct {
	Handle       *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether the patch would write nothing.
func (p CredentialsPatch) Empty() bool {
	return p.Handle == nil && p.Email == nil && p.PasswordHash == nil
}

// AccountRepository defines the credential store operations.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByHandle(ctx context.Context, handle string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	UpdateCredentials(ctx context.Context, id string, patch CredentialsPatch) (*entity.Account, error)
	// ListOrphans returns accounts created before cutoff that have no profile.
	ListOrphans(ctx context.Context, cutoff time.Time, limit int) ([]entity.Account, error)
}
