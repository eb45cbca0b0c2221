package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/internal/domain/repository"
)

// IdentityRepository inserts an account and its profile in one transaction.
type IdentityRepository struct {
	pool *pgxpool.Pool
}

func NewIdentityRepository(pool *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

func (r *IdentityRepository) CreateIdentity(ctx context.Context, a *entity.Account, p *entity.Profile) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO accounts (handle, email, password_hash)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`, a.Handle, a.Email, a.PasswordHash)
		if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return translate(err)
		}
		p.AccountID = a.ID
		return insertProfile(ctx, tx, p)
	})
}

var _ repository.IdentityRepository = (*IdentityRepository)(nil)
