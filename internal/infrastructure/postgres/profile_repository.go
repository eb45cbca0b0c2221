package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/internal/domain/repository"
)

const profileColumns = `account_id, theme, color_scheme, avatar_data, avatar_content_type, avatar_url,
	favourites, teams, comparisons, silhouette_history, battle_history, created_at, updated_at`

// ProfileRepository stores each profile as one row with its collections in JSONB columns.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	return insertProfile(ctx, r.pool, p)
}

func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE account_id = $1`, accountID))
}

// Mutate holds a row lock for the whole read-modify-write so concurrent
// edits of one profile serialize instead of overwriting each other.
func (r *ProfileRepository) Mutate(ctx context.Context, accountID string, fn repository.MutateFunc) (*entity.Profile, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := scanProfile(tx.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE account_id = $1 FOR UPDATE`, accountID))
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}

	cols, err := encodeCollections(p)
	if err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx, `
		UPDATE profiles SET
			theme = $2, color_scheme = $3, avatar_data = $4, avatar_content_type = $5, avatar_url = $6,
			favourites = $7, teams = $8, comparisons = $9, silhouette_history = $10, battle_history = $11,
			updated_at = now()
		WHERE account_id = $1
		RETURNING updated_at
	`, accountID, p.Theme, p.ColorScheme, p.Avatar.Data, p.Avatar.ContentType, p.Avatar.URL,
		cols.favourites, cols.teams, cols.comparisons, cols.silhouettes, cols.battles,
	).Scan(&p.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// rowQuerier is satisfied by both the pool and a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertProfile(ctx context.Context, db rowQuerier, p *entity.Profile) error {
	cols, err := encodeCollections(p)
	if err != nil {
		return err
	}
	row := db.QueryRow(ctx, `
		INSERT INTO profiles (account_id, theme, color_scheme, avatar_data, avatar_content_type, avatar_url,
			favourites, teams, comparisons, silhouette_history, battle_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, p.AccountID, p.Theme, p.ColorScheme, p.Avatar.Data, p.Avatar.ContentType, p.Avatar.URL,
		cols.favourites, cols.teams, cols.comparisons, cols.silhouettes, cols.battles)
	return translate(row.Scan(&p.CreatedAt, &p.UpdatedAt))
}

type encoded struct {
	favourites, teams, comparisons, silhouettes, battles []byte
}

func encodeCollections(p *entity.Profile) (encoded, error) {
	var e encoded
	var err error
	marshal := func(v any) []byte {
		if err != nil {
			return nil
		}
		var b []byte
		b, err = json.Marshal(v)
		return b
	}
	e.favourites = marshal(nonNil(p.Favourites))
	e.teams = marshal(nonNil(p.Teams))
	e.comparisons = marshal(nonNil(p.Comparisons))
	e.silhouettes = marshal(nonNil(p.SilhouetteHistory))
	e.battles = marshal(nonNil(p.BattleHistory))
	if err != nil {
		return encoded{}, fmt.Errorf("encode profile: %w", err)
	}
	return e, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	p := &entity.Profile{}
	var fav, teams, cmps, sil, battles []byte
	err := row.Scan(&p.AccountID, &p.Theme, &p.ColorScheme, &p.Avatar.Data, &p.Avatar.ContentType, &p.Avatar.URL,
		&fav, &teams, &cmps, &sil, &battles, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if err := errors.Join(
		json.Unmarshal(fav, &p.Favourites),
		json.Unmarshal(teams, &p.Teams),
		json.Unmarshal(cmps, &p.Comparisons),
		json.Unmarshal(sil, &p.SilhouetteHistory),
		json.Unmarshal(battles, &p.BattleHistory),
	); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", p.AccountID, err)
	}
	p.Favourites = nonNil(p.Favourites)
	p.Teams = nonNil(p.Teams)
	p.Comparisons = nonNil(p.Comparisons)
	p.SilhouetteHistory = nonNil(p.SilhouetteHistory)
	p.BattleHistory = nonNil(p.BattleHistory)
	return p, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
