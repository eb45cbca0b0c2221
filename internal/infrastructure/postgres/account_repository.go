package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/internal/domain/repository"
)

const accountColumns = `id, handle, email, password_hash, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*entity.Account, error) {
	a := &entity.Account{}
	if err := row.Scan(&a.ID, &a.Handle, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByHandle(ctx context.Context, handle string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE handle = $1`, handle))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (r *AccountRepository) UpdateCredentials(ctx context.Context, id string, patch repository.CredentialsPatch) (*entity.Account, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}
	sets := []string{}
	args := []any{}
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("handle", patch.Handle)
	add("email", patch.Email)
	add("password_hash", patch.PasswordHash)
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE accounts SET %s, updated_at = now() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountColumns)
	return scanAccount(r.pool.QueryRow(ctx, q, args...))
}

func (r *AccountRepository) ListOrphans(ctx context.Context, cutoff time.Time, limit int) ([]entity.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.handle, a.email, a.password_hash, a.created_at, a.updated_at
		FROM accounts a
		LEFT JOIN profiles p ON p.account_id = a.id
		WHERE p.account_id IS NULL AND a.created_at < $1
		ORDER BY a.created_at
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
