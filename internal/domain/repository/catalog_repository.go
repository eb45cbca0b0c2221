package repository

import (
	"context"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
)

// CatalogRepository is the read-only Pokémon reference catalog.
type CatalogRepository interface {
	// List returns the light projection of entries ordered by id, plus the total count.
	List(ctx context.Context, offset, limit int) ([]entity.CatalogEntry, int64, error)
	GetByID(ctx context.Context, id int) (*entity.CatalogEntry, error)
	GetByIDs(ctx context.Context, ids []int) ([]entity.CatalogEntry, error)
}
