package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	repo "github.com/oksasatya/pokedex-api/internal/domain/repository"
	"github.com/oksasatya/pokedex-api/pkg/helpers"
)

const (
	DefaultCatalogLimit = 50
	MaxCatalogLimit     = 200

	catalogCachePrefix = "catalog:"
)

// CatalogService is a read-through over the reference catalog, cached in
// Redis when a client is configured.
type CatalogService struct {
	Repo   repo.CatalogRepository
	Redis  *redis.Client
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewCatalogService(r repo.CatalogRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Repo: r, Redis: rdb, TTL: ttl, Logger: logger}
}

// CatalogPage is one window of the light catalog listing.
type CatalogPage struct {
	Entries []entity.CatalogEntry `json:"entries"`
	Total   int64                 `json:"total"`
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) (*CatalogPage, error) {
	if limit <= 0 {
		limit = DefaultCatalogLimit
	}
	if limit > MaxCatalogLimit {
		limit = MaxCatalogLimit
	}
	if offset < 0 {
		offset = 0
	}
	key := catalogCachePrefix + "light:" + strconv.Itoa(offset) + ":" + strconv.Itoa(limit)
	var page CatalogPage
	if cacheGet(ctx, s, key, &page) {
		return &page, nil
	}
	entries, total, err := s.Repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	page = CatalogPage{Entries: entries, Total: total}
	s.cacheSet(ctx, key, page)
	return &page, nil
}

func (s *CatalogService) Get(ctx context.Context, id int) (*entity.CatalogEntry, error) {
	key := catalogCachePrefix + "entry:" + strconv.Itoa(id)
	var cached entity.CatalogEntry
	if cacheGet(ctx, s, key, &cached) {
		return &cached, nil
	}
	e, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCatalogEntryNotFound
		}
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}
	s.cacheSet(ctx, key, e)
	return e, nil
}

func (s *CatalogService) GetMany(ctx context.Context, ids []int) ([]entity.CatalogEntry, error) {
	if len(ids) == 0 {
		return []entity.CatalogEntry{}, nil
	}
	entries, err := s.Repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get catalog entries: %w", err)
	}
	return entries, nil
}

// Invalidate drops every cached catalog read. Call it after reindexing.
func (s *CatalogService) Invalidate(ctx context.Context) (int64, error) {
	if s.Redis == nil {
		return 0, nil
	}
	n, err := helpers.RedisDelPrefix(ctx, s.Redis, catalogCachePrefix)
	if err != nil {
		return n, fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return n, nil
}

func cacheGet[T any](ctx context.Context, s *CatalogService, key string, dest *T) bool {
	if s.Redis == nil {
		return false
	}
	found, err := helpers.RedisGetJSON(ctx, s.Redis, key, dest)
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("catalog cache read failed")
	}
	return err == nil && found
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	if s.Redis == nil || s.TTL <= 0 {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, key, value, s.TTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
}
