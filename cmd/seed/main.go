package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/pokedex-api/config"
	"github.com/oksasatya/pokedex-api/internal/application"
	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/internal/domain/repository"
	esinfra "github.com/oksasatya/pokedex-api/internal/infrastructure/elasticsearch"
	pginfra "github.com/oksasatya/pokedex-api/internal/infrastructure/postgres"
	"github.com/oksasatya/pokedex-api/pkg/helpers"
)

// 1x1 transparent PNG used as the demo avatar.
var demoAvatar = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	catalogFile := flag.String("catalog", "db/seed/pokemon.sample.json", "JSON array of catalog documents; empty skips indexing")
	skipUser := flag.Bool("skip-user", false, "do not create the demo account")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *catalogFile != "" {
		if err := seedCatalog(ctx, cfg, *catalogFile); err != nil {
			log.Fatalf("catalog: %v", err)
		}
	}
	if !*skipUser {
		if err := seedDemoAccount(ctx, cfg); err != nil {
			log.Fatalf("demo account: %v", err)
		}
	}
}

func seedCatalog(ctx context.Context, cfg *config.Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return err
	}
	catalog := esinfra.NewCatalogRepository(es, cfg.ESCatalogIndex)
	created, err := catalog.EnsureIndex(ctx)
	if err != nil {
		return err
	}
	n, err := catalog.IndexAll(ctx, docs)
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d catalog documents into %s (index created: %v)\n", n, cfg.ESCatalogIndex, created)

	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		fmt.Printf("redis unavailable, cache not cleared: %v\n", err)
		return nil
	}
	defer func() { _ = rdb.Close() }()
	dropped, err := application.NewCatalogService(catalog, rdb, cfg.CatalogCacheTTL, nil).Invalidate(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("cleared %d cached catalog reads\n", dropped)
	return nil
}

func seedDemoAccount(ctx context.Context, cfg *config.Config) error {
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2, ConnectAttempts: 3})
	if err != nil {
		return err
	}
	defer pool.Close()

	handle := "demouser"
	email := "demo@pokedex.local"
	password := "password123"
	hash, err := helpers.NewHasher(cfg.BcryptCost).HashPassword(password)
	if err != nil {
		return err
	}

	acc := &entity.Account{Handle: handle, Email: email, PasswordHash: hash}
	prof := entity.NewProfile("", entity.Avatar{Data: demoAvatar, ContentType: "image/png"}, time.Now().UTC())
	prof.Favourites = []int{1, 4, 7, 25}

	err = pginfra.NewIdentityRepository(pool).CreateIdentity(ctx, acc, prof)
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail), errors.Is(err, repository.ErrDuplicateHandle):
		fmt.Printf("demo account already present: username=%s\n", handle)
		return nil
	case err != nil:
		return err
	}
	fmt.Printf("seeded account: id=%s username=%s email=%s password=%s\n", acc.ID, handle, email, password)
	return nil
}
