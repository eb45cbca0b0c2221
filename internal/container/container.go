package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/config"
	"github.com/oksasatya/pokedex-api/internal/application"
	"github.com/oksasatya/pokedex-api/internal/domain/repository"
	esinfra "github.com/oksasatya/pokedex-api/internal/infrastructure/elasticsearch"
	gcsinfra "github.com/oksasatya/pokedex-api/internal/infrastructure/gcs"
	"github.com/oksasatya/pokedex-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/pokedex-api/internal/infrastructure/postgres"
	"github.com/oksasatya/pokedex-api/pkg/helpers"
	tpl "github.com/oksasatya/pokedex-api/pkg/mailer/templates"
)

// Infra holds the long-lived clients created in main. Nil members disable
// the features that need them.
type Infra struct {
	PG     *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher
}

// Repositories are the store adapters the services run on.
type Repositories struct {
	Accounts   repository.AccountRepository
	Profiles   repository.ProfileRepository
	Identities repository.IdentityRepository
	Catalog    repository.CatalogRepository
}

// PostgresRepositories returns the Postgres-backed identity stores.
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Accounts:   pginfra.NewAccountRepository(pool),
		Profiles:   pginfra.NewProfileRepository(pool),
		Identities: pginfra.NewIdentityRepository(pool),
	}
}

// MemoryRepositories returns process-local stores for tests and local runs.
func MemoryRepositories(catalog *memory.Catalog) Repositories {
	store := memory.NewStore()
	if catalog == nil {
		catalog = memory.NewCatalog()
	}
	return Repositories{Accounts: store, Profiles: store, Identities: store, Catalog: catalog}
}

// Container is the wired application, built once at startup and handed to
// the router.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client

	Identity   *application.IdentityService
	Profiles   *application.ProfileService
	Catalog    *application.CatalogService
	Reconciler *application.Reconciler
	Cookies    *helpers.Manager
}

// New wires services on top of infra. Postgres is used when a pool is
// given, memory stores otherwise.
func New(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	repos := MemoryRepositories(nil)
	if infra.PG != nil {
		pgRepos := PostgresRepositories(infra.PG)
		pgRepos.Catalog = repos.Catalog
		repos = pgRepos
	}
	if infra.ES != nil {
		repos.Catalog = esinfra.NewCatalogRepository(infra.ES, cfg.ESCatalogIndex)
	}

	c := NewWithRepositories(cfg, logger, repos, infra.Redis)
	if infra.GCS != nil && cfg.GCSBucket != "" {
		mirror := gcsinfra.NewAvatarMirror(infra.GCS, cfg.GCSBucket)
		c.Identity.Mirror = mirror
		c.Profiles.Mirror = mirror
	}
	if infra.Rabbit != nil && cfg.MailSendEnabled {
		c.Identity.Notifier = infra.Rabbit
	}
	return c
}

// NewWithRepositories wires services on explicit repositories.
func NewWithRepositories(cfg *config.Config, logger *logrus.Logger, repos Repositories, rdb *redis.Client) *Container {
	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL)

	identity := application.NewIdentityService(repos.Accounts, repos.Identities, repos.Profiles, jwt, helpers.NewHasher(cfg.BcryptCost), logger)
	identity.Branding = tpl.Branding{
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		AppURL:      cfg.AppURL,
		LogoURL:     cfg.LogoURL,
		SupportURL:  cfg.SupportURL,
	}

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Redis:      rdb,
		Identity:   identity,
		Profiles:   application.NewProfileService(repos.Profiles, repos.Accounts, logger),
		Catalog:    application.NewCatalogService(repos.Catalog, rdb, cfg.CatalogCacheTTL, logger),
		Reconciler: application.NewReconciler(repos.Accounts, repos.Profiles, cfg.ReconcileGrace, logger),
		Cookies:    helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}
