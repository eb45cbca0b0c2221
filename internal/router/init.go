package router

import (
	"github.com/oksasatya/pokedex-api/internal/container"
	handlers "github.com/oksasatya/pokedex-api/internal/interface/http"
	"github.com/oksasatya/pokedex-api/internal/router/modules"
)

// InitModules builds the HTTP handlers from the container and adds their
// modules to the registry.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	authHandler := handlers.NewAuthHandler(c.Identity, c.Logger, c.Cookies, cfg.AvatarMaxBytes)
	profileHandler := handlers.NewProfileHandler(c.Profiles, c.Logger, cfg.AvatarMaxBytes)
	catalogHandler := handlers.NewCatalogHandler(c.Catalog, c.Logger)

	r.Add(
		modules.NewAuthModule(authHandler, c.Identity, c.Redis, cfg.AvatarMaxBytes),
		modules.NewProfileModule(profileHandler, c.Identity, c.Redis, cfg.AvatarMaxBytes),
		modules.NewCatalogModule(catalogHandler, c.Identity, c.Redis),
	)
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
