package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/pokedex-api/internal/interface/http"
	"github.com/oksasatya/pokedex-api/internal/interface/middleware"
)

// CatalogModule mounts the reference catalog routes. Single lookups and
// listings are public; batch lookups need a session.
type CatalogModule struct {
	Handler  *handlers.CatalogHandler
	Sessions middleware.SessionVerifier
	RDB      *redis.Client
}

func NewCatalogModule(h *handlers.CatalogHandler, sessions middleware.SessionVerifier, rdb *redis.Client) *CatalogModule {
	return &CatalogModule{Handler: h, Sessions: sessions, RDB: rdb}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	public := middleware.RateLimit(m.RDB, 240, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/pokemon/light", public, m.Handler.Light)
	rg.POST("/pokemon/individual", public, m.Handler.Individual)
	rg.POST("/pokemon/list", middleware.Auth(m.Sessions), public, m.Handler.List)
}
