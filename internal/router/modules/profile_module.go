package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/pokedex-api/internal/interface/http"
	"github.com/oksasatya/pokedex-api/internal/interface/middleware"
)

// ProfileModule mounts the session-gated profile aggregate routes.
type ProfileModule struct {
	Handler   *handlers.ProfileHandler
	Sessions  middleware.SessionVerifier
	RDB       *redis.Client
	UploadMax int64
}

func NewProfileModule(h *handlers.ProfileHandler, sessions middleware.SessionVerifier, rdb *redis.Client, uploadMax int64) *ProfileModule {
	return &ProfileModule{Handler: h, Sessions: sessions, RDB: rdb, UploadMax: uploadMax}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	p := rg.Group("/profile")
	p.Use(
		middleware.Auth(m.Sessions),
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		p.GET("", m.Handler.GetProfile)
		p.PUT("/avatar", middleware.BodyLimit(m.UploadMax), m.Handler.UpdateAvatar)
		p.PUT("/theme", m.Handler.SetColorScheme)
		p.PUT("/theme-mode", m.Handler.SetTheme)
		p.GET("/colorScheme", m.Handler.GetColorScheme)

		p.POST("/teams/add", m.Handler.AddTeam)
		p.GET("/teams", m.Handler.ListTeams)
		p.PUT("/teams/remove", m.Handler.ReplaceTeams)
		p.DELETE("/teams/:teamId", m.Handler.RemoveTeam)
		p.PATCH("/teams/name/update", m.Handler.RenameTeam)

		p.POST("/comparison/add", m.Handler.AddComparison)
		p.GET("/comparisons", m.Handler.ListComparisons)
		p.GET("/comparisons/:comparisonId", m.Handler.GetComparison)
		p.PUT("/comparisons/remove", m.Handler.ReplaceComparisons)
		p.DELETE("/comparisons/:comparisonId", m.Handler.RemoveComparison)
		p.PATCH("/comparisons/name/update", m.Handler.RenameComparison)

		p.POST("/favourites/add", m.Handler.AddFavourite)
		p.GET("/favourites", m.Handler.ListFavourites)
		p.PUT("/favourites/remove", m.Handler.RemoveFavourite)

		p.POST("/silhouette/add", m.Handler.AddSilhouette)
		p.GET("/silhouette", m.Handler.ListSilhouettes)
		p.PUT("/silhouettes/remove", m.Handler.ReplaceSilhouettes)
		p.DELETE("/silhouettes/:entryId", m.Handler.RemoveSilhouette)
	}
}
