package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/pokedex-api/internal/interface/http"
	"github.com/oksasatya/pokedex-api/internal/interface/middleware"
)

// AuthModule mounts registration, login and credential routes.
// Public: POST /register, POST /login, POST /logout
// Protected: PUT /profile/auth, GET /auth/user
type AuthModule struct {
	Handler   *handlers.AuthHandler
	Sessions  middleware.SessionVerifier
	RDB       *redis.Client
	UploadMax int64
}

func NewAuthModule(h *handlers.AuthHandler, sessions middleware.SessionVerifier, rdb *redis.Client, uploadMax int64) *AuthModule {
	return &AuthModule{Handler: h, Sessions: sessions, RDB: rdb, UploadMax: uploadMax}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, middleware.BodyLimit(m.UploadMax), m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/logout", m.Handler.Logout)

	auth := rg.Group("/")
	auth.Use(
		middleware.Auth(m.Sessions),
		middleware.RateLimit(m.RDB, 20, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.PUT("/profile/auth", m.Handler.UpdateCredentials)
		auth.GET("/auth/user", m.Handler.AuthUser)
	}
}
