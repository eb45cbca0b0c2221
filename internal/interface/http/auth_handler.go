package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/internal/application"
	"github.com/oksasatya/pokedex-api/pkg/helpers"
	"github.com/oksasatya/pokedex-api/pkg/response"
	"github.com/oksasatya/pokedex-api/pkg/validation"
)

// AuthHandler serves registration, login and credential management.
type AuthHandler struct {
	Svc            *application.IdentityService
	Logger         *logrus.Logger
	Cookies        *helpers.Manager
	AvatarMaxBytes int64
}

func NewAuthHandler(svc *application.IdentityService, logger *logrus.Logger, cookies *helpers.Manager, avatarMaxBytes int64) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies, AvatarMaxBytes: avatarMaxBytes}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type credentialsRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Register POST /api/register (multipart: username, email, password, profileImage)
func (h *AuthHandler) Register(c *gin.Context) {
	avatar, err := readAvatar(c, h.AvatarMaxBytes)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			response.Error[any](c, http.StatusBadRequest, errFileTooLarge.Error(), nil)
			return
		}
		fail(c, h.Logger, err)
		return
	}
	sess, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Avatar:   avatar,
		Meta:     requestMeta(c),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if h.Cookies != nil {
		h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	}
	response.Success(c, http.StatusOK, sess, "User registered successfully", nil)
}

// Login POST /api/login {username, password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if h.Cookies != nil {
		h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	}
	response.Success(c, http.StatusOK, sess, "Login successful", nil)
}

// Logout clears the browser session cookie. Tokens stay valid until expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Success(c, http.StatusOK, gin.H{"loggedOut": true}, "logged out", nil)
}

// UpdateCredentials PUT /api/profile/auth {username?, email?, password?}
func (h *AuthHandler) UpdateCredentials(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sum, err := h.Svc.UpdateCredentials(c.Request.Context(), c.GetString("userID"), application.CredentialsUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Meta:     requestMeta(c),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sum, "Profile updated successfully", nil)
}

// AuthUser GET /api/auth/user
func (h *AuthHandler) AuthUser(c *gin.Context) {
	acc, err := h.Svc.GetAccount(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"username": acc.Handle}, "user", nil)
}
