package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/internal/application"
	"github.com/oksasatya/pokedex-api/pkg/response"
)

// CatalogHandler serves the read-only Pokémon reference data.
type CatalogHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *application.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

type (
	individualRequest struct {
		PokeID json.Number `json:"pokeId" binding:"required"`
	}
	listRequest struct {
		IDs []int `json:"ids" binding:"required"`
	}
)

// Light GET /api/pokemon/light?offset=&limit=
func (h *CatalogHandler) Light(c *gin.Context) {
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	page, err := h.Svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page.Entries, "pokemon", gin.H{"total": page.Total})
}

// Individual POST /api/pokemon/individual {pokeId}
func (h *CatalogHandler) Individual(c *gin.Context) {
	var req individualRequest
	if !bind(c, &req) {
		return
	}
	id, err := strconv.Atoi(req.PokeID.String())
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string{"pokeId": "must be a whole number"})
		return
	}
	entry, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, entry.Source, "pokemon", nil)
}

// List POST /api/pokemon/list {ids}
func (h *CatalogHandler) List(c *gin.Context) {
	var req listRequest
	if !bind(c, &req) {
		return
	}
	entries, err := h.Svc.GetMany(c.Request.Context(), req.IDs)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, entries, "pokemon", nil)
}
