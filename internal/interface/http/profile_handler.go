package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/internal/application"
	"github.com/oksasatya/pokedex-api/pkg/response"
	"github.com/oksasatya/pokedex-api/pkg/validation"
)

// ProfileHandler serves the session-gated profile aggregate endpoints.
type ProfileHandler struct {
	Svc            *application.ProfileService
	Logger         *logrus.Logger
	AvatarMaxBytes int64
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger, avatarMaxBytes int64) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger, AvatarMaxBytes: avatarMaxBytes}
}

type idRef struct {
	ID string `json:"_id"`
}

func refIDs(refs []idRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

type (
	colorSchemeRequest struct {
		ColorScheme string `json:"colorScheme"`
	}
	themeRequest struct {
		Theme string `json:"theme"`
	}
	addTeamRequest struct {
		TeamName  string `json:"teamName"`
		TeamToAdd []int  `json:"teamToAdd"`
	}
	renameTeamRequest struct {
		TeamID string `json:"teamId" binding:"required"`
		Name   string `json:"name"`
	}
	replaceTeamsRequest struct {
		Teams []idRef `json:"teams" binding:"required"`
	}
	addComparisonRequest struct {
		Name       string `json:"name"`
		Comparison []*int `json:"comparison"`
	}
	renameComparisonRequest struct {
		ComparisonID string `json:"comparisonId" binding:"required"`
		Name         string `json:"name"`
	}
	replaceComparisonsRequest struct {
		Comparisons []idRef `json:"comparisons" binding:"required"`
	}
	addSilhouetteRequest struct {
		Game string `json:"game" binding:"required"`
	}
	replaceSilhouettesRequest struct {
		Silhouettes []idRef `json:"silhouettes" binding:"required"`
	}
	addFavouriteRequest struct {
		FavouriteID int `json:"favouriteId" binding:"required"`
	}
	removeFavouriteRequest struct {
		IDToRemove int `json:"IdToRemove" binding:"required"`
	}
)

// bind decodes the JSON body and writes the 400 envelope on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	full, err := h.Svc.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toFullProfileDTO(full), "profile", nil)
}

func (h *ProfileHandler) UpdateAvatar(c *gin.Context) {
	data, err := readAvatar(c, h.AvatarMaxBytes)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			response.Error[any](c, http.StatusBadRequest, errFileTooLarge.Error(), nil)
			return
		}
		fail(c, h.Logger, err)
		return
	}
	ct, err := h.Svc.SetAvatar(c.Request.Context(), c.GetString("userID"), data)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contentType": ct}, "Profile image updated successfully.", nil)
}

func (h *ProfileHandler) GetColorScheme(c *gin.Context) {
	scheme, err := h.Svc.GetColorScheme(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"colorScheme": scheme}, "colour scheme", nil)
}

func (h *ProfileHandler) SetColorScheme(c *gin.Context) {
	var req colorSchemeRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.SetColorScheme(c.Request.Context(), c.GetString("userID"), req.ColorScheme); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"colorScheme": req.ColorScheme}, "Colour scheme updated successfully", nil)
}

func (h *ProfileHandler) SetTheme(c *gin.Context) {
	var req themeRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.SetTheme(c.Request.Context(), c.GetString("userID"), req.Theme); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"theme": req.Theme}, "Theme updated successfully", nil)
}

// ---- teams ----

func (h *ProfileHandler) AddTeam(c *gin.Context) {
	var req addTeamRequest
	if !bind(c, &req) {
		return
	}
	team, err := h.Svc.AddTeam(c.Request.Context(), c.GetString("userID"), req.TeamName, req.TeamToAdd)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, team, "Team successfully added", nil)
}

func (h *ProfileHandler) ListTeams(c *gin.Context) {
	teams, err := h.Svc.ListTeams(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teams": teams}, "teams", nil)
}

func (h *ProfileHandler) RenameTeam(c *gin.Context) {
	var req renameTeamRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.RenameTeam(c.Request.Context(), c.GetString("userID"), req.TeamID, req.Name); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teamId": req.TeamID, "name": req.Name}, "Team name successfully updated", nil)
}

func (h *ProfileHandler) RemoveTeam(c *gin.Context) {
	teams, err := h.Svc.RemoveTeam(c.Request.Context(), c.GetString("userID"), c.Param("teamId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teams": teams}, "Team removed successfully", nil)
}

func (h *ProfileHandler) ReplaceTeams(c *gin.Context) {
	var req replaceTeamsRequest
	if !bind(c, &req) {
		return
	}
	teams, err := h.Svc.ReplaceTeams(c.Request.Context(), c.GetString("userID"), refIDs(req.Teams))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teams": teams}, "Team removed successfully", nil)
}

// ---- comparisons ----

func (h *ProfileHandler) AddComparison(c *gin.Context) {
	var req addComparisonRequest
	if !bind(c, &req) {
		return
	}
	cmp, err := h.Svc.AddComparison(c.Request.Context(), c.GetString("userID"), req.Name, req.Comparison)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cmp, "Comparison successfully added", nil)
}

func (h *ProfileHandler) ListComparisons(c *gin.Context) {
	cmps, err := h.Svc.ListComparisons(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"comparisons": cmps}, "comparisons", nil)
}

func (h *ProfileHandler) GetComparison(c *gin.Context) {
	cmp, err := h.Svc.GetComparison(c.Request.Context(), c.GetString("userID"), c.Param("comparisonId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"comparison": cmp}, "Comparison found", nil)
}

func (h *ProfileHandler) RenameComparison(c *gin.Context) {
	var req renameComparisonRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.RenameComparison(c.Request.Context(), c.GetString("userID"), req.ComparisonID, req.Name); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"comparisonId": req.ComparisonID, "name": req.Name}, "Comparison name successfully updated", nil)
}

func (h *ProfileHandler) RemoveComparison(c *gin.Context) {
	cmps, err := h.Svc.RemoveComparison(c.Request.Context(), c.GetString("userID"), c.Param("comparisonId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"comparisons": cmps}, "Comparison removed successfully", nil)
}

func (h *ProfileHandler) ReplaceComparisons(c *gin.Context) {
	var req replaceComparisonsRequest
	if !bind(c, &req) {
		return
	}
	cmps, err := h.Svc.ReplaceComparisons(c.Request.Context(), c.GetString("userID"), refIDs(req.Comparisons))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"comparisons": cmps}, "Comparison removed successfully", nil)
}

// ---- silhouette history ----

func (h *ProfileHandler) AddSilhouette(c *gin.Context) {
	var req addSilhouetteRequest
	if !bind(c, &req) {
		return
	}
	entry, err := h.Svc.AddSilhouette(c.Request.Context(), c.GetString("userID"), req.Game)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, entry, "Game successfully added", nil)
}

func (h *ProfileHandler) ListSilhouettes(c *gin.Context) {
	entries, err := h.Svc.ListSilhouettes(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"silhouetteGameHistory": entries}, "silhouette history", nil)
}

func (h *ProfileHandler) RemoveSilhouette(c *gin.Context) {
	entries, err := h.Svc.RemoveSilhouette(c.Request.Context(), c.GetString("userID"), c.Param("entryId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"silhouetteGameHistory": entries}, "Silhouette removed successfully", nil)
}

func (h *ProfileHandler) ReplaceSilhouettes(c *gin.Context) {
	var req replaceSilhouettesRequest
	if !bind(c, &req) {
		return
	}
	entries, err := h.Svc.ReplaceSilhouettes(c.Request.Context(), c.GetString("userID"), refIDs(req.Silhouettes))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"silhouetteGameHistory": entries}, "Silhouette removed successfully", nil)
}

// ---- favourites ----

func (h *ProfileHandler) AddFavourite(c *gin.Context) {
	var req addFavouriteRequest
	if !bind(c, &req) {
		return
	}
	favs, err := h.Svc.AddFavourite(c.Request.Context(), c.GetString("userID"), req.FavouriteID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"favouritesIds": favs}, "Favourite successfully added", nil)
}

func (h *ProfileHandler) ListFavourites(c *gin.Context) {
	favs, err := h.Svc.ListFavourites(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"favouritesIds": favs}, "favourites", nil)
}

func (h *ProfileHandler) RemoveFavourite(c *gin.Context) {
	var req removeFavouriteRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.Svc.RemoveFavourite(c.Request.Context(), c.GetString("userID"), req.IDToRemove)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": toProfileDTO(p)}, "Favourite successfully removed", nil)
}
