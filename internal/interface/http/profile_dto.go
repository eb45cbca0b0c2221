package handlers

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/oksasatya/pokedex-api/internal/application"
	"github.com/oksasatya/pokedex-api/internal/domain/entity"
)

type profileImageDTO struct {
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
	URL         string `json:"url,omitempty"`
}

type profileDTO struct {
	Theme             string                   `json:"theme"`
	ColorScheme       string                   `json:"colorScheme"`
	ProfileImage      profileImageDTO          `json:"profileImage"`
	Favourites        []int                    `json:"favourites"`
	Teams             []entity.Team            `json:"teams"`
	Comparisons       []entity.Comparison      `json:"comparisons"`
	SilhouetteHistory []entity.SilhouetteEntry `json:"silhouetteHistory"`
	BattleHistory     []json.RawMessage        `json:"battleHistory"`
	CreatedAt         time.Time                `json:"createdAt"`
}

type fullProfileDTO struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	UserID   string     `json:"userId"`
	Profile  profileDTO `json:"profile"`
}

func toProfileDTO(p *entity.Profile) profileDTO {
	return profileDTO{
		Theme:       p.Theme,
		ColorScheme: p.ColorScheme,
		ProfileImage: profileImageDTO{
			ContentType: p.Avatar.ContentType,
			Data:        base64.StdEncoding.EncodeToString(p.Avatar.Data),
			URL:         p.Avatar.URL,
		},
		Favourites:        p.Favourites,
		Teams:             p.Teams,
		Comparisons:       p.Comparisons,
		SilhouetteHistory: p.SilhouetteHistory,
		BattleHistory:     p.BattleHistory,
		CreatedAt:         p.CreatedAt,
	}
}

func toFullProfileDTO(f *application.FullProfile) fullProfileDTO {
	return fullProfileDTO{
		Username: f.Account.Handle,
		Email:    f.Account.Email,
		UserID:   f.Account.ID,
		Profile:  toProfileDTO(f.Profile),
	}
}
