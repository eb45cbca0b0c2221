package entity

import (
	"encoding/json"
	"time"
)

const (
	DefaultTheme       = "light"
	DefaultColorScheme = "default"

	// TeamSize is the exact roster length a saved team must have.
	TeamSize = 6
)

// Avatar is the profile image together with the media type sniffed from
// its content. URL is set when the image is mirrored to object storage.
type Avatar struct {
	Data        []byte `json:"-"`
	ContentType string `json:"contentType"`
	URL         string `json:"url,omitempty"`
}

// Team is a saved roster of catalog entries.
type Team struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Members []int  `json:"team"`
}

// Comparison is a saved side-by-side of catalog entries. Entries may hold
// nulls for empty comparison slots.
type Comparison struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Entries []*int `json:"comparison"`
}

// SilhouetteEntry records one finished silhouette minigame.
type SilhouetteEntry struct {
	ID   string `json:"_id"`
	Game string `json:"game"`
}

// Profile is the per-account aggregate. It shares its ID with the Account
// it was created with.
type Profile struct {
	AccountID         string
	Theme             string
	ColorScheme       string
	Avatar            Avatar
	Favourites        []int
	Teams             []Team
	Comparisons       []Comparison
	SilhouetteHistory []SilhouetteEntry
	BattleHistory     []json.RawMessage
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewProfile returns a profile with default preferences and empty collections.
func NewProfile(accountID string, avatar Avatar, now time.Time) *Profile {
	return &Profile{
		AccountID:         accountID,
		Theme:             DefaultTheme,
		ColorScheme:       DefaultColorScheme,
		Avatar:            avatar,
		Favourites:        []int{},
		Teams:             []Team{},
		Comparisons:       []Comparison{},
		SilhouetteHistory: []SilhouetteEntry{},
		BattleHistory:     []json.RawMessage{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Avatar.Data = append([]byte(nil), p.Avatar.Data...)
	c.Favourites = append([]int{}, p.Favourites...)
	c.Teams = make([]Team, len(p.Teams))
	for i, t := range p.Teams {
		t.Members = append([]int{}, t.Members...)
		c.Teams[i] = t
	}
	c.Comparisons = make([]Comparison, len(p.Comparisons))
	for i, cmp := range p.Comparisons {
		entries := make([]*int, len(cmp.Entries))
		for j, e := range cmp.Entries {
			if e != nil {
				v := *e
				entries[j] = &v
			}
		}
		cmp.Entries = entries
		c.Comparisons[i] = cmp
	}
	c.SilhouetteHistory = append([]SilhouetteEntry{}, p.SilhouetteHistory...)
	c.BattleHistory = append([]json.RawMessage{}, p.BattleHistory...)
	return &c
}
