package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	repo "github.com/oksasatya/pokedex-api/internal/domain/repository"
	"github.com/oksasatya/pokedex-api/pkg/imagesniff"
)

// ProfileService reads and mutates the profile aggregate. It keeps no
// state between calls; every mutation is one atomic document update.
type ProfileService struct {
	Profiles repo.ProfileRepository
	Accounts repo.AccountRepository
	Mirror   AvatarMirror
	Logger   *logrus.Logger

	newID func() string
}

func NewProfileService(profiles repo.ProfileRepository, accounts repo.AccountRepository, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Profiles: profiles, Accounts: accounts, Logger: logger, newID: uuid.NewString}
}

// FullProfile joins an account with its profile aggregate.
type FullProfile struct {
	Account *entity.Account
	Profile *entity.Profile
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*FullProfile, error) {
	acc, err := s.Accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FullProfile{Account: acc, Profile: p}, nil
}

func (s *ProfileService) GetColorScheme(ctx context.Context, userID string) (string, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.ColorScheme, nil
}

func (s *ProfileService) SetColorScheme(ctx context.Context, userID, scheme string) error {
	if strings.TrimSpace(scheme) == "" {
		return newValidationError(map[string]string{"colorScheme": "Colour scheme is required"})
	}
	_, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		p.ColorScheme = scheme
		return nil
	})
	return err
}

func (s *ProfileService) SetTheme(ctx context.Context, userID, theme string) error {
	if strings.TrimSpace(theme) == "" {
		return newValidationError(map[string]string{"theme": "Theme is required"})
	}
	_, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		p.Theme = theme
		return nil
	})
	return err
}

// SetAvatar replaces the profile image after sniffing its content.
func (s *ProfileService) SetAvatar(ctx context.Context, userID string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", newValidationError(map[string]string{"profileImage": "Profile image is required."})
	}
	media, ok := imagesniff.Detect(data)
	if !ok {
		return "", ErrUnsupportedImage
	}
	avatar := entity.Avatar{Data: data, ContentType: media.String()}
	if _, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		p.Avatar = avatar
		return nil
	}); err != nil {
		return "", err
	}
	mirrorAvatar(ctx, s.Mirror, s.Profiles, s.Logger, userID, avatar)
	return media.String(), nil
}

// ---- teams ----

func (s *ProfileService) AddTeam(ctx context.Context, userID, name string, members []int) (*entity.Team, error) {
	details := map[string]string{}
	if len(members) != entity.TeamSize {
		details["teamToAdd"] = "Team must have exactly 6 Pokémon."
	} else if !allPositive(members) {
		details["teamToAdd"] = "Team members must be valid Pokémon ids."
	}
	if strings.TrimSpace(name) == "" {
		details["teamName"] = "Team must have a name."
	}
	if len(details) > 0 {
		return nil, newValidationError(details)
	}
	var team entity.Team
	_, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		team = entity.Team{
			ID:      s.freshID(func(id string) bool { return indexOfTeam(p.Teams, id) >= 0 }),
			Name:    name,
			Members: append([]int{}, members...),
		}
		p.Teams = append(p.Teams, team)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *ProfileService) ListTeams(ctx context.Context, userID string) ([]entity.Team, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.Teams, nil
}

func (s *ProfileService) RenameTeam(ctx context.Context, userID, teamID, name string) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError(map[string]string{"name": "Need a team name"})
	}
	_, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		i := indexOfTeam(p.Teams, teamID)
		if i < 0 {
			return ErrTeamNotFound
		}
		p.Teams[i].Name = name
		return nil
	})
	return err
}

func (s *ProfileService) RemoveTeam(ctx context.Context, userID, teamID string) ([]entity.Team, error) {
	p, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		i := indexOfTeam(p.Teams, teamID)
		if i < 0 {
			return ErrTeamNotFound
		}
		p.Teams = append(p.Teams[:i], p.Teams[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Teams, nil
}

// ReplaceTeams keeps only the stored teams whose ids are listed. Unknown
// ids are ignored, so a caller can drop entries but never add or edit them.
func (s *ProfileService) ReplaceTeams(ctx context.Context, userID string, keepIDs []string) ([]entity.Team, error) {
	keep := idSet(keepIDs)
	p, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		out := p.Teams[:0]
		for _, t := range p.Teams {
			if keep[t.ID] {
				out = append(out, t)
			}
		}
		p.Teams = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Teams, nil
}

// ---- comparisons ----

func (s *ProfileService) AddComparison(ctx context.Context, userID, name string, entries []*int) (*entity.Comparison, error) {
	present := 0
	for _, e := range entries {
		if e != nil {
			present++
		}
	}
	if present < 2 {
		return nil, newValidationError(map[string]string{"comparison": "At least 2 pokemon are needed to save comparison"})
	}
	var cmp entity.Comparison
	_, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		cmp = entity.Comparison{
			ID:      s.freshID(func(id string) bool { return indexOfComparison(p.Comparisons, id) >= 0 }),
			Name:    name,
			Entries: entries,
		}
		p.Comparisons = append(p.Comparisons, cmp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cmp, nil
}

func (s *ProfileService) ListComparisons(ctx context.Context, userID string) ([]entity.Comparison, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.Comparisons, nil
}

func (s *ProfileService) GetComparison(ctx context.Context, userID, comparisonID string) (*entity.Comparison, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexOfComparison(p.Comparisons, comparisonID)
	if i < 0 {
		return nil, ErrComparisonNotFound
	}
	return &p.Comparisons[i], nil
}

func (s *ProfileService) RenameComparison(ctx context.Context, userID, comparisonID, name string) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError(map[string]string{"name": "Need a comparison name"})
	}
	_, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		i := indexOfComparison(p.Comparisons, comparisonID)
		if i < 0 {
			return ErrComparisonNotFound
		}
		p.Comparisons[i].Name = name
		return nil
	})
	return err
}

func (s *ProfileService) RemoveComparison(ctx context.Context, userID, comparisonID string) ([]entity.Comparison, error) {
	p, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		i := indexOfComparison(p.Comparisons, comparisonID)
		if i < 0 {
			return ErrComparisonNotFound
		}
		p.Comparisons = append(p.Comparisons[:i], p.Comparisons[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Comparisons, nil
}

func (s *ProfileService) ReplaceComparisons(ctx context.Context, userID string, keepIDs []string) ([]entity.Comparison, error) {
	keep := idSet(keepIDs)
	p, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		out := p.Comparisons[:0]
		for _, c := range p.Comparisons {
			if keep[c.ID] {
				out = append(out, c)
			}
		}
		p.Comparisons = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Comparisons, nil
}

// ---- silhouette history ----

func (s *ProfileService) AddSilhouette(ctx context.Context, userID, game string) (*entity.SilhouetteEntry, error) {
	var entry entity.SilhouetteEntry
	_, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		entry = entity.SilhouetteEntry{
			ID:   s.freshID(func(id string) bool { return indexOfSilhouette(p.SilhouetteHistory, id) >= 0 }),
			Game: game,
		}
		p.SilhouetteHistory = append(p.SilhouetteHistory, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *ProfileService) ListSilhouettes(ctx context.Context, userID string) ([]entity.SilhouetteEntry, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.SilhouetteHistory, nil
}

func (s *ProfileService) RemoveSilhouette(ctx context.Context, userID, entryID string) ([]entity.SilhouetteEntry, error) {
	p, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		i := indexOfSilhouette(p.SilhouetteHistory, entryID)
		if i < 0 {
			return ErrSilhouetteNotFound
		}
		p.SilhouetteHistory = append(p.SilhouetteHistory[:i], p.SilhouetteHistory[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.SilhouetteHistory, nil
}

func (s *ProfileService) ReplaceSilhouettes(ctx context.Context, userID string, keepIDs []string) ([]entity.SilhouetteEntry, error) {
	keep := idSet(keepIDs)
	p, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		out := p.SilhouetteHistory[:0]
		for _, e := range p.SilhouetteHistory {
			if keep[e.ID] {
				out = append(out, e)
			}
		}
		p.SilhouetteHistory = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.SilhouetteHistory, nil
}

// ---- favourites ----

// AddFavourite appends entryID; duplicates are kept.
func (s *ProfileService) AddFavourite(ctx context.Context, userID string, entryID int) ([]int, error) {
	p, err := s.mutate(ctx, userID, func(p *entity.Profile) error {
		p.Favourites = append(p.Favourites, entryID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Favourites, nil
}

func (s *ProfileService) ListFavourites(ctx context.Context, userID string) ([]int, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.Favourites, nil
}

// RemoveFavourite drops every occurrence of entryID and returns the updated aggregate.
func (s *ProfileService) RemoveFavourite(ctx context.Context, userID string, entryID int) (*entity.Profile, error) {
	return s.mutate(ctx, userID, func(p *entity.Profile) error {
		out := p.Favourites[:0]
		for _, id := range p.Favourites {
			if id != entryID {
				out = append(out, id)
			}
		}
		p.Favourites = out
		return nil
	})
}

// ---- internals ----

func allPositive(ids []int) bool {
	for _, id := range ids {
		if id <= 0 {
			return false
		}
	}
	return true
}

func (s *ProfileService) load(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.Profiles.GetByAccountID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) mutate(ctx context.Context, userID string, fn repo.MutateFunc) (*entity.Profile, error) {
	p, err := s.Profiles.Mutate(ctx, userID, fn)
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("profile update failed")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// freshID returns a generated id not yet used in the collection.
func (s *ProfileService) freshID(taken func(string) bool) string {
	for {
		id := s.newID()
		if !taken(id) {
			return id
		}
	}
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func indexOfTeam(teams []entity.Team, id string) int {
	for i := range teams {
		if teams[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfComparison(cmps []entity.Comparison, id string) int {
	for i := range cmps {
		if cmps[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfSilhouette(entries []entity.SilhouetteEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}
