package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	repo "github.com/oksasatya/pokedex-api/internal/domain/repository"
)

type ProfileServiceSuite struct {
	suite.Suite
	f   *fixture
	ctx context.Context
	uid string
}

func (s *ProfileServiceSuite) SetupTest() {
	s.f = newFixture()
	s.ctx = context.Background()
	s.uid = s.f.register("ash", "ash@x.com").UserID
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) TestPreferences() {
	s.Require().NoError(s.f.profiles.SetColorScheme(s.ctx, s.uid, "fire"))
	scheme, err := s.f.profiles.GetColorScheme(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Equal("fire", scheme)

	s.Require().NoError(s.f.profiles.SetTheme(s.ctx, s.uid, "dark"))
	full, err := s.f.profiles.GetProfile(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Equal("dark", full.Profile.Theme)

	var verr *ValidationError
	err = s.f.profiles.SetColorScheme(s.ctx, s.uid, " ")
	s.Require().True(errors.As(err, &verr))
	s.Equal("Colour scheme is required", verr.Details["colorScheme"])
	s.ErrorIs(s.f.profiles.SetTheme(s.ctx, s.uid, ""), ErrValidation)
}

func (s *ProfileServiceSuite) TestSetAvatar() {
	ct, err := s.f.profiles.SetAvatar(s.ctx, s.uid, jpegBytes)
	s.Require().NoError(err)
	s.Equal("image/jpeg", ct)

	_, err = s.f.profiles.SetAvatar(s.ctx, s.uid, []byte("GIF8"))
	s.ErrorIs(err, ErrUnsupportedImage)
	_, err = s.f.profiles.SetAvatar(s.ctx, s.uid, nil)
	s.ErrorIs(err, ErrValidation)

	full, _ := s.f.profiles.GetProfile(s.ctx, s.uid)
	s.Equal("image/jpeg", full.Profile.Avatar.ContentType)
}

func (s *ProfileServiceSuite) TestAddTeam() {
	s.Run("roster must have exactly six members", func() {
		for _, members := range [][]int{{1, 2, 3, 4, 5}, {1, 2, 3, 4, 5, 6, 7}, nil} {
			_, err := s.f.profiles.AddTeam(s.ctx, s.uid, "Kanto", members)
			var verr *ValidationError
			s.Require().True(errors.As(err, &verr))
			s.Equal("Team must have exactly 6 Pokémon.", verr.Details["teamToAdd"])
		}
	})

	s.Run("members must be catalog ids", func() {
		for _, members := range [][]int{{1, 0, 3, 4, 5, 6}, {1, 2, 3, 4, 5, -6}} {
			_, err := s.f.profiles.AddTeam(s.ctx, s.uid, "Kanto", members)
			var verr *ValidationError
			s.Require().True(errors.As(err, &verr))
			s.Equal("Team members must be valid Pokémon ids.", verr.Details["teamToAdd"])
		}
		teams, err := s.f.profiles.ListTeams(s.ctx, s.uid)
		s.Require().NoError(err)
		s.Empty(teams)
	})

	s.Run("name is required", func() {
		_, err := s.f.profiles.AddTeam(s.ctx, s.uid, "  ", []int{1, 2, 3, 4, 5, 6})
		var verr *ValidationError
		s.Require().True(errors.As(err, &verr))
		s.Equal("Team must have a name.", verr.Details["teamName"])
	})

	s.Run("valid team is appended with a fresh id", func() {
		a, err := s.f.profiles.AddTeam(s.ctx, s.uid, "A", []int{1, 2, 3, 4, 5, 6})
		s.Require().NoError(err)
		b, err := s.f.profiles.AddTeam(s.ctx, s.uid, "B", []int{7, 8, 9, 10, 11, 12})
		s.Require().NoError(err)
		s.NotEmpty(a.ID)
		s.NotEqual(a.ID, b.ID)

		teams, err := s.f.profiles.ListTeams(s.ctx, s.uid)
		s.Require().NoError(err)
		s.Require().Len(teams, 2)
		s.Equal("A", teams[0].Name)
		s.Equal([]int{7, 8, 9, 10, 11, 12}, teams[1].Members)
	})
}

func (s *ProfileServiceSuite) TestFreshIDSkipsCollisions() {
	ids := []string{"dup", "dup", "other"}
	s.f.profiles.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	a, err := s.f.profiles.AddTeam(s.ctx, s.uid, "A", []int{1, 2, 3, 4, 5, 6})
	s.Require().NoError(err)
	b, err := s.f.profiles.AddTeam(s.ctx, s.uid, "B", []int{1, 2, 3, 4, 5, 6})
	s.Require().NoError(err)
	s.Equal("dup", a.ID)
	s.Equal("other", b.ID)
}

func (s *ProfileServiceSuite) TestRenameTeam() {
	team, err := s.f.profiles.AddTeam(s.ctx, s.uid, "Old", []int{1, 2, 3, 4, 5, 6})
	s.Require().NoError(err)

	s.Run("unknown id is not found and changes nothing", func() {
		err := s.f.profiles.RenameTeam(s.ctx, s.uid, "nope", "New")
		s.ErrorIs(err, ErrNotFound)
		teams, _ := s.f.profiles.ListTeams(s.ctx, s.uid)
		s.Equal([]entity.Team{*team}, teams)
	})

	s.Run("renames in place", func() {
		s.Require().NoError(s.f.profiles.RenameTeam(s.ctx, s.uid, team.ID, "New"))
		teams, _ := s.f.profiles.ListTeams(s.ctx, s.uid)
		s.Equal("New", teams[0].Name)
		s.Equal(team.ID, teams[0].ID)
	})

	s.Run("empty name rejected", func() {
		s.ErrorIs(s.f.profiles.RenameTeam(s.ctx, s.uid, team.ID, ""), ErrValidation)
	})
}

func (s *ProfileServiceSuite) TestRemoveAndReplaceTeams() {
	a, _ := s.f.profiles.AddTeam(s.ctx, s.uid, "A", []int{1, 2, 3, 4, 5, 6})
	b, _ := s.f.profiles.AddTeam(s.ctx, s.uid, "B", []int{1, 2, 3, 4, 5, 6})
	c, _ := s.f.profiles.AddTeam(s.ctx, s.uid, "C", []int{1, 2, 3, 4, 5, 6})

	teams, err := s.f.profiles.RemoveTeam(s.ctx, s.uid, b.ID)
	s.Require().NoError(err)
	s.Len(teams, 2)

	_, err = s.f.profiles.RemoveTeam(s.ctx, s.uid, b.ID)
	s.ErrorIs(err, ErrTeamNotFound)

	teams, err = s.f.profiles.ReplaceTeams(s.ctx, s.uid, []string{c.ID, "forged"})
	s.Require().NoError(err)
	s.Require().Len(teams, 1)
	s.Equal(c.ID, teams[0].ID)
	s.NotEqual(a.ID, teams[0].ID)
}

func (s *ProfileServiceSuite) TestComparisons() {
	s.Run("needs two present entries", func() {
		_, err := s.f.profiles.AddComparison(s.ctx, s.uid, "One", []*int{intp(1), nil})
		var verr *ValidationError
		s.Require().True(errors.As(err, &verr))
		s.Equal("At least 2 pokemon are needed to save comparison", verr.Details["comparison"])
	})

	s.Run("add then fetch by id", func() {
		cmp, err := s.f.profiles.AddComparison(s.ctx, s.uid, "Starters", []*int{intp(1), intp(4)})
		s.Require().NoError(err)

		got, err := s.f.profiles.GetComparison(s.ctx, s.uid, cmp.ID)
		s.Require().NoError(err)
		s.Equal("Starters", got.Name)
		s.Equal([]*int{intp(1), intp(4)}, got.Entries)
	})

	s.Run("nullable slots are kept", func() {
		cmp, err := s.f.profiles.AddComparison(s.ctx, s.uid, "Gaps", []*int{intp(1), nil, intp(7)})
		s.Require().NoError(err)
		got, _ := s.f.profiles.GetComparison(s.ctx, s.uid, cmp.ID)
		s.Len(got.Entries, 3)
		s.Nil(got.Entries[1])
	})

	s.Run("rename remove and replace", func() {
		list, _ := s.f.profiles.ListComparisons(s.ctx, s.uid)
		s.Require().Len(list, 2)
		first, second := list[0], list[1]

		s.ErrorIs(s.f.profiles.RenameComparison(s.ctx, s.uid, first.ID, ""), ErrValidation)
		s.ErrorIs(s.f.profiles.RenameComparison(s.ctx, s.uid, "nope", "X"), ErrComparisonNotFound)
		s.Require().NoError(s.f.profiles.RenameComparison(s.ctx, s.uid, first.ID, "Renamed"))

		list, err := s.f.profiles.RemoveComparison(s.ctx, s.uid, second.ID)
		s.Require().NoError(err)
		s.Require().Len(list, 1)
		s.Equal("Renamed", list[0].Name)

		list, err = s.f.profiles.ReplaceComparisons(s.ctx, s.uid, nil)
		s.Require().NoError(err)
		s.Empty(list)

		_, err = s.f.profiles.GetComparison(s.ctx, s.uid, first.ID)
		s.ErrorIs(err, ErrComparisonNotFound)
	})
}

func (s *ProfileServiceSuite) TestSilhouettes() {
	a, err := s.f.profiles.AddSilhouette(s.ctx, s.uid, "won")
	s.Require().NoError(err)
	b, err := s.f.profiles.AddSilhouette(s.ctx, s.uid, "lost")
	s.Require().NoError(err)

	list, _ := s.f.profiles.ListSilhouettes(s.ctx, s.uid)
	s.Equal([]entity.SilhouetteEntry{*a, *b}, list)

	list, err = s.f.profiles.RemoveSilhouette(s.ctx, s.uid, a.ID)
	s.Require().NoError(err)
	s.Equal([]entity.SilhouetteEntry{*b}, list)

	_, err = s.f.profiles.RemoveSilhouette(s.ctx, s.uid, a.ID)
	s.ErrorIs(err, ErrSilhouetteNotFound)

	list, err = s.f.profiles.ReplaceSilhouettes(s.ctx, s.uid, []string{b.ID})
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *ProfileServiceSuite) TestFavourites() {
	for _, id := range []int{25, 1, 25} {
		_, err := s.f.profiles.AddFavourite(s.ctx, s.uid, id)
		s.Require().NoError(err)
	}
	favs, _ := s.f.profiles.ListFavourites(s.ctx, s.uid)
	s.Equal([]int{25, 1, 25}, favs)

	p, err := s.f.profiles.RemoveFavourite(s.ctx, s.uid, 25)
	s.Require().NoError(err)
	s.Equal([]int{1}, p.Favourites)

	p, err = s.f.profiles.RemoveFavourite(s.ctx, s.uid, 999)
	s.Require().NoError(err)
	s.Equal([]int{1}, p.Favourites)
}

func (s *ProfileServiceSuite) TestMissingProfile() {
	_, err := s.f.profiles.ListTeams(s.ctx, "missing")
	s.ErrorIs(err, ErrProfileNotFound)
	_, err = s.f.profiles.AddFavourite(s.ctx, "missing", 1)
	s.ErrorIs(err, ErrProfileNotFound)
	_, err = s.f.profiles.GetProfile(s.ctx, "missing")
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *ProfileServiceSuite) TestConcurrentAppendsAreNotLost() {
	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.f.profiles.AddFavourite(s.ctx, s.uid, i)
		}(i)
	}
	wg.Wait()
	favs, err := s.f.profiles.ListFavourites(s.ctx, s.uid)
	s.Require().NoError(err)
	s.Len(favs, n)
}

type failingProfiles struct{ repo.ProfileRepository }

func (failingProfiles) Mutate(context.Context, string, repo.MutateFunc) (*entity.Profile, error) {
	return nil, fmt.Errorf("tx: %w", errStore)
}

func (s *ProfileServiceSuite) TestStoreFailureIsNotADomainError() {
	svc := NewProfileService(failingProfiles{s.f.store}, s.f.store, nil)
	_, err := svc.AddFavourite(s.ctx, s.uid, 1)
	s.Require().Error(err)
	s.ErrorIs(err, errStore)
	s.False(IsDomainError(err))
}
