package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/internal/domain/repository"
)

// Store keeps accounts and profiles in process memory. It implements the
// account, profile and identity repositories with the same semantics as
// the Postgres adapters.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]entity.Account
	profiles map[string]*entity.Profile
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: map[string]entity.Account{},
		profiles: map[string]*entity.Profile{},
		now:      time.Now,
	}
}

// SetClock replaces the time source used for created/updated stamps.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) CreateIdentity(_ context.Context, a *entity.Account, p *entity.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique("", a.Handle, a.Email); err != nil {
		return err
	}
	now := s.now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt, a.UpdatedAt = now, now
	p.AccountID = a.ID
	s.accounts[a.ID] = *a
	s.profiles[a.ID] = p.Clone()
	return nil
}

// PutAccount stores an account without a profile.
func (s *Store) PutAccount(a entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.accounts[a.ID] = a
}

func (s *Store) checkUnique(selfID, handle, email string) error {
	for id, acc := range s.accounts {
		if id == selfID {
			continue
		}
		if acc.Email == email {
			return repository.ErrDuplicateEmail
		}
		if acc.Handle == handle {
			return repository.ErrDuplicateHandle
		}
	}
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) GetByHandle(_ context.Context, handle string) (*entity.Account, error) {
	return s.find(func(a entity.Account) bool { return a.Handle == handle })
}

func (s *Store) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	return s.find(func(a entity.Account) bool { return a.Email == email })
}

func (s *Store) find(match func(entity.Account) bool) (*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if match(acc) {
			a := acc
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UpdateCredentials(_ context.Context, id string, patch repository.CredentialsPatch) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok || patch.Empty() {
		return nil, repository.ErrNotFound
	}
	if patch.Handle != nil {
		acc.Handle = *patch.Handle
	}
	if patch.Email != nil {
		acc.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		acc.PasswordHash = *patch.PasswordHash
	}
	if err := s.checkUnique(id, acc.Handle, acc.Email); err != nil {
		return nil, err
	}
	acc.UpdatedAt = s.now().UTC()
	s.accounts[id] = acc
	return &acc, nil
}

func (s *Store) ListOrphans(_ context.Context, cutoff time.Time, limit int) ([]entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Account
	for id, acc := range s.accounts {
		if _, ok := s.profiles[id]; ok || !acc.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, p *entity.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.AccountID]; ok {
		return fmt.Errorf("profile %s already exists", p.AccountID)
	}
	s.profiles[p.AccountID] = p.Clone()
	return nil
}

func (s *Store) GetByAccountID(_ context.Context, accountID string) (*entity.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p.Clone(), nil
}

// Mutate applies fn to a copy so a failing fn leaves the stored profile untouched.
func (s *Store) Mutate(_ context.Context, accountID string, fn repository.MutateFunc) (*entity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := p.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()
	s.profiles[accountID] = next
	return next.Clone(), nil
}

var (
	_ repository.AccountRepository  = (*Store)(nil)
	_ repository.ProfileRepository  = (*Store)(nil)
	_ repository.IdentityRepository = (*Store)(nil)
)
