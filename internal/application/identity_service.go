package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	repo "github.com/oksasatya/pokedex-api/internal/domain/repository"
	"github.com/oksasatya/pokedex-api/pkg/helpers"
	"github.com/oksasatya/pokedex-api/pkg/imagesniff"
	"github.com/oksasatya/pokedex-api/pkg/mailer"
	tpl "github.com/oksasatya/pokedex-api/pkg/mailer/templates"
	"github.com/oksasatya/pokedex-api/pkg/validation"
)

// IdentityService handles registration, login and credential changes.
type IdentityService struct {
	Accounts   repo.AccountRepository
	Identities repo.IdentityRepository
	Profiles   repo.ProfileRepository
	JWT        *helpers.JWTManager
	Hasher     helpers.Hasher
	Logger     *logrus.Logger

	// Optional collaborators; nil disables them.
	Notifier Notifier
	Mirror   AvatarMirror
	Branding tpl.Branding

	now       func() time.Time
	dummyOnce sync.Once
	dummyHash string
}

func NewIdentityService(accounts repo.AccountRepository, identities repo.IdentityRepository, profiles repo.ProfileRepository, jwt *helpers.JWTManager, hasher helpers.Hasher, logger *logrus.Logger) *IdentityService {
	return &IdentityService{
		Accounts:   accounts,
		Identities: identities,
		Profiles:   profiles,
		JWT:        jwt,
		Hasher:     hasher,
		Logger:     logger,
		now:        time.Now,
	}
}

// Session is an issued bearer token and the identity it is bound to.
type Session struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Avatar   []byte
	Meta     RequestMeta
}

type registration struct {
	Username string `json:"username" validate:"required,handle"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,secret"`
}

type login struct {
	Username string `json:"username" validate:"required,handle"`
	Password string `json:"password" validate:"required,notblank"`
}

type credentialsChange struct {
	Username *string `json:"username" validate:"omitnil,handle"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,secret"`
}

func normalizeHandle(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Register creates an account with its default profile and signs the
// caller in. The avatar is verified by content, never by declared type.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	handle := normalizeHandle(in.Username)
	email := strings.TrimSpace(in.Email)
	if details := validation.Struct(registration{Username: handle, Email: email, Password: in.Password}); details != nil {
		return nil, newValidationError(details)
	}
	if len(in.Avatar) == 0 {
		return nil, newValidationError(map[string]string{"profileImage": "Profile image is required."})
	}
	media, ok := imagesniff.Detect(in.Avatar)
	if !ok {
		return nil, ErrUnsupportedImage
	}

	if _, err := s.Accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.Hasher.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &entity.Account{Handle: handle, Email: email, PasswordHash: hash}
	prof := entity.NewProfile("", entity.Avatar{Data: in.Avatar, ContentType: media.String()}, s.now().UTC())
	if err := s.Identities.CreateIdentity(ctx, acc, prof); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repo.ErrDuplicateHandle):
			return nil, ErrHandleTaken
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	sess, err := s.issue(acc)
	if err != nil {
		return nil, err
	}
	registrationsTotal.Add(1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": acc.ID, "username": acc.Handle}).Info("account registered")
	}
	notify(ctx, s.Notifier, s.Logger, s.Branding, mailer.TemplateWelcome, acc, in.Meta)
	mirrorAvatar(ctx, s.Mirror, s.Profiles, s.Logger, acc.ID, prof.Avatar)
	return sess, nil
}

// Login verifies a handle/password pair. Unknown handles and wrong
// passwords fail identically.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*Session, error) {
	handle := normalizeHandle(username)
	if details := validation.Struct(login{Username: handle, Password: password}); details != nil {
		return nil, newValidationError(details)
	}

	acc, err := s.Accounts.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// keep timing close to the wrong-password path
			s.Hasher.CompareHashAndPassword(s.fakeHash(), password)
			loginFailuresTotal.Add(1)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup handle: %w", err)
	}
	if !s.Hasher.CompareHashAndPassword(acc.PasswordHash, password) {
		loginFailuresTotal.Add(1)
		return nil, ErrInvalidCredentials
	}
	return s.issue(acc)
}

func (s *IdentityService) fakeHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.HashPassword("not-a-real-password")
	})
	return s.dummyHash
}

// CredentialsUpdate lists the fields to change; nil means unchanged.
type CredentialsUpdate struct {
	Username *string
	Email    *string
	Password *string
	Meta     RequestMeta
}

// CredentialsSummary reports the account state after an update.
type CredentialsSummary struct {
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Changed  []string `json:"changed"`
}

func (s *IdentityService) UpdateCredentials(ctx context.Context, userID string, in CredentialsUpdate) (*CredentialsSummary, error) {
	if in.Username == nil && in.Email == nil && in.Password == nil {
		return nil, newValidationError(map[string]string{"payload": "At least one field must be provided to update."})
	}
	change := credentialsChange{Password: in.Password}
	var patch repo.CredentialsPatch
	var changed []string
	if in.Username != nil {
		h := normalizeHandle(*in.Username)
		change.Username, patch.Handle = &h, &h
		changed = append(changed, "username")
	}
	if in.Email != nil {
		e := strings.TrimSpace(*in.Email)
		change.Email, patch.Email = &e, &e
		changed = append(changed, "email")
	}
	if details := validation.Struct(change); details != nil {
		return nil, newValidationError(details)
	}
	if in.Password != nil {
		hash, err := s.Hasher.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
		changed = append(changed, "password")
	}

	before, err := s.Accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	after, err := s.Accounts.UpdateCredentials(ctx, userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrAccountNotFound
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repo.ErrDuplicateHandle):
			return nil, ErrHandleTaken
		}
		return nil, fmt.Errorf("update credentials: %w", err)
	}

	// the notice goes to the address on file before the change
	notify(ctx, s.Notifier, s.Logger, s.Branding, mailer.TemplateCredentialsUpdated, before, in.Meta, tpl.WithChanges(changed))
	return &CredentialsSummary{UserID: after.ID, Username: after.Handle, Email: after.Email, Changed: changed}, nil
}

// GetAccount returns the credential record for userID.
func (s *IdentityService) GetAccount(ctx context.Context, userID string) (*entity.Account, error) {
	acc, err := s.Accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return acc, nil
}

// VerifySession resolves a bearer token to its claims.
func (s *IdentityService) VerifySession(token string) (*helpers.Claims, error) {
	claims, err := s.JWT.ParseSessionToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

func (s *IdentityService) issue(acc *entity.Account) (*Session, error) {
	token, exp, err := s.JWT.GenerateSessionToken(acc.ID, acc.Handle)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", acc.ID).Error("generate session token failed")
		}
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{UserID: acc.ID, Username: acc.Handle, Token: token, ExpiresAt: exp}, nil
}
