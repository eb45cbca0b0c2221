package application

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Every error returned by the services either matches one of
// these through errors.Is or is an unexpected store/signing failure.
var (
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnsupportedMedia = errors.New("unsupported media")
	ErrNotFound         = errors.New("not found")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, msg string) error { return &kindError{kind: kind, msg: msg} }

var (
	ErrInvalidCredentials   = newKindError(ErrUnauthorized, "Invalid credentials.")
	ErrInvalidSession       = newKindError(ErrUnauthorized, "invalid or expired token")
	ErrEmailTaken           = newKindError(ErrConflict, "Account with email already registered")
	ErrHandleTaken          = newKindError(ErrConflict, "Username already taken")
	ErrUnsupportedImage     = newKindError(ErrUnsupportedMedia, "Unsupported image type.")
	ErrAccountNotFound      = newKindError(ErrNotFound, "Auth record not found.")
	ErrProfileNotFound      = newKindError(ErrNotFound, "Profile not found.")
	ErrTeamNotFound         = newKindError(ErrNotFound, "Team not found")
	ErrComparisonNotFound   = newKindError(ErrNotFound, "Comparison not found")
	ErrSilhouetteNotFound   = newKindError(ErrNotFound, "Silhouette game not found")
	ErrCatalogEntryNotFound = newKindError(ErrNotFound, "Pokemon not found")
)

// ValidationError carries every violated input rule keyed by field.
type ValidationError struct {
	Details map[string]string
}

func newValidationError(details map[string]string) error {
	return &ValidationError{Details: details}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Details[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsDomainError reports whether err belongs to the caller-facing taxonomy.
func IsDomainError(err error) bool {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrUnauthorized, ErrUnsupportedMedia, ErrNotFound} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
