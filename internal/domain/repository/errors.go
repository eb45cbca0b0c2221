package repository

import "errors"

// Store-level sentinels. Adapters translate driver errors into these so the
// application layer never sees driver types.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("duplicate email")
	ErrDuplicateHandle = errors.New("duplicate handle")
)
