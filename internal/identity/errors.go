package identity

import "errors"

// Machine-readable error kinds, mirroring what the identity provider
// reports. The UI maps each to a fixed user-facing message.
var (
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrEmailInUse       = errors.New("email already in use")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("weak password")
	ErrNotSignedIn      = errors.New("not signed in")
)
