package services

import "errors"

// ErrUnauthorized is returned by protected operations called without a session.
var ErrUnauthorized = errors.New("authentication required")

// Viewer is the identity a request runs as. The zero value is an anonymous viewer.
type Viewer struct {
	UserID uint64
}

// IsAuthenticated reports whether the viewer has a session.
func (v Viewer) IsAuthenticated() bool {
	return v.UserID != 0
}

// RequireUser returns the viewer's user ID, or ErrUnauthorized for anonymous viewers.
func RequireUser(v Viewer) (uint64, error) {
	if !v.IsAuthenticated() {
		return 0, ErrUnauthorized
	}
	return v.UserID, nil
}
