package constants

import "time"

// Session and context keys
const (
	SessionCookieName  = "qid"
	ContextKeyUserID   = "user_id"
	ContextKeyViewer   = "viewer"
	ContextKeyLoaders  = "loaders"
	ContextKeyPostID   = "post_id"
	SessionMaxAgeHours = 24 * 7
)

// Account rules
const (
	MinPasswordLength = 6
	MinUsernameLength = 6
)

// Feed pagination
const (
	MinPageSize       = 1
	DefaultPageSize   = 10
	MaxPageSize       = 50
	TextSnippetLength = 100
)

// Password reset
const (
	ForgetPasswordPrefix = "forget-password:"
	DefaultResetTokenTTL = 72 * time.Hour
)

// MaxVoteAttempts bounds retries of a vote transaction that lost an insert race.
const MaxVoteAttempts = 3
