package services

import (
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/forum-api/internal/constants"
	apierrors "github.com/yukikurage/forum-api/internal/errors"
)

type fieldRule[T any] struct {
	field   string
	message string
	invalid func(T) bool
}

// registerRules are checked in order; the first failing rule is reported.
var registerRules = []fieldRule[RegisterInput]{
	{"email", "invalid email", func(in RegisterInput) bool {
		return !strings.Contains(in.Email, "@")
	}},
	{"username", "length must be at least 6", func(in RegisterInput) bool {
		return utf8.RuneCountInString(in.Username) < constants.MinUsernameLength
	}},
	{"username", "cannot include an @", func(in RegisterInput) bool {
		return strings.Contains(in.Username, "@")
	}},
	{"password", "length must be at least 6", func(in RegisterInput) bool {
		return utf8.RuneCountInString(in.Password) < constants.MinPasswordLength
	}},
}

var postRules = []fieldRule[PostInput]{
	{"title", "title is required", func(in PostInput) bool {
		return strings.TrimSpace(in.Title) == ""
	}},
	{"title", "title must be at most 255 characters", func(in PostInput) bool {
		return utf8.RuneCountInString(in.Title) > 255
	}},
	{"text", "text is required", func(in PostInput) bool {
		return strings.TrimSpace(in.Text) == ""
	}},
}

func validate[T any](rules []fieldRule[T], input T) error {
	for _, rule := range rules {
		if rule.invalid(input) {
			return apierrors.NewValidationError(rule.field, rule.message)
		}
	}
	return nil
}
