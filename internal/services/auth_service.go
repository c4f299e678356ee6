package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/forum-api/internal/constants"
	apierrors "github.com/yukikurage/forum-api/internal/errors"
	"github.com/yukikurage/forum-api/internal/mailer"
	"github.com/yukikurage/forum-api/internal/models"
	"github.com/yukikurage/forum-api/internal/repository"
	"github.com/yukikurage/forum-api/internal/store"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned for unknown users and wrong passwords alike.
	ErrInvalidCredentials = apierrors.NewFieldError(apierrors.ErrCodeInvalidCredentials, "username_or_email", "invalid username/email or password")
	// ErrTokenExpired is returned when a reset token is unknown, used or expired.
	ErrTokenExpired = apierrors.NewFieldError(apierrors.ErrCodeTokenExpired, "token", "token expired")
	// ErrUsernameTaken is returned when registration hits an existing username or email.
	ErrUsernameTaken = apierrors.NewFieldError(apierrors.ErrCodeConflict, "username", "username already taken")

	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo  repository.UserRepository
	tokens    store.TokenStore
	mail      mailer.Sender
	hasher    PasswordHasher
	reset     ResetOptions
	dummyHash string
}

// ResetOptions configures the password reset flow.
type ResetOptions struct {
	FrontendURL string
	TokenTTL    time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens store.TokenStore, mail mailer.Sender, hasher PasswordHasher, reset ResetOptions) *AuthService {
	if reset.TokenTTL <= 0 {
		reset.TokenTTL = constants.DefaultResetTokenTTL
	}

	// Compared against on unknown logins so both failure paths cost a hash check.
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		log.Printf("failed to prepare dummy password hash: %v", err)
	}

	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		mail:      mail,
		hasher:    hasher,
		reset:     reset,
		dummyHash: dummyHash,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register validates input and creates a new user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := validate(registerRules, input); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UndoRegister removes a user created by Register whose login could not be
// completed, so the username and email can be registered again.
func (s *AuthService) UndoRegister(ctx context.Context, userID uint64) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	return nil
}

// Login verifies credentials and returns the authenticated user.
// An identifier containing "@" is looked up as an email, anything else as a username.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)

	var user *models.User
	var err error
	if strings.Contains(usernameOrEmail, "@") {
		user, err = s.userRepo.FindByEmail(ctx, usernameOrEmail)
	} else {
		user, err = s.userRepo.FindByUsername(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.Verify(s.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Me returns the viewer's user, or nil for anonymous viewers and deleted accounts.
func (s *AuthService) Me(ctx context.Context, viewer Viewer) (*models.User, error) {
	if !viewer.IsAuthenticated() {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ForgotPassword emails a single-use reset link when email belongs to a user.
// The result is the same whether or not the address is registered; token and
// delivery failures are logged rather than reported.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token := uuid.NewString()
	key := constants.ForgetPasswordPrefix + token
	if err := s.tokens.Set(ctx, key, strconv.FormatUint(user.ID, 10), s.reset.TokenTTL); err != nil {
		log.Printf("failed to store reset token for user %d: %v", user.ID, err)
		return nil
	}

	link := fmt.Sprintf("%s/change-password/%s", strings.TrimRight(s.reset.FrontendURL, "/"), token)
	body := fmt.Sprintf(`<a href="%s">reset password</a>`, html.EscapeString(link))
	if err := s.mail.Send(ctx, user.Email, "Reset your password", body); err != nil {
		log.Printf("failed to send reset email to user %d: %v", user.ID, err)
	}

	return nil
}

// ChangePassword consumes a reset token and sets a new password for its user.
func (s *AuthService) ChangePassword(ctx context.Context, token, newPassword string) (*models.User, error) {
	if len([]rune(newPassword)) < constants.MinPasswordLength {
		return nil, apierrors.NewValidationError("new_password", "length must be at least 6")
	}

	// The token is spent before the password changes so it cannot be replayed.
	raw, err := s.tokens.Take(ctx, constants.ForgetPasswordPrefix+token)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewValidationError("token", "user no longer exists")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	user.PasswordHash = hashedPassword

	return user, nil
}
