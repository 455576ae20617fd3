// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

// TokenProvider issues and verifies signed access tokens.
type TokenProvider interface {
	GenerateAccessToken(subject, username string, timeToLive time.Duration) (string, *sec.AuthClaims, error)
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Service implements registration, login and token resolution.
type Service struct {
	users       UserRepository
	tokens      TokenProvider
	revocations RevocationStore
	tokenTTL    time.Duration
	logger      *slog.Logger
}

// NewService constructs an auth service. Access tokens live for tokenTTL.
func NewService(users UserRepository, tokens TokenProvider, revocations RevocationStore, tokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// # Registration

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	lowerPattern    = regexp.MustCompile(`[a-z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

// RegisterInput holds the data required to enroll a new user.
type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the email format, the username shape and the password policy.
func (input RegisterInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.Email,
			validation.Required.Error("Email is required"),
			validation.Length(0, MaxEmailLength).Error(fmt.Sprintf("Email must be at most %d characters", MaxEmailLength)),
			is.EmailFormat.Error("Invalid email format"),
		),
		validation.Field(&input.Username,
			validation.Required.Error("Username is required"),
			validation.Length(MinUsernameLength, MaxUsernameLength).
				Error(fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)),
			validation.Match(usernamePattern).Error("Username may only contain letters, digits, '_' and '-'"),
		),
		validation.Field(&input.Password,
			validation.Required.Error(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)),
			validation.Length(MinPasswordLength, 0).
				Error(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)),
			validation.By(maxBytes(MaxPasswordBytes, fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes))),
			validation.Match(upperPattern).Error("Password must contain at least one uppercase letter"),
			validation.Match(lowerPattern).Error("Password must contain at least one lowercase letter"),
			validation.Match(digitPattern).Error("Password must contain at least one digit"),
		),
	)
}

// maxBytes limits the encoded size of a string, which is what bcrypt counts.
func maxBytes(limit int, message string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); len(s) > limit {
			return errors.New(message)
		}
		return nil
	}
}

// Register validates the input, enforces email and username uniqueness, and
// stores the account with a bcrypt hash of the password.
//
// # Returns
//   - The persisted active, non-superuser account.
//   - [apperr.ValidationError] when the password policy or field rules fail.
//   - [apperr.Conflict] when the email (checked first) or username is taken.
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	// ── 1. Input Rules ────────────────────────────────────────────────────
	if err := input.Validate(); err != nil {
		return nil, validate.FromRules(err, FieldEmail, FieldUsername, FieldPassword)
	}

	// ── 2. Uniqueness Checks ──────────────────────────────────────────────
	if err := service.ensureFree(context, service.users.GetByEmail, input.Email,
		fmt.Sprintf("User with email '%s' already exists", input.Email)); err != nil {
		return nil, err
	}
	if err := service.ensureFree(context, service.users.GetByUsername, input.Username,
		fmt.Sprintf("User with username '%s' already exists", input.Username)); err != nil {
		return nil, err
	}

	// ── 3. Security ───────────────────────────────────────────────────────
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Persistence ────────────────────────────────────────────────────
	user := &User{
		Email:          input.Email,
		Username:       input.Username,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsSuperuser:    false,
	}

	if err := service.users.Create(context, user); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("Email or username is already registered")
		}
		return nil, err
	}

	service.logger.Info("user_registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

func (service *Service) ensureFree(
	context context.Context,
	lookup func(context.Context, string) (*User, error),
	value, conflictMessage string,
) error {
	_, err := lookup(context, value)
	switch {
	case err == nil:
		return apperr.Conflict(conflictMessage)
	case errors.Is(err, dberr.ErrNotFound):
		return nil
	default:
		return err
	}
}

// # Login

// Authenticate checks credentials. The login may be a username or an email.
//
// # Returns
//   - (nil, nil) when no account matches or the password is wrong.
//   - [apperr.Unauthorized] when the matched account is inactive.
func (service *Service) Authenticate(context context.Context, login, password string) (*User, error) {
	login = strings.TrimSpace(login)

	user, err := service.users.GetByUsername(context, login)
	if errors.Is(err, dberr.ErrNotFound) {
		user, err = service.users.GetByEmail(context, login)
	}
	if errors.Is(err, dberr.ErrNotFound) {
		sec.BurnPasswordCheck(password)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.HashedPassword) {
		service.logger.Warn("login_password_mismatch", slog.Int64("user_id", user.ID))
		return nil, nil
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("User account is deactivated")
	}

	return user, nil
}

// CreateToken issues a signed access token whose subject is the user id.
func (service *Service) CreateToken(_ context.Context, user *User) (string, error) {
	token, _, err := service.tokens.GenerateAccessToken(user.Subject(), user.Username, service.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}
	return token, nil
}

// # Token Resolution

var errInvalidCredentials = apperr.Unauthorized("Invalid authentication credentials")

// ResolveCurrentUser turns a bearer token into the active account it was
// issued for.
//
// Every failure is Unauthorized: bad signature or expiry, a missing or
// non-numeric subject, a revoked token, or an absent or inactive user.
func (service *Service) ResolveCurrentUser(context context.Context, token string) (*User, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil, errInvalidCredentials
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID < 1 {
		return nil, errInvalidCredentials
	}

	if claims.ID != "" {
		revoked, err := service.revocations.IsRevoked(context, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, apperr.Unauthorized("Token has been revoked")
		}
	}

	user, err := service.users.GetByID(context, userID)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.Unauthorized("User not found")
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("User account is deactivated")
	}

	return user, nil
}

// ResolvePrincipal adapts [Service.ResolveCurrentUser] to the middleware
// resolver contract.
func (service *Service) ResolvePrincipal(context context.Context, token string) (ctxutil.Principal, error) {
	user, err := service.ResolveCurrentUser(context, token)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout revokes the token for the rest of its lifetime. A token that no
// longer verifies is already unusable, so it is accepted silently.
func (service *Service) Logout(context context.Context, token string) error {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	if err := service.revocations.Revoke(context, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.logger.Info("user_logged_out", slog.String("user_id", claims.Subject))
	return nil
}
