// Package service contains the business rules between the HTTP handlers and
// the repositories. Handlers parse requests and write responses; services
// validate, enforce the domain rules, and orchestrate repositories and the
// credential utilities; repositories own the tables. No layer reaches past
// its neighbor.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/gifboard/internal/apperror"
	"github.com/sakif/gifboard/internal/auth"
	"github.com/sakif/gifboard/internal/model"
	"github.com/sakif/gifboard/internal/repository"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// IdentityService handles registration, login, and the password reset flow.
type IdentityService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	codes     *auth.CodeCache
	logger    *slog.Logger
	now       func() time.Time
}

// NewIdentityService wires an IdentityService. The clock defaults to
// time.Now; tests swap it via NewIdentityServiceAt to pin the userId suffix.
func NewIdentityService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	codes *auth.CodeCache,
	logger *slog.Logger,
) *IdentityService {
	return NewIdentityServiceAt(users, tokens, passwords, codes, logger, time.Now)
}

// NewIdentityServiceAt is NewIdentityService with an injected clock.
func NewIdentityServiceAt(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	codes *auth.CodeCache,
	logger *slog.Logger,
	now func() time.Time,
) *IdentityService {
	return &IdentityService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		codes:     codes,
		logger:    logger,
		now:       now,
	}
}

// AuthResult bundles the identity and the issued session token so the
// handler can respond in one step.
type AuthResult struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"-"`
}

// Register creates an account and issues a session token.
//
// The userId is the email's local part plus the last four digits of the
// current unix-millisecond clock. The suffix only disambiguates display
// names like "alice" from "alice" at another domain — actual identity
// uniqueness is anchored by the email-unique invariant the repository
// enforces.
func (s *IdentityService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/identity: hashing password: %w", err)
	}

	user := &model.User{
		UserID:       s.deriveUserID(email),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.UserID),
	)

	token, err := s.tokens.Generate(user.UserID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/identity: issuing token for %s: %w", user.UserID, err)
	}

	return &AuthResult{UserID: user.UserID, Email: user.Email, Token: token}, nil
}

// Login checks credentials and issues a session token.
//
// Unknown email and wrong password return the identical InvalidCredentials
// error — callers must not be able to tell which one happened.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, err
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.UserID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/identity: issuing token for %s: %w", user.UserID, err)
	}

	return &AuthResult{UserID: user.UserID, Email: user.Email, Token: token}, nil
}

// RequestPasswordReset issues a one-time code for the account.
//
// There is no mailer in this system; the code is logged for out-of-band
// delivery and returned to the caller for the same purpose. It must never
// appear in an HTTP response.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperror.ValidationFailed("email", "email is required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return "", err
	}

	code, err := s.codes.Issue(email)
	if err != nil {
		return "", fmt.Errorf("service/identity: issuing reset code: %w", err)
	}

	s.logger.Info("password reset code issued",
		slog.String("email", email),
		slog.String("code", code),
	)
	return code, nil
}

// ResetPassword completes the reset: verify the code, write the new hash,
// then consume the code.
//
// Consumption happens strictly after the durable password write succeeds.
// If the store is unavailable mid-reset the code stays pending, so the user
// retries with the same code instead of being stranded — the cache never
// ends up ahead of the store's actual state.
func (s *IdentityService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || code == "" {
		return apperror.ValidationFailed("email", "email and verification code are required")
	}
	if len(newPassword) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}

	if err := s.codes.Verify(email, code); err != nil {
		return err
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/identity: hashing new password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, email, hash); err != nil {
		return err
	}

	s.codes.Consume(email)
	s.logger.Info("password reset completed", slog.String("email", email))
	return nil
}

// deriveUserID builds localPart(email) + last4Digits(unixMillis).
func (s *IdentityService) deriveUserID(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}

	millis := fmt.Sprintf("%d", s.now().UnixMilli())
	return local + millis[len(millis)-4:]
}
