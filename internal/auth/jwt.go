// Package auth provides session tokens, password hashing, and the
// verification-code cache backing the password reset flow.
//
// SESSION MODEL:
// A session is a signed JWT, nothing server-side. The token embeds the
// user's identity (userId in the subject, email as a custom claim) and its
// issue time; the HMAC signature means nobody can mint or alter one without
// the process-wide secret. Tokens are valid for 24 hours from issuance and
// there is no refresh mechanism — after expiry the client logs in again.
//
// The secret is process-wide state with process lifetime: read once at
// startup, discarded at exit, never persisted.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

// ErrTokenInvalid covers every verification failure: malformed token, bad
// signature, wrong algorithm, expired. Callers treat all of these as
// Forbidden — a presented-but-unusable credential.
var ErrTokenInvalid = errors.New("auth: invalid token")

// Claims is what a verified token asserts about its holder.
type Claims struct {
	UserID string
	Email  string
}

// tokenClaims is the JWT payload. Subject carries the userId; Email is a
// custom claim so the frontend can display the account without a lookup.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a process-wide
// HMAC-SHA256 secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

// Generate issues a signed token for the given identity, valid for TokenTTL
// from now.
func (s *TokenService) Generate(userID, email string) (string, error) {
	now := s.now()

	c := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			Issuer:    "gifboard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and checks a token string, returning the claims it asserts.
//
// Restricting the accepted algorithms to HS256 blocks algorithm-confusion
// attacks; the issuer check rejects tokens minted by other apps sharing the
// secret. Every failure mode comes back wrapped in ErrTokenInvalid — the
// caller never learns whether a token was expired or forged.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("gifboard"),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || c.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return &Claims{UserID: c.Subject, Email: c.Email}, nil
}
