package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/sakif/gifboard/internal/apperror"
)

// CodeTTL is how long a verification code stays usable after issuance.
const CodeTTL = 10 * time.Minute

// CodeCache is the process-wide store of one-time password-reset codes,
// keyed by account email.
//
// LIFECYCLE:
// An entry is created (or overwritten — a newer request supersedes any
// pending code) by Issue, checked by Verify, and deleted by Consume once
// the reset completes. Verify also deletes on the first check past the
// entry's expiry, so a stale code can't be retried into a window where the
// clock is wrong.
//
// This cache is deliberately process-local and unreplicated: restarting the
// process, or running more than one instance, silently invalidates or forks
// pending resets. That is a documented property of the deployment shape,
// not a bug to paper over here; a multi-instance deployment would swap this
// for a shared keyed store with TTL support.
type CodeCache struct {
	mu      sync.Mutex
	entries map[string]codeEntry
	now     func() time.Time
}

type codeEntry struct {
	code      string
	expiresAt time.Time
}

// NewCodeCache creates an empty cache. Call once at process start; the
// contents die with the process.
func NewCodeCache() *CodeCache {
	return &CodeCache{
		entries: make(map[string]codeEntry),
		now:     time.Now,
	}
}

// NewCodeCacheAt creates a cache with an injected clock. Used by tests to
// step time across the TTL boundary.
func NewCodeCacheAt(now func() time.Time) *CodeCache {
	return &CodeCache{
		entries: make(map[string]codeEntry),
		now:     now,
	}
}

// Issue generates a fresh 6-digit code for the email, replacing any pending
// one, and returns it for delivery.
func (c *CodeCache) Issue(email string) (string, error) {
	code, err := sixDigits()
	if err != nil {
		return "", fmt.Errorf("auth: generating verification code: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[email] = codeEntry{
		code:      code,
		expiresAt: c.now().Add(CodeTTL),
	}
	return code, nil
}

// Verify checks the presented code against the pending entry for the email.
//
// Failure modes:
//   - no pending entry, or past expiry → ErrCodeExpired (entry deleted)
//   - code differs                     → ErrCodeMismatch (entry kept)
//
// Verify does NOT consume a matching code — the caller finishes the reset
// first and calls Consume only after the password write has durably
// succeeded, so a storage failure never strands the user without a usable
// code.
func (c *CodeCache) Verify(email, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[email]
	if !ok {
		return apperror.CodeExpired()
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, email)
		return apperror.CodeExpired()
	}
	if entry.code != code {
		return apperror.CodeMismatch()
	}
	return nil
}

// Consume deletes the pending entry for the email. Safe to call when no
// entry exists.
func (c *CodeCache) Consume(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, email)
}

// sixDigits draws a uniformly random 6-digit ASCII code, zero-padded.
func sixDigits() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
