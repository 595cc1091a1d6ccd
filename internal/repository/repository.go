// Package repository declares the typed operation sets the services program
// against. The flatfile package provides the implementations; services never
// import it directly.
package repository

import (
	"context"

	"github.com/sakif/gifboard/internal/model"
)

// UserRepository enforces the users-table invariants: email unique across
// the table, password hash replaceable in place.
type UserRepository interface {
	// Create appends the user. Fails with apperror.ErrConflict if the email
	// is already registered.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail returns apperror.ErrNotFound if the email is absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdatePassword replaces the stored hash for the given email in place.
	// Fails with apperror.ErrNotFound if the email is absent.
	UpdatePassword(ctx context.Context, email, newHash string) error
}

type PhotoRepository interface {
	// Create fills in photo.PhotoID and appends the record.
	Create(ctx context.Context, photo *model.Photo) error
	GetByID(ctx context.Context, id string) (*model.Photo, error)
	List(ctx context.Context) ([]model.Photo, error)
}

type CommentRepository interface {
	// Add appends unconditionally; the photo reference is weak and not
	// checked for existence.
	Add(ctx context.Context, comment *model.Comment) error
	// ListForPhoto returns comments in original insertion order.
	ListForPhoto(ctx context.Context, photoID string) ([]model.Comment, error)
}

type VoteRepository interface {
	// Cast replaces any prior vote by the same user on the same photo with
	// the new one, atomically from the caller's perspective.
	Cast(ctx context.Context, vote *model.Vote) error
	// TallyForPhoto counts up/down rows for the photo.
	TallyForPhoto(ctx context.Context, photoID string) (model.Tally, error)
}

type PollRepository interface {
	// Create fills in poll.PollID, zeroes the counters, and appends. Fails
	// with apperror.ErrConflict if a poll already exists for poll.Week.
	Create(ctx context.Context, poll *model.Poll) error
	GetByID(ctx context.Context, id string) (*model.Poll, error)
	GetByWeek(ctx context.Context, week int) (*model.Poll, error)
	// IncrementCount adds one to the yes or no counter of the poll.
	IncrementCount(ctx context.Context, pollID, choice string) error
}

type PollVoteRepository interface {
	// Cast appends the ledger row. Fails with apperror.ErrAlreadyVoted if a
	// row for (poll, user) already exists.
	Cast(ctx context.Context, vote *model.PollVote) error
	// GetForUser returns apperror.ErrNotFound if the user has not voted.
	GetForUser(ctx context.Context, pollID, userID string) (*model.PollVote, error)
}
