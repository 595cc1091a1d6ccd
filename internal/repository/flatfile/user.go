package flatfile

import (
	"context"
	"fmt"

	"github.com/sakif/gifboard/internal/apperror"
	"github.com/sakif/gifboard/internal/model"
	"github.com/sakif/gifboard/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore is the typed view over the users table.
type UserStore struct {
	t *table[model.User]
}

// Create appends the user record.
//
// The email-uniqueness check and the append happen inside one Update, so a
// concurrent Create with the same email can't slip between the scan and the
// write — one of the two calls sees the other's row and gets the Conflict.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	return s.t.Update(ctx, func(users []model.User) ([]model.User, error) {
		for _, u := range users {
			if u.Email == user.Email {
				return nil, apperror.Conflict("email",
					fmt.Sprintf("user already exists with email %s", user.Email))
			}
		}
		return append(users, *user), nil
	})
}

// GetByEmail scans the table for the given email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := s.t.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

// UpdatePassword replaces the stored hash for the matching record in place.
// This and the poll counters are the only in-place mutations in the store.
func (s *UserStore) UpdatePassword(ctx context.Context, email, newHash string) error {
	return s.t.Update(ctx, func(users []model.User) ([]model.User, error) {
		for i := range users {
			if users[i].Email == email {
				users[i].PasswordHash = newHash
				return users, nil
			}
		}
		return nil, apperror.NotFound("user", email)
	})
}
