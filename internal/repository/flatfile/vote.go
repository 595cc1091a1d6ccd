package flatfile

import (
	"context"

	"github.com/sakif/gifboard/internal/model"
	"github.com/sakif/gifboard/internal/repository"
)

var _ repository.VoteRepository = (*VoteStore)(nil)

// VoteStore is the typed view over the votes table.
type VoteStore struct {
	t *table[model.Vote]
}

// Cast records the vote, replacing any prior vote by the same user on the
// same photo.
//
// Implemented as filter-out-then-append, which is exactly why it must run
// as a single Update: done as separate load and replace calls, a concurrent
// cast by ANOTHER user on the same photo would be filtered into oblivion by
// whichever write lands second. The write lock makes the whole cycle one
// atomic step from every caller's perspective.
func (s *VoteStore) Cast(ctx context.Context, vote *model.Vote) error {
	return s.t.Update(ctx, func(votes []model.Vote) ([]model.Vote, error) {
		kept := votes[:0]
		for _, v := range votes {
			if v.UserID == vote.UserID && v.PhotoID == vote.PhotoID {
				continue
			}
			kept = append(kept, v)
		}
		return append(kept, *vote), nil
	})
}

// TallyForPhoto derives the up/down counts by scanning the current table.
func (s *VoteStore) TallyForPhoto(ctx context.Context, photoID string) (model.Tally, error) {
	votes, err := s.t.Load(ctx)
	if err != nil {
		return model.Tally{}, err
	}

	var tally model.Tally
	for _, v := range votes {
		if v.PhotoID != photoID {
			continue
		}
		switch v.VoteType {
		case model.VoteUp:
			tally.Upvotes++
		case model.VoteDown:
			tally.Downvotes++
		}
	}
	return tally, nil
}
