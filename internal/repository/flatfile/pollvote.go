package flatfile

import (
	"context"

	"github.com/sakif/gifboard/internal/apperror"
	"github.com/sakif/gifboard/internal/model"
	"github.com/sakif/gifboard/internal/repository"
)

var _ repository.PollVoteRepository = (*PollVoteStore)(nil)

// PollVoteStore is the typed view over the poll_votes ledger. The ledger is
// the source of truth for "has this user voted" — the counters on the poll
// row are derived bookkeeping maintained by the service-level saga.
type PollVoteStore struct {
	t *table[model.PollVote]
}

// Cast appends the ledger row. Once cast, a poll vote is immutable: there
// is no revote path, so a duplicate (poll, user) pair is always rejected.
func (s *PollVoteStore) Cast(ctx context.Context, vote *model.PollVote) error {
	return s.t.Update(ctx, func(votes []model.PollVote) ([]model.PollVote, error) {
		for _, v := range votes {
			if v.PollID == vote.PollID && v.UserID == vote.UserID {
				return nil, apperror.AlreadyVoted("you have already voted on this poll")
			}
		}
		return append(votes, *vote), nil
	})
}

func (s *PollVoteStore) GetForUser(ctx context.Context, pollID, userID string) (*model.PollVote, error) {
	votes, err := s.t.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		if v.PollID == pollID && v.UserID == userID {
			return &v, nil
		}
	}
	return nil, apperror.NotFound("poll vote", pollID)
}
