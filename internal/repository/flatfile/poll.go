package flatfile

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/xid"
	"github.com/sakif/gifboard/internal/apperror"
	"github.com/sakif/gifboard/internal/model"
	"github.com/sakif/gifboard/internal/repository"
)

var _ repository.PollRepository = (*PollStore)(nil)

// PollStore is the typed view over the polls table.
type PollStore struct {
	t *table[model.Poll]
}

// Create assigns a fresh ID, zeroes the counters, and appends. The
// one-poll-per-week check runs inside the same critical section as the
// append, so two concurrent creates for the same week resolve to exactly
// one row and one Conflict.
func (s *PollStore) Create(ctx context.Context, poll *model.Poll) error {
	poll.PollID = xid.New().String()
	poll.YesVotes = 0
	poll.NoVotes = 0

	return s.t.Update(ctx, func(polls []model.Poll) ([]model.Poll, error) {
		for _, p := range polls {
			if p.Week == poll.Week {
				return nil, apperror.Conflict("week",
					fmt.Sprintf("poll already exists for week %d", poll.Week))
			}
		}
		return append(polls, *poll), nil
	})
}

func (s *PollStore) GetByID(ctx context.Context, id string) (*model.Poll, error) {
	polls, err := s.t.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range polls {
		if p.PollID == id {
			return &p, nil
		}
	}
	return nil, apperror.NotFound("poll", id)
}

func (s *PollStore) GetByWeek(ctx context.Context, week int) (*model.Poll, error) {
	polls, err := s.t.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range polls {
		if p.Week == week {
			return &p, nil
		}
	}
	return nil, apperror.NotFound("poll", "week "+strconv.Itoa(week))
}

// IncrementCount adds one to the poll's yes or no counter in place.
// Counters only ever grow; there is no decrement operation.
func (s *PollStore) IncrementCount(ctx context.Context, pollID, choice string) error {
	return s.t.Update(ctx, func(polls []model.Poll) ([]model.Poll, error) {
		for i := range polls {
			if polls[i].PollID != pollID {
				continue
			}
			if choice == model.PollYes {
				polls[i].YesVotes++
			} else {
				polls[i].NoVotes++
			}
			return polls, nil
		}
		return nil, apperror.NotFound("poll", pollID)
	})
}
