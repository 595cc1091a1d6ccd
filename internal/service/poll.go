package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/gifboard/internal/apperror"
	"github.com/sakif/gifboard/internal/model"
	"github.com/sakif/gifboard/internal/repository"
)

// PollService handles the rotating weekly poll and its vote ledger.
type PollService struct {
	polls     repository.PollRepository
	pollVotes repository.PollVoteRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewPollService(
	polls repository.PollRepository,
	pollVotes repository.PollVoteRepository,
	logger *slog.Logger,
) *PollService {
	return NewPollServiceAt(polls, pollVotes, logger, time.Now)
}

// NewPollServiceAt is NewPollService with an injected clock, so tests can
// pin "the current week".
func NewPollServiceAt(
	polls repository.PollRepository,
	pollVotes repository.PollVoteRepository,
	logger *slog.Logger,
	now func() time.Time,
) *PollService {
	return &PollService{
		polls:     polls,
		pollVotes: pollVotes,
		logger:    logger,
		now:       now,
	}
}

// CreatePoll opens the poll for the given week. At most one poll per week;
// the repository rejects a duplicate with Conflict and the existing poll is
// left untouched.
func (s *PollService) CreatePoll(ctx context.Context, topic string, week int) (*model.Poll, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, apperror.ValidationFailed("topic", "topic and week are required")
	}
	if week < 1 {
		return nil, apperror.ValidationFailed("week", "topic and week are required")
	}

	poll := &model.Poll{Week: week, Topic: topic}
	if err := s.polls.Create(ctx, poll); err != nil {
		return nil, err
	}

	s.logger.Info("poll created",
		slog.String("pollID", poll.PollID),
		slog.Int("week", week),
	)
	return poll, nil
}

// Current returns the poll for the current week, or NotFound if none was
// created yet.
func (s *PollService) Current(ctx context.Context) (*model.Poll, error) {
	return s.polls.GetByWeek(ctx, WeekOf(s.now()))
}

// CastVote records a yes/no vote on the poll.
//
// This is the one cross-table write in the system, and the two tables have
// no shared transaction, so it runs as a two-step saga:
//
//  1. append to the poll_votes ledger — the source of truth for "has this
//     user voted", where the AlreadyVoted invariant is enforced;
//  2. increment the poll's yes/no counter.
//
// If step 2 fails the vote IS cast (the ledger row exists) but the counter
// lags by one; we surface a retryable error rather than reporting success,
// and never the other way around. The ledger going first means a retried
// request can at worst report AlreadyVoted with a stale counter — it can
// never double-count a vote.
func (s *PollService) CastVote(ctx context.Context, pollID, userID, choice string) error {
	if choice != model.PollYes && choice != model.PollNo {
		return apperror.ValidationFailed("vote", `invalid vote, must be "yes" or "no"`)
	}

	if _, err := s.polls.GetByID(ctx, pollID); err != nil {
		return err
	}

	vote := &model.PollVote{
		PollID: pollID,
		UserID: userID,
		Choice: choice,
	}
	if err := s.pollVotes.Cast(ctx, vote); err != nil {
		return err
	}

	if err := s.polls.IncrementCount(ctx, pollID, choice); err != nil {
		s.logger.Error("poll counter increment failed after ledger write",
			slog.String("pollID", pollID),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("recording poll vote count: %w", err)
	}

	s.logger.Info("poll vote recorded",
		slog.String("pollID", pollID),
		slog.String("userID", userID),
		slog.String("choice", choice),
	)
	return nil
}

// UserVote returns the user's recorded choice for the poll, or "" if the
// user has not voted.
func (s *PollService) UserVote(ctx context.Context, pollID, userID string) (string, error) {
	vote, err := s.pollVotes.GetForUser(ctx, pollID, userID)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return vote.Choice, nil
}

// WeekOf reproduces the feed's historical week numbering, which predates
// this implementation and is baked into the stored polls: 1-based,
//
//	ceil((dayOfYear + weekdayOfJan1 + 1) / 7)
//
// with dayOfYear counting whole elapsed days since January 1 (zero-based)
// and weekdayOfJan1 the Sunday-0 index of January 1. This is NOT the ISO
// week; substituting time.Time.ISOWeek would renumber every stored poll.
func WeekOf(t time.Time) int {
	startOfYear := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := int(t.Sub(startOfYear) / (24 * time.Hour))
	return (days + int(startOfYear.Weekday()) + 1 + 6) / 7
}
