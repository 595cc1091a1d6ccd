package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sakif/gifboard/internal/apperror"
	"github.com/sakif/gifboard/internal/model"
)

// fakePollRepo mirrors the flat-file PollRepository invariants in memory.
// failIncrement, when set, makes IncrementCount fail while leaving Create
// and the getters working — the saga's step-2 failure mode.
type fakePollRepo struct {
	polls         []model.Poll
	failIncrement error
}

func (r *fakePollRepo) Create(_ context.Context, poll *model.Poll) error {
	for _, p := range r.polls {
		if p.Week == poll.Week {
			return apperror.Conflict("week", fmt.Sprintf("poll already exists for week %d", poll.Week))
		}
	}
	poll.PollID = fmt.Sprintf("poll-%d", len(r.polls)+1)
	poll.YesVotes = 0
	poll.NoVotes = 0
	r.polls = append(r.polls, *poll)
	return nil
}

func (r *fakePollRepo) GetByID(_ context.Context, id string) (*model.Poll, error) {
	for _, p := range r.polls {
		if p.PollID == id {
			return &p, nil
		}
	}
	return nil, apperror.NotFound("poll", id)
}

func (r *fakePollRepo) GetByWeek(_ context.Context, week int) (*model.Poll, error) {
	for _, p := range r.polls {
		if p.Week == week {
			return &p, nil
		}
	}
	return nil, apperror.NotFound("poll", fmt.Sprintf("week %d", week))
}

func (r *fakePollRepo) IncrementCount(_ context.Context, pollID, choice string) error {
	if r.failIncrement != nil {
		return r.failIncrement
	}
	for i := range r.polls {
		if r.polls[i].PollID != pollID {
			continue
		}
		if choice == model.PollYes {
			r.polls[i].YesVotes++
		} else {
			r.polls[i].NoVotes++
		}
		return nil
	}
	return apperror.NotFound("poll", pollID)
}

type fakePollVoteRepo struct {
	votes []model.PollVote
}

func (r *fakePollVoteRepo) Cast(_ context.Context, vote *model.PollVote) error {
	for _, v := range r.votes {
		if v.PollID == vote.PollID && v.UserID == vote.UserID {
			return apperror.AlreadyVoted("you have already voted on this poll")
		}
	}
	r.votes = append(r.votes, *vote)
	return nil
}

func (r *fakePollVoteRepo) GetForUser(_ context.Context, pollID, userID string) (*model.PollVote, error) {
	for _, v := range r.votes {
		if v.PollID == pollID && v.UserID == userID {
			return &v, nil
		}
	}
	return nil, apperror.NotFound("poll vote", pollID)
}

func newTestPollService(at time.Time) (*PollService, *fakePollRepo, *fakePollVoteRepo) {
	polls := &fakePollRepo{}
	votes := &fakePollVoteRepo{}
	svc := NewPollServiceAt(polls, votes, discardLogger(), func() time.Time { return at })
	return svc, polls, votes
}

// =========================================================================
// WEEK NUMBERING TESTS
// =========================================================================

// Expected values come from the historical formula the stored polls were
// numbered with: ceil((dayOfYear + weekdayOfJan1 + 1) / 7), Sunday-0.
func TestWeekOf(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		// 2026: January 1 is a Thursday (weekday 4).
		{"2026-01-01", 1},
		{"2026-01-03", 1}, // Saturday, still week 1
		{"2026-01-04", 2}, // Sunday rolls the week
		{"2026-08-28", 35},
		{"2026-12-31", 53},
		// 2023: January 1 is a Sunday (weekday 0).
		{"2023-01-01", 1},
		{"2023-01-07", 1},
		{"2023-01-08", 2},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			date, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatal(err)
			}
			if got := WeekOf(date); got != tt.want {
				t.Errorf("WeekOf(%s) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

// The numbering is NOT the ISO week; this pins the divergence so nobody
// "fixes" WeekOf into ISOWeek and silently renumbers every stored poll.
func TestWeekOf_IsNotISOWeek(t *testing.T) {
	// 2026-01-01 is ISO week 1 of 2026, but 2027-01-01 (a Friday) is ISO
	// week 53 of 2026 while this numbering restarts at 1.
	date := time.Date(2027, time.January, 1, 12, 0, 0, 0, time.UTC)
	if got := WeekOf(date); got != 1 {
		t.Errorf("WeekOf(2027-01-01) = %d, want 1", got)
	}
	_, isoWeek := date.ISOWeek()
	if isoWeek == 1 {
		t.Skip("ISO week happens to agree on this date, fixture no longer proves the divergence")
	}
}

// =========================================================================
// CREATE / CURRENT TESTS
// =========================================================================

func TestCreatePoll_Validation(t *testing.T) {
	svc, _, _ := newTestPollService(time.Now())
	ctx := context.Background()

	if _, err := svc.CreatePoll(ctx, "", 35); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("CreatePoll(empty topic) error = %v, want ErrValidation", err)
	}
	if _, err := svc.CreatePoll(ctx, "topic", 0); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("CreatePoll(week 0) error = %v, want ErrValidation", err)
	}
}

func TestCreatePoll_DuplicateWeekKeepsOriginal(t *testing.T) {
	svc, polls, _ := newTestPollService(time.Now())
	ctx := context.Background()

	if _, err := svc.CreatePoll(ctx, "original topic", 35); err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}
	if _, err := svc.CreatePoll(ctx, "usurper topic", 35); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreatePoll(same week) error = %v, want ErrConflict", err)
	}

	got, _ := polls.GetByWeek(ctx, 35)
	if got.Topic != "original topic" {
		t.Errorf("week 35 topic = %q, conflicting create overwrote it", got.Topic)
	}
}

func TestCurrent_ReturnsThisWeeksPoll(t *testing.T) {
	// Pin "now" so the current week is a known number.
	at := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestPollService(at)
	ctx := context.Background()

	created, err := svc.CreatePoll(ctx, "Should we allow cat GIFs?", WeekOf(at))
	if err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}

	current, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if current.PollID != created.PollID {
		t.Errorf("Current() = poll %q, want %q", current.PollID, created.PollID)
	}
}

func TestCurrent_NoPollThisWeek(t *testing.T) {
	svc, _, _ := newTestPollService(time.Now())

	_, err := svc.Current(context.Background())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Current() with no poll error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// CAST VOTE (SAGA) TESTS
// =========================================================================

func TestCastVote_IncrementsExactlyOneCounter(t *testing.T) {
	svc, polls, _ := newTestPollService(time.Now())
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, "topic", 35)
	if err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}

	if err := svc.CastVote(ctx, poll.PollID, "alice1234", model.PollYes); err != nil {
		t.Fatalf("CastVote(yes) error = %v", err)
	}
	if err := svc.CastVote(ctx, poll.PollID, "bob5678", model.PollNo); err != nil {
		t.Fatalf("CastVote(no) error = %v", err)
	}

	got, _ := polls.GetByID(ctx, poll.PollID)
	if got.YesVotes != 1 || got.NoVotes != 1 {
		t.Errorf("counters = %d yes / %d no, want 1 / 1", got.YesVotes, got.NoVotes)
	}
}

func TestCastVote_InvalidChoice(t *testing.T) {
	svc, _, _ := newTestPollService(time.Now())

	err := svc.CastVote(context.Background(), "poll-1", "alice1234", "maybe")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("CastVote(maybe) error = %v, want ErrValidation", err)
	}
}

func TestCastVote_UnknownPoll(t *testing.T) {
	svc, _, _ := newTestPollService(time.Now())

	err := svc.CastVote(context.Background(), "ghost", "alice1234", model.PollYes)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("CastVote(unknown poll) error = %v, want ErrNotFound", err)
	}
}

func TestCastVote_SecondVoteRejectedAndNotCounted(t *testing.T) {
	svc, polls, _ := newTestPollService(time.Now())
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, "topic", 35)
	if err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}

	if err := svc.CastVote(ctx, poll.PollID, "alice1234", model.PollYes); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	// Opposite choice makes no difference: one vote per user per poll.
	if err := svc.CastVote(ctx, poll.PollID, "alice1234", model.PollNo); !errors.Is(err, apperror.ErrAlreadyVoted) {
		t.Fatalf("CastVote(second) error = %v, want ErrAlreadyVoted", err)
	}

	got, _ := polls.GetByID(ctx, poll.PollID)
	if got.YesVotes != 1 || got.NoVotes != 0 {
		t.Errorf("counters after rejected revote = %d yes / %d no, want 1 / 0", got.YesVotes, got.NoVotes)
	}
}

// Step 2 of the saga failing must surface an error — the ledger row exists
// but the counter lags, and reporting success would hide that.
func TestCastVote_IncrementFailureIsNotSuccess(t *testing.T) {
	svc, polls, votes := newTestPollService(time.Now())
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, "topic", 35)
	if err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}

	polls.failIncrement = apperror.Unavailable("replace polls", errors.New("disk gone"))
	err = svc.CastVote(ctx, poll.PollID, "alice1234", model.PollYes)
	if err == nil {
		t.Fatal("CastVote() reported success with the counter write failing")
	}
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("CastVote() error = %v, want ErrUnavailable to surface", err)
	}

	// The ledger row was written before the failure: the user HAS voted.
	if _, err := votes.GetForUser(ctx, poll.PollID, "alice1234"); err != nil {
		t.Errorf("ledger row missing after step-2 failure: %v", err)
	}
}

// =========================================================================
// USER VOTE TESTS
// =========================================================================

func TestUserVote(t *testing.T) {
	svc, _, _ := newTestPollService(time.Now())
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, "topic", 35)
	if err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}
	if err := svc.CastVote(ctx, poll.PollID, "alice1234", model.PollNo); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}

	choice, err := svc.UserVote(ctx, poll.PollID, "alice1234")
	if err != nil {
		t.Fatalf("UserVote() error = %v", err)
	}
	if choice != model.PollNo {
		t.Errorf("UserVote() = %q, want %q", choice, model.PollNo)
	}

	// Not having voted is an empty answer, not an error.
	choice, err = svc.UserVote(ctx, poll.PollID, "bob5678")
	if err != nil {
		t.Fatalf("UserVote(non-voter) error = %v", err)
	}
	if choice != "" {
		t.Errorf("UserVote(non-voter) = %q, want empty", choice)
	}
}
