package flatfile

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sakif/gifboard/internal/model"
)

// Store owns one table per entity, all living under a single data
// directory. Each table is exclusively owned by its typed accessor — no
// record is shared by reference across repositories, so cross-entity
// references stay weak value-equality lookups.
type Store struct {
	users     *table[model.User]
	photos    *table[model.Photo]
	comments  *table[model.Comment]
	votes     *table[model.Vote]
	polls     *table[model.Poll]
	pollVotes *table[model.PollVote]
}

// New creates the data directory if needed and wires up all six tables.
// No files are created until the first write; a fresh directory reads as
// six empty tables.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("flatfile: creating data dir %s: %w", dir, err)
	}

	return &Store{
		users: newTable(dir, "users", 3,
			func(u model.User) []string {
				return []string{u.UserID, u.Email, u.PasswordHash}
			},
			func(row []string) (model.User, error) {
				return model.User{UserID: row[0], Email: row[1], PasswordHash: row[2]}, nil
			},
		),
		photos: newTable(dir, "photos", 2,
			func(p model.Photo) []string {
				return []string{p.PhotoID, p.Name}
			},
			func(row []string) (model.Photo, error) {
				return model.Photo{PhotoID: row[0], Name: row[1]}, nil
			},
		),
		comments: newTable(dir, "comments", 3,
			func(c model.Comment) []string {
				return []string{c.UserID, c.PhotoID, c.Text}
			},
			func(row []string) (model.Comment, error) {
				return model.Comment{UserID: row[0], PhotoID: row[1], Text: row[2]}, nil
			},
		),
		votes: newTable(dir, "votes", 3,
			func(v model.Vote) []string {
				return []string{v.UserID, v.PhotoID, v.VoteType}
			},
			func(row []string) (model.Vote, error) {
				return model.Vote{UserID: row[0], PhotoID: row[1], VoteType: row[2]}, nil
			},
		),
		polls: newTable(dir, "polls", 5,
			func(p model.Poll) []string {
				return []string{
					p.PollID,
					strconv.Itoa(p.Week),
					p.Topic,
					strconv.Itoa(p.YesVotes),
					strconv.Itoa(p.NoVotes),
				}
			},
			decodePoll,
		),
		pollVotes: newTable(dir, "poll_votes", 3,
			func(v model.PollVote) []string {
				return []string{v.PollID, v.UserID, v.Choice}
			},
			func(row []string) (model.PollVote, error) {
				return model.PollVote{PollID: row[0], UserID: row[1], Choice: row[2]}, nil
			},
		),
	}, nil
}

func decodePoll(row []string) (model.Poll, error) {
	week, err := strconv.Atoi(row[1])
	if err != nil {
		return model.Poll{}, fmt.Errorf("poll %s: bad week %q: %w", row[0], row[1], err)
	}
	yes, err := strconv.Atoi(row[3])
	if err != nil {
		return model.Poll{}, fmt.Errorf("poll %s: bad yes count %q: %w", row[0], row[3], err)
	}
	no, err := strconv.Atoi(row[4])
	if err != nil {
		return model.Poll{}, fmt.Errorf("poll %s: bad no count %q: %w", row[0], row[4], err)
	}
	return model.Poll{
		PollID:   row[0],
		Week:     week,
		Topic:    row[2],
		YesVotes: yes,
		NoVotes:  no,
	}, nil
}

// Typed accessors. Each returned value is the repository for exactly one
// table; handing them out separately keeps the ownership boundary visible
// at the call site.

func (s *Store) Users() *UserStore         { return &UserStore{t: s.users} }
func (s *Store) Photos() *PhotoStore       { return &PhotoStore{t: s.photos} }
func (s *Store) Comments() *CommentStore   { return &CommentStore{t: s.comments} }
func (s *Store) Votes() *VoteStore         { return &VoteStore{t: s.votes} }
func (s *Store) Polls() *PollStore         { return &PollStore{t: s.polls} }
func (s *Store) PollVotes() *PollVoteStore { return &PollVoteStore{t: s.pollVotes} }
