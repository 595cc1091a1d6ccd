package model

// Poll choices.
const (
	PollYes = "yes"
	PollNo  = "no"
)

// Poll is one row of the polls table, keyed by PollID, with at most one
// poll per Week value.
//
// YesVotes/NoVotes are the only fields in the whole store that are mutated
// in place: the poll-vote saga increments them after the ledger write. They
// are non-negative and only ever grow.
type Poll struct {
	PollID   string `json:"id"`
	Week     int    `json:"week"`
	Topic    string `json:"topic"`
	YesVotes int    `json:"yesVotes"`
	NoVotes  int    `json:"noVotes"`
}

// PollVote is one row of the poll_votes ledger, keyed by (PollID, UserID).
// Once cast it is immutable: there is no revote and no delete.
type PollVote struct {
	PollID string `json:"pollId"`
	UserID string `json:"userId"`
	Choice string `json:"choice"`
}
