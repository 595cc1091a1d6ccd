package model

// Vote types. A vote row carries exactly one of these.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Vote is one row of the votes table, keyed by (UserID, PhotoID).
// Casting again for the same pair replaces the prior row; the table never
// holds two votes by the same user on the same photo.
type Vote struct {
	UserID   string `json:"userId"`
	PhotoID  string `json:"photoId"`
	VoteType string `json:"voteType"`
}

// Tally is the derived up/down count for one photo, computed by scanning
// the votes table on read. There are no cached counters to drift.
type Tally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}
