package model

// Comment is one row of the comments table. Append-only, no key.
//
// PhotoID is a weak reference: comments are matched to photos by value
// equality at read time, and deleting a photo does not cascade. Dangling
// comments are tolerated, not corrected.
type Comment struct {
	UserID  string `json:"userId"`
	PhotoID string `json:"photoId"`
	Text    string `json:"text"`
}
