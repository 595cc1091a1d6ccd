// Package model defines the flat records stored one table per entity.
//
// Every type here mirrors one CSV table row. Field order in the table files
// is fixed by the repository layer, not by struct order, but the structs
// deliberately list fields in on-disk order to keep the two easy to compare.
package model

// User is one row of the users table.
//
// Email is unique across the table. UserID is derived at registration time
// from the email's local part plus a four-digit time suffix; it never
// changes afterwards, so the email stays the lookup key for credential
// operations while UserID is what gets embedded in tokens and referenced by
// comments and votes.
type User struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never serialized to clients
}
