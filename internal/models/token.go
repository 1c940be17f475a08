package models

import "time"

// AccessToken is one bearer session. Only the SHA-256 of the opaque token
// is stored; revocation deletes the row.
type AccessToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TokenHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
