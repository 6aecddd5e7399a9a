package entity

import (
	"time"
)

// User is the account record behind a Profile.
// PasswordHash is a bcrypt hash; FindHash is the random value embedded in
// bearer tokens and is rotated on every signin.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FindHash     string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserPatch holds the account fields a user may change. Password is plain text
// and is hashed by the service before it reaches the store.
type UserPatch struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil
}
