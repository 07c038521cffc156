package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// Password holds the bcrypt hash, never the plain text.
// Username is optional; nil means the user never picked one.
type User struct {
	ID        int64
	Email     string
	Username  *string
	Password  string
	CreatedAt time.Time
}

// DisplayName returns the username or an empty string.
func (u *User) DisplayName() string {
	if u == nil || u.Username == nil {
		return ""
	}
	return *u.Username
}

// Identity is the resolved caller of an authenticated request.
// It is handed explicitly to every operation that needs to know who is asking.
type Identity struct {
	UserID    int64
	Email     string
	Username  string
	SessionID string
}
