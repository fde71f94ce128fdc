// Package models defines server-side data models persisted in the database.
package models

import "time"

// Verification levels for User.Verified. Anonymous members are created by a
// nickname join and exist only for the lifetime of their group.
const (
	VerifiedAnonymous = 0
	VerifiedAccount   = 1
)

// User is a chat participant: either a registered account (signup) or an
// anonymous member created by joining a group with a nickname.
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullname,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Password  string    `json:"-"`
	Nickname  *string   `json:"nickname,omitempty"`
	GroupID   *string   `json:"groupId,omitempty"`
	Verified  int       `json:"verified"`
	CreatedAt time.Time `json:"-"`
}

// InGroup reports whether the user currently belongs to the given group.
func (u *User) InGroup(groupID string) bool {
	return u.GroupID != nil && *u.GroupID == groupID
}

// DisplayNickname returns the nickname or "" when none is set.
func (u *User) DisplayNickname() string {
	if u.Nickname == nil {
		return ""
	}
	return *u.Nickname
}
