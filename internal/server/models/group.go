package models

import "time"

// Group is a chat room. The id is a short random identifier so it can be
// shared out-of-band without being guessable. AdminID references the
// creating user and never changes; when the admin leaves, the group is
// dissolved rather than handed over.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	AdminID   string    `json:"adminId"`
	CreatedAt time.Time `json:"-"`
}

// HasPassword reports whether joining the group requires a password.
func (g *Group) HasPassword() bool {
	return g.Password != ""
}
