// Package services implements the application logic on top of the
// repositories: accounts, group membership and lifecycle, message
// distribution, profile editing, and the audio ingestion pipeline.
package services

import "github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"

// Requester is the caller identity extracted from the session token.
// A zero Requester means the call carried no (valid) token.
type Requester struct {
	UserID   string
	Verified int
}

func (r Requester) SignedIn() bool {
	return r.UserID != ""
}

func (r Requester) IsVerified() bool {
	return r.SignedIn() && r.Verified == models.VerifiedAccount
}
