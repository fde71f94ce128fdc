// Package users provides persistence for chat participants: registered
// accounts and the anonymous members created by nickname joins.
package users

import (
	"context"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByNicknameInGroup looks up an anonymous member by nickname
	// within one group; nicknames are only unique per group.
	GetByNicknameInGroup(ctx context.Context, nickname, groupID string) (*models.User, error)

	ListByGroup(ctx context.Context, groupID string) ([]*models.User, error)

	// SetGroup moves the user into a group, or out of any group when
	// groupID is nil.
	SetGroup(ctx context.Context, userID string, groupID *string) error

	// ClearGroupForVerified detaches every verified member of the group,
	// leaving anonymous members untouched. Returns the number of users
	// updated.
	ClearGroupForVerified(ctx context.Context, groupID string) (int64, error)

	// DeleteAnonymousInGroup removes the anonymous members created for
	// the group. Returns the number of users deleted.
	DeleteAnonymousInGroup(ctx context.Context, groupID string) (int64, error)
}
