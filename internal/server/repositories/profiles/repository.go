// Package profiles provides persistence for user profile details.
package profiles

import (
	"context"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	UpdateDetails(ctx context.Context, userID, bio, phone string) (*models.Profile, error)
	UpdateImage(ctx context.Context, userID, image string) (*models.Profile, error)
}
