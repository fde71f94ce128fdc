// Package groups provides persistence for chat rooms.
package groups

import (
	"context"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, group *models.Group) (*models.Group, error)
	GetByID(ctx context.Context, id string) (*models.Group, error)
	Delete(ctx context.Context, id string) error
}
