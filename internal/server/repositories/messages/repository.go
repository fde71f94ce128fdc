// Package messages provides persistence for chat messages and the
// group-scoped queries the distribution layer pages with.
package messages

import (
	"context"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
)

// PageSize is the maximum number of messages returned per list call.
const PageSize = 30

type Repository interface {
	Create(ctx context.Context, message *models.Message) (*models.Message, error)

	// ListByGroup returns up to PageSize messages addressed to the group,
	// newest first, starting at offset skip. Sender display identity is
	// embedded in each returned message.
	ListByGroup(ctx context.Context, groupID string, skip int) ([]*models.Message, error)

	// ListAudioPaths returns the storage paths of the group's audio-only
	// messages, used by the admin-leave teardown to delete their blobs.
	ListAudioPaths(ctx context.Context, groupID string) ([]string, error)
}
