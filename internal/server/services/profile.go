package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/logging"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/repomanager"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/storage"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/shortid"
)

// ImageUpload is an avatar image attached to a profile edit.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     storage.Storage
	logger      logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, st storage.Storage, logger logging.Logger) *ProfileService {
	return &ProfileService{db: db, repomanager: m, storage: st, logger: logger}
}

// EditProfile updates the requester's bio and phone, and replaces the avatar
// when an image is attached. The previous avatar blob is removed only after
// the new one is stored and the row updated.
func (s *ProfileService) EditProfile(ctx context.Context, bio, phone string, image *ImageUpload, requester Requester) (*models.Profile, error) {
	if !requester.IsVerified() {
		return nil, fmt.Errorf("verified account required: %w", common.ErrorForbidden)
	}

	profileRepo := s.repomanager.Profiles(s.db)

	current, err := profileRepo.GetByUserID(ctx, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	if image != nil {
		id, err := shortid.New()
		if err != nil {
			return nil, fmt.Errorf("error generating image path: %w", err)
		}
		path := fmt.Sprintf("/public/image/%s%d%s", id, time.Now().UnixMilli(), filepath.Ext(image.Filename))

		if err := s.storage.Save(ctx, path, image.Data); err != nil {
			return nil, fmt.Errorf("error storing image: %w", err)
		}

		if _, err := profileRepo.UpdateImage(ctx, requester.UserID, path); err != nil {
			return nil, fmt.Errorf("error updating image: %w", err)
		}

		if current.Image != "" {
			if err := s.storage.Delete(ctx, current.Image); err != nil {
				s.logger.Error(ctx, "error deleting old avatar", "path", current.Image, "error", err)
			}
		}
	}

	profile, err := profileRepo.UpdateDetails(ctx, requester.UserID, bio, phone)
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return profile, nil
}

// GetProfile returns a user's profile to any signed-in caller.
func (s *ProfileService) GetProfile(ctx context.Context, userID string, requester Requester) (*models.Profile, error) {
	if !requester.SignedIn() {
		return nil, fmt.Errorf("not signed in: %w", common.ErrorForbidden)
	}

	profileRepo := s.repomanager.Profiles(s.db)

	profile, err := profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	return profile, nil
}
