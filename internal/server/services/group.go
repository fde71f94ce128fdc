package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/dbx"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/logging"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/auth"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/config"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/pubsub"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/repomanager"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/storage"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/shortid"
)

// JoinResult mirrors the historical join response. Status is true on the
// anonymous path, where Token carries the session token for the fresh
// unverified member; on the registered path both stay zero.
type JoinResult struct {
	Token   string `json:"token,omitempty"`
	Status  bool   `json:"status"`
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

// LeaveResult reports how a leave was handled. Admin is true when the call
// closed the whole group.
type LeaveResult struct {
	Message string `json:"message"`
	Admin   bool   `json:"admin"`
}

// UserLeft is the USER_LEFT event payload.
type UserLeft struct {
	ID       string `json:"id"`
	FullName string `json:"fullname,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	GroupID  string `json:"groupId"`
}

type GroupService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	broker                *pubsub.Broker
	storage               storage.Storage
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewGroupService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	broker *pubsub.Broker, st storage.Storage, logger logging.Logger) *GroupService {
	return &GroupService{
		db:                    db,
		repomanager:           m,
		broker:                broker,
		storage:               st,
		logger:                logger,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// CreateGroup opens a new group with the requester as admin and moves the
// requester into it.
func (s *GroupService) CreateGroup(ctx context.Context, name, password string, requester Requester) (*models.Group, error) {
	if !requester.IsVerified() {
		return nil, fmt.Errorf("verified account required: %w", common.ErrorForbidden)
	}

	hash := ""
	if password != "" {
		var err error
		hash, err = auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
	}

	id, err := shortid.New()
	if err != nil {
		return nil, fmt.Errorf("error generating group id: %w", err)
	}

	var group *models.Group

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		groupRepo := s.repomanager.Groups(tx)
		userRepo := s.repomanager.Users(tx)

		group, err = groupRepo.Create(ctx, &models.Group{
			ID:       id,
			Name:     name,
			Password: hash,
			AdminID:  requester.UserID,
		})
		if err != nil {
			return fmt.Errorf("error creating group: %w", err)
		}

		if err := userRepo.SetGroup(ctx, requester.UserID, &group.ID); err != nil {
			return fmt.Errorf("error assigning admin to group: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return group, nil
}

// JoinGroup admits a caller into a group. With a nickname it creates a fresh
// anonymous member and returns a token for it; without one it moves the
// signed-in caller into the group.
func (s *GroupService) JoinGroup(ctx context.Context, groupID, nickname, password string, requester Requester) (*JoinResult, error) {

	groupRepo := s.repomanager.Groups(s.db)
	userRepo := s.repomanager.Users(s.db)

	group, err := groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("unknown group: %w", common.ErrorForbidden)
		}
		return nil, fmt.Errorf("error searching group: %w", err)
	}

	if group.HasPassword() {
		if password == "" {
			return nil, fmt.Errorf("group password required: %w", common.ErrorForbidden)
		}
		if !auth.CheckPassword(group.Password, password) {
			return nil, fmt.Errorf("wrong group password: %w", common.ErrorAuthentication)
		}
	}

	if nickname == "" {
		// Registered path: attach the signed-in caller.
		if !requester.SignedIn() {
			return nil, fmt.Errorf("not signed in: %w", common.ErrorForbidden)
		}

		if err := userRepo.SetGroup(ctx, requester.UserID, &group.ID); err != nil {
			return nil, fmt.Errorf("error joining group: %w", err)
		}

		user, err := userRepo.GetByID(ctx, requester.UserID)
		if err != nil {
			return nil, fmt.Errorf("error loading user: %w", err)
		}
		s.broker.Publish(ctx, pubsub.TopicUserJoined, group.ID, user)

		return &JoinResult{GroupID: group.ID, UserID: requester.UserID}, nil
	}

	// Anonymous path: nicknames are unique within a group.
	if _, err := userRepo.GetByNicknameInGroup(ctx, nickname, group.ID); err == nil {
		return nil, fmt.Errorf("nickname already taken: %w", common.ErrorForbidden)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking nickname: %w", err)
	}

	user, err := userRepo.Create(ctx, &models.User{
		Nickname: &nickname,
		GroupID:  &group.ID,
		Verified: models.VerifiedAnonymous,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating member: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Verified, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.broker.Publish(ctx, pubsub.TopicUserJoined, group.ID, user)

	return &JoinResult{Token: token, Status: true, GroupID: group.ID, UserID: user.ID}, nil
}

// LeaveGroup detaches the requester from the group. When the requester is
// the group admin the whole group is closed: its anonymous members are
// deleted, verified members detached and the group row removed in one
// transaction, then the audio blobs of the group's voice messages are
// removed from storage.
func (s *GroupService) LeaveGroup(ctx context.Context, groupID string, requester Requester) (*LeaveResult, error) {
	if !requester.SignedIn() {
		return nil, fmt.Errorf("not signed in: %w", common.ErrorForbidden)
	}

	groupRepo := s.repomanager.Groups(s.db)
	userRepo := s.repomanager.Users(s.db)

	group, err := groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("unknown group: %w", common.ErrorForbidden)
		}
		return nil, fmt.Errorf("error searching group: %w", err)
	}

	// The admin can always dissolve its group, even after moving on to
	// another one; AdminID never changes.
	if group.AdminID == requester.UserID {
		return s.closeGroup(ctx, group)
	}

	user, err := userRepo.GetByID(ctx, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.InGroup(group.ID) {
		return nil, fmt.Errorf("not a group member: %w", common.ErrorForbidden)
	}

	if err := userRepo.SetGroup(ctx, user.ID, nil); err != nil {
		return nil, fmt.Errorf("error leaving group: %w", err)
	}

	s.broker.Publish(ctx, pubsub.TopicUserLeft, group.ID, &UserLeft{
		ID:       user.ID,
		FullName: user.FullName,
		Nickname: user.DisplayNickname(),
		GroupID:  group.ID,
	})

	return &LeaveResult{Message: "left group", Admin: false}, nil
}

func (s *GroupService) closeGroup(ctx context.Context, group *models.Group) (*LeaveResult, error) {

	messageRepo := s.repomanager.Messages(s.db)

	audioPaths, err := messageRepo.ListAudioPaths(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing audio paths: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		groups := s.repomanager.Groups(tx)

		if _, err := users.DeleteAnonymousInGroup(ctx, group.ID); err != nil {
			return fmt.Errorf("error deleting anonymous members: %w", err)
		}
		if _, err := users.ClearGroupForVerified(ctx, group.ID); err != nil {
			return fmt.Errorf("error detaching members: %w", err)
		}
		if err := groups.Delete(ctx, group.ID); err != nil {
			return fmt.Errorf("error deleting group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Blob cleanup runs after commit; a leftover file is preferable to a
	// group row pointing at deleted audio.
	for _, path := range audioPaths {
		if err := s.storage.Delete(ctx, path); err != nil {
			s.logger.Error(ctx, "error deleting audio blob", "path", path, "error", err)
		}
	}

	return &LeaveResult{Message: "group deleted", Admin: true}, nil
}

// ListGroupMembers returns the group's current members to one of them.
func (s *GroupService) ListGroupMembers(ctx context.Context, groupID string, requester Requester) ([]*models.User, error) {
	if !requester.SignedIn() {
		return nil, fmt.Errorf("not signed in: %w", common.ErrorForbidden)
	}

	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByID(ctx, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.InGroup(groupID) {
		return nil, fmt.Errorf("not a group member: %w", common.ErrorForbidden)
	}

	members, err := userRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}

	return members, nil
}

// GetGroup returns the group record for a signed-in caller.
func (s *GroupService) GetGroup(ctx context.Context, groupID string, requester Requester) (*models.Group, error) {
	if !requester.SignedIn() {
		return nil, fmt.Errorf("not signed in: %w", common.ErrorForbidden)
	}

	groupRepo := s.repomanager.Groups(s.db)

	group, err := groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error searching group: %w", err)
	}

	return group, nil
}
