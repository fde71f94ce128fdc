package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/dbx"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/auth"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/config"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/repomanager"
)

// AuthToken is the result of a successful signin.
type AuthToken struct {
	Token    string  `json:"token"`
	Verified int     `json:"verified"`
	UserID   string  `json:"userId"`
	GroupID  *string `json:"groupId,omitempty"`
}

type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Signup registers a new account and its empty profile. A duplicate email is
// reported as an authentication error, same as the original wire contract.
func (s *UserService) Signup(ctx context.Context, fullname, email, password string) (*models.User, error) {

	userRepo := s.repomanager.Users(s.db)

	_, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("user already exists: %w", common.ErrorAuthentication)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		profiles := s.repomanager.Profiles(tx)

		user, err = users.Create(ctx, &models.User{
			FullName: fullname,
			Email:    &email,
			Password: hash,
			Verified: models.VerifiedAccount,
		})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		if _, err := profiles.Create(ctx, user.ID); err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// Signin verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Signin(ctx context.Context, email, password string) (*AuthToken, error) {

	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", common.ErrorAuthentication)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrorAuthentication)
	}

	token, err := auth.GenerateToken(user.ID, user.Verified, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &AuthToken{
		Token:    token,
		Verified: user.Verified,
		UserID:   user.ID,
		GroupID:  user.GroupID,
	}, nil
}

// GetUser returns the user record for a signed-in caller.
func (s *UserService) GetUser(ctx context.Context, userID string, requester Requester) (*models.User, error) {
	if !requester.SignedIn() {
		return nil, fmt.Errorf("not signed in: %w", common.ErrorForbidden)
	}

	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	return user, nil
}
