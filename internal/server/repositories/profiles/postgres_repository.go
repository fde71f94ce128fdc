package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/dbx"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	profile := &models.Profile{}
	err := row.Scan(&profile.UserID, &profile.Bio, &profile.Phone, &profile.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return profile, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID string) (*models.Profile, error) {
	query :=
		`INSERT INTO profiles (user_id)
		 VALUES ($1)
		 RETURNING user_id, bio, phone, image
		 `

	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT user_id, bio, phone, image FROM profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) UpdateDetails(ctx context.Context, userID, bio, phone string) (*models.Profile, error) {
	query :=
		`UPDATE profiles SET bio = $2, phone = $3
		 WHERE user_id = $1
		 RETURNING user_id, bio, phone, image
		 `

	return scanProfile(r.db.QueryRowContext(ctx, query, userID, bio, phone))
}

func (r *PostgresRepository) UpdateImage(ctx context.Context, userID, image string) (*models.Profile, error) {
	query :=
		`UPDATE profiles SET image = $2
		 WHERE user_id = $1
		 RETURNING user_id, bio, phone, image
		 `

	return scanProfile(r.db.QueryRowContext(ctx, query, userID, image))
}
