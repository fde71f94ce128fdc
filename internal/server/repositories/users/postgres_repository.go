package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

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

const userColumns = `id, fullname, email, password, nickname, group_id, verified, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.Password,
		&user.Nickname, &user.GroupID, &user.Verified, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, fullname, email, password, nickname, group_id, verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.FullName, user.Email, user.Password,
		user.Nickname, user.GroupID, user.Verified).Scan(&user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByNicknameInGroup(ctx context.Context, nickname, groupID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE nickname = $1 AND group_id = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, nickname, groupID))
}

func (r *PostgresRepository) ListByGroup(ctx context.Context, groupID string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE group_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.Password,
			&user.Nickname, &user.GroupID, &user.Verified, &user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *PostgresRepository) SetGroup(ctx context.Context, userID string, groupID *string) error {
	query := `UPDATE users SET group_id = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, groupID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) ClearGroupForVerified(ctx context.Context, groupID string) (int64, error) {
	query := `UPDATE users SET group_id = NULL WHERE group_id = $1 AND verified <> 0`

	res, err := r.db.ExecContext(ctx, query, groupID)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}

	return res.RowsAffected()
}

func (r *PostgresRepository) DeleteAnonymousInGroup(ctx context.Context, groupID string) (int64, error) {
	query := `DELETE FROM users WHERE group_id = $1 AND verified = 0`

	res, err := r.db.ExecContext(ctx, query, groupID)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}

	return res.RowsAffected()
}
