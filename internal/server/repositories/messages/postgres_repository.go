package messages

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/dbx"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	var audioTime []byte
	if message.AudioTime != nil {
		b, err := json.Marshal(message.AudioTime)
		if err != nil {
			return nil, fmt.Errorf("error encoding audio_time: %w", err)
		}
		audioTime = b
	}

	query :=
		`INSERT INTO messages (id, text, audio, audio_trans, audio_time, sender_id, reciever_id, anonymous)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		message.ID, message.Text, message.Audio, message.AudioTrans, audioTime,
		message.SenderID, message.RecieverID, message.Anonymous).Scan(&message.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return message, nil
}

func (r *PostgresRepository) ListByGroup(ctx context.Context, groupID string, skip int) ([]*models.Message, error) {
	if skip < 0 {
		skip = 0
	}

	query :=
		`SELECT m.id, m.text, m.audio, m.audio_trans, m.audio_time,
		        m.sender_id, m.reciever_id, m.anonymous, m.created_at,
		        u.fullname, u.nickname
		 FROM messages m
		 LEFT JOIN users u ON u.id = m.sender_id
		 WHERE m.reciever_id = $1
		 ORDER BY m.created_at DESC
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, groupID, PageSize, skip)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		message := &models.Message{}
		var audioTime []byte
		var fullname sql.NullString
		var nickname sql.NullString

		err := rows.Scan(&message.ID, &message.Text, &message.Audio, &message.AudioTrans, &audioTime,
			&message.SenderID, &message.RecieverID, &message.Anonymous, &message.CreatedAt,
			&fullname, &nickname)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}

		if audioTime != nil {
			if err := json.Unmarshal(audioTime, &message.AudioTime); err != nil {
				return nil, fmt.Errorf("error decoding audio_time: %w", err)
			}
		}
		if fullname.Valid || nickname.Valid {
			message.Sender = &models.Sender{FullName: fullname.String, Nickname: nickname.String}
		}

		result = append(result, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListAudioPaths(ctx context.Context, groupID string) ([]string, error) {
	query := `SELECT audio FROM messages WHERE reciever_id = $1 AND text IS NULL AND audio IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return paths, nil
}
