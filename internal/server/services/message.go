package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/pubsub"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/repomanager"
)

type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	broker      *pubsub.Broker
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, broker *pubsub.Broker) *MessageService {
	return &MessageService{db: db, repomanager: m, broker: broker}
}

// SendTextMessage persists a text message addressed to the group and fans it
// out on MESSAGE_ADDED. The anonymous flag is taken from the caller as-is,
// matching the historical wire contract. The receiver is not checked for
// existence; a message to a dead group id is stored and delivered to nobody.
func (s *MessageService) SendTextMessage(ctx context.Context, text, recieverID string, anonymous bool, requester Requester) (*models.Message, error) {
	if !requester.SignedIn() {
		return nil, fmt.Errorf("not signed in: %w", common.ErrorForbidden)
	}

	userRepo := s.repomanager.Users(s.db)
	messageRepo := s.repomanager.Messages(s.db)

	sender, err := userRepo.GetByID(ctx, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading sender: %w", err)
	}

	message, err := messageRepo.Create(ctx, &models.Message{
		Text:       &text,
		SenderID:   sender.ID,
		RecieverID: recieverID,
		Anonymous:  anonymous,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}

	message.Sender = &models.Sender{
		FullName: sender.FullName,
		Nickname: sender.DisplayNickname(),
	}

	s.broker.Publish(ctx, pubsub.TopicMessageAdded, recieverID, message)

	return message, nil
}

// ListMessages returns one page of the group's history in chronological
// order. skip counts back from the newest message.
func (s *MessageService) ListMessages(ctx context.Context, groupID string, skip int, requester Requester) ([]*models.Message, error) {
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

	messageRepo := s.repomanager.Messages(s.db)

	page, err := messageRepo.ListByGroup(ctx, groupID, skip)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}

	// The query pages newest-first; clients render oldest-first.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}

	return page, nil
}
