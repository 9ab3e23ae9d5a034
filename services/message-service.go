package services

import (
	"time"

	"github.com/quasydwekat2/task-management-system/logging"
	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories"
	"github.com/quasydwekat2/task-management-system/utils"
)

// Broadcaster pushes a stored message out to connected clients. The realtime
// transport lives behind this interface.
type Broadcaster interface {
	Broadcast(message *models.Message)
}

type MessageService struct {
	messages repositories.MessageRepository
	notifier Broadcaster
}

func NewMessageService(messages repositories.MessageRepository, notifier Broadcaster) *MessageService {
	return &MessageService{messages: messages, notifier: notifier}
}

// SendMessage persists a direct message and broadcasts it best effort.
func (s *MessageService) SendMessage(claims *utils.Claims, recipientID, content string) (*models.Message, error) {
	if recipientID == "" {
		return nil, models.NewValidationError("Recipient is required")
	}
	if content == "" {
		return nil, models.NewValidationError("Message content is required")
	}

	message := &models.Message{
		Sender:    claims.UserID,
		Recipient: recipientID,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Read:      false,
	}
	if err := s.messages.Insert(message); err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	logging.Logger.Infof("Event ID: MESSAGE_SENT, Description: Message %s sent from %s to %s", message.ID, message.Sender, message.Recipient)

	if s.notifier != nil {
		s.notifier.Broadcast(message)
	}
	return message, nil
}

// GetConversation returns the message history between the caller and another
// user, oldest first.
func (s *MessageService) GetConversation(claims *utils.Claims, otherUserID string) ([]models.Message, error) {
	messages, err := s.messages.GetConversation(claims.UserID, otherUserID)
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return messages, nil
}

// MarkRead flags every unread message from the given sender to the caller.
func (s *MessageService) MarkRead(claims *utils.Claims, senderID string) error {
	if err := s.messages.MarkRead(senderID, claims.UserID); err != nil {
		return models.NewStoreError("Server error", err)
	}
	return nil
}
