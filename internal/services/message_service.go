package services

import (
	"context"
	"fmt"
	"time"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"gorm.io/gorm"
)

// RecentMessagesLimit caps GET /messages
const RecentMessagesLimit = 100

// MessageService is the append-only chat log
type MessageService interface {
	// CreateMessage appends a message stamped with the current UTC time
	CreateMessage(ctx context.Context, username, text string) (*models.Message, error)
	// RecentMessages returns the latest RecentMessagesLimit messages, oldest first
	RecentMessages(ctx context.Context) ([]models.Message, error)
}

type messageService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMessageService(db *gorm.DB) MessageService {
	return &messageService{db: db, now: time.Now}
}

func (s *messageService) CreateMessage(ctx context.Context, username, text string) (*models.Message, error) {
	msg := &models.Message{
		Username:  username,
		Message:   text,
		Timestamp: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

func (s *messageService) RecentMessages(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Order("timestamp desc").
		Order("id desc").
		Limit(RecentMessagesLimit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// newest-first from the query, reversed to oldest-first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
