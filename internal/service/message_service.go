package service

import (
	"context"
	"fmt"

	"github.com/homebuddy/homebuddy-api/internal/domain"
	"github.com/homebuddy/homebuddy-api/internal/platform/mailer"
	"github.com/homebuddy/homebuddy-api/internal/repo/postgres"
	"github.com/homebuddy/homebuddy-api/pkg/events"
	"github.com/homebuddy/homebuddy-api/pkg/logger"
)

type MessageService interface {
	CreateMessage(ctx context.Context, req *domain.CreateMessageRequest) (*domain.Message, error)
	ListMessages(ctx context.Context) ([]domain.Message, error)
	GetMessage(ctx context.Context, id int64) (*domain.Message, error)
	MarkRead(ctx context.Context, id int64) (*domain.Message, error)
}

type messageService struct {
	repo       postgres.MessageRepo
	eventBus   events.Publisher
	mailer     mailer.Service
	staffEmail string
}

func NewMessageService(repo postgres.MessageRepo, eventBus events.Publisher, mailer mailer.Service, staffEmail string) MessageService {
	return &messageService{
		repo:       repo,
		eventBus:   eventBus,
		mailer:     mailer,
		staffEmail: staffEmail,
	}
}

func (s *messageService) CreateMessage(ctx context.Context, req *domain.CreateMessageRequest) (*domain.Message, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	msg, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.MessageReceived, events.MessageReceivedEvent{
		MessageID: msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		CreatedAt: msg.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "failed to publish message.received", "error", err)
	}

	if s.staffEmail != "" {
		if err := s.mailer.SendNewMessageNotification(s.staffEmail, msg.Name, msg.Email); err != nil {
			logger.WarnContext(ctx, "failed to notify staff of new message", "error", err, "message_id", msg.ID)
		}
	}

	return msg, nil
}

func (s *messageService) ListMessages(ctx context.Context) ([]domain.Message, error) {
	msgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

func (s *messageService) GetMessage(ctx context.Context, id int64) (*domain.Message, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}
	return msg, nil
}

func (s *messageService) MarkRead(ctx context.Context, id int64) (*domain.Message, error) {
	msg, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}
	return msg, nil
}
