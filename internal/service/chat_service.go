package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"oscar/internal/models"
	"oscar/internal/oscar"
	"oscar/internal/repository"
	"oscar/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrMessageTooLong  = errors.New("message is too long")
)

type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}

type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*models.Message, error)
}

// Responder is the part of *oscar.Engine the chat needs.
type Responder interface {
	Respond(query string) oscar.Reply
	Greeting() string
	Suggestions() []string
}

// ChatService keeps conversation history around the stateless responder.
type ChatService struct {
	responder Responder
	sessions  SessionStore
	messages  MessageStore
	config    *config.ChatConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewChatService(
	responder Responder,
	sessions SessionStore,
	messages MessageStore,
	cfg *config.ChatConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		responder: responder,
		sessions:  sessions,
		messages:  messages,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// StartSession opens a conversation with a greeting from OSCAR.
func (s *ChatService) StartSession(ctx context.Context) (*models.Session, *models.Message, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.New(),
		CreatedAt: now,
		LastSeen:  now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	greeting := s.newMessage(session.ID, s.responder.Greeting(), true, now)
	if err := s.messages.Create(ctx, greeting); err != nil {
		return nil, nil, fmt.Errorf("failed to store greeting: %w", err)
	}

	s.logger.Info("Chat session started", zap.String("session_id", session.ID.String()))
	return session, greeting, nil
}

// Ask records the visitor's question and OSCAR's answer.
func (s *ChatService) Ask(ctx context.Context, sessionID uuid.UUID, text string) (*models.Message, *models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > s.config.MaxMessageLength {
		return nil, nil, ErrMessageTooLong
	}
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return nil, nil, err
	}

	question := s.newMessage(sessionID, text, false, s.now())
	if err := s.messages.Create(ctx, question); err != nil {
		return nil, nil, fmt.Errorf("failed to store question: %w", err)
	}

	reply := s.responder.Respond(text)

	answeredAt := s.now()
	answer := s.newMessage(sessionID, reply.Text, true, answeredAt)
	if err := s.messages.Create(ctx, answer); err != nil {
		return nil, nil, fmt.Errorf("failed to store answer: %w", err)
	}

	if err := s.sessions.Touch(ctx, sessionID, answeredAt); err != nil {
		s.logger.Warn("Failed to update session activity", zap.String("session_id", sessionID.String()), zap.Error(err))
	}

	fields := []zap.Field{
		zap.String("session_id", sessionID.String()),
		zap.String("kind", string(reply.Kind)),
	}
	if reply.Kind == oscar.ReplyKnowledge {
		fields = append(fields,
			zap.String("category", reply.Category),
			zap.String("subcategory", reply.Subcategory),
			zap.Int("shown", reply.Shown),
			zap.Int("total", reply.Total),
		)
	}
	s.logger.Info("Question answered", fields...)

	return question, answer, nil
}

// History returns a page of the conversation, oldest first. Limits outside
// (0, HistoryLimit] are clamped to HistoryLimit.
func (s *ChatService) History(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.config.HistoryLimit {
		limit = s.config.HistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.messages.ListBySession(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *ChatService) Suggestions() []string {
	return s.responder.Suggestions()
}

func (s *ChatService) ensureSession(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	return nil
}

func (s *ChatService) newMessage(sessionID uuid.UUID, text string, isBot bool, at time.Time) *models.Message {
	// v7 ids sort by creation time, which keeps a question ahead of its answer
	// when both land on the same timestamp.
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &models.Message{
		ID:        id,
		SessionID: sessionID,
		Text:      sanitizeUTF8(text),
		IsBot:     isBot,
		CreatedAt: at,
	}
}
