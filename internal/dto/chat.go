package dto

import (
	"time"

	"oscar/internal/models"
)

type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsBot     bool   `json:"is_bot"`
	Timestamp string `json:"timestamp"`
}

type SendMessageResponse struct {
	Question MessageResponse `json:"question"`
	Answer   MessageResponse `json:"answer"`
}

type SessionResponse struct {
	SessionID string          `json:"session_id"`
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresIn int64           `json:"expires_in"`
	Greeting  MessageResponse `json:"greeting"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewMessageResponse(msg *models.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID.String(),
		Text:      msg.Text,
		IsBot:     msg.IsBot,
		Timestamp: msg.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func NewMessageResponses(msgs []*models.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, NewMessageResponse(msg))
	}
	return out
}
