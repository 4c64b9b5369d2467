package handlers

import (
	"errors"

	"oscar/internal/dto"
	"oscar/internal/service"
	"oscar/pkg/auth"
	"oscar/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	jwtManager  *auth.JWTManager
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, jwtManager *auth.JWTManager, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

// StartSession godoc
// @Summary Start a chat session
// @Description Open a conversation with OSCAR. Returns a bearer token for the session and OSCAR's greeting.
// @Tags chat
// @Produce json
// @Success 201 {object} dto.SessionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *ChatHandler) StartSession(c *fiber.Ctx) error {
	session, greeting, err := h.chatService.StartSession(c.Context())
	if err != nil {
		h.logger.Error("Failed to start session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to start session",
		})
	}

	token, err := h.jwtManager.GenerateToken(session.ID.String())
	if err != nil {
		h.logger.Error("Failed to issue session token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to start session",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SessionResponse{
		SessionID: session.ID.String(),
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.jwtManager.GetTokenDuration().Seconds()),
		Greeting:  dto.NewMessageResponse(greeting),
	})
}

// SendMessage godoc
// @Summary Ask OSCAR a question
// @Description Store the visitor's message and OSCAR's reply in the session history
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.SendMessageRequest true "Message"
// @Security Bearer
// @Success 201 {object} dto.SendMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/chat/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	sessionID, err := getSessionID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	question, answer, err := h.chatService.Ask(c.Context(), sessionID, req.Text)
	if err != nil {
		return h.chatError(c, err, "Failed to answer message")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SendMessageResponse{
		Question: dto.NewMessageResponse(question),
		Answer:   dto.NewMessageResponse(answer),
	})
}

// ListMessages godoc
// @Summary Conversation history
// @Description Messages of the current session, oldest first
// @Tags chat
// @Produce json
// @Param limit query int false "Limit" default(50)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/chat/messages [get]
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	sessionID, err := getSessionID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	messages, err := h.chatService.History(c.Context(), sessionID, limit, offset)
	if err != nil {
		return h.chatError(c, err, "Failed to list messages")
	}

	return c.JSON(dto.NewMessageResponses(messages))
}

func (h *ChatHandler) chatError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Message text is required"})
	case errors.Is(err, service.ErrMessageTooLong):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Message is too long"})
	case errors.Is(err, service.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Session not found"})
	}
	h.logger.Error(fallback, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: fallback})
}

func getSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals(middleware.SessionIDKey).(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uuid.Parse(raw)
}
