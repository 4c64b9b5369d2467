package handlers

import (
	"oscar/internal/dto"
	"oscar/internal/oscar"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Assistant is the read-only view of the knowledge engine the HTTP layer uses.
type Assistant interface {
	Respond(query string) oscar.Reply
	FindRelevantKnowledge(query string) []oscar.MatchResult
	Suggestions() []string
	Topics() []oscar.Topic
}

type OscarHandler struct {
	assistant Assistant
	logger    *zap.Logger
}

func NewOscarHandler(assistant Assistant, logger *zap.Logger) *OscarHandler {
	return &OscarHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// Respond godoc
// @Summary One-shot answer
// @Description Answer a query without a session. Any string is accepted, including an empty one.
// @Tags oscar
// @Accept json
// @Produce json
// @Param request body dto.RespondRequest true "Query"
// @Success 200 {object} dto.RespondResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/oscar/respond [post]
func (h *OscarHandler) Respond(c *fiber.Ctx) error {
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	reply := h.assistant.Respond(req.Query)
	h.logger.Debug("Stateless reply", zap.String("kind", string(reply.Kind)))

	return c.JSON(dto.RespondResponse{
		Response:    reply.Text,
		Kind:        string(reply.Kind),
		Category:    reply.Category,
		Subcategory: reply.Subcategory,
	})
}

// Matches godoc
// @Summary Ranked knowledge matches
// @Description Every fact the query hits with its score, highest first
// @Tags oscar
// @Produce json
// @Param q query string false "Query"
// @Success 200 {array} oscar.MatchResult
// @Router /api/v1/oscar/matches [get]
func (h *OscarHandler) Matches(c *fiber.Ctx) error {
	return c.JSON(h.assistant.FindRelevantKnowledge(c.Query("q")))
}

// Suggestions godoc
// @Summary Suggested questions
// @Tags oscar
// @Produce json
// @Success 200 {array} string
// @Router /api/v1/oscar/suggestions [get]
func (h *OscarHandler) Suggestions(c *fiber.Ctx) error {
	suggestions := h.assistant.Suggestions()
	if suggestions == nil {
		suggestions = []string{}
	}
	return c.JSON(suggestions)
}

// Topics godoc
// @Summary Knowledge topics
// @Description Categories with their subcategories and fact counts
// @Tags oscar
// @Produce json
// @Success 200 {array} oscar.Topic
// @Router /api/v1/oscar/topics [get]
func (h *OscarHandler) Topics(c *fiber.Ctx) error {
	return c.JSON(h.assistant.Topics())
}
