package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/assistant/chatbot/dto"
	"edudbt_backend/internals/features/assistant/chatbot/service"
	helper "edudbt_backend/internals/helpers"
)

type ChatController struct {
	svc *service.ChatService
}

func NewChatController(svc *service.ChatService) *ChatController {
	return &ChatController{svc: svc}
}

// POST /api/chatbot/message
func (cc *ChatController) Message(c *fiber.Ctx) error {
	var req dto.MessageRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := cc.svc.Message(c.UserContext(), helper.GetPrincipal(c), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Reply generated", res)
}

// GET /api/chatbot/history/:sessionId
func (cc *ChatController) History(c *fiber.Ctx) error {
	m, err := cc.svc.History(c.UserContext(), helper.GetPrincipal(c), strings.TrimSpace(c.Params("sessionId")))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Chat history fetched", dto.HistoryFromModel(m))
}

// GET /api/chatbot/sessions
func (cc *ChatController) Sessions(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := cc.svc.Sessions(c.UserContext(), userID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Chat sessions fetched", dto.SummariesFromModels(rows))
}

// DELETE /api/chatbot/sessions/:sessionId
func (cc *ChatController) DeleteSession(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	sessionID := strings.TrimSpace(c.Params("sessionId"))
	if err := cc.svc.DeleteSession(c.UserContext(), userID, sessionID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Chat session deleted", fiber.Map{"session_id": sessionID})
}
