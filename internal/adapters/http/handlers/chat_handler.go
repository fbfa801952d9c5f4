package handlers

import (
	"homework-desk/internal/adapters/http/middleware"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles messaging between students and the owner
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Send posts a text message or an attachment
// @Summary Send message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SendInput true "Message"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 413 {object} response.Response
// @Router /chat/messages [post]
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req services.SendInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	msg, err := h.chatService.Send(c.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		return fail(c, err, "Failed to send message")
	}
	return response.Created(c, "Message sent", msg)
}

// Conversation lists the messages with one counterpart
// @Summary Conversation
// @Description Students always talk to the owner; the owner passes the student ID in `with`.
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param with query string false "Counterpart user ID"
// @Success 200 {object} response.Response
// @Router /chat/messages [get]
func (h *ChatHandler) Conversation(c *fiber.Ctx) error {
	msgs, err := h.chatService.Conversation(c.Context(), middleware.CurrentUser(c), c.Query("with"))
	if err != nil {
		return fail(c, err, "Failed to get conversation")
	}
	return response.Success(c, "Conversation retrieved successfully", msgs)
}

// MarkRead marks the counterpart's messages to the caller as read
// @Summary Mark conversation read
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param with query string false "Counterpart user ID"
// @Success 200 {object} response.Response
// @Router /chat/read [post]
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	n, err := h.chatService.MarkRead(c.Context(), middleware.CurrentUser(c), c.Query("with"))
	if err != nil {
		return fail(c, err, "Failed to mark messages read")
	}
	return response.Success(c, "Messages marked read", fiber.Map{"updated": n})
}

// Unread counts the caller's unread messages
// @Summary Unread count
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /chat/unread [get]
func (h *ChatHandler) Unread(c *fiber.Ctx) error {
	n, err := h.chatService.UnreadCount(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err, "Failed to count unread messages")
	}
	return response.Success(c, "Unread count retrieved", fiber.Map{"unread": n})
}

// Inbox lists the owner's conversations
// @Summary Owner inbox
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or phone filter"
// @Success 200 {object} response.Response
// @Router /owner/chat/inbox [get]
func (h *ChatHandler) Inbox(c *fiber.Ctx) error {
	entries, err := h.chatService.Inbox(c.Context(), c.Query("search"))
	if err != nil {
		return fail(c, err, "Failed to get inbox")
	}
	return response.Success(c, "Inbox retrieved successfully", entries)
}
