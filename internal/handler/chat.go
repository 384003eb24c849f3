package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MarcoBenedictus/GameSuite/internal/chat"
	"github.com/MarcoBenedictus/GameSuite/internal/model"
	"github.com/MarcoBenedictus/GameSuite/internal/repository"
)

// ChatHandler serves chat history, the assistant endpoint and the live
// websocket attach point.
type ChatHandler struct {
	Messages *repository.ChatRepo
	Hub      *chat.Hub
	AI       *chat.AIClient // nil when no API key is configured
}

func NewChatHandler(m *repository.ChatRepo, hub *chat.Hub, ai *chat.AIClient) *ChatHandler {
	return &ChatHandler{Messages: m, Hub: hub, AI: ai}
}

type chatMessagePart struct {
	ID        uint64    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func chatView(m model.ChatMessage) chatMessagePart {
	return chatMessagePart{ID: m.ID, Sender: m.Sender, Recipient: m.Recipient, Body: m.Body, CreatedAt: m.CreatedAt}
}

// History returns the caller's conversation with ?with=admin or ?with=ai.
// Admins may pass ?with=<username> to read a support thread.
func (h *ChatHandler) History(c echo.Context) error {
	user := username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	peer := strings.TrimSpace(c.QueryParam("with"))
	if peer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "with query param required"})
	}

	role, _ := c.Get("role").(string)
	a, b := user, peer
	if role == "ADMIN" {
		// An admin reads the thread between a user and the inbox.
		a, b = model.RecipientAdmin, peer
	} else if peer != model.RecipientAdmin && peer != model.RecipientAI {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "with must be admin or ai"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Messages.History(ctx, a, b)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]chatMessagePart, 0, len(list))
	for _, m := range list {
		out = append(out, chatView(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": out})
}

type aiChatReq struct {
	Message string `json:"message"`
}

// AskAI persists the question, generates the assistant's answer with the
// prior conversation as context, persists the answer and returns it.
func (h *ChatHandler) AskAI(c echo.Context) error {
	user := username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.AI == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "assistant is not configured"})
	}
	var req aiChatReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
	}
	msg := strings.TrimSpace(req.Message)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	history, err := h.Messages.History(ctx, user, model.RecipientAI)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if _, err := h.Messages.Insert(ctx, user, model.RecipientAI, msg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save message failed"})
	}

	answer, err := h.AI.Reply(ctx, history, msg)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "assistant unavailable"})
	}
	if _, err := h.Messages.Insert(ctx, model.RecipientAI, user, answer); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save message failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"reply": answer})
}

// ClearAI deletes the caller's whole assistant conversation.
func (h *ChatHandler) ClearAI(c echo.Context) error {
	user := username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Messages.ClearAIConversation(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

// Attach upgrades to a websocket and joins the live support chat.
func (h *ChatHandler) Attach(c echo.Context) error {
	user := username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)
	return h.Hub.ServeWS(c.Response(), c.Request(), user, role == "ADMIN")
}
