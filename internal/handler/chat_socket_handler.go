package handler

import (
	"context"
	"encoding/json"

	"data-explorer-be/internal/dto"
	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/internal/pkg/serverutils"
	"data-explorer-be/internal/service"
	internalWS "data-explorer-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// SocketMessage is one outbound frame on the chat socket.
type SocketMessage struct {
	Type    string        `json:"type"`
	Code    int           `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
	Data    *dto.ChatView `json:"data,omitempty"`
}

// ChatSocketHandler runs chat questions that arrive over a websocket and
// pushes the updated chat view to every socket of the session.
type ChatSocketHandler struct {
	page   service.IPageService
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewChatSocketHandler(page service.IPageService, hub *internalWS.Hub, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		page:   page,
		hub:    hub,
		logger: log,
	}
}

func (h *ChatSocketHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chat/ws", h.ServeWs)
}

func (h *ChatSocketHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	sessionID := serverutils.SessionID(c)
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("websocket", "chat socket opened", map[string]interface{}{"session_id": sessionID.String()})
		internalWS.ServeWs(h.hub, conn, sessionID, func(_ *internalWS.Client, payload []byte) {
			h.onQuestion(sessionID, func(name string) string { return conn.Cookies(name) }, payload)
		})
		h.logger.Info("websocket", "chat socket closed", map[string]interface{}{"session_id": sessionID.String()})
	})(c)
}

func (h *ChatSocketHandler) onQuestion(sessionID uuid.UUID, cookie func(string) string, payload []byte) {
	var req dto.AskRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		h.hub.Send(sessionID, SocketMessage{Type: "error", Code: fiber.StatusBadRequest, Message: "malformed message"})
		return
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		h.hub.Send(sessionID, SocketMessage{Type: "error", Code: fiber.StatusBadRequest, Message: err.Error()})
		return
	}

	// the socket outlives any single request context
	res, err := h.page.Handle(context.Background(), service.Request{
		SessionID: sessionID,
		Cookie:    cookie,
		Event:     service.AskEvent{Question: req.Question},
	})
	switch {
	case err != nil:
		code := serverutils.StatusFor(err)
		if code == fiber.StatusInternalServerError {
			h.logger.Error("websocket", "chat question failed", map[string]interface{}{
				"session_id": sessionID.String(),
				"error":      err.Error(),
			})
		}
		h.hub.Send(sessionID, SocketMessage{Type: "error", Code: code, Message: err.Error()})
	case res.Denied:
		h.hub.Send(sessionID, SocketMessage{Type: "error", Code: fiber.StatusUnauthorized, Message: service.ErrNotAuthenticated.Error()})
	default:
		h.hub.Send(sessionID, SocketMessage{Type: "chat", Data: res.View.Chat})
	}
}
