package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sira/internal/models"
	"sira/internal/realtime"
	"sira/internal/services"
)

type ChatHandler struct {
	service *services.ChatService
	hub     *realtime.TaskHub
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func NewChatHandler(service *services.ChatService, hub *realtime.TaskHub) *ChatHandler {
	return &ChatHandler{service: service, hub: hub}
}

// @Summary      List my chats
// @Tags         Chat
// @Produce      json
// @Success      200  {array}  models.ChatSummary
// @Security     BearerAuth
// @Router       /chats [get]
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, _, _ := currentUser(c)
	chats, err := h.service.ListUserChats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if chats == nil {
		chats = []models.ChatSummary{}
	}
	c.JSON(http.StatusOK, chats)
}

// @Summary      Chat history for a task
// @Tags         Chat
// @Produce      json
// @Param        id      path   string  true   "Task ID"
// @Param        limit   query  int     false  "Page size"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {array}  models.ChatMessage
// @Security     BearerAuth
// @Router       /tasks/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, _, _ := currentUser(c)
	taskID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	messages, err := h.service.GetMessages(c.Request.Context(), taskID, userID, limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrNotChatMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a chat member"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, messages)
}

// @Summary      Send a chat message
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Security     BearerAuth
// @Router       /tasks/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, _, _ := currentUser(c)
	taskID := c.Param("id")
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.service.SendMessage(c.Request.Context(), taskID, userID, req.Body)
	if err != nil {
		if errors.Is(err, services.ErrNotChatMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a chat member"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.hub.Broadcast(msg)
	c.JSON(http.StatusCreated, msg)
}

// Stream upgrades to a websocket: incoming frames send messages, and
// every stored message on the task is fanned out to open connections.
func (h *ChatHandler) Stream(c *gin.Context) {
	userID, _, _ := currentUser(c)
	taskID := c.Param("id")

	ok, err := h.service.IsMember(c.Request.Context(), taskID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a chat member"})
		return
	}

	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		return
	}
	h.hub.Register(taskID, conn)
	defer h.hub.Unregister(taskID, conn)

	for {
		var incoming sendMessageRequest
		if err := conn.ReadJSON(&incoming); err != nil {
			break
		}
		msg, err := h.service.SendMessage(c.Request.Context(), taskID, userID, incoming.Body)
		if err != nil {
			_ = conn.WriteJSON(gin.H{"error": err.Error()})
			continue
		}
		h.hub.Broadcast(msg)
	}
}
