package handler

import (
	"strconv"

	"morse-mastery/internal/service"
	"morse-mastery/pkg/jwt"
	"morse-mastery/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service *service.ChatService
}

func NewChatHandler(s *service.ChatService) *ChatHandler {
	return &ChatHandler{service: s}
}

// GetOrCreateConversation 查找或创建与指定用户的单聊会话
func (h *ChatHandler) GetOrCreateConversation(c *gin.Context) {
	type req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := jwt.GetUserIDUint(c)
	convID, created, err := h.service.GetOrCreateConversation(c.Request.Context(), userID, r.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"conversation_id": convID,
		"created":         created,
	})
}

// ListConversations 当前用户的会话列表，带最后一条消息预览
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := jwt.GetUserIDUint(c)
	previews, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, previews)
}

// ListMessages 会话历史消息，按时间升序
func (h *ChatHandler) ListMessages(c *gin.Context) {
	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || convID == 0 {
		response.BadRequest(c, "invalid conversation id")
		return
	}

	userID := jwt.GetUserIDUint(c)
	rows, serviceErr := h.service.ListMessages(c.Request.Context(), uint(convID), userID)
	if serviceErr != nil {
		handleServiceError(c, serviceErr)
		return
	}
	response.Success(c, rows)
}

// SendMessage REST方式发消息，WebSocket不可用时的降级通道
func (h *ChatHandler) SendMessage(c *gin.Context) {
	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || convID == 0 {
		response.BadRequest(c, "invalid conversation id")
		return
	}

	type req struct {
		Text string `json:"text" binding:"required,max=2000"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := jwt.GetUserIDUint(c)
	row, serviceErr := h.service.SendMessage(c.Request.Context(), uint(convID), userID, r.Text)
	if serviceErr != nil {
		handleServiceError(c, serviceErr)
		return
	}
	response.Success(c, row)
}
