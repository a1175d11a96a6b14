package handler

import (
	"strconv"

	"morse-mastery/internal/service"
	"morse-mastery/pkg/jwt"
	"morse-mastery/pkg/response"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	service *service.FriendService
}

func NewFriendHandler(s *service.FriendService) *FriendHandler {
	return &FriendHandler{service: s}
}

// SendRequest 发起好友请求
// 对方已向我发过请求时直接成为好友，响应status区分两种结果
func (h *FriendHandler) SendRequest(c *gin.Context) {
	type req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := jwt.GetUserIDUint(c)
	status, err := h.service.SendRequest(c.Request.Context(), userID, r.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithMessage(c, "friend request sent", gin.H{"status": status})
}

// Respond 接受或拒绝收到的好友请求
func (h *FriendHandler) Respond(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || requestID == 0 {
		response.BadRequest(c, "invalid request id")
		return
	}

	type req struct {
		Action string `json:"action" binding:"required,oneof=accept decline"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := jwt.GetUserIDUint(c)
	accept := r.Action == "accept"
	if err := h.service.Respond(c.Request.Context(), uint(requestID), userID, accept); err != nil {
		handleServiceError(c, err)
		return
	}
	msg := "friend request declined"
	if accept {
		msg = "friend request accepted"
	}
	response.SuccessWithMessage(c, msg, nil)
}

// Remove 删除好友
func (h *FriendHandler) Remove(c *gin.Context) {
	otherID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || otherID == 0 {
		response.BadRequest(c, "invalid user id")
		return
	}

	userID := jwt.GetUserIDUint(c)
	if err := h.service.Remove(c.Request.Context(), userID, uint(otherID)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithMessage(c, "friend removed", nil)
}

// List 好友列表
func (h *FriendHandler) List(c *gin.Context) {
	userID := jwt.GetUserIDUint(c)
	rows, err := h.service.ListFriends(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, rows)
}

// ListPending 收到的待处理请求
func (h *FriendHandler) ListPending(c *gin.Context) {
	userID := jwt.GetUserIDUint(c)
	rows, err := h.service.ListPending(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, rows)
}

// ListSent 发出的待处理请求
func (h *FriendHandler) ListSent(c *gin.Context) {
	userID := jwt.GetUserIDUint(c)
	rows, err := h.service.ListSent(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, rows)
}
