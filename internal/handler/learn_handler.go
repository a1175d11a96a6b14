package handler

import (
	"morse-mastery/internal/service"
	"morse-mastery/pkg/jwt"
	"morse-mastery/pkg/response"

	"github.com/gin-gonic/gin"
)

type LearnHandler struct {
	service *service.LearnService
}

func NewLearnHandler(s *service.LearnService) *LearnHandler {
	return &LearnHandler{service: s}
}

// ListModules 课程目录与当前用户完成状态
func (h *LearnHandler) ListModules(c *gin.Context) {
	userID := jwt.GetUserIDUint(c)
	modules, err := h.service.ListModules(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, modules)
}

// CompleteLesson 上报课程完成并入账积分
func (h *LearnHandler) CompleteLesson(c *gin.Context) {
	type req struct {
		LessonID string `json:"lesson_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := jwt.GetUserIDUint(c)
	lesson, err := h.service.CompleteLesson(c.Request.Context(), userID, r.LessonID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithMessage(c, "lesson completed", gin.H{
		"lesson_id":     lesson.ID,
		"points_earned": lesson.Points,
	})
}

// GetStats 学习统计
func (h *LearnHandler) GetStats(c *gin.Context) {
	userID := jwt.GetUserIDUint(c)
	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, stats)
}
