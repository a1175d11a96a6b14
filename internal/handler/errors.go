package handler

import (
	"errors"

	"morse-mastery/internal/service"
	"morse-mastery/pkg/response"

	"github.com/gin-gonic/gin"
)

// handleServiceError 业务错误统一映射为HTTP响应
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelfRequest):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrRequestExists), errors.Is(err, service.ErrUserExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c, "internal server error")
	}
}
