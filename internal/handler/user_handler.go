package handler

import (
	"strconv"

	"morse-mastery/internal/service"
	"morse-mastery/pkg/jwt"
	"morse-mastery/pkg/redis"
	"morse-mastery/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// Register 用户注册
func (h *UserHandler) Register(c *gin.Context) {
	type req struct {
		Username string `json:"username" binding:"required,min=3,max=32"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.service.Register(c.Request.Context(), r.Username, r.Email, r.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "registered", &response.RegisterResponse{
		User:        response.FilterUserInfo(user),
		AccessToken: token,
	})
}

// Login 用户登录，用户名或邮箱均可
func (h *UserHandler) Login(c *gin.Context) {
	type req struct {
		UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
		Password        string `json:"password" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.service.Login(c.Request.Context(), r.UsernameOrEmail, r.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "logged in", &response.LoginResponse{
		User:        response.FilterUserInfo(user),
		AccessToken: token,
	})
}

// GetProfile 当前用户资料与学习统计
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := jwt.GetUserIDUint(c)
	profile, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	data := gin.H{
		"user":             response.FilterUserInfo(profile.User),
		"stats":            profile.Stats,
		"lessons_complete": profile.LessonsComplete,
	}
	response.Success(c, data)
}

// Search 搜索用户
// scope=friends 只搜好友，默认搜全部用户并返回好友关系状态
func (h *UserHandler) Search(c *gin.Context) {
	userID := jwt.GetUserIDUint(c)
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if c.Query("scope") == "friends" {
		rows, err := h.service.SearchFriends(c.Request.Context(), userID, query, limit)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		response.Success(c, rows)
		return
	}

	rows, err := h.service.SearchAll(c.Request.Context(), userID, query, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, rows)
}

// GetOnlineUsers 当前在线用户列表
func (h *UserHandler) GetOnlineUsers(c *gin.Context) {
	userIDs, err := redis.GetOnlineUsers()
	if err != nil {
		response.InternalError(c, "failed to load online users")
		return
	}
	response.Success(c, gin.H{"online_user_ids": userIDs})
}
