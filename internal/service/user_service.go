package service

import (
	"context"
	"errors"
	"strconv"

	"morse-mastery/internal/model"
	"morse-mastery/internal/repository"
	"morse-mastery/pkg/jwt"
	"morse-mastery/pkg/logger"
	"morse-mastery/pkg/password"

	"go.uber.org/zap"
)

// UserService 用户注册、登录与资料业务逻辑
type UserService struct {
	userRepo     repository.IUserRepository
	progressRepo repository.IProgressRepository
	jwtService   *jwt.JWTService
}

// NewUserService 创建用户服务实例
func NewUserService(userRepo repository.IUserRepository, progressRepo repository.IProgressRepository, jwtService *jwt.JWTService) *UserService {
	return &UserService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		jwtService:   jwtService,
	}
}

// UserProfile 用户资料聚合视图
type UserProfile struct {
	User            *model.User      `json:"user"`
	Stats           *model.UserStats `json:"stats"`
	LessonsComplete int64            `json:"lessons_complete"`
}

// Register 注册新用户并初始化学习统计
func (s *UserService) Register(ctx context.Context, username, email, plainPassword string) (*model.User, string, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Status:       "offline",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}

	if err := s.progressRepo.InitStats(ctx, user.ID); err != nil {
		logger.Error("初始化用户统计失败",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	logger.Info("用户注册成功",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username))
	return user, token, nil
}

// Login 用户名或邮箱登录
func (s *UserService) Login(ctx context.Context, identifier, plainPassword string) (*model.User, string, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !password.Verify(plainPassword, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	logger.Info("用户登录成功",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username))
	return user, token, nil
}

// Profile 查询用户资料，附带学习统计与已完成课程数
func (s *UserService) Profile(ctx context.Context, userID uint) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile := &UserProfile{User: user}

	stats, err := s.progressRepo.GetStats(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, err
	}
	profile.Stats = stats

	count, err := s.progressRepo.CountCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.LessonsComplete = count

	return profile, nil
}

// UpdateStatus 更新用户在线状态
func (s *UserService) UpdateStatus(ctx context.Context, userID uint, status string) error {
	return s.userRepo.UpdateStatus(ctx, userID, status)
}

// SearchFriends 在好友中搜索用户
func (s *UserService) SearchFriends(ctx context.Context, userID uint, query string, limit int) ([]*repository.UserSearchRow, error) {
	if query == "" {
		return []*repository.UserSearchRow{}, nil
	}
	return s.userRepo.SearchFriends(ctx, userID, query, limit)
}

// SearchAll 搜索全部用户，结果带与当前用户的好友关系状态
func (s *UserService) SearchAll(ctx context.Context, userID uint, query string, limit int) ([]*repository.UserSearchRow, error) {
	if query == "" {
		return []*repository.UserSearchRow{}, nil
	}
	return s.userRepo.SearchAll(ctx, userID, query, limit)
}

func (s *UserService) generateToken(user *model.User) (string, error) {
	return s.jwtService.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), map[string]interface{}{
		"username": user.Username,
	})
}
