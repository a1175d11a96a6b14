package service

import (
	"context"
	"errors"

	"morse-mastery/internal/model"
	"morse-mastery/internal/repository"
	"morse-mastery/pkg/logger"

	"go.uber.org/zap"
)

// FriendService 好友关系业务逻辑
type FriendService struct {
	friendRepo repository.IFriendRepository
	userRepo   repository.IUserRepository
}

// NewFriendService 创建好友服务实例
func NewFriendService(friendRepo repository.IFriendRepository, userRepo repository.IUserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendRequest 发起好友请求
// 对方已向我发过待处理请求时直接互相接受，返回最终状态 pending 或 accepted
func (s *FriendService) SendRequest(ctx context.Context, from, to uint) (string, error) {
	if from == to {
		return "", ErrSelfRequest
	}

	if _, err := s.userRepo.GetByID(ctx, to); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	edges, err := s.friendRepo.GetBetween(ctx, from, to)
	if err != nil {
		return "", err
	}

	var forward, reverse *model.FriendEdge
	for _, edge := range edges {
		if edge.Status == model.FriendStatusAccepted {
			return "", ErrRequestExists
		}
		if edge.RequesterID == from {
			forward = edge
		} else {
			reverse = edge
		}
	}

	// 对方先发了请求，视为互相同意
	if reverse != nil && reverse.Status == model.FriendStatusPending {
		if err := s.friendRepo.Accept(ctx, reverse.ID, reverse.RequesterID, reverse.TargetID); err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				return "", ErrConflict
			}
			return "", err
		}
		logger.Info("好友请求自动接受",
			zap.Uint("from", from),
			zap.Uint("to", to))
		return model.FriendStatusAccepted, nil
	}

	// 已有其他边（自己的待处理请求或任一方向的已拒绝记录）一律视为重复请求
	if forward != nil || reverse != nil {
		return "", ErrRequestExists
	}

	edge := &model.FriendEdge{
		RequesterID: from,
		TargetID:    to,
		Status:      model.FriendStatusPending,
	}
	if err := s.friendRepo.Create(ctx, edge); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return "", ErrRequestExists
		}
		return "", err
	}

	logger.Info("好友请求已发送",
		zap.Uint("from", from),
		zap.Uint("to", to))
	return model.FriendStatusPending, nil
}

// Respond 处理收到的好友请求，仅请求的接收方可操作
func (s *FriendService) Respond(ctx context.Context, requestID, actingUserID uint, accept bool) error {
	edge, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	// 非接收方不暴露请求的存在
	if edge.TargetID != actingUserID {
		return ErrNotFound
	}
	if edge.Status != model.FriendStatusPending {
		return ErrConflict
	}

	if accept {
		err = s.friendRepo.Accept(ctx, edge.ID, edge.RequesterID, edge.TargetID)
	} else {
		err = s.friendRepo.Decline(ctx, edge.ID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrConflict
		}
		return err
	}

	logger.Info("好友请求已处理",
		zap.Uint("request_id", requestID),
		zap.Bool("accepted", accept))
	return nil
}

// Remove 删除好友，幂等：不存在关系时同样成功
func (s *FriendService) Remove(ctx context.Context, userID, otherID uint) error {
	if userID == otherID {
		return ErrSelfRequest
	}
	return s.friendRepo.DeleteBetween(ctx, userID, otherID)
}

// ListFriends 已接受的好友列表
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]*repository.FriendRow, error) {
	return s.friendRepo.ListFriends(ctx, userID)
}

// ListPending 收到的待处理请求
func (s *FriendService) ListPending(ctx context.Context, userID uint) ([]*repository.FriendRequestRow, error) {
	return s.friendRepo.ListPending(ctx, userID)
}

// ListSent 发出的待处理请求
func (s *FriendService) ListSent(ctx context.Context, userID uint) ([]*repository.FriendRequestRow, error) {
	return s.friendRepo.ListSent(ctx, userID)
}
