package service

import (
	"context"
	"errors"
	"time"

	"morse-mastery/internal/model"
	"morse-mastery/internal/repository"
	"morse-mastery/pkg/logger"
	"morse-mastery/pkg/morse"
	"morse-mastery/pkg/redis"

	"go.uber.org/zap"
)

// ChatService 会话与消息业务逻辑
type ChatService struct {
	convRepo repository.IConversationRepository
	userRepo repository.IUserRepository
}

// NewChatService 创建聊天服务实例
func NewChatService(convRepo repository.IConversationRepository, userRepo repository.IUserRepository) *ChatService {
	return &ChatService{
		convRepo: convRepo,
		userRepo: userRepo,
	}
}

// GetOrCreateConversation 查找或创建与指定用户的单聊会话
// 幂等：同一对用户始终返回同一个会话 ID
func (s *ChatService) GetOrCreateConversation(ctx context.Context, userID, otherID uint) (uint, bool, error) {
	if userID == otherID {
		return 0, false, ErrSelfRequest
	}

	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return 0, false, ErrNotFound
		}
		return 0, false, err
	}

	convID, created, err := s.convRepo.GetOrCreateDirect(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return 0, false, ErrConflict
		}
		return 0, false, err
	}
	if created {
		logger.Info("新建会话",
			zap.Uint("conversation_id", convID),
			zap.Uint("user_id", userID),
			zap.Uint("other_id", otherID))
		redis.InvalidateConversations(userID, otherID)
	}
	return convID, created, nil
}

// ListConversations 用户的会话列表，优先走 Redis 缓存
func (s *ChatService) ListConversations(ctx context.Context, userID uint) ([]*repository.ConversationPreview, error) {
	if cached, err := redis.GetCachedConversations(userID); err == nil && cached != nil {
		previews := make([]*repository.ConversationPreview, 0, len(cached))
		for _, c := range cached {
			p := &repository.ConversationPreview{
				ConversationID: c.ConversationID,
				IsGroup:        c.IsGroup,
				OtherUserID:    c.OtherUserID,
				OtherUsername:  c.OtherUsername,
				LastMessage:    c.LastMessage,
			}
			if !c.LastMessageAt.IsZero() {
				t := c.LastMessageAt
				p.LastMessageAt = &t
			}
			previews = append(previews, p)
		}
		return previews, nil
	}

	previews, err := s.convRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cached := make([]redis.CachedConversation, 0, len(previews))
	for _, p := range previews {
		c := redis.CachedConversation{
			ConversationID: p.ConversationID,
			IsGroup:        p.IsGroup,
			OtherUserID:    p.OtherUserID,
			OtherUsername:  p.OtherUsername,
			LastMessage:    p.LastMessage,
		}
		if p.LastMessageAt != nil {
			c.LastMessageAt = *p.LastMessageAt
		}
		cached = append(cached, c)
	}
	redis.CacheConversations(userID, cached)

	return previews, nil
}

// ListMessages 会话历史消息，仅参与者可见
func (s *ChatService) ListMessages(ctx context.Context, convID, userID uint) ([]*repository.MessageRow, error) {
	ok, err := s.convRepo.IsParticipant(ctx, convID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return s.convRepo.ListMessages(ctx, convID)
}

// SendMessage 持久化消息，明文与摩尔斯码同存
func (s *ChatService) SendMessage(ctx context.Context, convID, senderID uint, text string) (*repository.MessageRow, error) {
	ok, err := s.convRepo.IsParticipant(ctx, convID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Content:        text,
		Morse:          morse.TextToMorse(text),
	}
	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	// 新消息改变了会话预览，参与者的缓存全部失效
	if participants, err := s.convRepo.Participants(ctx, convID); err == nil {
		redis.InvalidateConversations(participants...)
	}

	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &repository.MessageRow{
		ID:             msg.ID,
		ConversationID: convID,
		SenderID:       senderID,
		SenderName:     sender.Username,
		Text:           msg.Content,
		Morse:          msg.Morse,
		CreatedAt:      createdAt,
	}, nil
}

// Participants 会话参与者，websocket 广播用
func (s *ChatService) Participants(ctx context.Context, convID uint) ([]uint, error) {
	return s.convRepo.Participants(ctx, convID)
}

// IsParticipant 校验用户是否在会话中
func (s *ChatService) IsParticipant(ctx context.Context, convID, userID uint) (bool, error) {
	return s.convRepo.IsParticipant(ctx, convID, userID)
}
