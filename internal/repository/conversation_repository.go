package repository

import (
	"context"
	"errors"
	"sort"

	"morse-mastery/internal/model"

	"gorm.io/gorm"
)

// conversationRepositoryImpl 会话与消息数据访问层实现
type conversationRepositoryImpl struct {
	db *gorm.DB
}

// NewConversationRepository 创建会话仓储实例
func NewConversationRepository(db *gorm.DB) IConversationRepository {
	return &conversationRepositoryImpl{db: db}
}

// GetOrCreateDirect 查找或创建两个用户之间的单聊会话
// 事务内先查后建，pair_key 唯一约束兜底并发竞争；撞唯一键时重试一次读取
func (r *conversationRepositoryImpl) GetOrCreateDirect(ctx context.Context, a, b uint) (uint, bool, error) {
	id, err := r.findDirect(ctx, a, b)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return 0, false, err
	}

	pairKey := model.DirectPairKey(a, b)
	conv := &model.Conversation{IsGroup: false, PairKey: &pairKey}
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		participants := []model.ConversationParticipant{
			{ConversationID: conv.ID, UserID: a},
			{ConversationID: conv.ID, UserID: b},
		}
		return tx.Create(&participants).Error
	})
	if txErr == nil {
		return conv.ID, true, nil
	}
	if errors.Is(txErr, gorm.ErrDuplicatedKey) {
		// 并发对端先建成了，重读一次
		id, err := r.findDirect(ctx, a, b)
		if err != nil {
			// 重读也没拿到赢家记录，按唯一键冲突上抛
			if errors.Is(err, ErrRecordNotFound) {
				return 0, false, ErrDuplicateKey
			}
			return 0, false, err
		}
		return id, false, nil
	}
	return 0, false, WrapDBError(txErr)
}

func (r *conversationRepositoryImpl) findDirect(ctx context.Context, a, b uint) (uint, error) {
	pairKey := model.DirectPairKey(a, b)
	var conv model.Conversation
	err := r.db.WithContext(ctx).
		Where("pair_key = ?", pairKey).
		First(&conv).Error
	if err != nil {
		return 0, WrapDBError(err)
	}
	return conv.ID, nil
}

// ListForUser 查询用户参与的全部会话，带对端信息与最后一条消息预览
func (r *conversationRepositoryImpl) ListForUser(ctx context.Context, userID uint) ([]*ConversationPreview, error) {
	var rows []*ConversationPreview
	err := r.db.WithContext(ctx).
		Model(&model.ConversationParticipant{}).
		Select(`conversation_participant.conversation_id,
			c.is_group,
			other.user_id AS other_user_id,
			u.username AS other_username`).
		Joins("JOIN conversation c ON c.id = conversation_participant.conversation_id").
		Joins(`LEFT JOIN conversation_participant other ON
			other.conversation_id = conversation_participant.conversation_id AND
			other.user_id <> conversation_participant.user_id`).
		Joins("LEFT JOIN user u ON u.id = other.user_id").
		Where("conversation_participant.user_id = ?", userID).
		Order("conversation_participant.conversation_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}

	for _, row := range rows {
		var msg model.Message
		err := r.db.WithContext(ctx).
			Where("conversation_id = ?", row.ConversationID).
			Order("created_at DESC, id DESC").
			First(&msg).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, WrapDBError(err)
		}
		row.LastMessage = msg.Content
		t := msg.CreatedAt
		row.LastMessageAt = &t
	}

	// 最近有消息的会话排在前面，没有消息的按创建先后排在最后
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].LastMessageAt, rows[j].LastMessageAt
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		default:
			return false
		}
	})
	return rows, nil
}

func (r *conversationRepositoryImpl) IsParticipant(ctx context.Context, convID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Count(&count).Error
	if err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

func (r *conversationRepositoryImpl) Participants(ctx context.Context, convID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.ConversationParticipant{}).
		Where("conversation_id = ?", convID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return ids, nil
}

// ListMessages 按时间升序查询会话消息，带发送者用户名
func (r *conversationRepositoryImpl) ListMessages(ctx context.Context, convID uint) ([]*MessageRow, error) {
	var rows []*MessageRow
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Select(`message.id, message.conversation_id, message.sender_id,
			user.username AS sender_name, message.content AS text, message.morse, message.created_at`).
		Joins("JOIN user ON user.id = message.sender_id").
		Where("message.conversation_id = ?", convID).
		Order("message.created_at ASC, message.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return rows, nil
}

func (r *conversationRepositoryImpl) CreateMessage(ctx context.Context, msg *model.Message) error {
	return WrapDBError(r.db.WithContext(ctx).Create(msg).Error)
}
