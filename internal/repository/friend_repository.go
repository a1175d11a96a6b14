package repository

import (
	"context"
	"time"

	"morse-mastery/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// friendRepositoryImpl 好友关系数据访问层实现
type friendRepositoryImpl struct {
	db *gorm.DB
}

// NewFriendRepository 创建好友关系仓储实例
func NewFriendRepository(db *gorm.DB) IFriendRepository {
	return &friendRepositoryImpl{db: db}
}

// GetBetween 查询两个用户之间所有方向的关系边
func (r *friendRepositoryImpl) GetBetween(ctx context.Context, a, b uint) ([]*model.FriendEdge, error) {
	var edges []*model.FriendEdge
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)",
			a, b, b, a).
		Find(&edges).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return edges, nil
}

func (r *friendRepositoryImpl) GetByID(ctx context.Context, id uint) (*model.FriendEdge, error) {
	var edge model.FriendEdge
	if err := r.db.WithContext(ctx).First(&edge, id).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &edge, nil
}

func (r *friendRepositoryImpl) Create(ctx context.Context, edge *model.FriendEdge) error {
	return WrapDBError(r.db.WithContext(ctx).Create(edge).Error)
}

// Accept 接受请求：原边置为 accepted，并 upsert 反向 accepted 边
// 双向各一行，查询好友列表时只需单方向条件
func (r *friendRepositoryImpl) Accept(ctx context.Context, edgeID, requesterID, targetID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.FriendEdge{}).
			Where("id = ? AND status = ?", edgeID, model.FriendStatusPending).
			Update("status", model.FriendStatusAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		reverse := &model.FriendEdge{
			RequesterID: targetID,
			TargetID:    requesterID,
			Status:      model.FriendStatusAccepted,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "requester_id"}, {Name: "target_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     model.FriendStatusAccepted,
				"updated_at": time.Now(),
			}),
		}).Create(reverse).Error
	})
	return WrapDBError(err)
}

func (r *friendRepositoryImpl) Decline(ctx context.Context, edgeID uint) error {
	result := r.db.WithContext(ctx).
		Model(&model.FriendEdge{}).
		Where("id = ? AND status = ?", edgeID, model.FriendStatusPending).
		Update("status", model.FriendStatusDeclined)
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteBetween 删除两个用户之间的全部关系边，幂等
func (r *friendRepositoryImpl) DeleteBetween(ctx context.Context, a, b uint) error {
	return WrapDBError(r.db.WithContext(ctx).
		Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)",
			a, b, b, a).
		Delete(&model.FriendEdge{}).Error)
}

// ListFriends 查询已接受的好友列表，带用户名
func (r *friendRepositoryImpl) ListFriends(ctx context.Context, userID uint) ([]*FriendRow, error) {
	var rows []*FriendRow
	err := r.db.WithContext(ctx).
		Model(&model.FriendEdge{}).
		Select("friend_edge.target_id AS user_id, user.username, friend_edge.updated_at AS friends_since").
		Joins("JOIN user ON user.id = friend_edge.target_id").
		Where("friend_edge.requester_id = ? AND friend_edge.status = ?",
			userID, model.FriendStatusAccepted).
		Order("user.username ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return rows, nil
}

// ListPending 收到的待处理请求（当前用户为 target）
func (r *friendRepositoryImpl) ListPending(ctx context.Context, userID uint) ([]*FriendRequestRow, error) {
	var rows []*FriendRequestRow
	err := r.db.WithContext(ctx).
		Model(&model.FriendEdge{}).
		Select("friend_edge.id, friend_edge.requester_id AS user_id, user.username, friend_edge.created_at").
		Joins("JOIN user ON user.id = friend_edge.requester_id").
		Where("friend_edge.target_id = ? AND friend_edge.status = ?",
			userID, model.FriendStatusPending).
		Order("friend_edge.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return rows, nil
}

// ListSent 发出的待处理请求（当前用户为 requester）
func (r *friendRepositoryImpl) ListSent(ctx context.Context, userID uint) ([]*FriendRequestRow, error) {
	var rows []*FriendRequestRow
	err := r.db.WithContext(ctx).
		Model(&model.FriendEdge{}).
		Select("friend_edge.id, friend_edge.target_id AS user_id, user.username, friend_edge.created_at").
		Joins("JOIN user ON user.id = friend_edge.target_id").
		Where("friend_edge.requester_id = ? AND friend_edge.status = ?",
			userID, model.FriendStatusPending).
		Order("friend_edge.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return rows, nil
}
