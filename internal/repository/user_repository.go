package repository

import (
	"context"

	"morse-mastery/internal/model"

	"gorm.io/gorm"
)

// userRepositoryImpl 用户数据访问层实现
type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB) IUserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *model.User) error {
	return WrapDBError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &u, nil
}

func (r *userRepositoryImpl) GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&u).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return &u, nil
}

func (r *userRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status string) error {
	return WrapDBError(r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("status", status).Error)
}

// SearchFriends 在好友范围内按用户名模糊搜索
func (r *userRepositoryImpl) SearchFriends(ctx context.Context, userID uint, query string, limit int) ([]*UserSearchRow, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []*UserSearchRow
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("DISTINCT user.id AS user_id, user.username").
		Joins("JOIN friend_edge f ON f.requester_id = ? AND f.target_id = user.id AND f.status = ?",
			userID, model.FriendStatusAccepted).
		Where("user.username LIKE ? AND user.id <> ?", "%"+query+"%", userID).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return rows, nil
}

// SearchAll 全体用户范围模糊搜索，附带与当前用户的好友关系状态
// LEFT JOIN 双向边：任一方向存在关系即带出状态与发起方
func (r *userRepositoryImpl) SearchAll(ctx context.Context, userID uint, query string, limit int) ([]*UserSearchRow, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []*UserSearchRow
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("user.id AS user_id, user.username, f.status AS friendship_status, f.requester_id").
		Joins(`LEFT JOIN friend_edge f ON
			(f.requester_id = ? AND f.target_id = user.id) OR
			(f.requester_id = user.id AND f.target_id = ?)`, userID, userID).
		Where("user.username LIKE ? AND user.id <> ?", "%"+query+"%", userID).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return rows, nil
}
