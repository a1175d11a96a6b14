package repository

import (
	"context"
	"time"

	"morse-mastery/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// progressRepositoryImpl 学习进度数据访问层实现
type progressRepositoryImpl struct {
	db *gorm.DB
}

// NewProgressRepository 创建学习进度仓储实例
func NewProgressRepository(db *gorm.DB) IProgressRepository {
	return &progressRepositoryImpl{db: db}
}

// CompleteLesson 记录课程完成并累计积分
// 进度行 upsert，重复完成累计积分；统计行同事务更新
func (r *progressRepositoryImpl) CompleteLesson(ctx context.Context, userID uint, lessonID string, points int) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress := &model.Progress{
			UserID:        userID,
			LessonID:      lessonID,
			Completed:     true,
			Points:        points,
			LastCompleted: now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"completed":      true,
				"points":         gorm.Expr("points + ?", points),
				"last_completed": now,
			}),
		}).Create(progress).Error; err != nil {
			return err
		}

		return tx.Model(&model.UserStats{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"total_points": gorm.Expr("total_points + ?", points),
				"last_active":  now,
			}).Error
	})
	return WrapDBError(err)
}

func (r *progressRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Progress, error) {
	var rows []*model.Progress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_completed DESC").
		Find(&rows).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return rows, nil
}

func (r *progressRepositoryImpl) GetStats(ctx context.Context, userID uint) (*model.UserStats, error) {
	var stats model.UserStats
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&stats).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return &stats, nil
}

// InitStats 注册时初始化统计行，已存在则忽略
func (r *progressRepositoryImpl) InitStats(ctx context.Context, userID uint) error {
	stats := &model.UserStats{
		UserID:     userID,
		LastActive: time.Now(),
	}
	return WrapDBError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(stats).Error)
}

func (r *progressRepositoryImpl) CountCompleted(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Progress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, WrapDBError(err)
	}
	return count, nil
}
