package service

import (
	"context"
	"errors"

	"morse-mastery/internal/learn"
	"morse-mastery/internal/model"
	"morse-mastery/internal/repository"
	"morse-mastery/pkg/logger"

	"go.uber.org/zap"
)

// LearnService 学习进度业务逻辑
type LearnService struct {
	progressRepo repository.IProgressRepository
}

// NewLearnService 创建学习服务实例
func NewLearnService(progressRepo repository.IProgressRepository) *LearnService {
	return &LearnService{progressRepo: progressRepo}
}

// ModuleProgress 模块目录与完成状态合并后的视图
type ModuleProgress struct {
	learn.Module
	Lessons []LessonProgress `json:"lessons"`
}

// LessonProgress 单课程与用户完成状态
type LessonProgress struct {
	learn.Lesson
	Completed    bool `json:"completed"`
	EarnedPoints int  `json:"earned_points"`
}

// ListModules 课程目录，叠加当前用户的完成状态
func (s *LearnService) ListModules(ctx context.Context, userID uint) ([]*ModuleProgress, error) {
	records, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[string]*model.Progress, len(records))
	for _, rec := range records {
		byLesson[rec.LessonID] = rec
	}

	catalogue := learn.Catalogue()
	result := make([]*ModuleProgress, 0, len(catalogue))
	for _, mod := range catalogue {
		mp := &ModuleProgress{Module: mod}
		mp.Module.Lessons = nil
		for _, lesson := range mod.Lessons {
			lp := LessonProgress{Lesson: lesson}
			if rec, ok := byLesson[lesson.ID]; ok {
				lp.Completed = rec.Completed
				lp.EarnedPoints = rec.Points
			}
			mp.Lessons = append(mp.Lessons, lp)
		}
		result = append(result, mp)
	}
	return result, nil
}

// CompleteLesson 记录课程完成，按课程定义的积分入账
func (s *LearnService) CompleteLesson(ctx context.Context, userID uint, lessonID string) (*learn.Lesson, error) {
	lesson := learn.FindLesson(lessonID)
	if lesson == nil {
		return nil, ErrNotFound
	}

	if err := s.progressRepo.CompleteLesson(ctx, userID, lessonID, lesson.Points); err != nil {
		return nil, err
	}

	logger.Info("课程完成",
		zap.Uint("user_id", userID),
		zap.String("lesson_id", lessonID),
		zap.Int("points", lesson.Points))
	return lesson, nil
}

// Stats 当前用户学习统计
func (s *LearnService) Stats(ctx context.Context, userID uint) (*model.UserStats, error) {
	stats, err := s.progressRepo.GetStats(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return stats, nil
}
