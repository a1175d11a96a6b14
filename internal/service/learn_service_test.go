package service

import (
	"context"
	"testing"

	"morse-mastery/internal/learn"
	"morse-mastery/internal/model"
	"morse-mastery/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProgressRepo struct {
	completeLessonFn func(ctx context.Context, userID uint, lessonID string, points int) error
	listByUserFn     func(ctx context.Context, userID uint) ([]*model.Progress, error)
	getStatsFn       func(ctx context.Context, userID uint) (*model.UserStats, error)
	initStatsFn      func(ctx context.Context, userID uint) error
	countCompletedFn func(ctx context.Context, userID uint) (int64, error)
}

var _ repository.IProgressRepository = (*fakeProgressRepo)(nil)

func (f *fakeProgressRepo) CompleteLesson(ctx context.Context, userID uint, lessonID string, points int) error {
	if f.completeLessonFn == nil {
		return nil
	}
	return f.completeLessonFn(ctx, userID, lessonID, points)
}

func (f *fakeProgressRepo) ListByUser(ctx context.Context, userID uint) ([]*model.Progress, error) {
	if f.listByUserFn == nil {
		return nil, nil
	}
	return f.listByUserFn(ctx, userID)
}

func (f *fakeProgressRepo) GetStats(ctx context.Context, userID uint) (*model.UserStats, error) {
	if f.getStatsFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getStatsFn(ctx, userID)
}

func (f *fakeProgressRepo) InitStats(ctx context.Context, userID uint) error {
	if f.initStatsFn == nil {
		return nil
	}
	return f.initStatsFn(ctx, userID)
}

func (f *fakeProgressRepo) CountCompleted(ctx context.Context, userID uint) (int64, error) {
	if f.countCompletedFn == nil {
		return 0, nil
	}
	return f.countCompletedFn(ctx, userID)
}

func TestLearnServiceCompleteLesson(t *testing.T) {
	t.Run("unknown_lesson", func(t *testing.T) {
		svc := NewLearnService(&fakeProgressRepo{})
		_, err := svc.CompleteLesson(context.Background(), 1, "no-such-lesson")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("known_lesson_awards_catalogue_points", func(t *testing.T) {
		want := learn.FindLesson("basics-1-quiz")
		require.NotNil(t, want)

		var gotLessonID string
		var gotPoints int
		svc := NewLearnService(&fakeProgressRepo{
			completeLessonFn: func(_ context.Context, userID uint, lessonID string, points int) error {
				assert.Equal(t, uint(1), userID)
				gotLessonID = lessonID
				gotPoints = points
				return nil
			},
		})

		lesson, err := svc.CompleteLesson(context.Background(), 1, "basics-1-quiz")
		require.NoError(t, err)
		assert.Equal(t, "basics-1-quiz", gotLessonID)
		assert.Equal(t, want.Points, gotPoints)
		assert.Equal(t, want.ID, lesson.ID)
	})
}

func TestLearnServiceListModules(t *testing.T) {
	svc := NewLearnService(&fakeProgressRepo{
		listByUserFn: func(_ context.Context, _ uint) ([]*model.Progress, error) {
			return []*model.Progress{
				{UserID: 1, LessonID: "basics-1-learn", Completed: true, Points: 10},
			}, nil
		},
	})

	modules, err := svc.ListModules(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, len(learn.Catalogue()), len(modules))

	var found bool
	for _, mod := range modules {
		for _, lesson := range mod.Lessons {
			if lesson.ID == "basics-1-learn" {
				found = true
				assert.True(t, lesson.Completed)
				assert.Equal(t, 10, lesson.EarnedPoints)
			} else {
				assert.False(t, lesson.Completed)
			}
		}
	}
	assert.True(t, found)
}
