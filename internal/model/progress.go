package model

import (
	"time"
)

// Progress 课程进度
// (UserID, LessonID) 组合唯一，重复完成时累加积分（Upsert）

type Progress struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_lesson;comment:用户ID"`
	LessonID      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_lesson;comment:课程ID"`
	Completed     bool      `gorm:"not null;default:false;comment:是否完成"`
	Points        int       `gorm:"not null;default:0;comment:累计积分"`
	LastCompleted time.Time `gorm:"comment:最近完成日期"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

func (Progress) TableName() string { return "progress" }

// UserStats 用户学习统计
// 注册时初始化一行，完成课程时累加积分

type UserStats struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex;comment:用户ID"`
	TotalPoints  int       `gorm:"not null;default:0;comment:总积分"`
	StreakDays   int       `gorm:"not null;default:0;comment:连续学习天数"`
	CurrentLevel int       `gorm:"not null;default:1;comment:当前等级"`
	LastActive   time.Time `gorm:"comment:最近活跃日期"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (UserStats) TableName() string { return "user_stats" }
