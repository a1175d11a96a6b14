package model

import (
	"time"
)

// 好友关系状态
const (
	FriendStatusPending  = "pending"  // 等待对方处理
	FriendStatusAccepted = "accepted" // 已接受
	FriendStatusDeclined = "declined" // 已拒绝
)

// FriendEdge 好友关系（有向边）
// (RequesterID, TargetID) 组合唯一，冲突时走 Upsert 更新状态
// 已接受的好友关系用两条边表示（每个方向一条），这样"我的好友"只需单向扫描
// pending 状态只有一条边，归属于发起方

type FriendEdge struct {
	ID          uint      `gorm:"primaryKey"`
	RequesterID uint      `gorm:"not null;uniqueIndex:idx_requester_target;comment:发起方ID"`
	TargetID    uint      `gorm:"not null;uniqueIndex:idx_requester_target;index;comment:接收方ID"`
	Status      string    `gorm:"type:varchar(32);not null;default:'pending';comment:关系状态"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

func (FriendEdge) TableName() string { return "friend_edge" }
