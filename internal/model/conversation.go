package model

import (
	"fmt"
	"time"
)

// Conversation 会话
// 单聊会话（IsGroup=false）在任意无序用户对 {A,B} 上至多存在一个
// PairKey 为 "min:max" 形式的唯一键，作为并发创建时的数据库层兜底
// 群聊会话 PairKey 为 NULL，不受该约束

type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	IsGroup   bool      `gorm:"not null;default:false;comment:是否群聊"`
	PairKey   *string   `gorm:"type:varchar(64);uniqueIndex;comment:单聊无序对唯一键"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (Conversation) TableName() string { return "conversation" }

// DirectPairKey 生成单聊会话的无序对唯一键（小ID在前）
func DirectPairKey(userA, userB uint) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%d:%d", userA, userB)
}

// ConversationParticipant 会话成员
// 读写消息前必须校验成员资格

type ConversationParticipant struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID uint      `gorm:"not null;uniqueIndex:idx_conv_user;comment:会话ID"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_conv_user;index;comment:用户ID"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
}

func (ConversationParticipant) TableName() string { return "conversation_participant" }
