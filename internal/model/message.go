package model

import (
	"time"
)

// Message 消息模型
// 创建后不可变，会话内按 CreatedAt 升序排列
// Morse 存储消息文本的摩尔斯编码，发送时由服务端生成

type Message struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID uint      `gorm:"not null;index;comment:会话ID"`
	SenderID       uint      `gorm:"not null;index;comment:发送者ID"`
	Content        string    `gorm:"type:text;not null;comment:消息内容"`
	Morse          string    `gorm:"type:text;comment:摩尔斯编码"`
	CreatedAt      time.Time `gorm:"index;comment:创建时间"`
}

func (Message) TableName() string { return "message" }
