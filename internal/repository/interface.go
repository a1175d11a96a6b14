package repository

import (
	"context"
	"time"

	"morse-mastery/internal/model"
)

// FriendRequestRow 好友申请列表行（含发起方/接收方的公开信息）
type FriendRequestRow struct {
	ID        uint      `json:"id"`      // 边ID，respond 时使用
	UserID    uint      `json:"user_id"` // 对方用户ID
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// FriendRow 好友列表行
type FriendRow struct {
	UserID       uint      `json:"id"`
	Username     string    `json:"username"`
	FriendsSince time.Time `json:"friends_since"`
}

// IFriendRepository 好友关系数据访问接口
// 复合写操作（自动接受、双向删除）在实现内部以单个事务执行
type IFriendRepository interface {
	// GetBetween 查询两用户之间的所有边（双向）
	GetBetween(ctx context.Context, userA, userB uint) ([]*model.FriendEdge, error)
	// GetByID 按ID查询边
	GetByID(ctx context.Context, id uint) (*model.FriendEdge, error)
	// Create 插入一条pending边
	Create(ctx context.Context, edge *model.FriendEdge) error
	// Accept 接受申请：将指定边置为accepted，并Upsert反向accepted边（单事务）
	Accept(ctx context.Context, edgeID, requesterID, targetID uint) error
	// Decline 拒绝申请：仅更新该边状态，不创建反向边
	Decline(ctx context.Context, edgeID uint) error
	// DeleteBetween 删除两用户之间的所有边（双向），不存在时不报错
	DeleteBetween(ctx context.Context, userA, userB uint) error
	// ListFriends 列出用户的全部好友（按对方ID去重）
	ListFriends(ctx context.Context, userID uint) ([]*FriendRow, error)
	// ListPending 列出用户收到的pending申请，最新在前
	ListPending(ctx context.Context, userID uint) ([]*FriendRequestRow, error)
	// ListSent 列出用户发出的pending申请，最新在前
	ListSent(ctx context.Context, userID uint) ([]*FriendRequestRow, error)
}

// ConversationPreview 会话预览（会话列表条目）
type ConversationPreview struct {
	ConversationID uint       `json:"conversation_id"`
	IsGroup        bool       `json:"is_group"`
	OtherUserID    uint       `json:"other_user_id,omitempty"`
	OtherUsername  string     `json:"other_username,omitempty"`
	LastMessage    string     `json:"last_message"`
	LastMessageAt  *time.Time `json:"last_message_at"`
}

// MessageRow 消息行（含发送者显示名）
type MessageRow struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	SenderID       uint      `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	Text           string    `json:"text"`
	Morse          string    `json:"morse"`
	CreatedAt      time.Time `json:"created_at"`
}

// IConversationRepository 会话数据访问接口
type IConversationRepository interface {
	// GetOrCreateDirect 查找或创建两用户的单聊会话（事务内find-then-create）
	// 返回会话ID与是否新建
	GetOrCreateDirect(ctx context.Context, userA, userB uint) (uint, bool, error)
	// ListForUser 列出用户参与的全部会话，带最近消息预览，按最近消息倒序
	ListForUser(ctx context.Context, userID uint) ([]*ConversationPreview, error)
	// IsParticipant 校验用户是否为会话成员
	IsParticipant(ctx context.Context, conversationID, userID uint) (bool, error)
	// Participants 列出会话全部成员ID
	Participants(ctx context.Context, conversationID uint) ([]uint, error)
	// ListMessages 列出会话全部消息，按创建时间升序，带发送者显示名
	ListMessages(ctx context.Context, conversationID uint) ([]*MessageRow, error)
	// CreateMessage 追加一条消息
	CreateMessage(ctx context.Context, message *model.Message) error
}

// UserSearchRow 用户搜索结果行（附带好友关系状态）
type UserSearchRow struct {
	UserID           uint   `json:"id"`
	Username         string `json:"username"`
	FriendshipStatus string `json:"friendship_status,omitempty"`
	RequesterID      uint   `json:"requester_id,omitempty"`
}

// IUserRepository 用户数据访问接口
type IUserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	// SearchFriends 在好友范围内按用户名模糊搜索
	SearchFriends(ctx context.Context, userID uint, query string, limit int) ([]*UserSearchRow, error)
	// SearchAll 全体用户范围模糊搜索，附带与当前用户的好友关系状态
	SearchAll(ctx context.Context, userID uint, query string, limit int) ([]*UserSearchRow, error)
}

// IProgressRepository 学习进度数据访问接口
type IProgressRepository interface {
	// CompleteLesson 完成课程：进度行Upsert（积分累加），并同步累加用户统计（单事务）
	CompleteLesson(ctx context.Context, userID uint, lessonID string, points int) error
	// ListByUser 列出用户全部课程进度
	ListByUser(ctx context.Context, userID uint) ([]*model.Progress, error)
	// GetStats 获取用户统计（不存在时返回 ErrRecordNotFound）
	GetStats(ctx context.Context, userID uint) (*model.UserStats, error)
	// InitStats 注册时初始化统计行
	InitStats(ctx context.Context, userID uint) error
	// CountCompleted 统计已完成课程数
	CountCompleted(ctx context.Context, userID uint) (int64, error)
}
