package redis

import (
	"encoding/json"
	"fmt"
	"time"
)

// 会话列表缓存相关常量
const (
	ConversationsKeyPrefix = "morse:conversations:" // 会话列表缓存key前缀
	ConversationCacheTTL   = 10 * time.Minute       // 会话列表缓存TTL
)

// CachedConversation 缓存的会话预览
// 与 REST 接口返回的会话列表条目一致：最近一条消息 + 对方用户信息
type CachedConversation struct {
	ConversationID uint      `json:"conversation_id"`
	IsGroup        bool      `json:"is_group"`
	OtherUserID    uint      `json:"other_user_id,omitempty"`
	OtherUsername  string    `json:"other_username,omitempty"`
	LastMessage    string    `json:"last_message"`
	LastMessageAt  time.Time `json:"last_message_at"`
}

// CacheConversations 缓存用户的会话列表
func CacheConversations(userID uint, conversations []CachedConversation) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	key := fmt.Sprintf("%s%d", ConversationsKeyPrefix, userID)

	data, err := json.Marshal(conversations)
	if err != nil {
		return fmt.Errorf("序列化会话列表失败: %w", err)
	}

	if err := Set(key, data, ConversationCacheTTL); err != nil {
		return fmt.Errorf("缓存会话列表失败: %w", err)
	}

	return nil
}

// GetCachedConversations 获取缓存的会话列表
func GetCachedConversations(userID uint) ([]CachedConversation, error) {
	if client == nil {
		return nil, fmt.Errorf("redis客户端未初始化")
	}

	key := fmt.Sprintf("%s%d", ConversationsKeyPrefix, userID)

	data, err := Get(key)
	if err != nil {
		return nil, err
	}

	var conversations []CachedConversation
	if err := json.Unmarshal([]byte(data), &conversations); err != nil {
		return nil, fmt.Errorf("反序列化会话列表失败: %w", err)
	}

	return conversations, nil
}

// InvalidateConversations 失效用户的会话列表缓存（新消息到达时调用）
func InvalidateConversations(userIDs ...uint) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, fmt.Sprintf("%s%d", ConversationsKeyPrefix, id))
	}
	return Del(keys...)
}
