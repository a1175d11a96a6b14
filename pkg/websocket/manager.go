package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client 代表一个WebSocket连接的用户
type Client struct {
	UserID   uint
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
}

// Manager 管理在线连接与会话房间
// rooms 按会话ID分组，单聊消息只广播给加入该房间的参与者
type Manager struct {
	clients map[uint]*Client
	rooms   map[uint]map[uint]*Client // conversationID -> userID -> client
	lock    sync.RWMutex
}

var manager = &Manager{
	clients: make(map[uint]*Client),
	rooms:   make(map[uint]map[uint]*Client),
}

// GetManager 获取全局WebSocket管理器
func GetManager() *Manager {
	return manager
}

// AddClient 添加新连接，同一用户重复连接时顶掉旧连接
func (m *Manager) AddClient(userID uint, client *Client) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if old, ok := m.clients[userID]; ok {
		close(old.Send)
	}
	m.clients[userID] = client
}

// RemoveClient 移除连接并退出全部房间
func (m *Manager) RemoveClient(userID uint, client *Client) {
	m.lock.Lock()
	defer m.lock.Unlock()
	// 可能已被同用户的新连接顶掉
	if c, ok := m.clients[userID]; ok && c == client {
		close(c.Send)
		delete(m.clients, userID)
	}
	for convID, members := range m.rooms {
		if members[userID] == client {
			delete(members, userID)
			if len(members) == 0 {
				delete(m.rooms, convID)
			}
		}
	}
}

// JoinRoom 用户加入会话房间
func (m *Manager) JoinRoom(convID uint, client *Client) {
	m.lock.Lock()
	defer m.lock.Unlock()
	members, ok := m.rooms[convID]
	if !ok {
		members = make(map[uint]*Client)
		m.rooms[convID] = members
	}
	members[client.UserID] = client
}

// BroadcastToRoom 向会话房间内所有在线成员推送
func (m *Manager) BroadcastToRoom(convID uint, msg []byte) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for _, client := range m.rooms[convID] {
		select {
		case client.Send <- msg:
		default:
			// 发送缓冲已满，跳过该连接
		}
	}
}

// BroadcastGlobal 向所有在线用户推送
func (m *Manager) BroadcastGlobal(msg []byte) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for _, client := range m.clients {
		select {
		case client.Send <- msg:
		default:
		}
	}
}

// SendToUser 推送给指定用户，不在线则丢弃
func (m *Manager) SendToUser(userID uint, msg []byte) {
	m.lock.RLock()
	client, ok := m.clients[userID]
	m.lock.RUnlock()
	if ok {
		select {
		case client.Send <- msg:
		default:
		}
	}
}

// IsOnline 判断用户是否在线
func (m *Manager) IsOnline(userID uint) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.clients[userID]
	return ok
}
