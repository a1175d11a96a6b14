package websocket

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"morse-mastery/config"
	"morse-mastery/internal/bot"
	"morse-mastery/internal/service"
	"morse-mastery/pkg/async"
	"morse-mastery/pkg/jwt"
	"morse-mastery/pkg/logger"
	"morse-mastery/pkg/morse"
	"morse-mastery/pkg/redis"
	"morse-mastery/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// BotName 机器人展示名，全局聊天频道里它回复所有人
const BotName = "MorseBot"

const welcomeText = "Welcome to Morse Mastery Chat! Type anything to see it in real-time Morse code."

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

var (
	chatSvc   *service.ChatService
	userSvc   *service.UserService
	botEngine *bot.Bot
	botCfg    config.BotConfig
)

// Setup 注入依赖，必须在注册路由前调用
func Setup(chat *service.ChatService, user *service.UserService, b *bot.Bot, cfg config.BotConfig) {
	chatSvc = chat
	userSvc = user
	botEngine = b
	botCfg = cfg
}

// wsEvent 客户端上行消息
type wsEvent struct {
	Type           string `json:"type"`
	ConversationID uint   `json:"conversation_id"`
	Text           string `json:"text"`
}

// WsHandler Gin路由处理函数
func WsHandler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Sec-WebSocket-Protocol"), "Bearer ")
	}
	if token == "" {
		response.Unauthorized(c, "missing token")
		return
	}

	jwtCfg := c.MustGet("jwt_config").(config.JWTConfig) // main.go注入
	jwtSvc := jwt.NewJWTService(jwtCfg)
	claims, err := jwtSvc.ValidateToken(token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}
	userID64, _ := strconv.ParseUint(claims.Subject, 10, 32)
	if userID64 == 0 {
		response.Unauthorized(c, "invalid token")
		return
	}
	userID := uint(userID64)
	username, _ := claims.Data["username"].(string)

	// 回显子协议，避免客户端提示 "Server sent no subprotocol"
	respHeader := http.Header{}
	if protocol := c.GetHeader("Sec-WebSocket-Protocol"); protocol != "" {
		respHeader.Set("Sec-WebSocket-Protocol", protocol)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, respHeader)
	if err != nil {
		return
	}

	client := &Client{
		UserID:   userID,
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, 256),
	}
	GetManager().AddClient(userID, client)

	// 上线：数据库状态 + Redis在线标记
	_ = userSvc.UpdateStatus(context.Background(), userID, "online")
	_ = redis.SetUserPresence(userID, username, "online")

	defer func() {
		GetManager().RemoveClient(userID, client)
		_ = userSvc.UpdateStatus(context.Background(), userID, "offline")
		_ = redis.SetUserPresence(userID, username, "offline")
	}()

	wsCfg := c.MustGet("ws_config").(config.WebSocketConfig)

	// 写协程 + 定时ping心跳
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(wsCfg.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case msg, ok := <-client.Send:
				if !ok {
					return
				}
				_ = conn.WriteMessage(websocket.TextMessage, msg)
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					close(done)
					return
				}
			}
		}
	}()

	// 连接建立后机器人先打招呼
	sendChatMessage(client, welcomeText, morse.TextToMorse("Welcome"))

	_ = conn.SetReadDeadline(time.Now().Add(wsCfg.ReadTimeout))
	conn.SetPongHandler(func(appData string) error {
		return conn.SetReadDeadline(time.Now().Add(wsCfg.ReadTimeout))
	})
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsCfg.ReadTimeout))

		var event wsEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			continue
		}
		switch event.Type {
		case "join_conversation":
			handleJoinConversation(client, event.ConversationID)
		case "private_message":
			handlePrivateMessage(client, event)
		case "chat_message":
			handleGlobalMessage(client, event.Text)
		case "heartbeat":
			_ = redis.RefreshUserPresence(userID)
			_ = userSvc.UpdateStatus(context.Background(), userID, "online")
		}
	}
	select {
	case <-done:
	default:
		close(done)
	}
}

// handleJoinConversation 校验参与者身份后加入房间
func handleJoinConversation(client *Client, convID uint) {
	ok, err := chatSvc.IsParticipant(context.Background(), convID, client.UserID)
	if err != nil || !ok {
		return
	}
	GetManager().JoinRoom(convID, client)
	logger.Info("用户加入会话房间",
		zap.Uint("user_id", client.UserID),
		zap.Uint("conversation_id", convID))
}

// handlePrivateMessage 单聊消息：落库后向房间广播
func handlePrivateMessage(client *Client, event wsEvent) {
	if event.Text == "" || event.ConversationID == 0 {
		return
	}
	row, err := chatSvc.SendMessage(context.Background(), event.ConversationID, client.UserID, event.Text)
	if err != nil {
		logger.Warn("单聊消息发送失败",
			zap.Uint("user_id", client.UserID),
			zap.Uint("conversation_id", event.ConversationID),
			zap.Error(err))
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":            "private_message",
		"id":              row.ID,
		"conversation_id": row.ConversationID,
		"sender_id":       row.SenderID,
		"sender_name":     row.SenderName,
		"text":            row.Text,
		"morse":           row.Morse,
		"created_at":      row.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	GetManager().BroadcastToRoom(event.ConversationID, payload)
}

// handleGlobalMessage 全局频道：转发给所有人，并让机器人延迟回复
func handleGlobalMessage(client *Client, text string) {
	if text == "" {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":      "chat_message",
		"id":        strconv.FormatInt(time.Now().UnixNano(), 10),
		"username":  client.Username,
		"text":      text,
		"morse":     morse.TextToMorse(text),
		"timestamp": time.Now().Format("3:04:05 PM"),
	})
	if err != nil {
		return
	}
	GetManager().BroadcastGlobal(payload)

	// 机器人模拟打字延迟后回复
	async.SubmitAfter(botReplyDelay(), func() {
		reply := botEngine.Reply(context.Background(), text)
		if reply == "" {
			return
		}
		botPayload, err := json.Marshal(map[string]interface{}{
			"type":      "chat_message",
			"id":        strconv.FormatInt(time.Now().UnixNano(), 10) + "bot",
			"username":  BotName,
			"text":      reply,
			"morse":     morse.TextToMorse(reply),
			"timestamp": time.Now().Format("3:04:05 PM"),
		})
		if err != nil {
			return
		}
		GetManager().BroadcastGlobal(botPayload)
	})
}

// sendChatMessage 机器人发给单个连接的全局频道消息
func sendChatMessage(client *Client, text, morseCode string) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":      "chat_message",
		"id":        strconv.FormatInt(time.Now().UnixNano(), 10),
		"username":  BotName,
		"text":      text,
		"morse":     morseCode,
		"timestamp": time.Now().Format("3:04:05 PM"),
	})
	if err != nil {
		return
	}
	select {
	case client.Send <- payload:
	default:
	}
}

func botReplyDelay() time.Duration {
	min, max := botCfg.ReplyDelayMin, botCfg.ReplyDelayMax
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
