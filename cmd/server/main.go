package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"morse-mastery/config"
	"morse-mastery/internal/bot"
	"morse-mastery/internal/handler"
	"morse-mastery/internal/model"
	"morse-mastery/internal/repository"
	"morse-mastery/internal/service"
	"morse-mastery/pkg/async"
	dbPkg "morse-mastery/pkg/db"
	"morse-mastery/pkg/jwt"
	"morse-mastery/pkg/logger"
	"morse-mastery/pkg/middleware"
	redisPkg "morse-mastery/pkg/redis"
	"morse-mastery/pkg/response"
	"morse-mastery/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== Morse Mastery 启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接
	if _, err := dbPkg.InitDB(cfg.Database); err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(
		&model.User{},
		&model.FriendEdge{},
		&model.Conversation{},
		&model.ConversationParticipant{},
		&model.Message{},
		&model.Progress{},
		&model.UserStats{},
	); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 3.2 初始化Redis（失败不阻断启动，缓存与在线状态自动降级）
	if err := redisPkg.InitRedis(cfg.Redis); err != nil {
		log.Warn("Redis连接失败，缓存功能不可用", zap.Error(err))
	} else {
		defer redisPkg.Close()
		log.Info("Redis连接成功")
	}

	// 3.3 初始化异步协程池
	if err := async.Init(cfg.Async); err != nil {
		log.Fatal("协程池初始化失败", zap.Error(err))
	}
	defer async.Release()

	// 3.4 初始化业务服务
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	db := dbPkg.GetDB()
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	convRepo := repository.NewConversationRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	userSvc := service.NewUserService(userRepo, progressRepo, jwtSvc)
	friendSvc := service.NewFriendService(friendRepo, userRepo)
	chatSvc := service.NewChatService(convRepo, userRepo)
	learnSvc := service.NewLearnService(progressRepo)

	botEngine := bot.New(bot.NewHTTPDictionary(cfg.Bot))
	websocket.Setup(chatSvc, userSvc, botEngine, cfg.Bot)

	userHandler := handler.NewUserHandler(userSvc)
	friendHandler := handler.NewFriendHandler(friendSvc)
	chatHandler := handler.NewChatHandler(chatSvc)
	learnHandler := handler.NewLearnHandler(learnSvc)

	// 4. 设置Gin模式
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 5. 创建Gin路由
	router := gin.New()

	// 注入jwt/ws配置到Gin context，供WebSocket使用
	router.Use(func(c *gin.Context) {
		c.Set("jwt_config", cfg.JWT)
		c.Set("ws_config", cfg.WebSocket)
		c.Next()
	})

	router.Use(middleware.TraceMiddleware())
	router.Use(middleware.CorsMiddleware())
	router.Use(logger.LoggerMiddleware())
	router.Use(logger.ErrorLoggerMiddleware())

	// 6. 设置基础路由
	setupBasicRoutes(router)

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			// 公开接口（无需认证）
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)

			authUsers := users.Group("")
			authUsers.Use(jwtSvc.AuthMiddleware())
			{
				authUsers.GET("/profile", userHandler.GetProfile)
				authUsers.GET("/search", userHandler.Search)
				authUsers.GET("/online", userHandler.GetOnlineUsers)
			}
		}

		friends := v1.Group("/friends")
		friends.Use(jwtSvc.AuthMiddleware())
		{
			friends.GET("", friendHandler.List)                    // 好友列表
			friends.POST("/requests", friendHandler.SendRequest)   // 发起好友请求
			friends.GET("/requests", friendHandler.ListPending)    // 收到的待处理请求
			friends.GET("/requests/sent", friendHandler.ListSent)  // 发出的待处理请求
			friends.PUT("/requests/:id", friendHandler.Respond)    // 接受/拒绝请求
			friends.DELETE("/:id", friendHandler.Remove)           // 删除好友
		}

		conversations := v1.Group("/conversations")
		conversations.Use(jwtSvc.AuthMiddleware())
		{
			conversations.POST("", chatHandler.GetOrCreateConversation) // 查找或创建单聊会话
			conversations.GET("", chatHandler.ListConversations)        // 会话列表
			conversations.GET("/:id/messages", chatHandler.ListMessages)
			conversations.POST("/:id/messages", chatHandler.SendMessage)
		}

		learn := v1.Group("/learn")
		learn.Use(jwtSvc.AuthMiddleware())
		{
			learn.GET("/modules", learnHandler.ListModules)
			learn.POST("/complete", learnHandler.CompleteLesson)
			learn.GET("/stats", learnHandler.GetStats)
		}
	}

	// WebSocket路由
	router.GET("/ws", websocket.WsHandler)

	// 7. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 8. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}

// setupBasicRoutes 设置基础路由
func setupBasicRoutes(router *gin.Engine) {
	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := dbPkg.HealthCheck(); err != nil {
			status = "db-down"
		}
		response.Success(c, gin.H{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 根路径
	router.GET("/", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "Morse Code Mastery API is running",
			"version": "1.0.0",
		})
	})
}
