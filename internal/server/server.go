package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "docchat/docs"
	"docchat/internal/config"
	"docchat/internal/handler"
	chatHandler "docchat/internal/handler/chat"
	userHandler "docchat/internal/handler/user"
	"docchat/internal/pkg/cache"
	"docchat/internal/pkg/jwt"
	"docchat/internal/pkg/mongodb"
	"docchat/internal/pkg/storage"
	"docchat/internal/pkg/storagefactory"
	"docchat/internal/repository"
	authRepo "docchat/internal/repository/auth"
	"docchat/internal/responder"
	"docchat/internal/server/middleware"
	"docchat/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	mongo     *mongodb.Client
	redis     *cache.RedisCache
	storage   storage.Storage
	responder responder.Responder
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 初始化 MongoDB (可选，缺失时对话和用户接口不可用)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			// 创建索引
			if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选，缺失时不做下载URL缓存)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 初始化存储
	st, err := storagefactory.NewStorage(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	log.Info().Str("type", st.GetStorageType()).Msg("storage initialized")

	// 初始化应答后端
	rsp, err := responder.New(context.Background(), &cfg.Responder)
	if err != nil {
		return nil, err
	}
	log.Info().Str("type", cfg.Responder.Type).Msg("responder initialized")

	srv := &Server{
		cfg:       cfg,
		engine:    engine,
		mongo:     mongoClient,
		redis:     redisCache,
		storage:   st,
		responder: rsp,
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查，MongoDB在用时作为就绪依赖
	var readyChecks []handler.ReadyChecker
	if s.mongo != nil {
		readyChecks = append(readyChecks, func(ctx context.Context) error {
			return s.mongo.Client().Ping(ctx, nil)
		})
	}
	healthHandler := handler.NewHealthHandler(readyChecks...)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 本地存储的对象由本服务回源
	if s.storage.GetStorageType() == string(storage.StorageTypeLocal) {
		objectHandler := handler.NewObjectHandler(s.storage)
		s.engine.GET("/storage/*key", objectHandler.Serve)
	}

	if s.mongo == nil {
		log.Warn().Msg("MongoDB not configured, chat and user endpoints disabled")
		return
	}

	db := s.mongo.Database()

	// 认证配置，未设置时使用默认值
	jwtSecret := s.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}

	accessTokenExpiry := s.cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}

	refreshTokenExpiry := s.cfg.Auth.RefreshTokenExpiry
	if refreshTokenExpiry == 0 {
		refreshTokenExpiry = 7 * 24 * time.Hour
	}

	// 用户接口
	userRepo := authRepo.NewUserRepo(db)
	refreshTokenRepo := authRepo.NewRefreshTokenRepo(db)
	authSvc := service.NewAuthService(
		userRepo,
		refreshTokenRepo,
		jwtSecret,
		accessTokenExpiry,
		refreshTokenExpiry,
	)
	userHdl := userHandler.NewHandler(authSvc)

	// 对话接口
	chatRepo := repository.NewChatRepo(db)
	chatSvc := service.NewChatService(chatRepo, s.storage, s.responder, s.redis)
	chatHdl := chatHandler.NewHandler(chatSvc)

	api := s.engine.Group("/api")
	{
		api.POST("/users/register", userHdl.Register)
		api.POST("/users/login", userHdl.Login)
		api.POST("/users/refresh", userHdl.Refresh)
		api.POST("/users/logout", userHdl.Logout)

		// 需要认证的接口
		authed := api.Group("")
		authed.Use(middleware.Auth(jwt.NewJWT(jwtSecret, accessTokenExpiry)))
		{
			authed.GET("/users/me", userHdl.GetMe)
		}

		api.GET("/users/:userId", userHdl.GetUser)

		api.POST("/chat", chatHdl.Submit)
		api.GET("/chats/:userId", chatHdl.History)
		api.DELETE("/chats/:chatId", chatHdl.Delete)
		api.GET("/files/:userId/:filename", chatHdl.GetDownloadURL)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info().Str("addr", addr).Msg("server started")

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
