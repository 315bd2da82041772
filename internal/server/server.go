package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/murmurchat/murmur-backend/internal/config"
	"github.com/murmurchat/murmur-backend/internal/database"
	"github.com/murmurchat/murmur-backend/internal/handlers"
	"github.com/murmurchat/murmur-backend/internal/imagehost"
	"github.com/murmurchat/murmur-backend/internal/mail"
	"github.com/murmurchat/murmur-backend/internal/services"
	"github.com/murmurchat/murmur-backend/internal/storage/memory"
	"github.com/murmurchat/murmur-backend/internal/ws"
	"github.com/murmurchat/murmur-backend/pkg/auth"
)

type Server struct {
	Router *gin.Engine
	Redis  *redis.Client
	Hub    *ws.Hub

	cfg *config.Config
	log *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	jwtMgr := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RegistrationTTL)

	var users services.UserStore
	var messages services.MessageStore
	if cfg.Database.URL != "" {
		db := &database.Database{}
		if err := db.Connect(cfg.Database.URL); err != nil {
			return nil, err
		}
		users, messages = db, db
	} else {
		// No database configured: run fully in memory.
		log.Warn("DATABASE_URL not set, using in-memory store")
		store := memory.NewStore()
		users, messages = store, store
	}

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
	} else {
		log.Warn("REDIS_URL not set, token blacklist disabled")
	}

	hub := ws.NewHub(log)
	go hub.Run()

	mailer := mail.NewClient(cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
	avatars := imagehost.NewClient(cfg.ImageHost.UploadURL, cfg.ImageHost.UploadPreset, cfg.ImageHost.DefaultImage)

	accounts := services.NewAccountService(users, jwtMgr, mailer, avatars, cfg.App.ClientURL, log)
	chats := services.NewChatService(users, messages, hub, log)

	authH := handlers.NewAuthHandler(accounts, jwtMgr, rdb, log)
	homeH := handlers.NewHomeHandler(accounts, chats, hub)
	wsH := handlers.NewWebSocketHandler(hub)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	APIEndpoints(router, cfg, jwtMgr, rdb, authH, homeH, wsH)

	return &Server{
		Router: router,
		Redis:  rdb,
		Hub:    hub,
		cfg:    cfg,
		log:    log,
	}, nil
}

func (s *Server) Run() error {
	s.log.Info("server starting", zap.String("port", s.cfg.App.Port))
	return s.Router.Run(":" + s.cfg.App.Port)
}
