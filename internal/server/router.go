package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/murmurchat/murmur-backend/internal/config"
	"github.com/murmurchat/murmur-backend/internal/handlers"
	"github.com/murmurchat/murmur-backend/internal/middleware"
	"github.com/murmurchat/murmur-backend/pkg/auth"
)

func APIEndpoints(r *gin.Engine, cfg *config.Config, jwtMgr *auth.JWTManager, rdb *redis.Client,
	authH *handlers.AuthHandler, homeH *handlers.HomeHandler, wsH *handlers.WebSocketHandler) {

	origins := cfg.App.CORS
	if len(origins) == 0 {
		origins = []string{cfg.App.ClientURL}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/get_started", authH.GetStarted)
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.GET("/logout", middleware.AuthMiddleware(jwtMgr, rdb), authH.Logout)
	}

	home := r.Group("/home")
	home.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		home.GET("/get_data", homeH.GetData)
		home.POST("/search", homeH.Search)
		home.POST("/get_chat", homeH.GetChat)
		home.POST("/send_message", homeH.SendMessage)
		home.POST("/seen_chat", homeH.SeenChat)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.HandleWebSocket)
}
