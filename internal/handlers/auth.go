package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/murmurchat/murmur-backend/internal/handlers/dto"
	"github.com/murmurchat/murmur-backend/internal/middleware"
	"github.com/murmurchat/murmur-backend/internal/services"
	"github.com/murmurchat/murmur-backend/pkg/auth"
)

type AuthHandler struct {
	accounts   *services.AccountService
	jwtManager *auth.JWTManager
	redis      *redis.Client
	log        *zap.Logger
}

func NewAuthHandler(accounts *services.AccountService, jwtMgr *auth.JWTManager, rdb *redis.Client, log *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwtManager: jwtMgr, redis: rdb, log: log}
}

// GetStarted mails a registration link for an unclaimed email.
func (h *AuthHandler) GetStarted(c *gin.Context) {
	var req dto.GetStartedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.GetStarted(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "mail sent successfully"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.accounts.Register(c.Request.Context(), req.Token, req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "user registered successfully",
		"user":         userResponse(user),
		"access_token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, token, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		// Login failures answer 401, not the taxonomy's 403.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "login successful",
		"access_token": token,
	})
}

// Logout flips the user offline and blacklists the token until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)

	if err := h.accounts.Logout(userID); err != nil {
		respondError(c, err)
		return
	}

	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err == nil && h.redis != nil {
		if exp, expErr := h.jwtManager.Expiry(rawToken); expErr == nil {
			ttl := time.Until(exp)
			if ttl > 0 {
				// Without the blacklist entry the token stays usable
				// until it expires, so a failed write must not pass
				// silently.
				if err := h.redis.Set(context.Background(), "blacklist:"+rawToken, 1, ttl).Err(); err != nil {
					h.log.Error("token blacklist write failed",
						zap.String("user_id", userID),
						zap.Error(err))
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
