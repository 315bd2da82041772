package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/murmurchat/murmur-backend/internal/middleware"
	"github.com/murmurchat/murmur-backend/internal/models"
	"github.com/murmurchat/murmur-backend/internal/services"
	"github.com/murmurchat/murmur-backend/internal/storage/memory"
	"github.com/murmurchat/murmur-backend/pkg/auth"
)

type authFixture struct {
	router *gin.Engine
	jwtMgr *auth.JWTManager
	store  *memory.Store
}

func newAuthFixture(t *testing.T, rdb *redis.Client, log *zap.Logger) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour, time.Hour)

	accounts := services.NewAccountService(store, jwtMgr, noopMailer{}, noopUploader{}, "https://app.example.com", log)
	authH := NewAuthHandler(accounts, jwtMgr, rdb, log)

	router := gin.New()
	// The middleware never sees the failing client, so the request itself
	// still authenticates.
	router.POST("/auth/logout", middleware.AuthMiddleware(jwtMgr, nil), authH.Logout)

	require.NoError(t, store.SaveUser(&models.User{
		ID:       "u1",
		Username: "user-u1",
		Email:    "u1@example.com",
		Online:   true,
	}))

	return &authFixture{router: router, jwtMgr: jwtMgr, store: store}
}

func (f *authFixture) logout(t *testing.T, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	token, err := f.jwtMgr.Generate(userID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestLogoutFlipsOffline(t *testing.T) {
	req := require.New(t)
	f := newAuthFixture(t, nil, zap.NewNop())

	rec := f.logout(t, "u1")
	req.Equal(http.StatusOK, rec.Code)

	user, err := f.store.GetUser("u1")
	req.NoError(err)
	req.False(user.Online)
}

func TestLogoutBlacklistFailureLogged(t *testing.T) {
	req := require.New(t)

	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core)

	// Nothing listens on this address, so the blacklist write fails fast.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newAuthFixture(t, rdb, log)

	rec := f.logout(t, "u1")
	req.Equal(http.StatusOK, rec.Code)

	entries := logs.FilterMessage("token blacklist write failed").All()
	req.Len(entries, 1)
	req.Equal("u1", entries[0].ContextMap()["user_id"])
}
