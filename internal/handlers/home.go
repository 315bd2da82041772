package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/murmurchat/murmur-backend/internal/handlers/dto"
	"github.com/murmurchat/murmur-backend/internal/middleware"
	"github.com/murmurchat/murmur-backend/internal/models"
	"github.com/murmurchat/murmur-backend/internal/services"
)

// Presence reports whether a user holds a live event-stream connection.
// Satisfied by ws.Hub; nil disables the merge.
type Presence interface {
	Online(userID string) bool
}

type HomeHandler struct {
	accounts *services.AccountService
	chats    *services.ChatService
	presence Presence
}

func NewHomeHandler(accounts *services.AccountService, chats *services.ChatService, presence Presence) *HomeHandler {
	return &HomeHandler{accounts: accounts, chats: chats, presence: presence}
}

// The stored online flag flips on login and logout, which a closed browser
// tab never triggers. A live connection is fresher, so it wins when the flag
// says offline.
func (h *HomeHandler) userJSON(user *models.User) gin.H {
	resp := userResponse(user)
	if !user.Online && h.presence != nil && h.presence.Online(user.ID) {
		resp["status"] = true
	}
	return resp
}

func (h *HomeHandler) mergeLiveStatus(cp *services.Counterpart) {
	if cp != nil && !cp.Online && h.presence != nil {
		cp.Online = h.presence.Online(cp.ID)
	}
}

// GetData returns the caller's profile and their conversation list, most
// recently active chat first.
func (h *HomeHandler) GetData(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)

	user, err := h.accounts.Me(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	chats, err := h.chats.Conversations(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range chats {
		h.mergeLiveStatus(chats[i].Counterpart)
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userResponse(user),
		"chats": chats,
	})
}

func (h *HomeHandler) Search(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)

	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users, err := h.accounts.Search(userID, req.Query)
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]gin.H, len(users))
	for i := range users {
		result[i] = h.userJSON(&users[i])
	}

	c.JSON(http.StatusOK, gin.H{"users": result})
}

// GetChat returns the full history of one chat to a participant.
func (h *HomeHandler) GetChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.chats.GetChat(userID, req.ChatID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.mergeLiveStatus(view.Counterpart)

	messages := make([]dto.MessageResponse, len(view.Messages))
	for i := range view.Messages {
		messages[i] = messageResponse(&view.Messages[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"chat_id":    view.ChatID,
		"other_user": view.Counterpart,
		"messages":   messages,
	})
}

// SendMessage appends a message from the caller to the receiver.
func (h *HomeHandler) SendMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chats.Send(userID, req.Receiver, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "message sent successfully",
		"data":    messageResponse(message),
	})
}

// SeenChat marks everything addressed to the caller in a chat as seen.
func (h *HomeHandler) SeenChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	affected, err := h.chats.MarkSeen(userID, req.ChatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "chat marked as seen",
		"affected": affected,
	})
}
