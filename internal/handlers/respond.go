package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/murmurchat/murmur-backend/internal/apperrors"
	"github.com/murmurchat/murmur-backend/internal/handlers/dto"
	"github.com/murmurchat/murmur-backend/internal/models"
)

// respondError maps the error taxonomy to HTTP statuses. Internal details
// never leak to the client.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"image":    user.ImageURL,
		"status":   user.Online,
	}
}

func messageResponse(m *models.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:       m.ID,
		Sender:   m.SenderID,
		Receiver: m.ReceiverID,
		ChatID:   m.ChatID,
		Content:  m.Content,
		SentAt:   m.SentAt,
		Seen:     m.Seen,
	}
}
