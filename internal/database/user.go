package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/murmurchat/murmur-backend/internal/apperrors"
	"github.com/murmurchat/murmur-backend/internal/models"
)

func (d *Database) SaveUser(user *models.User) error {
	if err := d.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("email is already registered")
		}
		return err
	}
	return nil
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// SearchUsers matches username or email case-insensitively, excluding the
// caller so users cannot open a chat with themselves from search results.
func (d *Database) SearchUsers(query, excludeID string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := d.db.
		Where("(username ILIKE ? OR email ILIKE ?) AND id != ?", pattern, pattern, excludeID).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *Database) SetOnline(id string, online bool) error {
	res := d.db.Model(&models.User{}).Where("id = ?", id).Update("online", online)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}
