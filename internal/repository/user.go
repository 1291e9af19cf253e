package repository

import (
	"context"

	"guildhall/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user projection data operations
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Latest(ctx context.Context) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Latest returns the most recently registered user, or nil when the table is
// empty.
func (r *userRepository) Latest(ctx context.Context) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
