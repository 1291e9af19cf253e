package models

import "time"

// User is the engine's projection of a marketplace account. Authentication
// lives with the identity collaborator; rows exist here so aggregates and
// the admin flag have a local source of truth.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Email      string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	IsAdmin    bool      `gorm:"not null;default:false" json:"is_admin"`
	Reputation int       `gorm:"not null;default:0" json:"reputation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
