package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Name      string    `gorm:"type:varchar(100);not null;column:name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:users_email_ux1;column:email"`
	Password  string    `gorm:"type:varchar(255);not null;column:password"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
