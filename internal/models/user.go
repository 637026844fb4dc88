package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Usernames and emails are unique
// case-insensitively; the repository layer enforces this with LOWER()
// lookups inside the create transaction on top of the unique indexes.
type User struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string     `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string     `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // Never serialized
	LastLogin  *time.Time `json:"last_login"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
