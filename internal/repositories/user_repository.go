package repositories

import "seatfinder/internal/models"

// UserRepository defines the interface for account data access. Username
// and email lookups are case-insensitive throughout.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	UpdateLastLogin(id string) error
	UpdateEmail(id, email string) error
	UpdatePassword(id, passwordHash string) error
	Delete(id string) error
}
