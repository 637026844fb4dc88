package repositories

import (
	"errors"
	"fmt"
	"time"

	"seatfinder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. The case-insensitive duplicate checks run
// inside the same transaction as the insert so check-then-insert cannot
// race with a concurrent registration; the unique indexes on username and
// email are the second line of defense.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.First(&existing, "LOWER(username) = LOWER(?)", user.Username).Error
		if err == nil {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicateUsername)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}
		err = tx.First(&existing, "LOWER(email) = LOWER(?)", user.Email).Error
		if err == nil {
			return fmt.Errorf("email %q: %w", user.Email, ErrDuplicateEmail)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		// Read-back check: an insert that cannot be looked up afterwards
		// is an internal fault, not a validation failure.
		if err := tx.First(&existing, "id = ?", user.ID).Error; err != nil {
			return fmt.Errorf("user %s missing after insert: %w", user.ID, err)
		}
		return nil
	})
	return err
}

// GetByUsername retrieves a user by case-insensitive username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "LOWER(username) = LOWER(?)", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// UpdateLastLogin stamps the user's last successful authentication.
func (r *GORMUserRepository) UpdateLastLogin(id string) error {
	now := time.Now()
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login", &now)
	if res.Error != nil {
		return fmt.Errorf("failed to update last login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateEmail changes the user's email after a case-insensitive duplicate
// check against every other account.
func (r *GORMUserRepository) UpdateEmail(id, email string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.First(&existing, "LOWER(email) = LOWER(?) AND id != ?", email, id).Error
		if err == nil {
			return fmt.Errorf("email %q: %w", email, ErrDuplicateEmail)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
		res := tx.Model(&models.User{}).Where("id = ?", id).Update("email", email)
		if res.Error != nil {
			return fmt.Errorf("failed to update email: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// UpdatePassword replaces the stored password hash.
func (r *GORMUserRepository) UpdatePassword(id, passwordHash string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the account and cascades to the user's shortlist entries
// in the same transaction. The delete is unscoped so the username and
// email become available again.
func (r *GORMUserRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.ShortlistEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete shortlist entries: %w", err)
		}
		res := tx.Unscoped().Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil
	})
}
