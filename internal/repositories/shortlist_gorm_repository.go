package repositories

import (
	"errors"
	"fmt"

	"seatfinder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMShortlistRepository is a GORM implementation of ShortlistRepository.
// Priority mutations run inside db.Transaction; the composite unique index
// on (user_id, institute, program, seat_type, quota, gender) backs the
// duplicate check so check-then-insert cannot race.
type GORMShortlistRepository struct {
	db *gorm.DB
}

// NewGORMShortlistRepository creates a new instance of GORMShortlistRepository.
func NewGORMShortlistRepository(db *gorm.DB) *GORMShortlistRepository {
	return &GORMShortlistRepository{
		db: db,
	}
}

// Insert adds an entry with the next priority (max existing + 1). A second
// insert of the same seat tuple for the same user reports ErrDuplicateEntry.
func (r *GORMShortlistRepository) Insert(entry *models.ShortlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ShortlistEntry
		err := tx.First(&existing,
			"user_id = ? AND institute = ? AND program = ? AND seat_type = ? AND quota = ? AND gender = ?",
			entry.UserID, entry.Institute, entry.Program, entry.SeatType, entry.Quota, entry.Gender,
		).Error
		if err == nil {
			return fmt.Errorf("%s / %s: %w", entry.Institute, entry.Program, ErrDuplicateEntry)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for duplicate entry: %w", err)
		}

		var maxPriority int
		err = tx.Model(&models.ShortlistEntry{}).
			Where("user_id = ?", entry.UserID).
			Select("COALESCE(MAX(priority_order), 0)").
			Scan(&maxPriority).Error
		if err != nil {
			return fmt.Errorf("failed to compute next priority: %w", err)
		}
		entry.PriorityOrder = maxPriority + 1

		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to insert shortlist entry: %w", err)
		}
		return nil
	})
}

// GetByID retrieves one entry owned by the given user.
func (r *GORMShortlistRepository) GetByID(userID, entryID string) (*models.ShortlistEntry, error) {
	var entry models.ShortlistEntry
	if err := r.db.First(&entry, "id = ? AND user_id = ?", entryID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shortlist entry %s: %w", entryID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shortlist entry %s: %w", entryID, err)
	}
	return &entry, nil
}

// ListByUser returns the user's entries ascending by priority. Entry ID
// breaks ties so the order is deterministic even with legacy gaps.
func (r *GORMShortlistRepository) ListByUser(userID string) ([]models.ShortlistEntry, error) {
	var entries []models.ShortlistEntry
	err := r.db.Where("user_id = ?", userID).
		Order("priority_order ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlist: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry. Remaining priorities are left untouched; gaps
// persist until an explicit ReorderAll.
func (r *GORMShortlistRepository) Remove(userID, entryID string) error {
	res := r.db.Delete(&models.ShortlistEntry{}, "id = ? AND user_id = ?", entryID, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove shortlist entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shortlist entry %s: %w", entryID, ErrNotFound)
	}
	return nil
}

// UpdateNotes replaces the free-text notes. No validation is applied.
func (r *GORMShortlistRepository) UpdateNotes(userID, entryID, notes string) error {
	res := r.db.Model(&models.ShortlistEntry{}).
		Where("id = ? AND user_id = ?", entryID, userID).
		Update("notes", notes)
	if res.Error != nil {
		return fmt.Errorf("failed to update notes: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shortlist entry %s: %w", entryID, ErrNotFound)
	}
	return nil
}

// MoveUp swaps priorities with the entry immediately above. Reports
// ErrAtTop when the entry has priority <= 1 or nothing sits above it.
func (r *GORMShortlistRepository) MoveUp(userID, entryID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		entry, err := getEntryForUpdate(tx, userID, entryID)
		if err != nil {
			return err
		}
		if entry.PriorityOrder <= 1 {
			return ErrAtTop
		}

		var above models.ShortlistEntry
		err = tx.Where("user_id = ? AND priority_order < ?", userID, entry.PriorityOrder).
			Order("priority_order DESC").
			First(&above).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAtTop
		}
		if err != nil {
			return fmt.Errorf("failed to find entry above: %w", err)
		}
		return swapPriorities(tx, entry, &above)
	})
}

// MoveDown swaps priorities with the entry immediately below. Reports
// ErrAtBottom when nothing sits below.
func (r *GORMShortlistRepository) MoveDown(userID, entryID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		entry, err := getEntryForUpdate(tx, userID, entryID)
		if err != nil {
			return err
		}

		var below models.ShortlistEntry
		err = tx.Where("user_id = ? AND priority_order > ?", userID, entry.PriorityOrder).
			Order("priority_order ASC").
			First(&below).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAtBottom
		}
		if err != nil {
			return fmt.Errorf("failed to find entry below: %w", err)
		}
		return swapPriorities(tx, entry, &below)
	})
}

// SetPriority moves the entry to an absolute position, shifting every
// entry strictly between the old and new position by one. The requested
// position is clamped to [1, N], so move-to-top is SetPriority(1) and
// move-to-bottom is SetPriority with any position >= N.
func (r *GORMShortlistRepository) SetPriority(userID, entryID string, newPriority int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		entry, err := getEntryForUpdate(tx, userID, entryID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.ShortlistEntry{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count shortlist entries: %w", err)
		}
		if newPriority < 1 {
			newPriority = 1
		}
		if newPriority > int(count) {
			newPriority = int(count)
		}
		current := entry.PriorityOrder
		if newPriority == current {
			return nil
		}

		err = tx.Model(&models.ShortlistEntry{}).
			Where("id = ?", entry.ID).
			Update("priority_order", newPriority).Error
		if err != nil {
			return fmt.Errorf("failed to set priority: %w", err)
		}

		if newPriority < current {
			// Moving up: everything in [new, current) slides down one.
			err = tx.Model(&models.ShortlistEntry{}).
				Where("user_id = ? AND priority_order >= ? AND priority_order < ? AND id != ?",
					userID, newPriority, current, entry.ID).
				Update("priority_order", gorm.Expr("priority_order + 1")).Error
		} else {
			// Moving down: everything in (current, new] slides up one.
			err = tx.Model(&models.ShortlistEntry{}).
				Where("user_id = ? AND priority_order > ? AND priority_order <= ? AND id != ?",
					userID, current, newPriority, entry.ID).
				Update("priority_order", gorm.Expr("priority_order - 1")).Error
		}
		if err != nil {
			return fmt.Errorf("failed to shift priorities: %w", err)
		}
		return nil
	})
}

// ReorderAll renumbers the user's entries to a dense 1..N sequence
// following the current ascending priority, ties broken by entry ID.
// Relative order is unchanged; only gaps disappear.
func (r *GORMShortlistRepository) ReorderAll(userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var entries []models.ShortlistEntry
		err := tx.Where("user_id = ?", userID).
			Order("priority_order ASC, id ASC").
			Find(&entries).Error
		if err != nil {
			return fmt.Errorf("failed to load shortlist for reorder: %w", err)
		}
		for i := range entries {
			want := i + 1
			if entries[i].PriorityOrder == want {
				continue
			}
			err = tx.Model(&models.ShortlistEntry{}).
				Where("id = ?", entries[i].ID).
				Update("priority_order", want).Error
			if err != nil {
				return fmt.Errorf("failed to renumber entry %s: %w", entries[i].ID, err)
			}
		}
		return nil
	})
}

// ClearAll removes every entry for the user.
func (r *GORMShortlistRepository) ClearAll(userID string) error {
	if err := r.db.Delete(&models.ShortlistEntry{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear shortlist: %w", err)
	}
	return nil
}

// Summary aggregates the user's shortlist by institute and seat type,
// both ordered by count descending.
func (r *GORMShortlistRepository) Summary(userID string) (*models.ShortlistSummary, error) {
	summary := &models.ShortlistSummary{}

	var total int64
	if err := r.db.Model(&models.ShortlistEntry{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count shortlist entries: %w", err)
	}
	summary.TotalItems = int(total)

	err := r.db.Model(&models.ShortlistEntry{}).
		Select("institute AS label, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("institute").
		Order("count DESC").
		Scan(&summary.ByInstitute).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by institute: %w", err)
	}

	err = r.db.Model(&models.ShortlistEntry{}).
		Select("seat_type AS label, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("seat_type").
		Order("count DESC").
		Scan(&summary.BySeatType).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by seat type: %w", err)
	}
	return summary, nil
}

// getEntryForUpdate loads an entry inside a transaction, mapping a missing
// row to ErrNotFound.
func getEntryForUpdate(tx *gorm.DB, userID, entryID string) (*models.ShortlistEntry, error) {
	var entry models.ShortlistEntry
	if err := tx.First(&entry, "id = ? AND user_id = ?", entryID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shortlist entry %s: %w", entryID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shortlist entry %s: %w", entryID, err)
	}
	return &entry, nil
}

// swapPriorities exchanges the priority values of two entries.
func swapPriorities(tx *gorm.DB, a, b *models.ShortlistEntry) error {
	err := tx.Model(&models.ShortlistEntry{}).
		Where("id = ?", a.ID).
		Update("priority_order", b.PriorityOrder).Error
	if err != nil {
		return fmt.Errorf("failed to swap priorities: %w", err)
	}
	err = tx.Model(&models.ShortlistEntry{}).
		Where("id = ?", b.ID).
		Update("priority_order", a.PriorityOrder).Error
	if err != nil {
		return fmt.Errorf("failed to swap priorities: %w", err)
	}
	return nil
}
