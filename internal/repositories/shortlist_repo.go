package repositories

import "seatfinder/internal/models"

// ShortlistRepository defines the interface for per-user shortlist data
// access. Every operation is scoped by (userID, entryID) so one user can
// never touch another user's entries. All mutations commit fully or not
// at all; a concurrent reader never observes a half-applied reorder.
type ShortlistRepository interface {
	Insert(entry *models.ShortlistEntry) error
	GetByID(userID, entryID string) (*models.ShortlistEntry, error)
	ListByUser(userID string) ([]models.ShortlistEntry, error)
	Remove(userID, entryID string) error
	UpdateNotes(userID, entryID, notes string) error
	MoveUp(userID, entryID string) error
	MoveDown(userID, entryID string) error
	SetPriority(userID, entryID string, newPriority int) error
	ReorderAll(userID string) error
	ClearAll(userID string) error
	Summary(userID string) (*models.ShortlistSummary, error)
}
