package services

import (
	"math"

	"seatfinder/internal/models"
	"seatfinder/internal/repositories"
)

// ShortlistService handles business logic for per-user shortlists. All
// ordering guarantees live in the repository's transactions; this layer
// validates input and keeps the priority semantics in one place.
type ShortlistService struct {
	repo repositories.ShortlistRepository
}

// NewShortlistService creates a new ShortlistService.
func NewShortlistService(repo repositories.ShortlistRepository) *ShortlistService {
	return &ShortlistService{
		repo: repo,
	}
}

// Add saves a seat-offer snapshot to the user's shortlist. The fields are
// copied values, not a reference, so later catalog edits never change the
// saved entry. Duplicate seat tuples are reported, not silently ignored.
func (s *ShortlistService) Add(entry *models.ShortlistEntry) (*models.ShortlistEntry, error) {
	if entry.UserID == "" {
		return nil, validationErr("user_id", "required")
	}
	if entry.Institute == "" || entry.Program == "" {
		return nil, validationErr("entry", "institute and program are required")
	}
	if entry.ClosingRank < 0 {
		return nil, validationErr("closing_rank", "must not be negative")
	}
	if err := s.repo.Insert(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the user's entries ascending by priority.
func (s *ShortlistService) List(userID string) ([]models.ShortlistEntry, error) {
	return s.repo.ListByUser(userID)
}

// Remove deletes one entry. Remaining priorities keep their gaps until a
// ReorderAll.
func (s *ShortlistService) Remove(userID, entryID string) error {
	return s.repo.Remove(userID, entryID)
}

// UpdateNotes replaces the entry's free-text notes.
func (s *ShortlistService) UpdateNotes(userID, entryID, notes string) error {
	return s.repo.UpdateNotes(userID, entryID, notes)
}

// MoveUp swaps the entry with the one immediately above it.
func (s *ShortlistService) MoveUp(userID, entryID string) error {
	return s.repo.MoveUp(userID, entryID)
}

// MoveDown swaps the entry with the one immediately below it.
func (s *ShortlistService) MoveDown(userID, entryID string) error {
	return s.repo.MoveDown(userID, entryID)
}

// MoveToTop places the entry at priority 1, shifting everything that was
// above it down by one.
func (s *ShortlistService) MoveToTop(userID, entryID string) error {
	return s.repo.SetPriority(userID, entryID, 1)
}

// MoveToBottom places the entry at the last position. The repository
// clamps the requested position to the entry count inside the same
// transaction.
func (s *ShortlistService) MoveToBottom(userID, entryID string) error {
	return s.repo.SetPriority(userID, entryID, math.MaxInt32)
}

// SetPriority moves the entry to an absolute position (clamped to the
// valid range), shifting the entries in between.
func (s *ShortlistService) SetPriority(userID, entryID string, priority int) error {
	if priority < 1 {
		return validationErr("priority", "must be a positive integer")
	}
	return s.repo.SetPriority(userID, entryID, priority)
}

// ReorderAll compacts the user's priorities to a dense 1..N sequence
// without changing relative order.
func (s *ShortlistService) ReorderAll(userID string) error {
	return s.repo.ReorderAll(userID)
}

// ClearAll removes every entry for the user.
func (s *ShortlistService) ClearAll(userID string) error {
	return s.repo.ClearAll(userID)
}

// Summary aggregates the shortlist for the overview panel.
func (s *ShortlistService) Summary(userID string) (*models.ShortlistSummary, error) {
	return s.repo.Summary(userID)
}
