package repositories_test

import (
	"fmt"
	"math"
	"testing"

	"seatfinder/internal/models"
	"seatfinder/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB opens a per-test in-memory SQLite database. The named shared
// cache keeps the schema visible across the pool's connections.
func openTestDB(t *testing.T, modelsToMigrate ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(modelsToMigrate...))
	return db
}

func newShortlistRepo(t *testing.T) repositories.ShortlistRepository {
	t.Helper()
	db := openTestDB(t, &models.ShortlistEntry{})
	return repositories.NewGORMShortlistRepository(db)
}

func addEntry(t *testing.T, repo repositories.ShortlistRepository, userID, institute, program string) *models.ShortlistEntry {
	t.Helper()
	entry := &models.ShortlistEntry{
		UserID:      userID,
		Institute:   institute,
		Program:     program,
		ClosingRank: 100,
		SeatType:    "OPEN",
		Quota:       "AI",
		Gender:      models.GenderNeutral,
	}
	assert.NoError(t, repo.Insert(entry))
	return entry
}

func listPriorities(t *testing.T, repo repositories.ShortlistRepository, userID string) (programs []string, priorities []int) {
	t.Helper()
	entries, err := repo.ListByUser(userID)
	assert.NoError(t, err)
	for _, e := range entries {
		programs = append(programs, e.Program)
		priorities = append(priorities, e.PriorityOrder)
	}
	return programs, priorities
}

func TestShortlistInsertAssignsSequentialPriorities(t *testing.T) {
	repo := newShortlistRepo(t)

	addEntry(t, repo, "user-1", "IIT Bombay", "CSE")
	addEntry(t, repo, "user-1", "IIT Delhi", "EE")
	addEntry(t, repo, "user-1", "NIT Trichy", "ME")

	programs, priorities := listPriorities(t, repo, "user-1")
	assert.Equal(t, []string{"CSE", "EE", "ME"}, programs)
	assert.Equal(t, []int{1, 2, 3}, priorities)
}

func TestShortlistDuplicateSeatTuple(t *testing.T) {
	repo := newShortlistRepo(t)

	addEntry(t, repo, "user-1", "IIT Bombay", "CSE")

	// The exact same seat tuple is a duplicate even with different notes
	dup := &models.ShortlistEntry{
		UserID:      "user-1",
		Institute:   "IIT Bombay",
		Program:     "CSE",
		ClosingRank: 100,
		SeatType:    "OPEN",
		Quota:       "AI",
		Gender:      models.GenderNeutral,
		Notes:       "different notes",
	}
	err := repo.Insert(dup)
	assert.ErrorIs(t, err, repositories.ErrDuplicateEntry)

	// A different seat type makes it a different seat
	other := &models.ShortlistEntry{
		UserID:    "user-1",
		Institute: "IIT Bombay",
		Program:   "CSE",
		SeatType:  "OBC-NCL",
		Quota:     "AI",
		Gender:    models.GenderNeutral,
	}
	assert.NoError(t, repo.Insert(other))

	// The same tuple under another user is fine
	otherUser := &models.ShortlistEntry{
		UserID:    "user-2",
		Institute: "IIT Bombay",
		Program:   "CSE",
		SeatType:  "OPEN",
		Quota:     "AI",
		Gender:    models.GenderNeutral,
	}
	assert.NoError(t, repo.Insert(otherUser))
}

func TestShortlistRemoveThenReAdd(t *testing.T) {
	repo := newShortlistRepo(t)

	entry := addEntry(t, repo, "user-1", "IIT Bombay", "CSE")
	assert.NoError(t, repo.Remove("user-1", entry.ID))

	// Deletion frees the seat tuple for a fresh insert
	addEntry(t, repo, "user-1", "IIT Bombay", "CSE")
}

func TestShortlistRemoveKeepsGapsUntilReorder(t *testing.T) {
	repo := newShortlistRepo(t)

	addEntry(t, repo, "user-1", "IIT Bombay", "CSE")
	middle := addEntry(t, repo, "user-1", "IIT Delhi", "EE")
	addEntry(t, repo, "user-1", "NIT Trichy", "ME")

	assert.NoError(t, repo.Remove("user-1", middle.ID))
	programs, priorities := listPriorities(t, repo, "user-1")
	assert.Equal(t, []string{"CSE", "ME"}, programs)
	assert.Equal(t, []int{1, 3}, priorities)

	// Reorder compacts the gap without changing relative order
	assert.NoError(t, repo.ReorderAll("user-1"))
	programs, priorities = listPriorities(t, repo, "user-1")
	assert.Equal(t, []string{"CSE", "ME"}, programs)
	assert.Equal(t, []int{1, 2}, priorities)
}

func TestShortlistMoveUpAndDown(t *testing.T) {
	repo := newShortlistRepo(t)

	first := addEntry(t, repo, "user-1", "IIT Bombay", "CSE")
	addEntry(t, repo, "user-1", "IIT Delhi", "EE")
	third := addEntry(t, repo, "user-1", "NIT Trichy", "ME")

	assert.NoError(t, repo.MoveUp("user-1", third.ID))
	programs, priorities := listPriorities(t, repo, "user-1")
	assert.Equal(t, []string{"CSE", "ME", "EE"}, programs)
	assert.Equal(t, []int{1, 2, 3}, priorities)

	assert.NoError(t, repo.MoveDown("user-1", third.ID))
	programs, _ = listPriorities(t, repo, "user-1")
	assert.Equal(t, []string{"CSE", "EE", "ME"}, programs)

	// Boundary moves report their position instead of mutating
	assert.ErrorIs(t, repo.MoveUp("user-1", first.ID), repositories.ErrAtTop)
	assert.ErrorIs(t, repo.MoveDown("user-1", third.ID), repositories.ErrAtBottom)

	programs, priorities = listPriorities(t, repo, "user-1")
	assert.Equal(t, []string{"CSE", "EE", "ME"}, programs)
	assert.Equal(t, []int{1, 2, 3}, priorities)
}

func TestShortlistSetPriorityShiftsRange(t *testing.T) {
	repo := newShortlistRepo(t)

	addEntry(t, repo, "user-1", "IIT Bombay", "CSE")
	addEntry(t, repo, "user-1", "IIT Delhi", "EE")
	addEntry(t, repo, "user-1", "NIT Trichy", "ME")
	fourth := addEntry(t, repo, "user-1", "IIIT Hyderabad", "DS")

	// Move the last entry to position 2; everything in between slides down
	assert.NoError(t, repo.SetPriority("user-1", fourth.ID, 2))
	programs, priorities := listPriorities(t, repo, "user-1")
	assert.Equal(t, []string{"CSE", "DS", "EE", "ME"}, programs)
	assert.Equal(t, []int{1, 2, 3, 4}, priorities)
}

func TestShortlistMoveToBottomClampsPriority(t *testing.T) {
	repo := newShortlistRepo(t)

	first := addEntry(t, repo, "user-1", "IIT Bombay", "CSE")
	addEntry(t, repo, "user-1", "IIT Delhi", "EE")
	addEntry(t, repo, "user-1", "NIT Trichy", "ME")

	// An out-of-range position clamps to the entry count
	assert.NoError(t, repo.SetPriority("user-1", first.ID, math.MaxInt32))
	programs, priorities := listPriorities(t, repo, "user-1")
	assert.Equal(t, []string{"EE", "ME", "CSE"}, programs)
	assert.Equal(t, []int{1, 2, 3}, priorities)

	// Back to the top
	assert.NoError(t, repo.SetPriority("user-1", first.ID, 1))
	programs, priorities = listPriorities(t, repo, "user-1")
	assert.Equal(t, []string{"CSE", "EE", "ME"}, programs)
	assert.Equal(t, []int{1, 2, 3}, priorities)
}

func TestShortlistUserIsolation(t *testing.T) {
	repo := newShortlistRepo(t)

	mine := addEntry(t, repo, "user-1", "IIT Bombay", "CSE")
	addEntry(t, repo, "user-2", "IIT Delhi", "EE")

	// Another user's entry ID behaves like a missing entry
	assert.ErrorIs(t, repo.Remove("user-2", mine.ID), repositories.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateNotes("user-2", mine.ID, "x"), repositories.ErrNotFound)
	_, err := repo.GetByID("user-2", mine.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	entries, err := repo.ListByUser("user-2")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "EE", entries[0].Program)
}

func TestShortlistUpdateNotes(t *testing.T) {
	repo := newShortlistRepo(t)

	entry := addEntry(t, repo, "user-1", "IIT Bombay", "CSE")
	assert.NoError(t, repo.UpdateNotes("user-1", entry.ID, "dream option"))

	got, err := repo.GetByID("user-1", entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, "dream option", got.Notes)

	assert.ErrorIs(t, repo.UpdateNotes("user-1", "missing-id", "x"), repositories.ErrNotFound)
}

func TestShortlistClearAllAndSummary(t *testing.T) {
	repo := newShortlistRepo(t)

	entries := []*models.ShortlistEntry{
		{UserID: "user-1", Institute: "IIT Bombay", Program: "CSE", SeatType: "OPEN", ClosingRank: 68},
		{UserID: "user-1", Institute: "IIT Bombay", Program: "EE", SeatType: "OPEN", ClosingRank: 420},
		{UserID: "user-1", Institute: "NIT Trichy", Program: "ME", SeatType: "OBC-NCL", ClosingRank: 1500},
	}
	for _, e := range entries {
		assert.NoError(t, repo.Insert(e))
	}

	summary, err := repo.Summary("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, "IIT Bombay", summary.ByInstitute[0].Label)
	assert.Equal(t, 2, summary.ByInstitute[0].Count)
	assert.Equal(t, "OPEN", summary.BySeatType[0].Label)
	assert.Equal(t, 2, summary.BySeatType[0].Count)

	assert.NoError(t, repo.ClearAll("user-1"))
	summary, err = repo.Summary("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.TotalItems)
	remaining, err := repo.ListByUser("user-1")
	assert.NoError(t, err)
	assert.Empty(t, remaining)
}
