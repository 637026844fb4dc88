package handlers

import (
	"errors"

	"seatfinder/internal/models"
	"seatfinder/internal/repositories"
	"seatfinder/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ShortlistHandler handles HTTP requests for the authenticated user's
// shortlist. Every route sits behind the JWT middleware; the user ID
// always comes from the session, never from the request body.
type ShortlistHandler struct {
	shortlistService *services.ShortlistService
	exportService    *services.ExportService
	validate         *validator.Validate
}

// NewShortlistHandler creates a new ShortlistHandler.
func NewShortlistHandler(shortlistService *services.ShortlistService, exportService *services.ExportService) *ShortlistHandler {
	return &ShortlistHandler{
		shortlistService: shortlistService,
		exportService:    exportService,
		validate:         validator.New(),
	}
}

// RegisterRoutes registers the shortlist routes.
func (h *ShortlistHandler) RegisterRoutes(router fiber.Router) {
	shortlistRoutes := router.Group("/shortlist")
	shortlistRoutes.Get("/", h.HandleList)
	shortlistRoutes.Post("/", h.HandleAdd)
	shortlistRoutes.Delete("/", h.HandleClearAll)
	shortlistRoutes.Get("/summary", h.HandleSummary)
	shortlistRoutes.Post("/reorder", h.HandleReorderAll)
	shortlistRoutes.Get("/export/csv", h.HandleExportCSV)
	shortlistRoutes.Get("/export/pdf", h.HandleExportPDF)
	shortlistRoutes.Delete("/:id", h.HandleRemove)
	shortlistRoutes.Patch("/:id/notes", h.HandleUpdateNotes)
	shortlistRoutes.Patch("/:id/priority", h.HandleSetPriority)
	shortlistRoutes.Post("/:id/move-up", h.HandleMoveUp)
	shortlistRoutes.Post("/:id/move-down", h.HandleMoveDown)
	shortlistRoutes.Post("/:id/move-top", h.HandleMoveToTop)
	shortlistRoutes.Post("/:id/move-bottom", h.HandleMoveToBottom)
}

// AddEntryRequest is the seat-offer snapshot to save. The values are
// copied into the entry; there is no live reference back to the catalog.
type AddEntryRequest struct {
	Institute   string `json:"institute" validate:"required"`
	Program     string `json:"program" validate:"required"`
	ClosingRank int    `json:"closing_rank" validate:"gte=0"`
	SeatType    string `json:"seat_type"`
	Quota       string `json:"quota"`
	Gender      string `json:"gender"`
	Notes       string `json:"notes"`
}

// HandleAdd saves a seat option to the shortlist.
func (h *ShortlistHandler) HandleAdd(c *fiber.Ctx) error {
	var req AddEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	entry := &models.ShortlistEntry{
		UserID:      currentUserID(c),
		Institute:   req.Institute,
		Program:     req.Program,
		ClosingRank: req.ClosingRank,
		SeatType:    req.SeatType,
		Quota:       req.Quota,
		Gender:      req.Gender,
		Notes:       req.Notes,
	}
	if _, err := h.shortlistService.Add(entry); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleList returns the shortlist ascending by priority.
func (h *ShortlistHandler) HandleList(c *fiber.Ctx) error {
	entries, err := h.shortlistService.List(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"count":   len(entries),
		"entries": entries,
	})
}

// HandleRemove deletes one entry.
func (h *ShortlistHandler) HandleRemove(c *fiber.Ctx) error {
	if err := h.shortlistService.Remove(currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Removed from shortlist",
	})
}

// UpdateNotesRequest carries the replacement notes text.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// HandleUpdateNotes replaces the entry's notes.
func (h *ShortlistHandler) HandleUpdateNotes(c *fiber.Ctx) error {
	var req UpdateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.shortlistService.UpdateNotes(currentUserID(c), c.Params("id"), req.Notes); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Notes saved",
	})
}

// SetPriorityRequest carries the absolute priority to assign.
type SetPriorityRequest struct {
	Priority int `json:"priority" validate:"required,gte=1"`
}

// HandleSetPriority moves the entry to an absolute position.
func (h *ShortlistHandler) HandleSetPriority(c *fiber.Ctx) error {
	var req SetPriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	if err := h.shortlistService.SetPriority(currentUserID(c), c.Params("id"), req.Priority); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Priority updated",
	})
}

// HandleMoveUp swaps the entry with the one above it. Being already at the
// top is a reported no-op, not an error.
func (h *ShortlistHandler) HandleMoveUp(c *fiber.Ctx) error {
	return h.handleMove(c, h.shortlistService.MoveUp, "Moved up")
}

// HandleMoveDown swaps the entry with the one below it.
func (h *ShortlistHandler) HandleMoveDown(c *fiber.Ctx) error {
	return h.handleMove(c, h.shortlistService.MoveDown, "Moved down")
}

// HandleMoveToTop places the entry at priority 1.
func (h *ShortlistHandler) HandleMoveToTop(c *fiber.Ctx) error {
	return h.handleMove(c, h.shortlistService.MoveToTop, "Moved to top")
}

// HandleMoveToBottom places the entry at the last position.
func (h *ShortlistHandler) HandleMoveToBottom(c *fiber.Ctx) error {
	return h.handleMove(c, h.shortlistService.MoveToBottom, "Moved to bottom")
}

func (h *ShortlistHandler) handleMove(c *fiber.Ctx, move func(userID, entryID string) error, success string) error {
	err := move(currentUserID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrAtTop) || errors.Is(err, repositories.ErrAtBottom) {
			return c.JSON(fiber.Map{
				"moved":   false,
				"message": err.Error(),
			})
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"moved":   true,
		"message": success,
	})
}

// HandleReorderAll compacts priorities to a dense 1..N sequence.
func (h *ShortlistHandler) HandleReorderAll(c *fiber.Ctx) error {
	if err := h.shortlistService.ReorderAll(currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Priorities reordered",
	})
}

// HandleClearAll removes every entry.
func (h *ShortlistHandler) HandleClearAll(c *fiber.Ctx) error {
	if err := h.shortlistService.ClearAll(currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Shortlist cleared",
	})
}

// HandleSummary returns aggregate counts for the overview panel.
func (h *ShortlistHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.shortlistService.Summary(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// HandleExportCSV downloads the shortlist as CSV.
func (h *ShortlistHandler) HandleExportCSV(c *fiber.Ctx) error {
	entries, err := h.shortlistService.List(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	blob, err := h.exportService.ShortlistCSV(entries)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="jee_shortlist_`+currentUsername(c)+`.csv"`)
	return c.Send(blob)
}

// HandleExportPDF downloads the styled shortlist report. A failed render
// is reported as a failure, never as an empty success.
func (h *ShortlistHandler) HandleExportPDF(c *fiber.Ctx) error {
	entries, err := h.shortlistService.List(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	blob, err := h.exportService.ShortlistPDF(entries, currentUsername(c))
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="jee_shortlist_`+currentUsername(c)+`.pdf"`)
	return c.Send(blob)
}
