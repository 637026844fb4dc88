package handlers

import (
	"bytes"

	"seatfinder/internal/models"
	"seatfinder/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for the seat-offer catalog.
type CatalogHandler struct {
	catalogService *services.CatalogService
	exportService  *services.ExportService
	validate       *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService, exportService *services.ExportService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		exportService:  exportService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the public catalog routes. Searching the
// catalog needs no account.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Post("/search", h.HandleSearch)
	catalogRoutes.Post("/search/export", h.HandleSearchExport)
}

// RegisterAdminRoutes registers the routes behind the shared admin gate.
func (h *CatalogHandler) RegisterAdminRoutes(router fiber.Router) {
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Post("/", h.HandleAppend)
	catalogRoutes.Post("/import", h.HandleImport)
	catalogRoutes.Post("/normalize-gender", h.HandleNormalizeGender)
}

// HandleSearch applies a filter spec to the catalog snapshot. An empty
// result set is a valid outcome, rendered as an empty list.
func (h *CatalogHandler) HandleSearch(c *fiber.Ctx) error {
	var spec services.FilterSpec
	if err := c.BodyParser(&spec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	offers, err := h.catalogService.Search(spec)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"count":   len(offers),
		"results": offers,
	})
}

// HandleSearchExport renders the filtered view as a CSV download.
func (h *CatalogHandler) HandleSearchExport(c *fiber.Ctx) error {
	var spec services.FilterSpec
	if err := c.BodyParser(&spec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	offers, err := h.catalogService.Search(spec)
	if err != nil {
		return respondError(c, err)
	}
	blob, err := h.exportService.CatalogCSV(offers)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="filtered_results.csv"`)
	return c.Send(blob)
}

// HandleAppend inserts one seat offer. The admin middleware has already
// authorized the caller.
func (h *CatalogHandler) HandleAppend(c *fiber.Ctx) error {
	var offer models.SeatOffer
	if err := c.BodyParser(&offer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(offer); err != nil {
		return validationFailed(c, err)
	}

	if err := h.catalogService.Append(&offer); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(offer)
}

// HandleImport bulk-loads counselling data from a CSV request body.
func (h *CatalogHandler) HandleImport(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "CSV body is required",
		})
	}

	result, err := h.catalogService.ImportCSV(bytes.NewReader(body))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// NormalizeGenderRequest names the label rewrite to perform.
type NormalizeGenderRequest struct {
	OldLabel string `json:"old_label" validate:"required"`
	NewLabel string `json:"new_label" validate:"required"`
}

// HandleNormalizeGender bulk-corrects a mis-encoded gender label.
func (h *CatalogHandler) HandleNormalizeGender(c *fiber.Ctx) error {
	var req NormalizeGenderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	touched, err := h.catalogService.NormalizeGender(req.OldLabel, req.NewLabel)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":      "Gender label normalized",
		"rows_updated": touched,
	})
}
