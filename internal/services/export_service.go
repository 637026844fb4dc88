package services

import (
	"seatfinder/internal/models"
	"seatfinder/pkg/report"
)

// ExportService turns result sets into opaque byte blobs. It knows nothing
// about MIME types or delivery; that belongs to the transport layer.
type ExportService struct{}

// NewExportService creates a new ExportService.
func NewExportService() *ExportService {
	return &ExportService{}
}

// CatalogCSV renders a filtered catalog view as CSV.
func (s *ExportService) CatalogCSV(offers []models.SeatOffer) ([]byte, error) {
	return report.CatalogCSV(offers)
}

// ShortlistCSV renders a shortlist as CSV in priority order.
func (s *ExportService) ShortlistCSV(entries []models.ShortlistEntry) ([]byte, error) {
	return report.ShortlistCSV(entries)
}

// ShortlistPDF renders the styled shortlist report with summary statistics.
func (s *ExportService) ShortlistPDF(entries []models.ShortlistEntry, username string) ([]byte, error) {
	return report.ShortlistPDF(entries, username)
}
