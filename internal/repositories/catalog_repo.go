package repositories

import "seatfinder/internal/models"

// CatalogRepository defines the interface for seat-offer data access.
// The catalog is append-only: there is no update or delete of individual
// rows, only the one-off gender-label normalization maintenance operation.
type CatalogRepository interface {
	GetAll() ([]models.SeatOffer, error)
	Create(offer *models.SeatOffer) error
	CreateBatch(offers []models.SeatOffer) error
	NormalizeGender(oldLabel, newLabel string) (int64, error)
	Count() (int64, error)
}
