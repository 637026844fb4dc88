package repositories

import (
	"fmt"

	"seatfinder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db: db,
	}
}

// GetAll retrieves every seat offer. The result is the snapshot handed to
// the filter engine; calling it repeatedly never mutates anything.
func (r *GORMCatalogRepository) GetAll() ([]models.SeatOffer, error) {
	var offers []models.SeatOffer
	if err := r.db.Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return offers, nil
}

// Create appends one seat offer. Duplicate offers are permitted; the
// catalog has no uniqueness constraint.
func (r *GORMCatalogRepository) Create(offer *models.SeatOffer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if err := r.db.Create(offer).Error; err != nil {
		return fmt.Errorf("failed to append seat offer: %w", err)
	}
	return nil
}

// CreateBatch appends many seat offers in one transaction, used by the
// bulk CSV import.
func (r *GORMCatalogRepository) CreateBatch(offers []models.SeatOffer) error {
	if len(offers) == 0 {
		return nil
	}
	for i := range offers {
		if offers[i].ID == "" {
			offers[i].ID = uuid.New().String()
		}
	}
	if err := r.db.CreateInBatches(offers, 500).Error; err != nil {
		return fmt.Errorf("failed to bulk insert seat offers: %w", err)
	}
	return nil
}

// NormalizeGender bulk-rewrites a mis-encoded gender label and returns the
// number of rows touched. This is an administrative data migration, not a
// runtime mutation of the catalog.
func (r *GORMCatalogRepository) NormalizeGender(oldLabel, newLabel string) (int64, error) {
	res := r.db.Model(&models.SeatOffer{}).Where("gender = ?", oldLabel).Update("gender", newLabel)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to normalize gender label: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Count returns the number of catalog rows.
func (r *GORMCatalogRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.SeatOffer{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count catalog rows: %w", err)
	}
	return n, nil
}
