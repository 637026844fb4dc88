package repositories

import (
	"sync"

	"seatfinder/internal/models"

	"github.com/google/uuid"
)

// MockCatalogRepository is an in-memory implementation of CatalogRepository.
type MockCatalogRepository struct {
	offers []models.SeatOffer
	mu     sync.RWMutex
}

// NewMockCatalogRepository creates a new instance of MockCatalogRepository.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{}
}

// GetAll returns a copy of all offers in insertion order.
func (r *MockCatalogRepository) GetAll() ([]models.SeatOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.SeatOffer, len(r.offers))
	copy(out, r.offers)
	return out, nil
}

// Create appends one offer.
func (r *MockCatalogRepository) Create(offer *models.SeatOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	r.offers = append(r.offers, *offer)
	return nil
}

// CreateBatch appends many offers.
func (r *MockCatalogRepository) CreateBatch(offers []models.SeatOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range offers {
		if offers[i].ID == "" {
			offers[i].ID = uuid.New().String()
		}
		r.offers = append(r.offers, offers[i])
	}
	return nil
}

// NormalizeGender rewrites a gender label across all offers.
func (r *MockCatalogRepository) NormalizeGender(oldLabel, newLabel string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var touched int64
	for i := range r.offers {
		if r.offers[i].Gender == oldLabel {
			r.offers[i].Gender = newLabel
			touched++
		}
	}
	return touched, nil
}

// Count returns the number of offers.
func (r *MockCatalogRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.offers)), nil
}
