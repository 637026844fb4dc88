package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"seatfinder/internal/models"
	"seatfinder/internal/repositories"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// CatalogEventPublisher publishes catalog change events for downstream
// consumers. Implemented by pkg/rabbitmq; a nil publisher disables
// publication.
type CatalogEventPublisher interface {
	PublishOfferAdded(payload map[string]interface{}) error
}

// CatalogService handles business logic for the seat-offer catalog.
type CatalogService struct {
	repo      repositories.CatalogRepository
	publisher CatalogEventPublisher
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.CatalogRepository, publisher CatalogEventPublisher) *CatalogService {
	return &CatalogService{
		repo:      repo,
		publisher: publisher,
	}
}

// Snapshot returns the full catalog. Safe to call repeatedly; nothing is
// mutated.
func (s *CatalogService) Snapshot() ([]models.SeatOffer, error) {
	return s.repo.GetAll()
}

// Search loads a snapshot and applies the filter spec to it.
func (s *CatalogService) Search(spec FilterSpec) ([]models.SeatOffer, error) {
	offers, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return ApplyFilter(offers, spec), nil
}

// Append inserts one seat offer. Callers must have passed the admin gate.
// A closing rank below the opening rank is a data-quality warning in the
// source dataset, not an error, so it is logged and admitted.
func (s *CatalogService) Append(offer *models.SeatOffer) error {
	if offer.ClosingRank < offer.OpeningRank {
		logger.Warn().
			Str("institute", offer.Institute).
			Str("program", offer.Program).
			Int("opening_rank", offer.OpeningRank).
			Int("closing_rank", offer.ClosingRank).
			Msg("closing rank below opening rank, admitting row as-is")
	}

	if err := s.repo.Create(offer); err != nil {
		return err
	}

	if s.publisher != nil {
		payload := map[string]interface{}{
			"offer_id":  offer.ID,
			"institute": offer.Institute,
			"program":   offer.Program,
			"year":      offer.Year,
		}
		if err := s.publisher.PublishOfferAdded(payload); err != nil {
			logger.Warn().Err(err).Str("offer_id", offer.ID).Msg("failed to publish offer_added event")
		}
	} else {
		logger.Debug().Msg("catalog event publisher not configured, skipping publication")
	}
	return nil
}

// ImportResult reports what a bulk CSV import did.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSV bulk-loads counselling data. The expected header is
// Institute, Location, Type, Academic Program Name, Quota, Seat Type,
// Gender, Opening Rank, Closing Rank, Year. Rows with unparseable rank or
// year cells are skipped and counted, as are the repeated header lines
// embedded in the source dataset (recognizable by Gender == "Gender").
func (s *CatalogService) ImportCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	required := []string{"Institute", "Type", "Academic Program Name", "Quota", "Seat Type", "Gender", "Opening Rank", "Closing Rank", "Year"}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("CSV is missing required column %q", name)
		}
	}

	result := &ImportResult{}
	var offers []models.SeatOffer
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		field := func(name string) string {
			idx, ok := col[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		if field("Gender") == "Gender" {
			// Repeated header line inside the data.
			result.Skipped++
			continue
		}

		opening, err1 := parseRank(field("Opening Rank"))
		closing, err2 := parseRank(field("Closing Rank"))
		year, err3 := strconv.Atoi(field("Year"))
		if err1 != nil || err2 != nil || err3 != nil {
			result.Skipped++
			continue
		}

		offers = append(offers, models.SeatOffer{
			Institute:     field("Institute"),
			Location:      field("Location"),
			InstituteType: field("Type"),
			Program:       field("Academic Program Name"),
			Quota:         field("Quota"),
			SeatType:      field("Seat Type"),
			Gender:        field("Gender"),
			OpeningRank:   opening,
			ClosingRank:   closing,
			Year:          year,
		})
	}

	if err := s.repo.CreateBatch(offers); err != nil {
		return nil, err
	}
	result.Imported = len(offers)
	logger.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("catalog CSV import finished")
	return result, nil
}

// NormalizeGender bulk-rewrites a mis-encoded gender label, returning how
// many rows changed.
func (s *CatalogService) NormalizeGender(oldLabel, newLabel string) (int64, error) {
	if oldLabel == "" || newLabel == "" {
		return 0, validationErr("gender", "both old and new labels are required")
	}
	touched, err := s.repo.NormalizeGender(oldLabel, newLabel)
	if err != nil {
		return 0, err
	}
	logger.Info().Str("old", oldLabel).Str("new", newLabel).Int64("rows", touched).Msg("normalized gender label")
	return touched, nil
}

// parseRank parses a rank cell, tolerating thousands separators. PwD rank
// cells with a trailing "P" are also accepted.
func parseRank(value string) (int, error) {
	cleaned := strings.ReplaceAll(value, ",", "")
	cleaned = strings.TrimSuffix(cleaned, "P")
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative rank %d", n)
	}
	return n, nil
}
