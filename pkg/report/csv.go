package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"seatfinder/internal/models"
)

// CatalogCSV renders a filtered catalog view with the same column order as
// the source counselling dataset, header row included.
func CatalogCSV(offers []models.SeatOffer) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Institute", "Location", "Type", "Academic Program Name", "Quota", "Seat Type", "Gender", "Opening Rank", "Closing Rank", "Year"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, offer := range offers {
		record := []string{
			offer.Institute,
			offer.Location,
			offer.InstituteType,
			offer.Program,
			offer.Quota,
			offer.SeatType,
			offer.Gender,
			strconv.Itoa(offer.OpeningRank),
			strconv.Itoa(offer.ClosingRank),
			strconv.Itoa(offer.Year),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ShortlistCSV renders a shortlist in priority order, header row included.
func ShortlistCSV(entries []models.ShortlistEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Priority", "Institute", "Program", "Closing Rank", "Seat Type", "Quota", "Gender", "Notes", "Added At"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, entry := range entries {
		record := []string{
			strconv.Itoa(entry.PriorityOrder),
			entry.Institute,
			entry.Program,
			strconv.Itoa(entry.ClosingRank),
			entry.SeatType,
			entry.Quota,
			entry.Gender,
			entry.Notes,
			entry.AddedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
