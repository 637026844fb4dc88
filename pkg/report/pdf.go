package report

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"seatfinder/internal/models"

	"github.com/go-pdf/fpdf"
)

// Shortlist table column widths in mm, 190mm printable width on A4.
var shortlistCols = []struct {
	title string
	width float64
	align string
}{
	{"Priority", 14, "C"},
	{"Institute", 38, "L"},
	{"Program", 40, "L"},
	{"Closing Rank", 20, "R"},
	{"Seat Type", 18, "C"},
	{"Quota", 14, "C"},
	{"Gender", 20, "C"},
	{"Notes", 26, "L"},
}

// ShortlistPDF renders the styled shortlist report: title block, per-row
// table in priority order and a statistics summary. Returns the PDF as an
// opaque byte blob; the caller decides how to deliver it.
func ShortlistPDF(entries []models.ShortlistEntry, username string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title block.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(102, 126, 234)
	pdf.CellFormat(0, 12, "JEE Seat Finder - My Shortlist", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(51, 51, 51)
	generated := time.Now().Format("January 2, 2006")
	pdf.CellFormat(0, 8, fmt.Sprintf("Student: %s  |  Generated on: %s", username, generated), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(102, 126, 234)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Options in Shortlist: %d", len(entries)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(entries) > 0 {
		writeShortlistTable(pdf, entries)
		writeStatistics(pdf, entries)
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, "Generated by JEE Seat Finder", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeShortlistTable(pdf *fpdf.Fpdf, entries []models.ShortlistEntry) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(102, 126, 234)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(222, 226, 230)
	for _, col := range shortlistCols {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(33, 37, 41)
	for i, entry := range entries {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(248, 249, 250)
		}
		cells := []string{
			strconv.Itoa(entry.PriorityOrder),
			entry.Institute,
			entry.Program,
			formatThousands(entry.ClosingRank),
			entry.SeatType,
			entry.Quota,
			entry.Gender,
			entry.Notes,
		}
		for j, col := range shortlistCols {
			pdf.CellFormat(col.width, 7, truncateToWidth(pdf, cells[j], col.width-2), "1", 0, col.align, true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func writeStatistics(pdf *fpdf.Fpdf, entries []models.ShortlistEntry) {
	stats := computeStats(entries)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(102, 126, 234)
	pdf.CellFormat(0, 10, "Summary Statistics", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 6, fmt.Sprintf("Options: %d", stats.count), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Closing rank - mean: %s, best: %s, worst: %s",
		formatThousands(stats.meanRank), formatThousands(stats.minRank), formatThousands(stats.maxRank)),
		"", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Institute breakdown, top 8 by frequency.
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(40, 167, 69)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(195, 230, 203)
	pdf.CellFormat(100, 8, "Institute", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "# Options", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "% Share", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 8, "Avg Closing Rank", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(33, 37, 41)
	for i, inst := range stats.topInstitutes {
		if i%2 == 0 {
			pdf.SetFillColor(212, 237, 218)
		} else {
			pdf.SetFillColor(195, 230, 203)
		}
		share := float64(inst.count) / float64(stats.count) * 100
		pdf.CellFormat(100, 7, truncateToWidth(pdf, inst.label, 98), "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 7, strconv.Itoa(inst.count), "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.1f%%", share), "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, formatThousands(inst.avgRank), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(4)

	// Seat-type distribution.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(102, 126, 234)
	pdf.CellFormat(0, 8, "Seat Type Distribution", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(33, 37, 41)
	for _, st := range stats.seatTypes {
		share := float64(st.count) / float64(stats.count) * 100
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %d (%.1f%%)", st.label, st.count, share), "", 1, "L", false, 0, "")
	}
}

type labelStat struct {
	label   string
	count   int
	avgRank int
}

type shortlistStats struct {
	count         int
	meanRank      int
	minRank       int
	maxRank       int
	topInstitutes []labelStat
	seatTypes     []labelStat
}

func computeStats(entries []models.ShortlistEntry) shortlistStats {
	stats := shortlistStats{count: len(entries), minRank: entries[0].ClosingRank}

	sum := 0
	instituteRanks := make(map[string][]int)
	seatTypeCounts := make(map[string]int)
	for _, entry := range entries {
		sum += entry.ClosingRank
		if entry.ClosingRank < stats.minRank {
			stats.minRank = entry.ClosingRank
		}
		if entry.ClosingRank > stats.maxRank {
			stats.maxRank = entry.ClosingRank
		}
		instituteRanks[entry.Institute] = append(instituteRanks[entry.Institute], entry.ClosingRank)
		seatTypeCounts[entry.SeatType]++
	}
	stats.meanRank = sum / len(entries)

	for institute, ranks := range instituteRanks {
		total := 0
		for _, r := range ranks {
			total += r
		}
		stats.topInstitutes = append(stats.topInstitutes, labelStat{
			label:   institute,
			count:   len(ranks),
			avgRank: total / len(ranks),
		})
	}
	sort.Slice(stats.topInstitutes, func(i, j int) bool {
		if stats.topInstitutes[i].count != stats.topInstitutes[j].count {
			return stats.topInstitutes[i].count > stats.topInstitutes[j].count
		}
		return stats.topInstitutes[i].label < stats.topInstitutes[j].label
	})
	if len(stats.topInstitutes) > 8 {
		stats.topInstitutes = stats.topInstitutes[:8]
	}

	for seatType, count := range seatTypeCounts {
		stats.seatTypes = append(stats.seatTypes, labelStat{label: seatType, count: count})
	}
	sort.Slice(stats.seatTypes, func(i, j int) bool {
		if stats.seatTypes[i].count != stats.seatTypes[j].count {
			return stats.seatTypes[i].count > stats.seatTypes[j].count
		}
		return stats.seatTypes[i].label < stats.seatTypes[j].label
	})
	return stats
}

// formatThousands renders an integer with comma separators, e.g. 12,345.
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

// truncateToWidth trims a string with an ellipsis so it fits the cell.
func truncateToWidth(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
