package models

import "gorm.io/gorm"

// Institute types as they appear in the counselling dataset.
const (
	InstituteTypeIIT  = "IIT"
	InstituteTypeNIT  = "NIT"
	InstituteTypeIIIT = "IIIT"
	InstituteTypeGFTI = "GFTI"
)

// Gender labels as they appear in the counselling dataset.
const (
	GenderNeutral    = "Gender-Neutral"
	GenderFemaleOnly = "Female-only (including Supernumerary)"
)

// SeatOffer represents one seat-allotment record for a counselling cycle.
// Rows are append-only: they are never updated or deleted in normal
// operation (bulk label normalization is a separate maintenance path).
type SeatOffer struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Institute     string `json:"institute" gorm:"index" validate:"required"`
	Location      string `json:"location"`
	InstituteType string `json:"institute_type" gorm:"index" validate:"required,oneof=IIT NIT IIIT GFTI"`
	Program       string `json:"program" gorm:"index" validate:"required"`
	Quota         string `json:"quota" validate:"required"`
	SeatType      string `json:"seat_type" validate:"required"`
	Gender        string `json:"gender" validate:"required"`
	OpeningRank   int    `json:"opening_rank" validate:"gte=0"`
	ClosingRank   int    `json:"closing_rank" validate:"gte=0"`
	Year          int    `json:"year" validate:"required"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
