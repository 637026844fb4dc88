package models

import "time"

// ShortlistEntry is one saved seat option in a user's shortlist. The seat
// fields are a denormalized snapshot copied from the SeatOffer at insert
// time, so later catalog edits never change what the user saved.
//
// PriorityOrder is unique per user and defines display/export order
// ascending. The composite unique index on the seat tuple backs the
// dedup-on-insert check so check-then-insert cannot race.
type ShortlistEntry struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string    `json:"user_id" gorm:"index;type:varchar(36);uniqueIndex:idx_shortlist_seat,priority:1"`
	Institute     string    `json:"institute" gorm:"uniqueIndex:idx_shortlist_seat,priority:2"`
	Program       string    `json:"program" gorm:"uniqueIndex:idx_shortlist_seat,priority:3"`
	ClosingRank   int       `json:"closing_rank"`
	SeatType      string    `json:"seat_type" gorm:"uniqueIndex:idx_shortlist_seat,priority:4"`
	Quota         string    `json:"quota" gorm:"uniqueIndex:idx_shortlist_seat,priority:5"`
	Gender        string    `json:"gender" gorm:"uniqueIndex:idx_shortlist_seat,priority:6"`
	Notes         string    `json:"notes"`
	PriorityOrder int       `json:"priority_order" gorm:"index"`
	AddedAt       time.Time `json:"added_at" gorm:"autoCreateTime"`
}

// ShortlistSummary aggregates a user's shortlist for the sidebar-style
// overview and the PDF statistics block.
type ShortlistSummary struct {
	TotalItems  int          `json:"total_items"`
	ByInstitute []LabelCount `json:"by_institute"`
	BySeatType  []LabelCount `json:"by_seat_type"`
}

// LabelCount is a label with its occurrence count, ordered by count desc.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
