package services

import (
	"sort"
	"strings"

	"seatfinder/internal/models"
)

// AllInstitutes is the sentinel meaning "no institute restriction".
const AllInstitutes = "All"

// Named program groups. A group selection expands, at query time, to the
// distinct program names in the already type/institute-narrowed subset
// whose name contains any of the group's substrings (case-insensitive).
// Group membership is therefore context-dependent, not global.
var programGroups = map[string][]string{
	"Computers":   {"computer", "data", "ai", "artificial", "intelligence"},
	"Electronics": {"electronics"},
}

// RankRange is an inclusive [Min, Max] bound on closing rank.
type RankRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FilterSpec holds the conjunctive predicates of a catalog query. Every
// field is optional; an empty predicate matches everything.
//
// RankRange bounds the closing rank only (min <= closing_rank <= max);
// opening rank is not constrained.
type FilterSpec struct {
	InstituteTypes []string   `json:"institute_types"`
	Institutes     []string   `json:"institutes"`
	Programs       []string   `json:"programs"`
	Genders        []string   `json:"genders"`
	Quotas         []string   `json:"quotas"`
	SeatTypes      []string   `json:"seat_types"`
	RankRange      *RankRange `json:"rank_range"`
}

// ApplyFilter evaluates the spec against a catalog snapshot and returns
// the matching rows sorted ascending by closing rank. The sort is stable,
// so ties keep their input order and repeated calls yield identical
// output. An empty result is a valid outcome, not an error.
func ApplyFilter(offers []models.SeatOffer, spec FilterSpec) []models.SeatOffer {
	narrowed := make([]models.SeatOffer, 0, len(offers))

	typeSet := toSet(spec.InstituteTypes)
	instituteSet := instituteFilterSet(spec.Institutes)
	for _, offer := range offers {
		if len(typeSet) > 0 && !typeSet[offer.InstituteType] {
			continue
		}
		if instituteSet != nil && !instituteSet[offer.Institute] {
			continue
		}
		narrowed = append(narrowed, offer)
	}

	programSet := effectivePrograms(narrowed, spec.Programs)
	genderSet := toSet(spec.Genders)
	quotaSet := toSet(spec.Quotas)
	seatTypeSet := toSet(spec.SeatTypes)

	result := make([]models.SeatOffer, 0, len(narrowed))
	for _, offer := range narrowed {
		if programSet != nil && !programSet[offer.Program] {
			continue
		}
		if len(genderSet) > 0 && !genderSet[offer.Gender] {
			continue
		}
		if len(quotaSet) > 0 && !quotaSet[offer.Quota] {
			continue
		}
		if len(seatTypeSet) > 0 && !seatTypeSet[offer.SeatType] {
			continue
		}
		if spec.RankRange != nil {
			if offer.ClosingRank < spec.RankRange.Min || offer.ClosingRank > spec.RankRange.Max {
				continue
			}
		}
		result = append(result, offer)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ClosingRank < result[j].ClosingRank
	})
	return result
}

// effectivePrograms builds the union of literal selections and expanded
// group members over the narrowed subset. A nil return means no program
// restriction.
func effectivePrograms(narrowed []models.SeatOffer, selections []string) map[string]bool {
	if len(selections) == 0 {
		return nil
	}
	effective := make(map[string]bool)
	for _, selection := range selections {
		keywords, isGroup := programGroups[selection]
		if !isGroup {
			effective[selection] = true
			continue
		}
		for _, offer := range narrowed {
			name := strings.ToLower(offer.Program)
			for _, kw := range keywords {
				if strings.Contains(name, kw) {
					effective[offer.Program] = true
					break
				}
			}
		}
	}
	return effective
}

// instituteFilterSet returns nil when the selection is empty or contains
// the "All" sentinel.
func instituteFilterSet(institutes []string) map[string]bool {
	if len(institutes) == 0 {
		return nil
	}
	for _, inst := range institutes {
		if inst == AllInstitutes {
			return nil
		}
	}
	return toSet(institutes)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}
