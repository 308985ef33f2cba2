// ============================================================================
// internal/grade/sort.go
// Stable roster sorting
// ============================================================================

package grade

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Supported sort fields. An unrecognized field leaves the roster order
// untouched.
const (
	SortByName            = "name"
	SortByEmail           = "email"
	SortByFinalGrade      = "finalGrade"
	SortByTotalPercentage = "totalPercentage"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortStudentsGrades returns a stably sorted copy of the roster. Name and
// email compare locale-aware and case-insensitive; numeric fields coerce
// NaN to 0. Defaults: field "name", order "asc".
func SortStudentsGrades(roster []StudentSummary, field, order string) []StudentSummary {
	if field == "" {
		field = SortByName
	}
	if order == "" {
		order = OrderAsc
	}

	sorted := make([]StudentSummary, len(roster))
	copy(sorted, roster)

	collator := collate.New(language.Und, collate.Loose)

	compare := func(a, b StudentSummary) int {
		switch field {
		case SortByName:
			return collator.CompareString(a.Name, b.Name)
		case SortByEmail:
			return collator.CompareString(a.Email, b.Email)
		case SortByFinalGrade:
			return compareFloat(a.FinalGrade, b.FinalGrade)
		case SortByTotalPercentage:
			return compareFloat(a.TotalPercentage, b.TotalPercentage)
		default:
			return 0
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		c := compare(sorted[i], sorted[j])
		if order == OrderDesc {
			return c > 0
		}
		return c < 0
	})

	return sorted
}

func compareFloat(a, b float64) int {
	if math.IsNaN(a) {
		a = 0
	}
	if math.IsNaN(b) {
		b = 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
