// ============================================================================
// internal/grade/statistics.go
// Roster-level grade statistics
// ============================================================================

package grade

import (
	"github.com/montanaflynn/stats"
)

// Statistics summarizes a roster for the teacher dashboard. Average, Highest
// and Lowest consider only students with complete grades; the status counts
// cover the full roster.
type Statistics struct {
	TotalStudents int     `json:"total_students"`
	Average       float64 `json:"average"`
	Highest       float64 `json:"highest"`
	Lowest        float64 `json:"lowest"`
	ApprovedCount int     `json:"approved_count"`
	FailedCount   int     `json:"failed_count"`
	PendingCount  int     `json:"pending_count"`
}

// CalculateGradeStatistics computes roster statistics. With no fully-graded
// students the average and highest default to 0 and the lowest defaults to
// the scale maximum (best case, so a dashboard never shows a fake zero floor).
// An empty roster reports all zeros.
func (a *Aggregator) CalculateGradeStatistics(roster []StudentSummary) Statistics {
	if len(roster) == 0 {
		return Statistics{}
	}

	result := Statistics{
		TotalStudents: len(roster),
		Lowest:        a.scale.MaximumGrade,
	}

	var completeGrades stats.Float64Data
	for _, s := range roster {
		switch s.Status {
		case StatusApproved:
			result.ApprovedCount++
		case StatusFailed:
			result.FailedCount++
		default:
			result.PendingCount++
		}

		if !s.HasMissingGrades && s.HasAnyGradeRecorded {
			completeGrades = append(completeGrades, s.FinalGrade)
		}
	}

	if len(completeGrades) == 0 {
		return result
	}

	if mean, err := stats.Mean(completeGrades); err == nil {
		result.Average = mean
	}
	if max, err := stats.Max(completeGrades); err == nil {
		result.Highest = max
	}
	if min, err := stats.Min(completeGrades); err == nil {
		result.Lowest = min
	}

	return result
}
