// ============================================================================
// internal/grade/color.go
// Grade banding for display emphasis
// ============================================================================

package grade

// Color is a display band for a grade value. The thresholds encode grading
// policy, so they live with the engine rather than the presentation layer.
type Color string

const (
	ColorPending   Color = "#9E9E9E"
	ColorExcellent Color = "#2E7D32"
	ColorGood      Color = "#4CAF50"
	ColorFair      Color = "#FF9800"
	ColorPoor      Color = "#F44336"
)

// GradeColor bands an absolute grade value. A zero grade with no recorded
// data means "nothing graded yet" and renders as pending; a zero grade with
// recorded data is a real zero and falls through to poor.
func (a *Aggregator) GradeColor(grade float64, hasAnyGradeRecorded bool) Color {
	if grade == 0 && !hasAnyGradeRecorded {
		return ColorPending
	}

	passing := a.scale.MinimumPassingGrade
	switch {
	case grade >= a.scale.MaximumGrade-1:
		return ColorExcellent
	case grade >= passing+1:
		return ColorGood
	case grade >= passing:
		return ColorFair
	default:
		return ColorPoor
	}
}

// GradeDifferentialColor bands a grade relative to the passing threshold,
// with an exact-threshold tier of its own. A nil grade renders as pending.
func (a *Aggregator) GradeDifferentialColor(grade *float64) Color {
	if grade == nil {
		return ColorPending
	}

	passing := a.scale.MinimumPassingGrade
	switch {
	case *grade > passing:
		return ColorGood
	case *grade < passing:
		return ColorPoor
	default:
		return ColorFair
	}
}
