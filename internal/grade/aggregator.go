// ============================================================================
// internal/grade/aggregator.go
// Weighted grade aggregation and status classification
// ============================================================================

package grade

import (
	"math"
	"time"

	"gradebook/internal/shared"
)

// Status classifies a student's standing in a course.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusFailed   Status = "FAILED"
)

// AssessmentGrade is one cell of a student's summary: the student's result on
// a single assessment. Grade and AssignedAt are nil when no record exists.
type AssessmentGrade struct {
	AssessmentName string     `json:"assessment_name"`
	Percentage     float64    `json:"percentage"`
	Grade          *float64   `json:"grade"`
	WeightedGrade  float64    `json:"weighted_grade"`
	AssignedAt     *time.Time `json:"assigned_at"`
}

// StudentSummary is the computed per-student roster entry. Grades always holds
// exactly one entry per course assessment, keyed by assessment ID, whether or
// not a grade record exists for that assessment.
type StudentSummary struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url,omitempty"`

	Grades          map[string]AssessmentGrade `json:"grades"`
	TotalWeighted   float64                    `json:"total_weighted"`
	TotalPercentage float64                    `json:"total_percentage"`
	FinalGrade      float64                    `json:"final_grade"`
	Status          Status                     `json:"status"`

	HasMissingGrades    bool `json:"has_missing_grades"`
	HasAnyGradeRecorded bool `json:"has_any_grade_recorded"`
	// AllGradesAreZero is exposed for display emphasis only; the status
	// classifier does not consult it.
	AllGradesAreZero bool `json:"all_grades_are_zero"`
}

// DefaultScale returns the standard 0-10 scale with a passing threshold of 6.
func DefaultScale() shared.GradingConfig {
	return shared.GradingConfig{MaximumGrade: 10, MinimumPassingGrade: 6}
}

// Aggregator folds assessment definitions and per-student grade records into
// StudentSummary values. The scale is fixed at construction; there are no
// package-level grading globals.
type Aggregator struct {
	scale shared.GradingConfig
}

// NewAggregator creates an Aggregator for the given scale. A non-positive
// MaximumGrade falls back to the default scale.
func NewAggregator(scale shared.GradingConfig) *Aggregator {
	if scale.MaximumGrade <= 0 {
		scale = DefaultScale()
	}
	return &Aggregator{scale: scale}
}

// Scale returns the grading scale the aggregator was built with.
func (a *Aggregator) Scale() shared.GradingConfig {
	return a.scale
}

// BuildStudentSummary computes one student's summary over a course's
// assessment list. records maps assessment ID to that student's grade record;
// assessments with no entry count toward TotalPercentage but mark the summary
// as having missing grades.
func (a *Aggregator) BuildStudentSummary(profile shared.User, assessments []shared.Assessment, records map[string]shared.GradeRecord) StudentSummary {
	summary := StudentSummary{
		UserID:           profile.ID,
		Name:             profile.Name,
		Email:            profile.Email,
		PhotoURL:         profile.PhotoURL,
		Grades:           make(map[string]AssessmentGrade, len(assessments)),
		AllGradesAreZero: true,
	}

	for _, assessment := range assessments {
		percentage := numericOrZero(assessment.Percentage)
		summary.TotalPercentage += percentage

		record, exists := records[assessment.ID]
		if !exists {
			summary.HasMissingGrades = true
			summary.Grades[assessment.ID] = AssessmentGrade{
				AssessmentName: assessment.Name,
				Percentage:     percentage,
			}
			continue
		}

		gradeValue := numericOrZero(record.Grade)
		weighted := gradeValue * percentage / a.scale.MaximumGrade
		summary.TotalWeighted += weighted
		summary.HasAnyGradeRecorded = true
		if gradeValue != 0 {
			summary.AllGradesAreZero = false
		}

		assignedAt := record.AssignedAt
		summary.Grades[assessment.ID] = AssessmentGrade{
			AssessmentName: assessment.Name,
			Percentage:     percentage,
			Grade:          &gradeValue,
			WeightedGrade:  weighted,
			AssignedAt:     &assignedAt,
		}
	}

	if summary.TotalPercentage > 0 {
		summary.FinalGrade = summary.TotalWeighted * a.scale.MaximumGrade / summary.TotalPercentage
	}

	summary.Status = a.ClassifyStatus(summary.FinalGrade, summary.HasMissingGrades, summary.HasAnyGradeRecorded)
	return summary
}

// ClassifyStatus is a pure function of its inputs; it holds no state and can
// be re-evaluated freely. A student with no grades at all, or with some but
// not all assessments graded, is PENDING regardless of the partial average.
func (a *Aggregator) ClassifyStatus(finalGrade float64, hasMissingGrades, hasAnyGradeRecorded bool) Status {
	if !hasAnyGradeRecorded {
		return StatusPending
	}
	if hasMissingGrades {
		return StatusPending
	}
	if finalGrade >= a.scale.MinimumPassingGrade {
		return StatusApproved
	}
	return StatusFailed
}

// numericOrZero coerces NaN/Inf to 0 so a malformed stored value
// cannot poison the fold.
func numericOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
