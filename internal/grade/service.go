// ============================================================================
// internal/grade/service.go
// Course roster aggregation over the document store
// ============================================================================

package grade

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"gradebook/internal/assessment"
	"gradebook/internal/shared"
)

// profileFetchLimit bounds concurrent user-profile reads during a roster
// build so a large class cannot flood the store.
const profileFetchLimit = 8

// Service folds a course's assessments, grade records and enrollments into
// per-student summaries. All entry points are reads: they degrade to empty
// results on store failure instead of propagating errors, so a dashboard can
// render a partial state.
type Service struct {
	registry       *assessment.Service
	aggregator     *Aggregator
	gradesCol      *mongo.Collection
	enrollmentsCol *mongo.Collection
	usersCol       *mongo.Collection
}

// NewService creates a new grade Service instance
func NewService(db *mongo.Database, registry *assessment.Service, aggregator *Aggregator) *Service {
	s := &Service{
		registry:   registry,
		aggregator: aggregator,
	}
	if s.aggregator == nil {
		s.aggregator = NewAggregator(DefaultScale())
	}
	if db != nil {
		s.gradesCol = db.Collection("grades")
		s.enrollmentsCol = db.Collection("enrollments")
		s.usersCol = db.Collection("users")
	}
	return s
}

// Aggregator exposes the aggregation engine, for statistics and export on an
// already-built roster.
func (s *Service) Aggregator() *Aggregator {
	return s.aggregator
}

// CourseRoster builds the full per-student summary roster for a course,
// ordered by enrollment iteration order (student ID ascending). Profile
// fetches run concurrently with bounded parallelism; one student's fetch
// failure yields a placeholder identity for that student only.
func (s *Service) CourseRoster(ctx context.Context, courseID string) []StudentSummary {
	if courseID == "" {
		return []StudentSummary{}
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	assessments := s.registry.ListAssessments(queryCtx, courseID)
	return s.buildRoster(queryCtx, courseID, assessments)
}

// buildRoster assembles the roster against a fixed assessment list, so a
// caller that also renders the assessment columns sees one consistent
// snapshot.
func (s *Service) buildRoster(queryCtx context.Context, courseID string, assessments []shared.Assessment) []StudentSummary {
	gradesByAssessment := s.loadCourseGrades(queryCtx, courseID)
	enrollments := s.loadEnrollments(queryCtx, courseID)
	if len(enrollments) == 0 {
		return []StudentSummary{}
	}

	profiles := s.fetchProfiles(queryCtx, enrollments)

	roster := make([]StudentSummary, 0, len(enrollments))
	for i, enrollment := range enrollments {
		records := make(map[string]shared.GradeRecord)
		for assessmentID, byStudent := range gradesByAssessment {
			if record, ok := byStudent[enrollment.StudentID]; ok {
				records[assessmentID] = record
			}
		}
		roster = append(roster, s.aggregator.BuildStudentSummary(profiles[i], assessments, records))
	}

	return roster
}

// SummaryForStudent builds a single student's summary for a course, for the
// student-facing view. Missing identifiers or store failures yield a summary
// with empty grades rather than an error.
func (s *Service) SummaryForStudent(ctx context.Context, courseID, studentID string) StudentSummary {
	if courseID == "" || studentID == "" {
		return StudentSummary{Grades: map[string]AssessmentGrade{}, Status: StatusPending, AllGradesAreZero: true}
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	assessments := s.registry.ListAssessments(queryCtx, courseID)

	records := make(map[string]shared.GradeRecord)
	for assessmentID, byStudent := range s.loadCourseGrades(queryCtx, courseID) {
		if record, ok := byStudent[studentID]; ok {
			records[assessmentID] = record
		}
	}

	profile := s.fetchProfile(queryCtx, studentID)
	return s.aggregator.BuildStudentSummary(profile, assessments, records)
}

// CourseStatistics builds the roster and computes its statistics.
func (s *Service) CourseStatistics(ctx context.Context, courseID string) Statistics {
	return s.aggregator.CalculateGradeStatistics(s.CourseRoster(ctx, courseID))
}

// ExportCourseCSV builds the roster, sorts it by name, and renders it as CSV.
func (s *Service) ExportCourseCSV(ctx context.Context, courseID string) string {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	assessments := s.registry.ListAssessments(queryCtx, courseID)
	roster := SortStudentsGrades(s.buildRoster(queryCtx, courseID, assessments), SortByName, OrderAsc)
	return s.aggregator.ExportGradesToCSV(roster, assessments)
}

// ============================================================================
// Helper Functions
// ============================================================================

// loadCourseGrades reads all grade records for a course into a
// map[assessmentID]map[studentID]GradeRecord. Malformed documents coerce
// field-by-field; a failed query yields an empty map.
func (s *Service) loadCourseGrades(ctx context.Context, courseID string) map[string]map[string]shared.GradeRecord {
	result := make(map[string]map[string]shared.GradeRecord)

	cursor, err := s.gradesCol.Find(ctx, bson.M{"course_id": courseID})
	if err != nil {
		log.Printf("Error querying grades for course %s: %v", courseID, err)
		return result
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			continue
		}

		record := shared.GradeRecord{CourseID: courseID}
		if v, err := shared.GetString(doc["assessment_id"]); err == nil {
			record.AssessmentID = v
		}
		if v, err := shared.GetString(doc["student_id"]); err == nil {
			record.StudentID = v
		}
		if v, err := shared.GetFloat64(doc["grade"]); err == nil {
			record.Grade = v
		}
		if v, err := shared.GetTime(doc["assigned_at"]); err == nil {
			record.AssignedAt = v
		}

		if record.AssessmentID == "" || record.StudentID == "" {
			continue
		}

		if result[record.AssessmentID] == nil {
			result[record.AssessmentID] = make(map[string]shared.GradeRecord)
		}
		result[record.AssessmentID][record.StudentID] = record
	}

	return result
}

// loadEnrollments lists active enrollments for a course, student ID ascending.
func (s *Service) loadEnrollments(ctx context.Context, courseID string) []shared.Enrollment {
	filter := bson.M{"course_id": courseID, "status": shared.StatusEnrolled}
	findOptions := shared.BuildFindOptions(0, "student_id", 1)

	cursor, err := s.enrollmentsCol.Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("Error querying enrollments for course %s: %v", courseID, err)
		return nil
	}
	defer cursor.Close(ctx)

	var enrollments []shared.Enrollment
	for cursor.Next(ctx) {
		var enrollment shared.Enrollment
		if err := cursor.Decode(&enrollment); err != nil {
			continue
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments
}

// fetchProfiles loads user profiles for the enrolled students concurrently.
// Each fetch is isolated: a failure fills that slot with a placeholder
// identity and never aborts the others.
func (s *Service) fetchProfiles(ctx context.Context, enrollments []shared.Enrollment) []shared.User {
	profiles := make([]shared.User, len(enrollments))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(profileFetchLimit)

	for i, enrollment := range enrollments {
		i, enrollment := i, enrollment
		g.Go(func() error {
			profiles[i] = s.fetchProfile(groupCtx, enrollment.StudentID)
			return nil
		})
	}

	// Goroutines never return errors; Wait only synchronizes.
	g.Wait()
	return profiles
}

// fetchProfile loads one user profile, degrading to a placeholder identity
// on any failure.
func (s *Service) fetchProfile(ctx context.Context, studentID string) shared.User {
	var user shared.User
	if err := shared.FindOneWithTimeout(ctx, s.usersCol, bson.M{"_id": studentID}, &user, 5*time.Second); err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("Error fetching profile for student %s: %v", studentID, err)
		}
		return shared.User{ID: studentID, Name: shared.UnknownStudentName}
	}

	return user
}
