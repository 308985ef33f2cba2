// ============================================================================
// internal/assessment/service.go
// CRUD over weighted assessments and the grade records filed beneath them
// ============================================================================

package assessment

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gradebook/internal/shared"
)

// Service manages Assessment entities and GradeRecords. Write operations
// validate identifiers and propagate store failures; list operations degrade
// to empty slices so read-only dashboards can always render.
type Service struct {
	db             *mongo.Database
	grading        shared.GradingConfig
	assessmentsCol *mongo.Collection
	gradesCol      *mongo.Collection
}

// NewService creates a new assessment Service instance
func NewService(db *mongo.Database, grading shared.GradingConfig) *Service {
	s := &Service{grading: grading}
	if s.grading.MaximumGrade <= 0 {
		s.grading = shared.GradingConfig{MaximumGrade: 10, MinimumPassingGrade: 6}
	}
	if db != nil {
		s.db = db
		s.assessmentsCol = db.Collection("assessments")
		s.gradesCol = db.Collection("grades")
	}
	return s
}

// CreateAssessment creates a weighted assessment under a course.
func (s *Service) CreateAssessment(ctx context.Context, courseID string, input shared.AssessmentInput) (*shared.Assessment, error) {
	if courseID == "" {
		return nil, shared.NewValidationError("course_id", "course_id is required")
	}
	if input.Name == "" {
		return nil, shared.NewValidationError("name", "name is required")
	}
	if input.Percentage <= shared.MinAssessmentPercentage || input.Percentage > shared.MaxAssessmentPercentage {
		return nil, shared.NewValidationError("percentage", "percentage must be in (0, 100]")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	assessment := shared.Assessment{
		ID:         shared.GenerateAssessmentID(),
		CourseID:   courseID,
		Name:       input.Name,
		Percentage: input.Percentage,
		CreatedAt:  time.Now(),
	}

	if _, err := s.assessmentsCol.InsertOne(queryCtx, assessment); err != nil {
		return nil, shared.NewUpstreamError("create assessment", err)
	}

	return &assessment, nil
}

// UpdateAssessment merges the provided fields into an existing assessment and
// stamps UpdatedAt. Zero-valued fields are left untouched.
func (s *Service) UpdateAssessment(ctx context.Context, courseID, assessmentID string, input shared.AssessmentInput) (*shared.Assessment, error) {
	if courseID == "" {
		return nil, shared.NewValidationError("course_id", "course_id is required")
	}
	if assessmentID == "" {
		return nil, shared.NewValidationError("assessment_id", "assessment_id is required")
	}

	update := bson.M{}
	if input.Name != "" {
		update["name"] = input.Name
	}
	if input.Percentage != 0 {
		if input.Percentage < shared.MinAssessmentPercentage || input.Percentage > shared.MaxAssessmentPercentage {
			return nil, shared.NewValidationError("percentage", "percentage must be in (0, 100]")
		}
		update["percentage"] = input.Percentage
	}
	update["updated_at"] = time.Now()

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": assessmentID, "course_id": courseID}
	res, err := s.assessmentsCol.UpdateOne(queryCtx, filter, bson.M{"$set": update})
	if err != nil {
		return nil, shared.NewUpstreamError("update assessment", err)
	}
	if res.MatchedCount == 0 {
		return nil, shared.NewNotFoundError("assessment", assessmentID)
	}

	var updated shared.Assessment
	if err := s.assessmentsCol.FindOne(queryCtx, filter).Decode(&updated); err != nil {
		return nil, shared.NewUpstreamError("update assessment", err)
	}

	return &updated, nil
}

// DeleteAssessment removes the assessment document. Grade records filed under
// the assessment are NOT cascade-deleted: they become unreachable and the
// aggregator never reads them, since it only walks the course's live
// assessment list.
func (s *Service) DeleteAssessment(ctx context.Context, courseID, assessmentID string) error {
	if courseID == "" {
		return shared.NewValidationError("course_id", "course_id is required")
	}
	if assessmentID == "" {
		return shared.NewValidationError("assessment_id", "assessment_id is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.assessmentsCol.DeleteOne(queryCtx, bson.M{"_id": assessmentID, "course_id": courseID})
	if err != nil {
		return shared.NewUpstreamError("delete assessment", err)
	}
	if res.DeletedCount == 0 {
		return shared.NewNotFoundError("assessment", assessmentID)
	}

	return nil
}

// AssignGrade upserts the grade record for an (assessment, student) pair,
// stamping AssignedAt with the current time.
func (s *Service) AssignGrade(ctx context.Context, courseID, assessmentID, studentID string, grade float64) (*shared.GradeRecord, error) {
	if courseID == "" {
		return nil, shared.NewValidationError("course_id", "course_id is required")
	}
	if assessmentID == "" {
		return nil, shared.NewValidationError("assessment_id", "assessment_id is required")
	}
	if studentID == "" {
		return nil, shared.NewValidationError("student_id", "student_id is required")
	}
	if grade < 0 || grade > s.grading.MaximumGrade {
		return nil, shared.NewValidationError("grade", "grade is outside the grading scale")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// The assessment must exist; grades cannot be filed against a deleted one.
	err := s.assessmentsCol.FindOne(queryCtx, bson.M{"_id": assessmentID, "course_id": courseID}).Err()
	if err == mongo.ErrNoDocuments {
		return nil, shared.NewNotFoundError("assessment", assessmentID)
	}
	if err != nil {
		return nil, shared.NewUpstreamError("assign grade", err)
	}

	record := shared.GradeRecord{
		CourseID:     courseID,
		AssessmentID: assessmentID,
		StudentID:    studentID,
		Grade:        grade,
		AssignedAt:   time.Now(),
	}

	filter := bson.M{
		"course_id":     courseID,
		"assessment_id": assessmentID,
		"student_id":    studentID,
	}
	update := bson.M{"$set": bson.M{
		"course_id":     record.CourseID,
		"assessment_id": record.AssessmentID,
		"student_id":    record.StudentID,
		"grade":         record.Grade,
		"assigned_at":   record.AssignedAt,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := s.gradesCol.UpdateOne(queryCtx, filter, update, opts); err != nil {
		return nil, shared.NewUpstreamError("assign grade", err)
	}

	return &record, nil
}

// ListAssessments returns a course's assessments in insertion order. A missing
// course, empty course, or store failure yields an empty slice, never an
// error.
func (s *Service) ListAssessments(ctx context.Context, courseID string) []shared.Assessment {
	if courseID == "" {
		return []shared.Assessment{}
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := shared.BuildFindOptions(0, "created_at", 1)
	cursor, err := s.assessmentsCol.Find(queryCtx, bson.M{"course_id": courseID}, findOptions)
	if err != nil {
		log.Printf("Error querying assessments for course %s: %v", courseID, err)
		return []shared.Assessment{}
	}
	defer cursor.Close(queryCtx)

	assessments := []shared.Assessment{}
	for cursor.Next(queryCtx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		assessments = append(assessments, documentToAssessment(doc))
	}

	return assessments
}

// ListGradesForAssessment returns the grade records filed under one
// assessment. Missing identifiers or store failures yield an empty slice.
func (s *Service) ListGradesForAssessment(ctx context.Context, courseID, assessmentID string) []shared.GradeRecord {
	if courseID == "" || assessmentID == "" {
		return []shared.GradeRecord{}
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"course_id": courseID, "assessment_id": assessmentID}
	cursor, err := s.gradesCol.Find(queryCtx, filter)
	if err != nil {
		log.Printf("Error querying grades for assessment %s: %v", assessmentID, err)
		return []shared.GradeRecord{}
	}
	defer cursor.Close(queryCtx)

	records := []shared.GradeRecord{}
	for cursor.Next(queryCtx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		records = append(records, documentToGradeRecord(doc))
	}

	return records
}

// ============================================================================
// Helper Functions
// ============================================================================

// documentToAssessment decodes defensively: a malformed or missing percentage
// coerces to 0 rather than aborting the listing.
func documentToAssessment(doc bson.M) shared.Assessment {
	a := shared.Assessment{}

	if v, err := shared.GetString(doc["_id"]); err == nil {
		a.ID = v
	}
	if v, err := shared.GetString(doc["course_id"]); err == nil {
		a.CourseID = v
	}
	if v, err := shared.GetString(doc["name"]); err == nil {
		a.Name = v
	}
	if v, err := shared.GetFloat64(doc["percentage"]); err == nil {
		a.Percentage = v
	}
	if v, err := shared.GetTime(doc["created_at"]); err == nil {
		a.CreatedAt = v
	}
	if v, err := shared.GetTime(doc["updated_at"]); err == nil {
		a.UpdatedAt = v
	}

	return a
}

// documentToGradeRecord decodes defensively; a non-numeric grade coerces to 0.
func documentToGradeRecord(doc bson.M) shared.GradeRecord {
	r := shared.GradeRecord{}

	if v, err := shared.GetString(doc["course_id"]); err == nil {
		r.CourseID = v
	}
	if v, err := shared.GetString(doc["assessment_id"]); err == nil {
		r.AssessmentID = v
	}
	if v, err := shared.GetString(doc["student_id"]); err == nil {
		r.StudentID = v
	}
	if v, err := shared.GetFloat64(doc["grade"]); err == nil {
		r.Grade = v
	}
	if v, err := shared.GetTime(doc["assigned_at"]); err == nil {
		r.AssignedAt = v
	}

	return r
}
