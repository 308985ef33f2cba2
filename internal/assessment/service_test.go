package assessment

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"gradebook/internal/shared"
)

// Validation runs before any store access, so a nil database is fine here.
func TestValidation(t *testing.T) {
	service := NewService(nil, shared.GradingConfig{MaximumGrade: 10, MinimumPassingGrade: 6})
	ctx := context.Background()

	t.Run("Create Requires Course ID", func(t *testing.T) {
		_, err := service.CreateAssessment(ctx, "", shared.AssessmentInput{Name: "Prova 1", Percentage: 40})
		if !shared.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("Create Requires Name", func(t *testing.T) {
		_, err := service.CreateAssessment(ctx, "C1", shared.AssessmentInput{Percentage: 40})
		if !shared.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("Create Rejects Out Of Range Percentage", func(t *testing.T) {
		for _, pct := range []float64{0, -5, 100.5} {
			_, err := service.CreateAssessment(ctx, "C1", shared.AssessmentInput{Name: "Prova 1", Percentage: pct})
			if !shared.IsValidation(err) {
				t.Errorf("Expected validation error for percentage %g, got %v", pct, err)
			}
		}
	})

	t.Run("Assign Rejects Grade Outside Scale", func(t *testing.T) {
		for _, grade := range []float64{-0.1, 10.1} {
			_, err := service.AssignGrade(ctx, "C1", "A1", "S1", grade)
			if !shared.IsValidation(err) {
				t.Errorf("Expected validation error for grade %g, got %v", grade, err)
			}
		}
	})

	t.Run("Assign Requires Identifiers", func(t *testing.T) {
		if _, err := service.AssignGrade(ctx, "", "A1", "S1", 5); !shared.IsValidation(err) {
			t.Errorf("Expected validation error for missing course, got %v", err)
		}
		if _, err := service.AssignGrade(ctx, "C1", "", "S1", 5); !shared.IsValidation(err) {
			t.Errorf("Expected validation error for missing assessment, got %v", err)
		}
		if _, err := service.AssignGrade(ctx, "C1", "A1", "", 5); !shared.IsValidation(err) {
			t.Errorf("Expected validation error for missing student, got %v", err)
		}
	})

	t.Run("List Without Course ID Is Empty", func(t *testing.T) {
		if got := service.ListAssessments(ctx, ""); len(got) != 0 {
			t.Errorf("Expected empty slice, got %d items", len(got))
		}
	})
}

func TestAssessmentService_Integration(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system environment")
	}
	if os.Getenv("MONGO_URI") == "" {
		t.Skip("MONGO_URI not set; skipping integration test")
	}

	cfg, err := shared.LoadServiceConfig("assessment-test")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	service := NewService(db, cfg.Grading)
	ctx := context.Background()

	testCourseID := "COURSE-ASMT-TEST-101"
	testStudentID := "student-asmt-001"

	cleanup := func() {
		db.Collection("assessments").DeleteMany(ctx, bson.M{"course_id": testCourseID})
		db.Collection("grades").DeleteMany(ctx, bson.M{"course_id": testCourseID})
	}
	cleanup()
	defer cleanup()

	var createdID string

	// ========================================================================
	// Test 1: Create Assessment
	// ========================================================================
	t.Run("Create Assessment", func(t *testing.T) {
		created, err := service.CreateAssessment(ctx, testCourseID, shared.AssessmentInput{Name: "Prova 1", Percentage: 40})
		if err != nil {
			t.Fatalf("CreateAssessment failed: %v", err)
		}
		if created.ID == "" || created.CourseID != testCourseID {
			t.Errorf("Unexpected assessment: %+v", created)
		}
		createdID = created.ID
	})

	// ========================================================================
	// Test 2: List Assessments
	// ========================================================================
	t.Run("List Assessments", func(t *testing.T) {
		listed := service.ListAssessments(ctx, testCourseID)
		if len(listed) != 1 {
			t.Fatalf("Expected 1 assessment, got %d", len(listed))
		}
		if listed[0].ID != createdID || listed[0].Percentage != 40 {
			t.Errorf("Unexpected listing: %+v", listed[0])
		}
	})

	// ========================================================================
	// Test 3: Update Assessment
	// ========================================================================
	t.Run("Update Assessment", func(t *testing.T) {
		updated, err := service.UpdateAssessment(ctx, testCourseID, createdID, shared.AssessmentInput{Percentage: 50})
		if err != nil {
			t.Fatalf("UpdateAssessment failed: %v", err)
		}
		if updated.Percentage != 50 {
			t.Errorf("Expected percentage 50, got %g", updated.Percentage)
		}
		// Untouched field survives the partial update.
		if updated.Name != "Prova 1" {
			t.Errorf("Name should be unchanged, got %q", updated.Name)
		}
	})

	t.Run("Update Unknown Assessment", func(t *testing.T) {
		_, err := service.UpdateAssessment(ctx, testCourseID, "ASMT_missing", shared.AssessmentInput{Percentage: 10})
		if !shared.IsNotFound(err) {
			t.Errorf("Expected not-found error, got %v", err)
		}
	})

	// ========================================================================
	// Test 4: Assign Grade (Upsert)
	// ========================================================================
	t.Run("Assign Grade", func(t *testing.T) {
		record, err := service.AssignGrade(ctx, testCourseID, createdID, testStudentID, 7.5)
		if err != nil {
			t.Fatalf("AssignGrade failed: %v", err)
		}
		if record.Grade != 7.5 {
			t.Errorf("Expected grade 7.5, got %g", record.Grade)
		}

		// Re-assigning overwrites rather than duplicating.
		if _, err := service.AssignGrade(ctx, testCourseID, createdID, testStudentID, 9); err != nil {
			t.Fatalf("Second AssignGrade failed: %v", err)
		}

		records := service.ListGradesForAssessment(ctx, testCourseID, createdID)
		if len(records) != 1 {
			t.Fatalf("Expected 1 record after upsert, got %d", len(records))
		}
		if records[0].Grade != 9 {
			t.Errorf("Expected overwritten grade 9, got %g", records[0].Grade)
		}
	})

	t.Run("Assign Grade To Unknown Assessment", func(t *testing.T) {
		_, err := service.AssignGrade(ctx, testCourseID, "ASMT_missing", testStudentID, 5)
		if !shared.IsNotFound(err) {
			t.Errorf("Expected not-found error, got %v", err)
		}
	})

	// ========================================================================
	// Test 5: Delete Assessment
	// ========================================================================
	t.Run("Delete Assessment", func(t *testing.T) {
		if err := service.DeleteAssessment(ctx, testCourseID, createdID); err != nil {
			t.Fatalf("DeleteAssessment failed: %v", err)
		}
		if listed := service.ListAssessments(ctx, testCourseID); len(listed) != 0 {
			t.Errorf("Expected empty listing after delete, got %d", len(listed))
		}
		if err := service.DeleteAssessment(ctx, testCourseID, createdID); !shared.IsNotFound(err) {
			t.Errorf("Expected not-found on repeat delete, got %v", err)
		}
	})
}
