package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"gradebook/internal/shared"
)

// Demo accounts and course seeded for local development.
const (
	TeacherID  = "teacher-001"
	StudentID1 = "student-001" // fully graded, passing
	StudentID2 = "student-002" // fully graded, failing
	StudentID3 = "student-003" // partially graded, pending

	CommonPassword = "password"

	CourseID = "MATH101"
)

type assessmentSeed struct {
	ID         string
	Name       string
	Percentage float64
}

type gradeSeed struct {
	AssessmentID string
	StudentID    string
	Grade        float64
}

func main() {
	log.Println("Starting Gradebook Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadServiceConfig("seeder")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cleanup(ctx, db)
	seedUsers(ctx, db, cfg.Security.BCryptCost)
	seedCourse(ctx, db)
	seedEnrollments(ctx, db)
	seedAssessmentsAndGrades(ctx, db)

	log.Println("Seeding complete.")
}

func cleanup(ctx context.Context, db *mongo.Database) {
	ids := []string{TeacherID, StudentID1, StudentID2, StudentID3}
	db.Collection("users").DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	db.Collection("courses").DeleteOne(ctx, bson.M{"_id": CourseID})
	db.Collection("enrollments").DeleteMany(ctx, bson.M{"course_id": CourseID})
	db.Collection("assessments").DeleteMany(ctx, bson.M{"course_id": CourseID})
	db.Collection("grades").DeleteMany(ctx, bson.M{"course_id": CourseID})
}

func seedUsers(ctx context.Context, db *mongo.Database, bcryptCost int) {
	hash, err := bcrypt.GenerateFromPassword([]byte(CommonPassword), bcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	users := []interface{}{
		shared.User{ID: TeacherID, Email: "teacher@example.com", PasswordHash: string(hash),
			Role: shared.RoleTeacher, Name: "Prof. Helena Souza", IsActive: true, CreatedAt: time.Now()},
		shared.User{ID: StudentID1, Email: "ana@example.com", PasswordHash: string(hash),
			Role: shared.RoleStudent, Name: "Ana Lima", IsActive: true, CreatedAt: time.Now()},
		shared.User{ID: StudentID2, Email: "bruno@example.com", PasswordHash: string(hash),
			Role: shared.RoleStudent, Name: "Bruno Castro", IsActive: true, CreatedAt: time.Now()},
		shared.User{ID: StudentID3, Email: "carla@example.com", PasswordHash: string(hash),
			Role: shared.RoleStudent, Name: "Carla Dias", IsActive: true, CreatedAt: time.Now()},
	}

	if _, err := db.Collection("users").InsertMany(ctx, users); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Seeded %d users", len(users))
}

func seedCourse(ctx context.Context, db *mongo.Database) {
	course := shared.Course{
		ID:        CourseID,
		Title:     "Matemática Básica",
		TeacherID: TeacherID,
		CreatedAt: time.Now(),
	}
	if _, err := db.Collection("courses").InsertOne(ctx, course); err != nil {
		log.Fatalf("Failed to seed course: %v", err)
	}
	log.Printf("Seeded course %s", CourseID)
}

func seedEnrollments(ctx context.Context, db *mongo.Database) {
	var enrollments []interface{}
	for _, studentID := range []string{StudentID1, StudentID2, StudentID3} {
		enrollments = append(enrollments, shared.Enrollment{
			ID:         shared.GenerateEnrollmentID(),
			StudentID:  studentID,
			CourseID:   CourseID,
			Status:     shared.StatusEnrolled,
			EnrolledAt: time.Now(),
		})
		// GenerateEnrollmentID is timestamp-based; keep IDs distinct.
		time.Sleep(time.Millisecond)
	}

	if _, err := db.Collection("enrollments").InsertMany(ctx, enrollments); err != nil {
		log.Fatalf("Failed to seed enrollments: %v", err)
	}
	log.Printf("Seeded %d enrollments", len(enrollments))
}

func seedAssessmentsAndGrades(ctx context.Context, db *mongo.Database) {
	assessments := []assessmentSeed{
		{ID: "ASMT_prova1", Name: "Prova 1", Percentage: 40},
		{ID: "ASMT_prova2", Name: "Prova 2", Percentage: 40},
		{ID: "ASMT_trabalho", Name: "Trabalho Final", Percentage: 20},
	}

	var assessmentDocs []interface{}
	for i, a := range assessments {
		assessmentDocs = append(assessmentDocs, shared.Assessment{
			ID:         a.ID,
			CourseID:   CourseID,
			Name:       a.Name,
			Percentage: a.Percentage,
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Millisecond),
		})
	}
	if _, err := db.Collection("assessments").InsertMany(ctx, assessmentDocs); err != nil {
		log.Fatalf("Failed to seed assessments: %v", err)
	}
	log.Printf("Seeded %d assessments", len(assessments))

	grades := []gradeSeed{
		// Ana: fully graded, final 8.0
		{AssessmentID: "ASMT_prova1", StudentID: StudentID1, Grade: 8},
		{AssessmentID: "ASMT_prova2", StudentID: StudentID1, Grade: 7.5},
		{AssessmentID: "ASMT_trabalho", StudentID: StudentID1, Grade: 9},
		// Bruno: fully graded, below the passing threshold
		{AssessmentID: "ASMT_prova1", StudentID: StudentID2, Grade: 4},
		{AssessmentID: "ASMT_prova2", StudentID: StudentID2, Grade: 5},
		{AssessmentID: "ASMT_trabalho", StudentID: StudentID2, Grade: 6},
		// Carla: only one grade recorded, stays pending
		{AssessmentID: "ASMT_prova1", StudentID: StudentID3, Grade: 9},
	}

	var gradeDocs []interface{}
	for _, g := range grades {
		gradeDocs = append(gradeDocs, shared.GradeRecord{
			CourseID:     CourseID,
			AssessmentID: g.AssessmentID,
			StudentID:    g.StudentID,
			Grade:        g.Grade,
			AssignedAt:   time.Now(),
		})
	}
	if _, err := db.Collection("grades").InsertMany(ctx, gradeDocs); err != nil {
		log.Fatalf("Failed to seed grades: %v", err)
	}
	log.Printf("Seeded %d grade records", len(grades))
}
