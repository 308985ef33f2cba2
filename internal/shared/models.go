// ============================================================================
// internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"time"
)

// ============================================================================
// User Models
// ============================================================================

// User represents a user account (student, teacher, or admin)
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Role         string    `bson:"role" json:"role"`       // student, teacher, admin
	Name         string    `bson:"name" json:"name"`
	PhotoURL     string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	IsActive     bool      `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Session represents an active user session (for JWT tracking)
type Session struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsExpired checks if a session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ============================================================================
// Course Models
// ============================================================================

// Course represents a course offering
type Course struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	TeacherID   string    `bson:"teacher_id" json:"teacher_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Enrollment represents a student's enrollment in a course
type Enrollment struct {
	ID         string    `bson:"_id" json:"id"`
	StudentID  string    `bson:"student_id" json:"student_id"`
	CourseID   string    `bson:"course_id" json:"course_id"`
	Status     string    `bson:"status" json:"status"` // enrolled, dropped
	EnrolledAt time.Time `bson:"enrolled_at" json:"enrolled_at"`
}

// ============================================================================
// Assessment Models
// ============================================================================

// Assessment represents a named, percentage-weighted gradable component of a
// course (e.g., "Midterm", 30%). Percentages across a course are not required
// to sum to 100; the aggregator normalizes against the actual sum.
type Assessment struct {
	ID         string    `bson:"_id" json:"id"`
	CourseID   string    `bson:"course_id" json:"course_id"`
	Name       string    `bson:"name" json:"name"`
	Percentage float64   `bson:"percentage" json:"percentage"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// GradeRecord represents one student's numeric score on one assessment.
// The (course_id, assessment_id, student_id) triple is the logical key.
type GradeRecord struct {
	CourseID     string    `bson:"course_id" json:"course_id"`
	AssessmentID string    `bson:"assessment_id" json:"assessment_id"`
	StudentID    string    `bson:"student_id" json:"student_id"`
	Grade        float64   `bson:"grade" json:"grade"`
	AssignedAt   time.Time `bson:"assigned_at" json:"assigned_at"`
}

// AssessmentInput carries the caller-supplied fields for create/update.
type AssessmentInput struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// ============================================================================
// Validation Constants
// ============================================================================

const (
	// Enrollment statuses
	StatusEnrolled = "enrolled"
	StatusDropped  = "dropped"

	// User roles
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"

	// Assessment weight bounds (percent)
	MinAssessmentPercentage = 0.0
	MaxAssessmentPercentage = 100.0

	// Placeholder identity for students whose profile fetch failed
	UnknownStudentName = "Usuário Desconhecido"
)
