package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gradebook/internal/assessment"
	"gradebook/internal/gateway/util"
	"gradebook/internal/shared"
)

// AssessmentHandler exposes assessment CRUD and grade assignment over HTTP.
type AssessmentHandler struct {
	AssessmentService *assessment.Service
}

type assignGradeRequest struct {
	StudentID string  `json:"student_id"`
	Grade     float64 `json:"grade"`
}

// canManageGrades reports whether the user may mutate assessments and grades.
func canManageGrades(user *shared.User) bool {
	return user != nil && (user.Role == shared.RoleTeacher || user.Role == shared.RoleAdmin)
}

// ListAssessments handles GET /api/courses/{course_id}/assessments
func (h *AssessmentHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "course_id")
	if courseID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	assessments := h.AssessmentService.ListAssessments(r.Context(), courseID)

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"assessments": assessments,
		"total":       len(assessments),
	})
}

// CreateAssessment handles POST /api/courses/{course_id}/assessments
func (h *AssessmentHandler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !canManageGrades(user) {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only teachers can manage assessments")
		return
	}

	courseID := chi.URLParam(r, "course_id")

	var input shared.AssessmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.AssessmentService.CreateAssessment(r.Context(), courseID, input)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"assessment": created,
	})
}

// UpdateAssessment handles PUT /api/courses/{course_id}/assessments/{assessment_id}
func (h *AssessmentHandler) UpdateAssessment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !canManageGrades(user) {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only teachers can manage assessments")
		return
	}

	courseID := chi.URLParam(r, "course_id")
	assessmentID := chi.URLParam(r, "assessment_id")

	var input shared.AssessmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.AssessmentService.UpdateAssessment(r.Context(), courseID, assessmentID, input)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"assessment": updated,
	})
}

// DeleteAssessment handles DELETE /api/courses/{course_id}/assessments/{assessment_id}
func (h *AssessmentHandler) DeleteAssessment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !canManageGrades(user) {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only teachers can manage assessments")
		return
	}

	courseID := chi.URLParam(r, "course_id")
	assessmentID := chi.URLParam(r, "assessment_id")

	if err := h.AssessmentService.DeleteAssessment(r.Context(), courseID, assessmentID); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "assessment deleted",
	})
}

// AssignGrade handles POST /api/courses/{course_id}/assessments/{assessment_id}/grades
func (h *AssessmentHandler) AssignGrade(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !canManageGrades(user) {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only teachers can assign grades")
		return
	}

	courseID := chi.URLParam(r, "course_id")
	assessmentID := chi.URLParam(r, "assessment_id")

	var req assignGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.AssessmentService.AssignGrade(r.Context(), courseID, assessmentID, req.StudentID, req.Grade)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"grade":   record,
	})
}

// ListGrades handles GET /api/courses/{course_id}/assessments/{assessment_id}/grades
func (h *AssessmentHandler) ListGrades(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !canManageGrades(user) {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only teachers can list assessment grades")
		return
	}

	courseID := chi.URLParam(r, "course_id")
	assessmentID := chi.URLParam(r, "assessment_id")

	grades := h.AssessmentService.ListGradesForAssessment(r.Context(), courseID, assessmentID)

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"grades":  grades,
		"total":   len(grades),
	})
}
