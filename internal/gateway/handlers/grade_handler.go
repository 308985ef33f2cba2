package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gradebook/internal/gateway/util"
	"gradebook/internal/grade"
	"gradebook/internal/shared"
)

// GradeHandler exposes the aggregated roster views over HTTP.
type GradeHandler struct {
	GradeService *grade.Service
}

// GetCourseRoster handles GET /api/courses/{course_id}/roster
// Query Params: sort_by (name|email|finalGrade|totalPercentage), order (asc|desc)
func (h *GradeHandler) GetCourseRoster(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !canManageGrades(user) {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only teachers can view rosters")
		return
	}

	courseID := chi.URLParam(r, "course_id")
	if courseID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	roster := h.GradeService.CourseRoster(r.Context(), courseID)
	roster = grade.SortStudentsGrades(roster, r.URL.Query().Get("sort_by"), r.URL.Query().Get("order"))

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"course_id":      courseID,
		"students":       roster,
		"total_students": len(roster),
	})
}

// GetCourseStatistics handles GET /api/courses/{course_id}/statistics
func (h *GradeHandler) GetCourseStatistics(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !canManageGrades(user) {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only teachers can view statistics")
		return
	}

	courseID := chi.URLParam(r, "course_id")
	if courseID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	statistics := h.GradeService.CourseStatistics(r.Context(), courseID)

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"course_id":  courseID,
		"statistics": statistics,
	})
}

// ExportCourseCSV handles GET /api/courses/{course_id}/grades/export
// Responds with text/csv for spreadsheet import.
func (h *GradeHandler) ExportCourseCSV(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !canManageGrades(user) {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only teachers can export grades")
		return
	}

	courseID := chi.URLParam(r, "course_id")
	if courseID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	csvData := h.GradeService.ExportCourseCSV(r.Context(), courseID)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "notas-"+courseID+".csv"))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csvData))
}

// GetMySummary handles GET /api/courses/{course_id}/grades/me
// The student-facing view of their own summary.
func (h *GradeHandler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil || user.Role != shared.RoleStudent {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only students can view their own grades")
		return
	}

	courseID := chi.URLParam(r, "course_id")
	if courseID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	summary := h.GradeService.SummaryForStudent(r.Context(), courseID, user.ID)

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"course_id": courseID,
		"summary":   summary,
	})
}
