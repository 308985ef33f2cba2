package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"gradebook/internal/assessment"
	"gradebook/internal/auth"
	"gradebook/internal/gateway/handlers"
	"gradebook/internal/gateway/util"
	"gradebook/internal/grade"
	"gradebook/internal/shared"
)

// Services bundles the domain services the gateway fronts.
type Services struct {
	Auth       *auth.Service
	Assessment *assessment.Service
	Grade      *grade.Service
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(config *shared.ServiceConfig, services *Services) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORS.AllowedOrigins,
		AllowedMethods:   config.CORS.AllowedMethods,
		AllowedHeaders:   config.CORS.AllowedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           config.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{AuthService: services.Auth}
	assessmentHandler := &handlers.AssessmentHandler{AssessmentService: services.Assessment}
	gradeHandler := &handlers.GradeHandler{GradeService: services.Grade}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(services.Auth))

			r.Get("/auth/validate", authHandler.ValidateToken)

			r.Route("/courses/{course_id}", func(r chi.Router) {
				// Assessment registry
				r.Route("/assessments", func(r chi.Router) {
					r.Get("/", assessmentHandler.ListAssessments)
					r.Post("/", assessmentHandler.CreateAssessment)

					r.Route("/{assessment_id}", func(r chi.Router) {
						r.Put("/", assessmentHandler.UpdateAssessment)
						r.Delete("/", assessmentHandler.DeleteAssessment)
						r.Get("/grades", assessmentHandler.ListGrades)
						r.Post("/grades", assessmentHandler.AssignGrade)
					})
				})

				// Aggregated views
				r.Get("/roster", gradeHandler.GetCourseRoster)
				r.Get("/statistics", gradeHandler.GetCourseStatistics)
				r.Get("/grades/export", gradeHandler.ExportCourseCSV)
				r.Get("/grades/me", gradeHandler.GetMySummary)
			})
		})
	})

	return r
}

// AuthMiddleware validates bearer tokens and injects the user into the
// request context.
func AuthMiddleware(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			user, err := authService.ValidateToken(ctx, tokenStr)
			if err != nil {
				if shared.IsValidation(err) || shared.IsNotFound(err) {
					util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}
				util.HandleServiceError(w, err)
				return
			}

			ctxWithUser := context.WithValue(r.Context(), handlers.UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctxWithUser))
		})
	}
}
