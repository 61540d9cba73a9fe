package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. site, when
// non-nil, serves everything outside /api.
func NewRouter(h *Handler, site http.Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, r, http.StatusNotFound, "Not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		})

		// Public routes
		r.Get("/health", h.Health)
		r.Get("/poses", h.ListPoses)
		r.Get("/poses/{name}", h.GetPose)
		r.Get("/medicines/{name}", h.GetMedicine)

		r.Group(func(r chi.Router) {
			if h.apiKey != "" {
				r.Use(AuthMiddleware(h.apiKey))
			}
			r.Post("/save_appointment", h.SaveAppointment)
			r.Get("/appointments", h.ListAppointments)
			r.Get("/appointments/{id}", h.GetAppointment)
		})
	})

	if site != nil {
		r.Mount("/", site)
	}

	return r
}
