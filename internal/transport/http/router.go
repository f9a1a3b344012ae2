// Package httptransport is the thin HTTP layer. Handlers delegate to the
// domain services and only own decoding, validation and response shaping.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/application"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/audit"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/bootstrap"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/catalog"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/directory"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/metrics"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/middleware"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/httputil"
)

// HealthCheck probes one dependency; nil checks are skipped.
type HealthCheck func(ctx context.Context) error

// Deps collects everything the router wires together.
type Deps struct {
	Identity     *identity.Service
	Catalog      *catalog.Service
	Applications *application.Service
	Directory    *directory.Service
	Initializer  *bootstrap.Initializer
	AuditLog     audit.Store
	Auth         *middleware.Auth
	Metrics      *metrics.Metrics
	Logger       *slog.Logger

	CheckDB    HealthCheck
	CheckRedis HealthCheck
}

// NewRouter builds the full /api surface.
func NewRouter(d Deps) http.Handler {
	authH := newAuthHandler(d.Identity, d.Metrics)
	catalogH := newCatalogHandler(d.Catalog)
	appH := newApplicationHandler(d.Applications)
	adminH := newAdminHandler(d.Identity, d.Applications, d.AuditLog)
	directoryH := newDirectoryHandler(d.Directory)
	systemH := newSystemHandler(d.Initializer, d.CheckDB, d.CheckRedis)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Observe(d.Metrics))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", systemH.handleRoot)
		r.Get("/health", systemH.handleHealth)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
		r.Post("/system/init", systemH.handleInit)

		r.Post("/auth/register", authH.handleRegister)
		r.Post("/auth/login", authH.handleLogin)
		r.Get("/auth/verify", authH.handleVerify)
		r.Post("/admin/login", authH.handleAdminLogin)

		r.Get("/destinations", catalogH.handleList)
		r.Get("/destinations/{idOrCode}", catalogH.handleGet)
		r.Get("/visa-types", catalogH.handleVisaTypes)

		r.Get("/testimonials", directoryH.handleTestimonials)
		r.Get("/advisors", directoryH.handleAdvisors)
		r.Get("/promotions", directoryH.handlePromotions)

		// End-user surface.
		r.Group(func(r chi.Router) {
			r.Use(d.Auth.RequireUser)
			r.Get("/me", authH.handleMe)
			r.Put("/me", authH.handleUpdateMe)
			r.Post("/applications", appH.handleCreate)
			r.Get("/applications/user/{userID}", appH.handleListForUser)
			r.Get("/applications/{id}", appH.handleGet)
			r.Post("/applications/{id}/documents", appH.handleAttachDocument)
			r.Get("/applications/{id}/documents", appH.handleListDocuments)
			r.Delete("/applications/{id}/documents/{docID}", appH.handleRemoveDocument)
		})

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(d.Auth.RequireAdmin)

				r.Post("/destinations", catalogH.handleAdminCreate)
				r.Get("/destinations", catalogH.handleAdminList)
				r.Put("/destinations/{id}", catalogH.handleAdminUpdate)
				r.Delete("/destinations/{id}", catalogH.handleAdminDelete)
				r.Post("/destinations/{id}/visa-types", catalogH.handleAddVisaType)
				r.Put("/destinations/{id}/visa-types/{visaTypeID}", catalogH.handleUpdateVisaType)
				r.Delete("/destinations/{id}/visa-types/{visaTypeID}", catalogH.handleDeleteVisaType)

				r.Get("/applications", adminH.handleListApplications)
				r.Get("/applications/{id}", adminH.handleGetApplication)
				r.Put("/applications/{id}", adminH.handleUpdateApplication)
				r.Delete("/applications/{id}", adminH.handleDeleteApplication)
				r.Get("/stats", adminH.handleStats)

				r.Get("/users", adminH.handleListUsers)
				r.Get("/users/{id}", adminH.handleGetUser)
				r.Delete("/users/{id}", adminH.handleDeleteUser)

				r.Post("/testimonials", directoryH.handleCreateTestimonial)
				r.Get("/testimonials", directoryH.handleAdminTestimonials)
				r.Put("/testimonials/{id}", directoryH.handleUpdateTestimonial)
				r.Put("/testimonials/{id}/toggle", directoryH.handleToggleTestimonial)
				r.Delete("/testimonials/{id}", directoryH.handleDeleteTestimonial)

				r.Post("/advisors", directoryH.handleCreateAdvisor)
				r.Get("/advisors", directoryH.handleAdminAdvisors)
				r.Put("/advisors/{id}", directoryH.handleUpdateAdvisor)
				r.Put("/advisors/{id}/toggle", directoryH.handleToggleAdvisor)
				r.Delete("/advisors/{id}", directoryH.handleDeleteAdvisor)

				r.Post("/promotions", directoryH.handleCreatePromotion)
				r.Get("/promotions", directoryH.handleAdminPromotions)
				r.Put("/promotions/{id}", directoryH.handleUpdatePromotion)
				r.Put("/promotions/{id}/toggle", directoryH.handleTogglePromotion)
				r.Delete("/promotions/{id}", directoryH.handleDeletePromotion)
			})

			r.Group(func(r chi.Router) {
				r.Use(d.Auth.RequireSuperAdmin)
				r.Post("/admins", adminH.handleCreateAdmin)
				r.Get("/admins", adminH.handleListAdmins)
				r.Get("/audit", adminH.handleListAuditEvents)
			})
		})
	})
	return r
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}
