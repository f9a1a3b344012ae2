package httptransport

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/application"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/application/pickup"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/audit"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/bootstrap"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/catalog"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/directory"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/middleware"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/ratelimit/authlockout"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/token"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/email"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/testutil"
)

const (
	seedAdminEmail    = "root@example.com"
	seedAdminPassword = "superadmin-pass"
)

// syncPublisher persists events inline so tests can read them back
// through the audit listing without racing a worker goroutine.
type syncPublisher struct {
	store audit.Store
}

func (p syncPublisher) Emit(ctx context.Context, event audit.Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_ = p.store.Append(ctx, event)
}

type RouterSuite struct {
	suite.Suite
	router http.Handler
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := token.NewService("test-signing-key", "cuba-visa-backend", time.Hour)
	lockout := authlockout.New(authlockout.NewInMemoryStore(), 5, time.Minute)

	auditStore := audit.NewInMemoryStore()
	auditLog := syncPublisher{store: auditStore}

	users := identity.NewInMemoryUserStore()
	identitySvc := identity.NewService(
		users,
		identity.NewInMemoryAdminStore(),
		tokens,
		lockout,
		&email.LogSender{Logger: logger},
		auditLog,
		logger,
	)
	catalogSvc := catalog.NewService(catalog.NewInMemoryStore())
	applicationSvc := application.NewService(
		application.NewInMemoryStore(),
		users,
		catalogSvc,
		pickup.New(),
		auditLog,
		nil,
		application.DocumentPolicy{
			MaxBytes:     1 << 20,
			AllowedTypes: []string{"application/pdf", "image/jpeg", "image/png"},
		},
	)
	identitySvc.SetApplicationRemover(applicationSvc)
	directorySvc := directory.NewService(
		directory.NewInMemoryTestimonialStore(),
		directory.NewInMemoryAdvisorStore(),
		directory.NewInMemoryPromotionStore(),
	)
	initializer := bootstrap.New(identitySvc, catalogSvc, auditLog, bootstrap.AdminSeed{
		Email:    seedAdminEmail,
		Password: seedAdminPassword,
		FullName: "Root Admin",
	}, logger)

	s.router = NewRouter(Deps{
		Identity:     identitySvc,
		Catalog:      catalogSvc,
		Applications: applicationSvc,
		Directory:    directorySvc,
		Initializer:  initializer,
		AuditLog:     auditStore,
		Auth:         middleware.NewAuth(tokens, identitySvc, logger),
		Logger:       logger,
	})
}

func (s *RouterSuite) register(email, password string) *identity.User {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"email":     email,
		"password":  password,
		"residence": "Cuba",
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[struct {
		User identity.User `json:"user"`
	}](s.T(), rr)
	return &resp.User
}

func (s *RouterSuite) login(path, email, password string) string {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, path, map[string]string{
		"email":    email,
		"password": password,
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}](s.T(), rr)
	s.Equal("bearer", resp.TokenType)
	s.NotEmpty(resp.AccessToken)
	return resp.AccessToken
}

func (s *RouterSuite) initSystem() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/system/init", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *RouterSuite) seededDestination(token string) *catalog.Destination {
	rr := testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/destinations/RS"), token))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	return testutil.UnmarshalResponse[catalog.Destination](s.T(), rr)
}

func (s *RouterSuite) TestRootAndHealth() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	root := testutil.UnmarshalResponse[map[string]string](s.T(), rr)
	s.Contains((*root)["message"], "Bienvenido")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/health"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *RouterSuite) TestRegisterLoginMe() {
	s.register("maria@example.com", "secreto-123")

	token := s.login("/api/auth/login", "maria@example.com", "secreto-123")
	rr := testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/me"), token))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	me := testutil.UnmarshalResponse[identity.User](s.T(), rr)
	s.Equal("maria@example.com", me.Email)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/me", map[string]string{
			"phone": "+53 555 0100",
		}), token))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	me = testutil.UnmarshalResponse[identity.User](s.T(), rr)
	s.Equal("+53 555 0100", me.Phone)
	s.Equal("maria@example.com", me.Email)
}

func (s *RouterSuite) TestLoginWrongPassword() {
	s.register("maria@example.com", "secreto-123")

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "maria@example.com",
		"password": "wrong-password",
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	testutil.AssertErrorCode(s.T(), rr, "unauthorized")
}

func (s *RouterSuite) TestSystemInitSeedsAdminAndCatalog() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/system/init", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	result := testutil.UnmarshalResponse[bootstrap.Result](s.T(), rr)
	s.True(result.Initialized)

	// A second init must not reseed.
	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/system/init", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	result = testutil.UnmarshalResponse[bootstrap.Result](s.T(), rr)
	s.False(result.Initialized)

	token := s.login("/api/admin/login", seedAdminEmail, seedAdminPassword)
	dest := s.seededDestination(token)
	s.Equal("RS", dest.CountryCode)
	s.Len(dest.VisaTypes, 2)
}

func (s *RouterSuite) TestAdminDestinationLifecycle() {
	s.initSystem()
	token := s.login("/api/admin/login", seedAdminEmail, seedAdminPassword)

	rr := testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/admin/destinations", map[string]any{
			"country":      "Hungría",
			"country_code": "hu",
			"visa_types": []map[string]any{
				{"name": "Visado de Turismo", "price": 1200, "currency": "EUR", "processing_time": "1 mes"},
			},
		}), token))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[struct {
		Destination catalog.Destination `json:"destination"`
	}](s.T(), rr).Destination
	s.Equal("HU", created.CountryCode)
	s.True(created.Enabled)

	// Disabled destinations drop out of the public listing.
	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/admin/destinations/"+created.ID, map[string]any{
			"enabled": false,
		}), token))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/destinations"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	public := testutil.UnmarshalResponse[[]catalog.Destination](s.T(), rr)
	for _, d := range *public {
		s.NotEqual("HU", d.CountryCode)
	}

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/destinations"), token))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	all := testutil.UnmarshalResponse[[]catalog.Destination](s.T(), rr)
	codes := make([]string, 0, len(*all))
	for _, d := range *all {
		codes = append(codes, d.CountryCode)
	}
	s.Contains(codes, "HU")
}

func (s *RouterSuite) TestApplicationLifecycle() {
	s.initSystem()
	adminToken := s.login("/api/admin/login", seedAdminEmail, seedAdminPassword)
	dest := s.seededDestination(adminToken)

	user := s.register("jose@example.com", "secreto-123")
	userToken := s.login("/api/auth/login", "jose@example.com", "secreto-123")

	rr := testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/applications", map[string]string{
			"destination_id": dest.ID,
			"visa_type_id":   dest.VisaTypes[0].ID,
			"notes":          "viaje en octubre",
		}), userToken))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	createResp := testutil.UnmarshalResponse[struct {
		Application application.VisaApplication `json:"application"`
	}](s.T(), rr)
	app := createResp.Application
	s.Equal(application.StatusPending, app.Status)
	s.Equal(int64(dest.VisaTypes[0].Price), app.Price)
	s.Equal("jose@example.com", app.UserEmail)
	s.NotEmpty(app.PickupLocation)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/applications/user/"+user.ID), userToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	listed := testutil.UnmarshalResponse[[]application.VisaApplication](s.T(), rr)
	s.Len(*listed, 1)

	// Document round trip.
	data := base64.StdEncoding.EncodeToString([]byte("passport scan"))
	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/applications/"+app.ID+"/documents", map[string]string{
			"name": "pasaporte.pdf",
			"type": "application/pdf",
			"data": data,
		}), userToken))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	docResp := testutil.UnmarshalResponse[map[string]string](s.T(), rr)
	docID := (*docResp)["document_id"]
	s.NotEmpty(docID)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/applications/"+app.ID+"/documents"), userToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	docs := testutil.UnmarshalResponse[[]application.Document](s.T(), rr)
	s.Require().Len(*docs, 1)
	s.Equal("pasaporte.pdf", (*docs)[0].Name)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodDelete, "/api/applications/"+app.ID+"/documents/"+docID), userToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	// Admin review moves the status and records a payment.
	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/admin/applications/"+app.ID, map[string]any{
			"status":        "aprobado",
			"progress_step": 3,
			"total_paid":    app.Price,
		}), adminToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	updated := testutil.UnmarshalResponse[application.VisaApplication](s.T(), rr)
	s.Equal(application.StatusApproved, updated.Status)
	s.Equal(3, updated.ProgressStep)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/stats"), adminToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	stats := testutil.UnmarshalResponse[application.Stats](s.T(), rr)
	s.Equal(1, stats.TotalApplications)
	s.Equal(1, stats.Approved)
	s.Equal(app.Price, stats.TotalRevenue)
	s.Equal(int64(0), stats.PendingRevenue)
}

func (s *RouterSuite) TestApplicationOwnership() {
	s.initSystem()
	adminToken := s.login("/api/admin/login", seedAdminEmail, seedAdminPassword)
	dest := s.seededDestination(adminToken)

	owner := s.register("owner@example.com", "secreto-123")
	ownerToken := s.login("/api/auth/login", "owner@example.com", "secreto-123")
	s.register("intruder@example.com", "secreto-123")
	intruderToken := s.login("/api/auth/login", "intruder@example.com", "secreto-123")

	rr := testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/applications", map[string]string{
			"destination_id": dest.ID,
			"visa_type_id":   dest.VisaTypes[0].ID,
		}), ownerToken))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	createResp := testutil.UnmarshalResponse[struct {
		Application application.VisaApplication `json:"application"`
	}](s.T(), rr)

	// Foreign applications read as missing, not forbidden.
	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/applications/"+createResp.Application.ID), intruderToken))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	testutil.AssertErrorCode(s.T(), rr, "not_found")

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/applications/user/"+owner.ID), intruderToken))
	testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
}

func (s *RouterSuite) TestAccessControl() {
	s.initSystem()
	superToken := s.login("/api/admin/login", seedAdminEmail, seedAdminPassword)

	s.register("maria@example.com", "secreto-123")
	userToken := s.login("/api/auth/login", "maria@example.com", "secreto-123")

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/me"))
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/stats"), userToken))
	testutil.AssertStatus(s.T(), rr, http.StatusForbidden)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/me"), superToken))
	testutil.AssertStatus(s.T(), rr, http.StatusForbidden)

	// A non-super admin cannot manage admin accounts.
	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/admin/admins", map[string]any{
			"email":     "plain@example.com",
			"password":  "admin-secreto",
			"full_name": "Plain Admin",
		}), superToken))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	plainToken := s.login("/api/admin/login", "plain@example.com", "admin-secreto")
	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/admins"), plainToken))
	testutil.AssertStatus(s.T(), rr, http.StatusForbidden)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/admins"), superToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	admins := testutil.UnmarshalResponse[[]identity.Admin](s.T(), rr)
	s.Len(*admins, 2)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/stats"), plainToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *RouterSuite) TestTestimonialVisibility() {
	s.initSystem()
	adminToken := s.login("/api/admin/login", seedAdminEmail, seedAdminPassword)

	rr := testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/admin/testimonials", map[string]string{
			"client_name": "Carlos",
			"visa_type":   "Turismo",
			"description": "Todo salió perfecto",
		}), adminToken))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[struct {
		Testimonial directory.Testimonial `json:"testimonial"`
	}](s.T(), rr)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/testimonials"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	public := testutil.UnmarshalResponse[[]directory.Testimonial](s.T(), rr)
	s.Len(*public, 1)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/admin/testimonials/"+created.Testimonial.ID+"/toggle", nil), adminToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/testimonials"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	public = testutil.UnmarshalResponse[[]directory.Testimonial](s.T(), rr)
	s.Empty(*public)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/testimonials"), adminToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	all := testutil.UnmarshalResponse[[]directory.Testimonial](s.T(), rr)
	s.Len(*all, 1)
}

func (s *RouterSuite) TestPromotionToggleMessages() {
	s.initSystem()
	adminToken := s.login("/api/admin/login", seedAdminEmail, seedAdminPassword)

	rr := testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/admin/promotions", map[string]string{
			"title":       "Descuento de verano",
			"description": "20% en visados de turismo",
		}), adminToken))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[struct {
		Promotion directory.Promotion `json:"promotion"`
	}](s.T(), rr)

	togglePath := "/api/admin/promotions/" + created.Promotion.ID + "/toggle"
	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPut, togglePath, nil), adminToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	toggled := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
	s.Equal("Promoción desactivada", (*toggled)["message"])
	s.Equal(false, (*toggled)["is_active"])

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewJSONRequest(s.T(), http.MethodPut, togglePath, nil), adminToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	toggled = testutil.UnmarshalResponse[map[string]any](s.T(), rr)
	s.Equal("Promoción activada", (*toggled)["message"])
}

func (s *RouterSuite) TestAuditListing() {
	s.initSystem()
	superToken := s.login("/api/admin/login", seedAdminEmail, seedAdminPassword)

	rr := testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/audit"), superToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	events := testutil.UnmarshalResponse[[]audit.Event](s.T(), rr)
	actions := make([]audit.Action, 0, len(*events))
	for _, e := range *events {
		actions = append(actions, e.Action)
	}
	s.Contains(actions, audit.ActionSystemInitialized)
	s.Contains(actions, audit.ActionLoginSucceeded)

	// Newest first, clamped by limit.
	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/audit?limit=1"), superToken))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	limited := testutil.UnmarshalResponse[[]audit.Event](s.T(), rr)
	s.Require().Len(*limited, 1)
	s.Equal(audit.ActionLoginSucceeded, (*limited)[0].Action)

	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/audit?limit=zero"), superToken))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)

	s.register("maria@example.com", "secreto-123")
	userToken := s.login("/api/auth/login", "maria@example.com", "secreto-123")
	rr = testutil.DoRequest(s.router, testutil.WithBearer(
		testutil.NewRequest(s.T(), http.MethodGet, "/api/admin/audit"), userToken))
	testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
}

func (s *RouterSuite) TestValidationErrors() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "secreto-123",
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertErrorCode(s.T(), rr, "bad_request")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "maria@example.com",
		"password": "short",
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
