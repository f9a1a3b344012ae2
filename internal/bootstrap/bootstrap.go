// Package bootstrap seeds the initial superadmin and destination catalog.
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/audit"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/catalog"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
)

// AdminSeed is the superadmin created on first initialization.
type AdminSeed struct {
	Email    string
	Password string
	FullName string
}

// Result reports what Initialize did.
type Result struct {
	Initialized bool   `json:"initialized"`
	Message     string `json:"message"`
}

// Initializer runs the one-time system setup.
type Initializer struct {
	identity *identity.Service
	catalog  *catalog.Service
	auditLog audit.Publisher
	seed     AdminSeed
	logger   *slog.Logger
}

func New(identitySvc *identity.Service, catalogSvc *catalog.Service, auditLog audit.Publisher, seed AdminSeed, logger *slog.Logger) *Initializer {
	return &Initializer{
		identity: identitySvc,
		catalog:  catalogSvc,
		auditLog: auditLog,
		seed:     seed,
		logger:   logger,
	}
}

// Initialize creates the default superadmin and seeds the Serbia
// destination. Idempotent: once an admin exists, a second call reports
// already-initialized and changes nothing.
func (i *Initializer) Initialize(ctx context.Context) (*Result, error) {
	admin, err := i.identity.BootstrapAdmin(ctx, identity.CreateAdminParams{
		Email:    i.seed.Email,
		Password: i.seed.Password,
		FullName: i.seed.FullName,
	})
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeConflict {
			return &Result{Initialized: false, Message: "system already initialized"}, nil
		}
		return nil, err
	}

	if err := i.seedCatalog(ctx); err != nil {
		return nil, err
	}

	i.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionSystemInitialized,
		ActorID: admin.ID,
		Subject: admin.Email,
	})
	i.logger.InfoContext(ctx, "system initialized", "admin_email", admin.Email)
	return &Result{Initialized: true, Message: "system initialized"}, nil
}

func (i *Initializer) seedCatalog(ctx context.Context) error {
	_, err := i.catalog.Create(ctx, catalog.CreateDestinationParams{
		Country:     "Serbia",
		CountryCode: "RS",
		Message:     "Visado disponible para ciudadanos cubanos",
		VisaTypes: []catalog.VisaTypeParams{
			{
				Name:           "Visado de Turismo",
				Price:          1500,
				Currency:       "EUR",
				ProcessingTime: "1-2 meses",
			},
			{
				Name:           "Visado por Contrato de Trabajo",
				Price:          2500,
				Currency:       "EUR",
				ProcessingTime: "1-2 meses",
			},
		},
	})
	if err != nil && dErrors.CodeOf(err) != dErrors.CodeConflict {
		return err
	}
	return nil
}
