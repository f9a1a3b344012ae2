package application

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/application/pickup"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/audit"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/catalog"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/metrics"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

// UserFinder resolves the applicant whose contact data gets snapshotted
// into a new application.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*identity.User, error)
}

// DestinationResolver looks up destinations by id for validation and
// snapshotting.
type DestinationResolver interface {
	Get(ctx context.Context, idOrCode string) (*catalog.Destination, error)
}

// DocumentPolicy bounds what uploads are accepted.
type DocumentPolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

func (p DocumentPolicy) typeAllowed(mime string) bool {
	for _, t := range p.AllowedTypes {
		if t == mime {
			return true
		}
	}
	return false
}

// Service owns the application lifecycle: creation with snapshotting,
// back-office review patches, document uploads and dashboard stats.
type Service struct {
	store        Store
	users        UserFinder
	destinations DestinationResolver
	directory    *pickup.Directory
	auditLog     audit.Publisher
	metrics      *metrics.Metrics
	docs         DocumentPolicy
}

func NewService(
	store Store,
	users UserFinder,
	destinations DestinationResolver,
	directory *pickup.Directory,
	auditLog audit.Publisher,
	m *metrics.Metrics,
	docs DocumentPolicy,
) *Service {
	return &Service{
		store:        store,
		users:        users,
		destinations: destinations,
		directory:    directory,
		auditLog:     auditLog,
		metrics:      m,
		docs:         docs,
	}
}

// Create opens a new application. The applicant's contact data and the
// visa type's name and price are copied in; later profile or catalog
// edits leave existing applications untouched.
func (s *Service) Create(ctx context.Context, userID, destinationID, visaTypeID, notes string) (*VisaApplication, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	dest, err := s.destinations.Get(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	if !dest.Enabled {
		return nil, dErrors.New(dErrors.CodeBadRequest, "destination disabled")
	}
	visaType, ok := dest.VisaTypeByID(visaTypeID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, "visa type not found")
	}

	now := time.Now().UTC()
	app := &VisaApplication{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		UserEmail:      user.Email,
		UserName:       user.FullName,
		UserPhone:      user.Phone,
		PassportNumber: user.PassportNumber,
		DestinationID:  dest.ID,
		Country:        dest.Country,
		VisaTypeID:     visaType.ID,
		VisaName:       visaType.Name,
		Price:          int64(visaType.Price),
		Currency:       visaType.Currency,
		Status:         StatusPending,
		ProgressStep:   MinProgressStep,
		PickupLocation: s.directory.Resolve(dest.Country, user.Residence),
		Notes:          notes,
		Documents:      []Document{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	s.metrics.IncrementApplicationsCreated()
	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionApplicationCreated,
		ActorID: user.ID,
		Subject: app.ID,
		Detail:  map[string]string{"country": app.Country, "visa_name": app.VisaName},
	})
	return app, nil
}

// Get fetches one application by id.
func (s *Service) Get(ctx context.Context, id string) (*VisaApplication, error) {
	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up application")
	}
	return app, nil
}

// ListForUser returns the user's applications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*VisaApplication, error) {
	apps, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// AdminList returns every application, newest first.
func (s *Service) AdminList(ctx context.Context) ([]*VisaApplication, error) {
	apps, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// AdminUpdate applies a back-office patch. Payment fields are accepted as
// given; deposit and total are not cross-checked against the price.
func (s *Service) AdminUpdate(ctx context.Context, actorID, id string, patch AdminPatch) (*VisaApplication, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown status %q", *patch.Status))
	}
	if patch.ProgressStep != nil && (*patch.ProgressStep < MinProgressStep || *patch.ProgressStep > MaxProgressStep) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "progress_step out of range")
	}
	if patch.DepositPaid != nil && *patch.DepositPaid < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "deposit_paid must not be negative")
	}
	if patch.TotalPaid != nil && *patch.TotalPaid < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "total_paid must not be negative")
	}

	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		app.Status = *patch.Status
	}
	if patch.ProgressStep != nil {
		app.ProgressStep = *patch.ProgressStep
	}
	if patch.AdminNotes != nil {
		app.AdminNotes = *patch.AdminNotes
	}
	if patch.DepositPaid != nil {
		app.DepositPaid = *patch.DepositPaid
	}
	if patch.TotalPaid != nil {
		app.TotalPaid = *patch.TotalPaid
	}

	if err := s.persist(ctx, app); err != nil {
		return nil, err
	}

	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionApplicationUpdated,
		ActorID: actorID,
		Subject: app.ID,
		Detail:  map[string]string{"status": string(app.Status)},
	})
	return app, nil
}

// Delete removes an application.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete application")
	}
	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionApplicationDeleted,
		ActorID: actorID,
		Subject: id,
	})
	return nil
}

// DeleteByUser removes all of one user's applications. Used by the
// account-deletion cascade.
func (s *Service) DeleteByUser(ctx context.Context, userID string) (int, error) {
	n, err := s.store.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user applications")
	}
	return n, nil
}

// AttachDocument validates and appends one upload to the application.
func (s *Service) AttachDocument(ctx context.Context, appID string, params AttachDocumentParams) (*Document, error) {
	if params.Name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "document name is required")
	}
	if !s.docs.typeAllowed(params.Type) {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("document type %q is not allowed", params.Type))
	}
	decoded, err := base64.StdEncoding.DecodeString(params.Data)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "document data is not valid base64")
	}
	if int64(len(decoded)) > s.docs.MaxBytes {
		return nil, dErrors.New(dErrors.CodeBadRequest, "document exceeds the maximum allowed size")
	}

	app, err := s.Get(ctx, appID)
	if err != nil {
		return nil, err
	}

	doc := Document{
		ID:         uuid.NewString(),
		Name:       params.Name,
		Type:       params.Type,
		Data:       params.Data,
		UploadedAt: time.Now().UTC(),
	}
	app.Documents = append(app.Documents, doc)

	if err := s.persist(ctx, app); err != nil {
		return nil, err
	}

	s.metrics.IncrementDocumentsAttached()
	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionDocumentAttached,
		ActorID: app.UserID,
		Subject: app.ID,
		Detail:  map[string]string{"document": doc.Name},
	})
	return &doc, nil
}

// ListDocuments returns the application's attached documents.
func (s *Service) ListDocuments(ctx context.Context, appID string) ([]Document, error) {
	app, err := s.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	return app.Documents, nil
}

// RemoveDocument detaches one document by id.
func (s *Service) RemoveDocument(ctx context.Context, appID, docID string) error {
	app, err := s.Get(ctx, appID)
	if err != nil {
		return err
	}

	if _, ok := app.DocumentByID(docID); !ok {
		return dErrors.New(dErrors.CodeNotFound, "document not found")
	}

	kept := app.Documents[:0]
	for _, doc := range app.Documents {
		if doc.ID != docID {
			kept = append(kept, doc)
		}
	}
	app.Documents = kept

	if err := s.persist(ctx, app); err != nil {
		return err
	}

	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionDocumentRemoved,
		ActorID: app.UserID,
		Subject: app.ID,
		Detail:  map[string]string{"document_id": docID},
	})
	return nil
}

// Stats aggregates the dashboard counters. The queries fan out
// concurrently and read live rows, so figures may skew slightly under
// concurrent writes.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	byStatus := make([]int, len(Statuses))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.Count(gctx)
		stats.TotalApplications = n
		return err
	})
	for i, status := range Statuses {
		g.Go(func() error {
			n, err := s.store.CountByStatus(gctx, status)
			byStatus[i] = n
			return err
		})
	}
	g.Go(func() error {
		total, pending, err := s.store.Revenue(gctx)
		stats.TotalRevenue = total
		stats.PendingRevenue = pending
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute stats")
	}

	stats.Pending = byStatus[0]
	stats.InReview = byStatus[1]
	stats.Approved = byStatus[2]
	stats.Rejected = byStatus[3]
	stats.Completed = byStatus[4]
	return &stats, nil
}

func (s *Service) persist(ctx context.Context, app *VisaApplication) error {
	app.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application")
	}
	return nil
}
