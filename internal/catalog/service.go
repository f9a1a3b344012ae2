package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

// Service owns the destination catalog. Reads are public; all mutations
// come from the admin surface.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every destination; callers filter on Enabled as needed.
func (s *Service) List(ctx context.Context) ([]*Destination, error) {
	destinations, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list destinations")
	}
	return destinations, nil
}

// Get resolves a destination by id or, failing that, by country code.
func (s *Service) Get(ctx context.Context, idOrCode string) (*Destination, error) {
	dest, err := s.store.FindByID(ctx, idOrCode)
	if errors.Is(err, sentinel.ErrNotFound) {
		dest, err = s.store.FindByCountryCode(ctx, idOrCode)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "destination not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up destination")
	}
	return dest, nil
}

// Create adds a destination. Country codes are stored uppercased and must
// be unique.
func (s *Service) Create(ctx context.Context, params CreateDestinationParams) (*Destination, error) {
	now := time.Now().UTC()
	dest := &Destination{
		ID:           uuid.NewString(),
		Country:      params.Country,
		CountryCode:  strings.ToUpper(strings.TrimSpace(params.CountryCode)),
		Enabled:      true,
		ImageURL:     params.ImageURL,
		Description:  params.Description,
		Message:      params.Message,
		Requirements: params.Requirements,
		VisaTypes:    make([]VisaType, 0, len(params.VisaTypes)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if params.Enabled != nil {
		dest.Enabled = *params.Enabled
	}
	for _, vt := range params.VisaTypes {
		dest.VisaTypes = append(dest.VisaTypes, newVisaType(vt))
	}

	if err := s.store.Create(ctx, dest); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "country code already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create destination")
	}
	return dest, nil
}

// Update applies a partial patch to a destination's own fields.
func (s *Service) Update(ctx context.Context, id string, patch DestinationPatch) (*Destination, error) {
	dest, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Country != nil {
		dest.Country = *patch.Country
	}
	if patch.CountryCode != nil {
		dest.CountryCode = strings.ToUpper(strings.TrimSpace(*patch.CountryCode))
	}
	if patch.Enabled != nil {
		dest.Enabled = *patch.Enabled
	}
	if patch.ImageURL != nil {
		dest.ImageURL = *patch.ImageURL
	}
	if patch.Description != nil {
		dest.Description = *patch.Description
	}
	if patch.Message != nil {
		dest.Message = *patch.Message
	}
	if patch.Requirements != nil {
		dest.Requirements = *patch.Requirements
	}

	return s.persist(ctx, dest)
}

// Delete removes a destination and its embedded visa types.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "destination not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete destination")
	}
	return nil
}

// AddVisaType appends a new offering to the destination.
func (s *Service) AddVisaType(ctx context.Context, destID string, params VisaTypeParams) (*Destination, error) {
	dest, err := s.findByID(ctx, destID)
	if err != nil {
		return nil, err
	}
	dest.VisaTypes = append(dest.VisaTypes, newVisaType(params))
	return s.persist(ctx, dest)
}

// UpdateVisaType patches one embedded offering by id.
func (s *Service) UpdateVisaType(ctx context.Context, destID, visaTypeID string, patch VisaTypePatch) (*Destination, error) {
	dest, err := s.findByID(ctx, destID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, vt := range dest.VisaTypes {
		if vt.ID == visaTypeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "visa type not found")
	}

	vt := &dest.VisaTypes[idx]
	if patch.Name != nil {
		vt.Name = *patch.Name
	}
	if patch.Price != nil {
		vt.Price = *patch.Price
	}
	if patch.Currency != nil {
		vt.Currency = *patch.Currency
	}
	if patch.ProcessingTime != nil {
		vt.ProcessingTime = *patch.ProcessingTime
	}
	if patch.Requirements != nil {
		vt.Requirements = *patch.Requirements
	}

	return s.persist(ctx, dest)
}

// DeleteVisaType removes one embedded offering by id.
func (s *Service) DeleteVisaType(ctx context.Context, destID, visaTypeID string) (*Destination, error) {
	dest, err := s.findByID(ctx, destID)
	if err != nil {
		return nil, err
	}

	kept := dest.VisaTypes[:0]
	removed := false
	for _, vt := range dest.VisaTypes {
		if vt.ID == visaTypeID {
			removed = true
			continue
		}
		kept = append(kept, vt)
	}
	if !removed {
		return nil, dErrors.New(dErrors.CodeNotFound, "visa type not found")
	}
	dest.VisaTypes = kept

	return s.persist(ctx, dest)
}

func (s *Service) findByID(ctx context.Context, id string) (*Destination, error) {
	dest, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "destination not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up destination")
	}
	return dest, nil
}

func (s *Service) persist(ctx context.Context, dest *Destination) (*Destination, error) {
	dest.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, dest); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "country code already registered")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "destination not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update destination")
	}
	return dest, nil
}

func newVisaType(params VisaTypeParams) VisaType {
	return VisaType{
		ID:             uuid.NewString(),
		Name:           params.Name,
		Price:          params.Price,
		Currency:       params.Currency,
		ProcessingTime: params.ProcessingTime,
		Requirements:   params.Requirements,
	}
}
