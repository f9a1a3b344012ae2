package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
)

type DirectoryServiceSuite struct {
	suite.Suite

	ctx     context.Context
	service *Service
}

func (s *DirectoryServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.service = NewService(
		NewInMemoryTestimonialStore(),
		NewInMemoryAdvisorStore(),
		NewInMemoryPromotionStore(),
	)
}

func (s *DirectoryServiceSuite) TestTestimonialLifecycle() {
	created, err := s.service.CreateTestimonial(s.ctx, TestimonialParams{
		ClientName:  "Carlos Pérez",
		VisaType:    "Turismo",
		Description: "Proceso rápido y claro",
	})
	s.Require().NoError(err)
	s.True(created.IsActive, "new records start active")

	updated, err := s.service.UpdateTestimonial(s.ctx, created.ID, TestimonialParams{
		ClientName:  "Carlos Pérez",
		VisaType:    "Trabajo",
		Description: "Proceso rápido y claro",
	})
	s.Require().NoError(err)
	s.Equal("Trabajo", updated.VisaType)

	s.Require().NoError(s.service.DeleteTestimonial(s.ctx, created.ID))

	err = s.service.DeleteTestimonial(s.ctx, created.ID)
	s.Require().Error(err)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *DirectoryServiceSuite) TestToggleHidesFromPublicList() {
	created, err := s.service.CreateTestimonial(s.ctx, TestimonialParams{ClientName: "Carlos"})
	s.Require().NoError(err)

	toggled, err := s.service.ToggleTestimonial(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(toggled.IsActive)

	public, err := s.service.ListTestimonials(s.ctx, true)
	s.Require().NoError(err)
	s.Empty(public)

	all, err := s.service.ListTestimonials(s.ctx, false)
	s.Require().NoError(err)
	s.Len(all, 1, "the admin view still sees inactive records")

	back, err := s.service.ToggleTestimonial(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(back.IsActive)
}

func (s *DirectoryServiceSuite) TestAdvisorLifecycle() {
	created, err := s.service.CreateAdvisor(s.ctx, AdvisorParams{
		BusinessName: "Gestoría Balcanes",
		Email:        "info@balcanes.example.com",
		Country:      "Serbia",
	})
	s.Require().NoError(err)

	updated, err := s.service.UpdateAdvisor(s.ctx, created.ID, AdvisorParams{
		BusinessName: "Gestoría Balcanes SRL",
		Email:        "info@balcanes.example.com",
		Country:      "Serbia",
	})
	s.Require().NoError(err)
	s.Equal("Gestoría Balcanes SRL", updated.BusinessName)

	_, err = s.service.ToggleAdvisor(s.ctx, "missing")
	s.Require().Error(err)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *DirectoryServiceSuite) TestPromotionLifecycle() {
	created, err := s.service.CreatePromotion(s.ctx, PromotionParams{
		Title:    "Descuento de temporada",
		LinkURL:  "https://example.com/promo",
		LinkText: "Ver más",
	})
	s.Require().NoError(err)

	toggled, err := s.service.TogglePromotion(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(toggled.IsActive)

	public, err := s.service.ListPromotions(s.ctx, true)
	s.Require().NoError(err)
	s.Empty(public)

	s.Require().NoError(s.service.DeletePromotion(s.ctx, created.ID))
}

func TestDirectoryServiceSuite(t *testing.T) {
	suite.Run(t, new(DirectoryServiceSuite))
}
