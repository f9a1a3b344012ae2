package httptransport

import (
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/directory"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/httputil"
)

type directoryHandler struct {
	directory *directory.Service
}

func newDirectoryHandler(directorySvc *directory.Service) *directoryHandler {
	return &directoryHandler{directory: directorySvc}
}

func (h *directoryHandler) handleTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.directory.ListTestimonials(r.Context(), true)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, testimonials)
}

func (h *directoryHandler) handleAdminTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.directory.ListTestimonials(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, testimonials)
}

type testimonialRequest struct {
	ClientName  string `json:"client_name"`
	VisaType    string `json:"visa_type"`
	Description string `json:"description"`
	ImageData   string `json:"image_data"`
}

func (req testimonialRequest) params() directory.TestimonialParams {
	return directory.TestimonialParams{
		ClientName:  req.ClientName,
		VisaType:    req.VisaType,
		Description: req.Description,
		ImageData:   req.ImageData,
	}
}

func validateTestimonialRequest(req testimonialRequest) error {
	if !govalidator.StringLength(req.ClientName, "1", "255") {
		return dErrors.New(dErrors.CodeBadRequest, "client_name is required")
	}
	return nil
}

func (h *directoryHandler) handleCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateTestimonialRequest(req); err != nil {
		writeError(w, err)
		return
	}

	t, err := h.directory.CreateTestimonial(r.Context(), req.params())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":     "Testimonio creado exitosamente",
		"testimonial": t,
	})
}

func (h *directoryHandler) handleUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateTestimonialRequest(req); err != nil {
		writeError(w, err)
		return
	}

	t, err := h.directory.UpdateTestimonial(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *directoryHandler) handleToggleTestimonial(w http.ResponseWriter, r *http.Request) {
	t, err := h.directory.ToggleTestimonial(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   toggleMessage(t.IsActive, "Testimonio activado", "Testimonio desactivado"),
		"is_active": t.IsActive,
	})
}

func (h *directoryHandler) handleDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.DeleteTestimonial(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Testimonio eliminado exitosamente",
	})
}

func (h *directoryHandler) handleAdvisors(w http.ResponseWriter, r *http.Request) {
	advisors, err := h.directory.ListAdvisors(r.Context(), true)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, advisors)
}

func (h *directoryHandler) handleAdminAdvisors(w http.ResponseWriter, r *http.Request) {
	advisors, err := h.directory.ListAdvisors(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, advisors)
}

type advisorRequest struct {
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Description  string `json:"description"`
	Country      string `json:"country"`
}

func (req advisorRequest) params() directory.AdvisorParams {
	return directory.AdvisorParams{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Description:  req.Description,
		Country:      req.Country,
	}
}

func validateAdvisorRequest(req advisorRequest) error {
	if !govalidator.StringLength(req.BusinessName, "1", "255") {
		return dErrors.New(dErrors.CodeBadRequest, "business_name is required")
	}
	if req.Email != "" && !govalidator.IsEmail(req.Email) {
		return dErrors.New(dErrors.CodeBadRequest, "invalid email")
	}
	return nil
}

func (h *directoryHandler) handleCreateAdvisor(w http.ResponseWriter, r *http.Request) {
	var req advisorRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateAdvisorRequest(req); err != nil {
		writeError(w, err)
		return
	}

	a, err := h.directory.CreateAdvisor(r.Context(), req.params())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Proveedor creado exitosamente",
		"advisor": a,
	})
}

func (h *directoryHandler) handleUpdateAdvisor(w http.ResponseWriter, r *http.Request) {
	var req advisorRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateAdvisorRequest(req); err != nil {
		writeError(w, err)
		return
	}

	a, err := h.directory.UpdateAdvisor(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *directoryHandler) handleToggleAdvisor(w http.ResponseWriter, r *http.Request) {
	a, err := h.directory.ToggleAdvisor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   toggleMessage(a.IsActive, "Proveedor activado", "Proveedor desactivado"),
		"is_active": a.IsActive,
	})
}

func (h *directoryHandler) handleDeleteAdvisor(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.DeleteAdvisor(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Proveedor eliminado exitosamente",
	})
}

func (h *directoryHandler) handlePromotions(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.directory.ListPromotions(r.Context(), true)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, promotions)
}

func (h *directoryHandler) handleAdminPromotions(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.directory.ListPromotions(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, promotions)
}

type promotionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	LinkURL     string `json:"link_url"`
	LinkText    string `json:"link_text"`
}

func (req promotionRequest) params() directory.PromotionParams {
	return directory.PromotionParams{
		Title:       req.Title,
		Description: req.Description,
		LinkURL:     req.LinkURL,
		LinkText:    req.LinkText,
	}
}

func validatePromotionRequest(req promotionRequest) error {
	if !govalidator.StringLength(req.Title, "1", "255") {
		return dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	if req.LinkURL != "" && !govalidator.IsURL(req.LinkURL) {
		return dErrors.New(dErrors.CodeBadRequest, "invalid link_url")
	}
	return nil
}

func (h *directoryHandler) handleCreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req promotionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validatePromotionRequest(req); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.directory.CreatePromotion(r.Context(), req.params())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":   "Promoción creada exitosamente",
		"promotion": p,
	})
}

func (h *directoryHandler) handleUpdatePromotion(w http.ResponseWriter, r *http.Request) {
	var req promotionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validatePromotionRequest(req); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.directory.UpdatePromotion(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *directoryHandler) handleTogglePromotion(w http.ResponseWriter, r *http.Request) {
	p, err := h.directory.TogglePromotion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   toggleMessage(p.IsActive, "Promoción activada", "Promoción desactivada"),
		"is_active": p.IsActive,
	})
}

func (h *directoryHandler) handleDeletePromotion(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.DeletePromotion(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Promoción eliminada exitosamente",
	})
}

// toggleMessage takes both participle forms because the entity nouns
// differ in grammatical gender (Testimonio vs Promoción).
func toggleMessage(active bool, activated, deactivated string) string {
	if active {
		return activated
	}
	return deactivated
}
