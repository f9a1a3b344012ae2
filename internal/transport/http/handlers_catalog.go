package httptransport

import (
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/catalog"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/httputil"
)

type catalogHandler struct {
	catalog *catalog.Service
}

func newCatalogHandler(catalogSvc *catalog.Service) *catalogHandler {
	return &catalogHandler{catalog: catalogSvc}
}

// handleList is the public catalog: enabled destinations only.
func (h *catalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	enabled := make([]*catalog.Destination, 0, len(all))
	for _, d := range all {
		if d.Enabled {
			enabled = append(enabled, d)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, enabled)
}

func (h *catalogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	dest, err := h.catalog.Get(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dest)
}

type visaTypeListing struct {
	DestinationID string `json:"destination_id"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
	catalog.VisaType
}

// handleVisaTypes flattens the offerings of every enabled destination.
func (h *catalogHandler) handleVisaTypes(w http.ResponseWriter, r *http.Request) {
	all, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	listings := make([]visaTypeListing, 0)
	for _, d := range all {
		if !d.Enabled {
			continue
		}
		for _, vt := range d.VisaTypes {
			listings = append(listings, visaTypeListing{
				DestinationID: d.ID,
				Country:       d.Country,
				CountryCode:   d.CountryCode,
				VisaType:      vt,
			})
		}
	}
	httputil.WriteJSON(w, http.StatusOK, listings)
}

func (h *catalogHandler) handleAdminList(w http.ResponseWriter, r *http.Request) {
	all, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, all)
}

type visaTypeRequest struct {
	Name           string `json:"name"`
	Price          int    `json:"price"`
	Currency       string `json:"currency"`
	ProcessingTime string `json:"processing_time"`
	Requirements   string `json:"requirements"`
}

func (req visaTypeRequest) params() catalog.VisaTypeParams {
	return catalog.VisaTypeParams{
		Name:           req.Name,
		Price:          req.Price,
		Currency:       req.Currency,
		ProcessingTime: req.ProcessingTime,
		Requirements:   req.Requirements,
	}
}

func validateVisaTypeRequest(req visaTypeRequest) error {
	if !govalidator.StringLength(req.Name, "1", "255") {
		return dErrors.New(dErrors.CodeBadRequest, "visa type name is required")
	}
	if req.Price < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "price must not be negative")
	}
	return nil
}

type createDestinationRequest struct {
	Country      string            `json:"country"`
	CountryCode  string            `json:"country_code"`
	Enabled      *bool             `json:"enabled"`
	ImageURL     string            `json:"image_url"`
	Description  string            `json:"description"`
	Message      string            `json:"message"`
	Requirements string            `json:"requirements"`
	VisaTypes    []visaTypeRequest `json:"visa_types"`
}

func validateCreateDestinationRequest(req createDestinationRequest) error {
	if !govalidator.StringLength(req.Country, "1", "255") {
		return dErrors.New(dErrors.CodeBadRequest, "country is required")
	}
	if !govalidator.StringLength(req.CountryCode, "2", "3") {
		return dErrors.New(dErrors.CodeBadRequest, "country_code must be 2 or 3 characters")
	}
	for _, vt := range req.VisaTypes {
		if err := validateVisaTypeRequest(vt); err != nil {
			return err
		}
	}
	return nil
}

func (h *catalogHandler) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	var req createDestinationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateCreateDestinationRequest(req); err != nil {
		writeError(w, err)
		return
	}

	visaTypes := make([]catalog.VisaTypeParams, 0, len(req.VisaTypes))
	for _, vt := range req.VisaTypes {
		visaTypes = append(visaTypes, vt.params())
	}

	dest, err := h.catalog.Create(r.Context(), catalog.CreateDestinationParams{
		Country:      req.Country,
		CountryCode:  req.CountryCode,
		Enabled:      req.Enabled,
		ImageURL:     req.ImageURL,
		Description:  req.Description,
		Message:      req.Message,
		Requirements: req.Requirements,
		VisaTypes:    visaTypes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":     "Destino creado exitosamente",
		"destination": dest,
	})
}

func (h *catalogHandler) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	var patch catalog.DestinationPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if patch.CountryCode != nil && !govalidator.StringLength(*patch.CountryCode, "2", "3") {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "country_code must be 2 or 3 characters"))
		return
	}

	dest, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dest)
}

func (h *catalogHandler) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Destino eliminado exitosamente",
	})
}

func (h *catalogHandler) handleAddVisaType(w http.ResponseWriter, r *http.Request) {
	var req visaTypeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateVisaTypeRequest(req); err != nil {
		writeError(w, err)
		return
	}

	dest, err := h.catalog.AddVisaType(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, dest)
}

func (h *catalogHandler) handleUpdateVisaType(w http.ResponseWriter, r *http.Request) {
	var patch catalog.VisaTypePatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if patch.Price != nil && *patch.Price < 0 {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "price must not be negative"))
		return
	}

	dest, err := h.catalog.UpdateVisaType(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "visaTypeID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dest)
}

func (h *catalogHandler) handleDeleteVisaType(w http.ResponseWriter, r *http.Request) {
	dest, err := h.catalog.DeleteVisaType(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "visaTypeID"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dest)
}
