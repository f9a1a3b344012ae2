package httptransport

import (
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/application"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/middleware"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/httputil"
)

type applicationHandler struct {
	applications *application.Service
}

func newApplicationHandler(applicationSvc *application.Service) *applicationHandler {
	return &applicationHandler{applications: applicationSvc}
}

func principal(w http.ResponseWriter, r *http.Request) (*identity.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "missing principal"))
	}
	return user, ok
}

// owned fetches an application and enforces that the caller owns it.
// Non-owned applications are reported as absent, not forbidden, so users
// cannot probe for other people's application ids.
func (h *applicationHandler) owned(w http.ResponseWriter, r *http.Request, user *identity.User) (*application.VisaApplication, bool) {
	app, err := h.applications.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if app.UserID != user.ID {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "application not found"))
		return nil, false
	}
	return app, true
}

type createApplicationRequest struct {
	DestinationID string `json:"destination_id"`
	VisaTypeID    string `json:"visa_type_id"`
	Notes         string `json:"notes"`
}

func validateCreateApplicationRequest(req createApplicationRequest) error {
	if !govalidator.StringLength(req.DestinationID, "1", "64") {
		return dErrors.New(dErrors.CodeBadRequest, "destination_id is required")
	}
	if !govalidator.StringLength(req.VisaTypeID, "1", "64") {
		return dErrors.New(dErrors.CodeBadRequest, "visa_type_id is required")
	}
	return nil
}

func (h *applicationHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}

	var req createApplicationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateCreateApplicationRequest(req); err != nil {
		writeError(w, err)
		return
	}

	app, err := h.applications.Create(r.Context(), user.ID, req.DestinationID, req.VisaTypeID, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":     "Solicitud creada exitosamente",
		"application": app,
	})
}

func (h *applicationHandler) handleListForUser(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "userID") != user.ID {
		writeError(w, dErrors.New(dErrors.CodeForbidden, "cannot list another user's applications"))
		return
	}

	apps, err := h.applications.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, apps)
}

func (h *applicationHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	app, ok := h.owned(w, r, user)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

type attachDocumentRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

func (h *applicationHandler) handleAttachDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	app, ok := h.owned(w, r, user)
	if !ok {
		return
	}

	var req attachDocumentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	doc, err := h.applications.AttachDocument(r.Context(), app.ID, application.AttachDocumentParams{
		Name: req.Name,
		Type: req.Type,
		Data: req.Data,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":     "Documento subido exitosamente",
		"document_id": doc.ID,
	})
}

func (h *applicationHandler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	app, ok := h.owned(w, r, user)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app.Documents)
}

func (h *applicationHandler) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	app, ok := h.owned(w, r, user)
	if !ok {
		return
	}

	if err := h.applications.RemoveDocument(r.Context(), app.ID, chi.URLParam(r, "docID")); err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Documento eliminado exitosamente",
	})
}
