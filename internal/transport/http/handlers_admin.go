package httptransport

import (
	"net/http"
	"strconv"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/application"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/audit"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/middleware"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/httputil"
)

type adminHandler struct {
	identity     *identity.Service
	applications *application.Service
	auditLog     audit.Store
}

func newAdminHandler(identitySvc *identity.Service, applicationSvc *application.Service, auditLog audit.Store) *adminHandler {
	return &adminHandler{identity: identitySvc, applications: applicationSvc, auditLog: auditLog}
}

func adminPrincipal(w http.ResponseWriter, r *http.Request) (*identity.Admin, bool) {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "missing principal"))
	}
	return admin, ok
}

func (h *adminHandler) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.applications.AdminList(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, apps)
}

func (h *adminHandler) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.applications.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *adminHandler) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	admin, ok := adminPrincipal(w, r)
	if !ok {
		return
	}

	var patch application.AdminPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	app, err := h.applications.AdminUpdate(r.Context(), admin.ID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *adminHandler) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	admin, ok := adminPrincipal(w, r)
	if !ok {
		return
	}

	if err := h.applications.Delete(r.Context(), admin.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Solicitud eliminada exitosamente",
	})
}

func (h *adminHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.applications.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *adminHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

func (h *adminHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *adminHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	admin, ok := adminPrincipal(w, r)
	if !ok {
		return
	}

	if err := h.identity.DeleteUser(r.Context(), admin.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Usuario eliminado exitosamente",
	})
}

type createAdminRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	SuperAdmin bool   `json:"is_superadmin"`
}

func validateCreateAdminRequest(req createAdminRequest) error {
	if !govalidator.IsEmail(req.Email) {
		return dErrors.New(dErrors.CodeBadRequest, "invalid email")
	}
	if !govalidator.StringLength(req.Password, "8", "128") {
		return dErrors.New(dErrors.CodeBadRequest, "password must be between 8 and 128 characters")
	}
	return nil
}

func (h *adminHandler) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	admin, ok := adminPrincipal(w, r)
	if !ok {
		return
	}

	var req createAdminRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateCreateAdminRequest(req); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.identity.CreateAdmin(r.Context(), admin.ID, identity.CreateAdminParams{
		Email:      req.Email,
		Password:   req.Password,
		FullName:   req.FullName,
		SuperAdmin: req.SuperAdmin,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Administrador creado exitosamente",
		"admin":   created,
	})
}

func (h *adminHandler) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.identity.ListAdmins(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, admins)
}

const defaultAuditLimit = 100

func (h *adminHandler) handleListAuditEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	events, err := h.auditLog.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInternal, "list audit events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}
