package httptransport

import (
	"net/http"

	"github.com/asaskevich/govalidator"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/metrics"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/middleware"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/httputil"
)

type authHandler struct {
	identity *identity.Service
	metrics  *metrics.Metrics
}

func newAuthHandler(identitySvc *identity.Service, m *metrics.Metrics) *authHandler {
	return &authHandler{identity: identitySvc, metrics: m}
}

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"full_name"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passport_number"`
	Residence      string `json:"residence"`
}

func validateRegisterRequest(req registerRequest) error {
	if !govalidator.StringLength(req.Email, "3", "255") || !govalidator.IsEmail(req.Email) {
		return dErrors.New(dErrors.CodeBadRequest, "invalid email")
	}
	if !govalidator.StringLength(req.Password, "8", "128") {
		return dErrors.New(dErrors.CodeBadRequest, "password must be between 8 and 128 characters")
	}
	if !govalidator.StringLength(req.FullName, "0", "255") {
		return dErrors.New(dErrors.CodeBadRequest, "invalid full_name")
	}
	return nil
}

func (h *authHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateRegisterRequest(req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.identity.RegisterUser(r.Context(), identity.RegisterUserParams{
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		Phone:          req.Phone,
		PassportNumber: req.PassportNumber,
		Residence:      req.Residence,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.IncrementUsersRegistered()

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Usuario registrado exitosamente",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validateLoginRequest(req loginRequest) error {
	if !govalidator.IsEmail(req.Email) {
		return dErrors.New(dErrors.CodeBadRequest, "invalid email")
	}
	if req.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "password is required")
	}
	return nil
}

func (h *authHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateLoginRequest(req); err != nil {
		writeError(w, err)
		return
	}

	user, accessToken, err := h.identity.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.IncrementLogin("user", "failure")
		writeError(w, err)
		return
	}
	h.metrics.IncrementLogin("user", "success")

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":      "Login exitoso",
		"access_token": accessToken,
		"token_type":   "bearer",
		"user":         user,
	})
}

func (h *authHandler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateLoginRequest(req); err != nil {
		writeError(w, err)
		return
	}

	admin, accessToken, err := h.identity.LoginAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.IncrementLogin("admin", "failure")
		writeError(w, err)
		return
	}
	h.metrics.IncrementLogin("admin", "success")

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":      "Login exitoso",
		"access_token": accessToken,
		"token_type":   "bearer",
		"admin":        admin,
	})
}

func (h *authHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	verifyToken := r.URL.Query().Get("token")
	if verifyToken == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "token query parameter is required"))
		return
	}

	user, err := h.identity.VerifyEmail(r.Context(), verifyToken)
	if err != nil {
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Correo verificado exitosamente",
		"user":    user,
	})
}

func (h *authHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "missing principal"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *authHandler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "missing principal"))
		return
	}

	var patch identity.ProfilePatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if patch.FullName != nil && !govalidator.StringLength(*patch.FullName, "1", "255") {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid full_name"))
		return
	}

	updated, err := h.identity.UpdateProfile(r.Context(), user.ID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}
