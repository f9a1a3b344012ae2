package httptransport

import (
	"net/http"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/bootstrap"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/httputil"
)

type systemHandler struct {
	initializer *bootstrap.Initializer
	checkDB     HealthCheck
	checkRedis  HealthCheck
}

func newSystemHandler(initializer *bootstrap.Initializer, checkDB, checkRedis HealthCheck) *systemHandler {
	return &systemHandler{initializer: initializer, checkDB: checkDB, checkRedis: checkRedis}
}

func (h *systemHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Bienvenido a Cuban-Serbia Visa API",
		"version": "1.0",
	})
}

func (h *systemHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	if h.checkDB != nil {
		checks["database"] = "ok"
		if err := h.checkDB(r.Context()); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
	}
	if h.checkRedis != nil {
		checks["redis"] = "ok"
		if err := h.checkRedis(r.Context()); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	httputil.WriteJSON(w, status, map[string]any{
		"status": overall,
		"checks": checks,
	})
}

func (h *systemHandler) handleInit(w http.ResponseWriter, r *http.Request) {
	result, err := h.initializer.Initialize(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
