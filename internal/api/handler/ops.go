package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/resilroute/resilroute/internal/api/models"
	"github.com/resilroute/resilroute/internal/api/response"
	"github.com/resilroute/resilroute/internal/provider/resilient"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilient.Registry
}

// NewOpsHandler creates a new OpsHandler. The registry may be nil when no
// providers are registered.
func NewOpsHandler(version, buildTime string, registry *resilient.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The service is
// ready as long as at least one routing provider circuit is not open.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	if h.registry != nil {
		allOpen := true
		snapshots := h.registry.Health()
		for i := range snapshots {
			if snapshots[i].CircuitState != gobreaker.StateOpen {
				allOpen = false
				break
			}
		}
		if len(snapshots) > 0 && allOpen {
			status = models.HealthStatusDown
		}
	}

	health := models.Health{
		Status: status,
		Time:   time.Now().UTC(),
	}

	code := http.StatusOK
	if status == models.HealthStatusDown {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, health)
}

// SystemStatus handles GET /v1/ops/status - provider circuit status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      time.Now().UTC(),
		Providers: []models.ProviderStatus{},
	}

	if h.registry != nil {
		for _, snap := range h.registry.Health() {
			ps := models.ProviderStatus{
				Provider:      snap.Name,
				Status:        providerStatus(snap),
				CircuitState:  snap.CircuitState.String(),
				LastSuccessAt: snap.LastSuccessAt,
				LastFailureAt: snap.LastFailureAt,
			}
			if snap.LastError != "" {
				msg := snap.LastError
				ps.Message = &msg
			}
			status.Providers = append(status.Providers, ps)

			if ps.Status != models.HealthStatusOK && status.Status == models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func providerStatus(snap resilient.ProviderHealth) models.HealthStatus {
	switch snap.CircuitState {
	case gobreaker.StateOpen:
		return models.HealthStatusDown
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
