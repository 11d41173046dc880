package domain

// Health states reported by GET /healthz.
const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
)

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth is the probe result of one dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	Error       string `json:"error,omitempty"`
	LastChecked string `json:"lastChecked"`
}

// NewHealthStatus derives the overall status: degraded as soon as one
// dependency is.
func NewHealthStatus(services ...ServiceHealth) HealthStatus {
	status := HealthHealthy
	for _, s := range services {
		if s.Status != HealthHealthy {
			status = HealthDegraded
		}
	}
	return HealthStatus{Status: status, Services: services}
}

// SuccessResponse acknowledges a command that has no body of its own.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
