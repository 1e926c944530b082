package usecase

import (
	"context"
	"log/slog"

	"jokeshare/src/core/ports"
)

// HealthService reports the health of the application and its store.
type HealthService struct {
	log  *slog.Logger
	repo ports.Repository
}

// NewHealthService creates a new HealthService.
func NewHealthService(repo ports.Repository, log *slog.Logger) *HealthService {
	return &HealthService{
		log:  log,
		repo: repo,
	}
}

// HealthStatus represents the health of the application.
type HealthStatus struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check pings every dependency. The overall status degrades when any fails.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:     "ok",
		Components: make(map[string]ComponentHealth),
	}

	if err := s.repo.Health(ctx); err != nil {
		s.log.Warn("store health check failed", "error", err)
		status.Status = "degraded"
		status.Components["store"] = ComponentHealth{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	} else {
		status.Components["store"] = ComponentHealth{Status: "healthy"}
	}

	return status
}
