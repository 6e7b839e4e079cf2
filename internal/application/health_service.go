package application

import (
	"context"

	"github.com/alorle/iptv-relay/internal/port/driven"
)

// HealthService checks that the service can answer requests: both
// correction tables must load.
type HealthService struct {
	store driven.CorrectionStore
}

// NewHealthService creates a new health check service.
func NewHealthService(store driven.CorrectionStore) *HealthService {
	return &HealthService{
		store: store,
	}
}

// ComponentHealth represents the health status of a single component.
type ComponentHealth struct {
	Status string // "ok" or "error"
	Error  string // empty if status is "ok", otherwise contains error message
}

// HealthStatus represents the overall health status of the application.
type HealthStatus struct {
	Status       string          // "ok" if all components are healthy, "degraded" otherwise
	ChannelTable ComponentHealth // channel correction table
	GuideTable   ComponentHealth // guide correction table
}

// Check loads both tables and reports each outcome. Upstream sources are
// not contacted.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status: "ok",
	}

	_, err := s.store.ChannelTable(ctx)
	status.ChannelTable = componentHealth(err)

	_, err = s.store.GuideTable(ctx)
	status.GuideTable = componentHealth(err)

	if status.ChannelTable.Status != "ok" || status.GuideTable.Status != "ok" {
		status.Status = "degraded"
	}
	return status
}

func componentHealth(err error) ComponentHealth {
	if err != nil {
		return ComponentHealth{
			Status: "error",
			Error:  err.Error(),
		}
	}
	return ComponentHealth{
		Status: "ok",
	}
}
