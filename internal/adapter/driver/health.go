package driver

import (
	"context"

	"github.com/alorle/iptv-relay/internal/application"
	"github.com/alorle/iptv-relay/metrics"
)

// GetHealth reports whether both correction tables load. A degraded status
// is answered with 503.
func (s *Server) GetHealth(ctx context.Context, _ GetHealthRequestObject) (GetHealthResponseObject, error) {
	status := s.health.Check(ctx)

	resp := Health{
		Status:       status.Status,
		ChannelTable: status.ChannelTable.Status,
		GuideTable:   status.GuideTable.Status,
	}
	for _, component := range []application.ComponentHealth{status.ChannelTable, status.GuideTable} {
		if component.Error != "" {
			resp.Errors = append(resp.Errors, component.Error)
		}
	}

	if status.Status != "ok" {
		metrics.RecordHealthCheckFailure()
		s.logger.WarnContext(ctx, "health check failed", "errors", resp.Errors)
		return GetHealth503JSONResponse(resp), nil
	}
	return GetHealth200JSONResponse(resp), nil
}
