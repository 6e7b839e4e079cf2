package driver

import (
	"log/slog"

	"github.com/alorle/iptv-relay/internal/application"
	"github.com/alorle/iptv-relay/logging"
)

// ensure that we've conformed to the `StrictServerInterface` with a compile-time check
var _ StrictServerInterface = (*Server)(nil)

// Server answers the operations of the HTTP API from the application
// services.
type Server struct {
	channels *application.ChannelService
	guide    *application.GuideService
	health   *application.HealthService
	logger   *slog.Logger
}

func NewServer(
	channels *application.ChannelService,
	guide *application.GuideService,
	health *application.HealthService,
	logger *slog.Logger,
) *Server {
	return &Server{
		channels: channels,
		guide:    guide,
		health:   health,
		logger:   logging.OrDiscard(logger),
	}
}
