package driver

import (
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/alorle/iptv-relay/internal/application"
	"github.com/alorle/iptv-relay/logging"
)

// Route paths.
const (
	RouteGuide              = "/guide.xml"
	RouteOriginalGuide      = "/original/guide.xml"
	RouteFilteredPlaylist   = "/iptv/read"
	RouteUnfilteredPlaylist = "/iptv/unfiltered"
	RouteHealth             = "/health"
	RouteMetrics            = "/metrics"
	RouteOpenAPI            = "/openapi.json"
)

// Dependencies holds all the dependencies needed by the handlers
type Dependencies struct {
	Channels *application.ChannelService
	Guide    *application.GuideService
	Health   *application.HealthService
	Swagger  *openapi3.T
	Limiter  *rate.Limiter
	Logger   *slog.Logger
}

// SetupRoutes configures all HTTP routes and the middleware around them:
// request id, access log, then the rate limiter. The API operations are
// checked against Swagger before they run; without it only the method is
// checked.
func SetupRoutes(deps Dependencies) http.Handler {
	logger := logging.OrDiscard(deps.Logger)

	si := NewStrictHandler(
		NewServer(deps.Channels, deps.Guide, deps.Health, logger),
		[]StrictMiddlewareFunc{LogOperation(logger)},
		StrictHTTPServerOptions{
			ResponseErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
				writeServiceError(w, r, logger, err)
			},
		},
	)

	operations := map[string]http.HandlerFunc{
		RouteGuide:              si.GetCorrectedGuide,
		RouteOriginalGuide:      si.GetOriginalGuide,
		RouteFilteredPlaylist:   si.GetFilteredPlaylist,
		RouteUnfilteredPlaylist: si.GetUnfilteredPlaylist,
		RouteHealth:             si.GetHealth,
	}

	api := http.NewServeMux()
	for route, h := range operations {
		api.Handle(http.MethodGet+" "+route, h)
	}
	var apiHandler http.Handler = api
	if deps.Swagger != nil {
		apiHandler = ValidateRequests(deps.Swagger, logger)(apiHandler)
	}

	mux := http.NewServeMux()
	for route := range operations {
		mux.Handle(route, Instrument(route, apiHandler))
	}
	if deps.Swagger != nil {
		mux.Handle(RouteOpenAPI, Instrument(RouteOpenAPI, NewDocumentationHandler(deps.Swagger, logger)))
	}

	// Prometheus metrics endpoint
	mux.Handle(RouteMetrics, promhttp.Handler())

	var handler http.Handler = mux
	handler = RateLimit(deps.Limiter, logger, handler)
	handler = logging.AccessLog(logger, handler)
	handler = logging.RequestIDMiddleware(handler)
	return handler
}
