package driver

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	nethttpmiddleware "github.com/oapi-codegen/nethttp-middleware"
	"golang.org/x/time/rate"

	"github.com/alorle/iptv-relay/logging"
	"github.com/alorle/iptv-relay/metrics"
)

// Instrument records request count and latency for route.
func Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := logging.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(route, strconv.Itoa(rec.Status), time.Since(start))
	})
}

// RateLimit rejects requests with 429 once limiter runs out of tokens. A nil
// limiter lets every request through.
func RateLimit(limiter *rate.Limiter, logger *slog.Logger, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			metrics.RecordRateLimited()
			w.Header().Set("Retry-After", "1")
			writeError(w, r, logger, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewLimiter returns a limiter allowing perSecond requests with the given
// burst, or nil when perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// ValidateRequests rejects requests that match no operation of swagger. A
// known path with the wrong method gets 405, anything else the validator's
// own status. Rejections use the JSON error body.
func ValidateRequests(swagger *openapi3.T, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logging.OrDiscard(logger)
	return nethttpmiddleware.OapiRequestValidatorWithOptions(swagger, &nethttpmiddleware.Options{
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			if strings.Contains(message, routers.ErrMethodNotAllowed.Error()) {
				statusCode, message = http.StatusMethodNotAllowed, "method not allowed"
			}
			logger.Warn("request rejected", "status_code", statusCode, "message", message)
			logging.WriteJSON(w, logger, statusCode, logging.HTTPErrorResponse{Error: message})
		},
	})
}

// LogOperation logs every API operation with its duration at debug level.
func LogOperation(logger *slog.Logger) StrictMiddlewareFunc {
	logger = logging.OrDiscard(logger)
	return func(f StrictHandlerFunc, operationID string) StrictHandlerFunc {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
			start := time.Now()
			response, err := f(ctx, w, r, request)
			logger.DebugContext(ctx, "operation handled",
				"operation", operationID,
				"request_id", logging.RequestID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
				"failed", err != nil,
			)
			return response, err
		}
	}
}
