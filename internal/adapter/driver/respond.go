package driver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alorle/iptv-relay/internal/correction"
	"github.com/alorle/iptv-relay/internal/upstream"
	"github.com/alorle/iptv-relay/logging"
)

// writeError writes a JSON error response and logs it.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, message string, attrs ...any) {
	logging.WriteJSONError(w, r, logger, message, status, attrs...)
}

// writeServiceError maps err to its HTTP status and writes it. The message
// is the error text, which names the offending source or table.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	attrs := []any{"error", err}
	if source, ok := upstream.Source(err); ok {
		attrs = append(attrs, "source", source)
	}
	writeError(w, r, logger, statusFor(err), err.Error(), attrs...)
}

// statusFor returns the HTTP status reported for a service error.
func statusFor(err error) int {
	var (
		unavailable *upstream.SourceUnavailableError
		malformed   *upstream.SourceMalformedError
		guide       *upstream.GuideParseError
		loadErr     *correction.LoadError
	)
	switch {
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &malformed), errors.As(err, &guide):
		return http.StatusBadGateway
	case errors.As(err, &loadErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
