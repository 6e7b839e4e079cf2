package driver

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/alorle/iptv-relay/logging"
)

//go:embed openapi.yaml
var openAPISpec []byte

// GetSwagger returns the OpenAPI description of the HTTP API, stamped with
// version.
func GetSwagger(version string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}
	if version != "" {
		doc.Info.Version = version
	}
	return doc, nil
}

// NewDocumentationHandler serves swagger as JSON on GET.
func NewDocumentationHandler(swagger *openapi3.T, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, r, logger, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		logging.WriteJSON(w, logger, http.StatusOK, swagger)
	})
}
