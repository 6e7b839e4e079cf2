package driven

import (
	"context"

	"github.com/alorle/iptv-relay/internal/xmltv"
)

// GuideFetcher defines the interface for reading the XMLTV guide from its
// upstream source.
// This is a driven port implemented by concrete adapters (e.g., HTTP client, file reader).
type GuideFetcher interface {
	// FetchGuide retrieves and parses the guide. Returns an
	// *upstream.SourceUnavailableError when the source cannot be read and an
	// *upstream.GuideParseError when its body is not XMLTV.
	FetchGuide(ctx context.Context) (*xmltv.Document, error)

	// Source returns the identifier of the guide source.
	Source() string
}
