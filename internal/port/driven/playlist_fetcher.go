package driven

import (
	"context"

	"github.com/alorle/iptv-relay/internal/playlist"
)

// PlaylistFetcher defines the interface for reading a playlist from one
// upstream source.
// This is a driven port implemented by concrete adapters (e.g., HTTP client, file reader).
type PlaylistFetcher interface {
	// FetchPlaylist retrieves and parses the playlist at source. Returns an
	// *upstream.SourceUnavailableError when the source cannot be read and an
	// *upstream.SourceMalformedError when its body is not a playlist.
	FetchPlaylist(ctx context.Context, source string) (playlist.Source, error)
}
