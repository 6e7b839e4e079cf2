package driven

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/alorle/iptv-relay/internal/m3u"
	"github.com/alorle/iptv-relay/internal/playlist"
	"github.com/alorle/iptv-relay/internal/upstream"
	"github.com/alorle/iptv-relay/logging"
	"github.com/alorle/iptv-relay/metrics"
)

// M3UFetcher reads M3U playlists from upstream sources.
// It implements the driven.PlaylistFetcher port.
type M3UFetcher struct {
	reader *SourceReader
	logger *slog.Logger
}

// NewM3UFetcher creates a playlist fetcher on top of reader.
func NewM3UFetcher(reader *SourceReader, logger *slog.Logger) *M3UFetcher {
	return &M3UFetcher{
		reader: reader,
		logger: logging.OrDiscard(logger),
	}
}

// FetchPlaylist reads source and decodes it as an M3U playlist.
func (f *M3UFetcher) FetchPlaylist(ctx context.Context, source string) (playlist.Source, error) {
	start := time.Now()

	body, err := f.reader.Read(ctx, source)
	if err != nil {
		metrics.RecordUpstreamFetch(metrics.KindPlaylist, metrics.OutcomeUnavailable, time.Since(start))
		return playlist.Source{}, err
	}

	src, err := m3u.Decode(bytes.NewReader(body))
	if err != nil {
		metrics.RecordUpstreamFetch(metrics.KindPlaylist, metrics.OutcomeMalformed, time.Since(start))
		return playlist.Source{}, &upstream.SourceMalformedError{Source: source, Err: err}
	}

	metrics.RecordUpstreamFetch(metrics.KindPlaylist, metrics.OutcomeOK, time.Since(start))
	f.logger.DebugContext(ctx, "playlist fetched",
		"source", source,
		"bytes", len(body),
		"channels", len(src.Channels),
		"duration", time.Since(start),
	)
	return src, nil
}
