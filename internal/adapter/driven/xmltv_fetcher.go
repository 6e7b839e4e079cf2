package driven

import (
	"context"
	"log/slog"
	"time"

	"github.com/alorle/iptv-relay/internal/upstream"
	"github.com/alorle/iptv-relay/internal/xmltv"
	"github.com/alorle/iptv-relay/logging"
	"github.com/alorle/iptv-relay/metrics"
)

// XMLTVFetcher reads the XMLTV guide from a single configured source.
// It implements the driven.GuideFetcher port.
type XMLTVFetcher struct {
	source string
	reader *SourceReader
	logger *slog.Logger
}

// NewXMLTVFetcher creates a guide fetcher for source.
func NewXMLTVFetcher(source string, reader *SourceReader, logger *slog.Logger) *XMLTVFetcher {
	return &XMLTVFetcher{
		source: source,
		reader: reader,
		logger: logging.OrDiscard(logger),
	}
}

// Source returns the configured guide source.
func (f *XMLTVFetcher) Source() string {
	return f.source
}

// FetchGuide retrieves the guide and parses it into a document tree.
func (f *XMLTVFetcher) FetchGuide(ctx context.Context) (*xmltv.Document, error) {
	start := time.Now()

	body, err := f.reader.Read(ctx, f.source)
	if err != nil {
		metrics.RecordUpstreamFetch(metrics.KindGuide, metrics.OutcomeUnavailable, time.Since(start))
		return nil, err
	}

	doc, err := xmltv.ParseBytes(body)
	if err != nil {
		metrics.RecordUpstreamFetch(metrics.KindGuide, metrics.OutcomeMalformed, time.Since(start))
		return nil, &upstream.GuideParseError{Source: f.source, Err: err}
	}

	metrics.RecordUpstreamFetch(metrics.KindGuide, metrics.OutcomeOK, time.Since(start))
	f.logger.DebugContext(ctx, "guide fetched",
		"source", f.source,
		"bytes", len(body),
		"channels", len(doc.Channels()),
		"duration", time.Since(start),
	)
	return doc, nil
}
