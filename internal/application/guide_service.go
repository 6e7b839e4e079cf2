package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alorle/iptv-relay/internal/port/driven"
	"github.com/alorle/iptv-relay/internal/xmltv"
	"github.com/alorle/iptv-relay/logging"
)

// GuideService provides the program guide use cases.
type GuideService struct {
	fetcher driven.GuideFetcher
	store   driven.CorrectionStore
	logger  *slog.Logger
}

// NewGuideService creates a new GuideService.
func NewGuideService(fetcher driven.GuideFetcher, store driven.CorrectionStore, logger *slog.Logger) *GuideService {
	return &GuideService{
		fetcher: fetcher,
		store:   store,
		logger:  logging.OrDiscard(logger),
	}
}

// Original returns the guide as the source serves it.
func (s *GuideService) Original(ctx context.Context) (*xmltv.Document, error) {
	doc, err := s.fetcher.FetchGuide(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching guide: %w", err)
	}
	return doc, nil
}

// Corrected returns the guide with channel display names rewritten by the
// guide table, and the number of names rewritten.
func (s *GuideService) Corrected(ctx context.Context) (*xmltv.Document, int, error) {
	table, err := s.store.GuideTable(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("loading guide table: %w", err)
	}

	doc, err := s.Original(ctx)
	if err != nil {
		return nil, 0, err
	}

	corrected, replaced := xmltv.Rewrite(doc, table)
	s.logger.InfoContext(ctx, "guide rewritten",
		"source", s.fetcher.Source(),
		"channels", len(doc.Channels()),
		"names_rewritten", replaced,
		"table_entries", table.Len(),
	)
	return corrected, replaced, nil
}
