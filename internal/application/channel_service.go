package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/alorle/iptv-relay/internal/correction"
	"github.com/alorle/iptv-relay/internal/playlist"
	"github.com/alorle/iptv-relay/internal/port/driven"
	"github.com/alorle/iptv-relay/logging"
)

// ChannelService provides the playlist use cases: the merged playlist of
// every configured source, and the same playlist run through the channel
// correction table.
// It depends only on domain packages and port interfaces.
type ChannelService struct {
	fetcher driven.PlaylistFetcher
	store   driven.CorrectionStore
	sources []string
	logger  *slog.Logger
}

// NewChannelService creates a new ChannelService reading sources in order.
func NewChannelService(fetcher driven.PlaylistFetcher, store driven.CorrectionStore, sources []string, logger *slog.Logger) *ChannelService {
	return &ChannelService{
		fetcher: fetcher,
		store:   store,
		sources: slices.Clone(sources),
		logger:  logging.OrDiscard(logger),
	}
}

// Sources returns the configured playlist sources in merge order.
func (s *ChannelService) Sources() []string {
	return slices.Clone(s.sources)
}

// Merged fetches every source concurrently and merges them in configured
// order, first occurrence of a name winning. If any source fails the whole
// call fails with that source's error and no set is returned.
func (s *ChannelService) Merged(ctx context.Context) (*playlist.Set, error) {
	fetched := make([]playlist.Source, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, source := range s.sources {
		g.Go(func() error {
			src, err := s.fetcher.FetchPlaylist(gctx, source)
			if err != nil {
				return err
			}
			fetched[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching playlists: %w", err)
	}

	read := 0
	for _, src := range fetched {
		read += len(src.Channels)
	}
	set := playlist.Merge(fetched...)

	s.logger.InfoContext(ctx, "playlists merged",
		"sources", len(s.sources),
		"channels_read", read,
		"channels_merged", set.Len(),
	)
	return set, nil
}

// Filtered returns the merged playlist corrected by the channel table: only
// channels the table lists and does not disable, with their corrections
// applied.
func (s *ChannelService) Filtered(ctx context.Context) (*playlist.Set, error) {
	table, err := s.store.ChannelTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading channel table: %w", err)
	}

	merged, err := s.Merged(ctx)
	if err != nil {
		return nil, err
	}

	filtered := correction.Correct(merged, table)
	s.logger.InfoContext(ctx, "channels selected",
		"channels_merged", merged.Len(),
		"channels_selected", filtered.Len(),
		"table_entries", table.Len(),
	)
	return filtered, nil
}

// ChannelReport summarizes how the channel table matches the sources.
type ChannelReport struct {
	Sources  int
	Merged   int
	Selected int
	// Disabled lists table entries that remove a channel present in the sources.
	Disabled []string
	// Unlisted lists source channels the table does not mention, which the
	// filtered playlist drops.
	Unlisted []string
	// Missing lists table entries naming no channel of the sources.
	Missing []string
}

// Report fetches the sources and compares them with the channel table.
func (s *ChannelService) Report(ctx context.Context) (ChannelReport, error) {
	table, err := s.store.ChannelTable(ctx)
	if err != nil {
		return ChannelReport{}, fmt.Errorf("loading channel table: %w", err)
	}

	merged, err := s.Merged(ctx)
	if err != nil {
		return ChannelReport{}, err
	}

	report := ChannelReport{
		Sources:  len(s.sources),
		Merged:   merged.Len(),
		Selected: correction.Correct(merged, table).Len(),
	}
	for _, name := range merged.Names() {
		entry, listed := table.Lookup(name)
		switch {
		case !listed:
			report.Unlisted = append(report.Unlisted, name)
		case entry.Disable:
			report.Disabled = append(report.Disabled, name)
		}
	}
	for _, name := range table.Names() {
		if _, ok := merged.Get(name); !ok {
			report.Missing = append(report.Missing, name)
		}
	}
	return report, nil
}
