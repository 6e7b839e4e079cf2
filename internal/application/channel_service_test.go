package application

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alorle/iptv-relay/internal/correction"
	"github.com/alorle/iptv-relay/internal/playlist"
	"github.com/alorle/iptv-relay/internal/upstream"
	"github.com/alorle/iptv-relay/internal/xmltv"
)

// mockPlaylistFetcher is a mock implementation of driven.PlaylistFetcher for testing.
type mockPlaylistFetcher struct {
	fetchPlaylistFunc func(ctx context.Context, source string) (playlist.Source, error)
}

func (m *mockPlaylistFetcher) FetchPlaylist(ctx context.Context, source string) (playlist.Source, error) {
	if m.fetchPlaylistFunc != nil {
		return m.fetchPlaylistFunc(ctx, source)
	}
	return playlist.Source{}, nil
}

// mockGuideFetcher is a mock implementation of driven.GuideFetcher for testing.
type mockGuideFetcher struct {
	fetchGuideFunc func(ctx context.Context) (*xmltv.Document, error)
	source         string
}

func (m *mockGuideFetcher) FetchGuide(ctx context.Context) (*xmltv.Document, error) {
	if m.fetchGuideFunc != nil {
		return m.fetchGuideFunc(ctx)
	}
	return xmltv.ParseString("<tv/>")
}

func (m *mockGuideFetcher) Source() string {
	return m.source
}

// mockCorrectionStore is a mock implementation of driven.CorrectionStore for testing.
type mockCorrectionStore struct {
	channelTableFunc func(ctx context.Context) (correction.Table, error)
	guideTableFunc   func(ctx context.Context) (correction.GuideTable, error)
}

func (m *mockCorrectionStore) ChannelTable(ctx context.Context) (correction.Table, error) {
	if m.channelTableFunc != nil {
		return m.channelTableFunc(ctx)
	}
	return correction.NewTable(nil), nil
}

func (m *mockCorrectionStore) GuideTable(ctx context.Context) (correction.GuideTable, error) {
	if m.guideTableFunc != nil {
		return m.guideTableFunc(ctx)
	}
	return correction.NewGuideTable(nil), nil
}

func newChannel(name, url string, attrs ...string) playlist.Channel {
	ch := playlist.Channel{Name: name, Duration: "-1", URL: url}
	for i := 0; i+1 < len(attrs); i += 2 {
		ch.Attributes.Set(attrs[i], attrs[i+1])
	}
	return ch
}

func ptr(s string) *string { return &s }

// sourcesFetcher serves fixed sources by identifier.
func sourcesFetcher(sources map[string]playlist.Source) *mockPlaylistFetcher {
	return &mockPlaylistFetcher{
		fetchPlaylistFunc: func(ctx context.Context, source string) (playlist.Source, error) {
			src, ok := sources[source]
			if !ok {
				return playlist.Source{}, &upstream.SourceUnavailableError{Source: source, Err: errors.New("not found")}
			}
			return src, nil
		},
	}
}

var (
	sourceOne = playlist.Source{Channels: []playlist.Channel{
		newChannel("BBC1", "http://a/bbc1", playlist.AttrTVGID, "bbc1.uk", playlist.AttrGroupTitle, "News"),
		newChannel("ITV", "http://a/itv"),
	}}
	sourceTwo = playlist.Source{Channels: []playlist.Channel{
		newChannel("BBC1", "http://b/bbc1", playlist.AttrGroupTitle, "Other"),
		newChannel("CNN", "http://b/cnn"),
	}}
)

func TestChannelService_Merged(t *testing.T) {
	tests := []struct {
		name      string
		sources   []string
		wantNames []string
		wantURLs  []string
	}{
		{
			name:      "first source wins",
			sources:   []string{"s1", "s2"},
			wantNames: []string{"BBC1", "ITV", "CNN"},
			wantURLs:  []string{"http://a/bbc1", "http://a/itv", "http://b/cnn"},
		},
		{
			name:      "order follows configuration",
			sources:   []string{"s2", "s1"},
			wantNames: []string{"BBC1", "CNN", "ITV"},
			wantURLs:  []string{"http://b/bbc1", "http://b/cnn", "http://a/itv"},
		},
		{
			name:      "repeated source is idempotent",
			sources:   []string{"s1", "s1"},
			wantNames: []string{"BBC1", "ITV"},
			wantURLs:  []string{"http://a/bbc1", "http://a/itv"},
		},
		{
			name:      "no sources",
			sources:   nil,
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := sourcesFetcher(map[string]playlist.Source{"s1": sourceOne, "s2": sourceTwo})
			service := NewChannelService(fetcher, &mockCorrectionStore{}, tt.sources, nil)

			set, err := service.Merged(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(set.Names(), tt.wantNames) {
				t.Errorf("names = %v, want %v", set.Names(), tt.wantNames)
			}
			var urls []string
			for _, ch := range set.Channels() {
				urls = append(urls, ch.URL)
			}
			if !slices.Equal(urls, tt.wantURLs) {
				t.Errorf("urls = %v, want %v", urls, tt.wantURLs)
			}
		})
	}
}

func TestChannelService_Merged_OrderIndependentOfFetchTiming(t *testing.T) {
	fetcher := &mockPlaylistFetcher{
		fetchPlaylistFunc: func(ctx context.Context, source string) (playlist.Source, error) {
			if source == "s1" {
				time.Sleep(20 * time.Millisecond)
				return sourceOne, nil
			}
			return sourceTwo, nil
		},
	}
	service := NewChannelService(fetcher, &mockCorrectionStore{}, []string{"s1", "s2"}, nil)

	set, err := service.Merged(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bbc, _ := set.Get("BBC1")
	if bbc.URL != "http://a/bbc1" {
		t.Errorf("BBC1 url = %q, the first configured source must win even when it answers last", bbc.URL)
	}
}

func TestChannelService_Merged_FetchesConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	fetcher := &mockPlaylistFetcher{
		fetchPlaylistFunc: func(ctx context.Context, source string) (playlist.Source, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			return playlist.Source{}, nil
		},
	}
	service := NewChannelService(fetcher, &mockCorrectionStore{}, []string{"a", "b", "c"}, nil)

	if _, err := service.Merged(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak.Load() < 2 {
		t.Errorf("peak concurrent fetches = %d, want sources fetched in parallel", peak.Load())
	}
}

func TestChannelService_Merged_SourceFailure(t *testing.T) {
	tests := []struct {
		name    string
		fail    error
		checkAs func(error) bool
	}{
		{
			name: "unavailable",
			fail: &upstream.SourceUnavailableError{Source: "s2", Err: upstream.ErrUnexpectedStatus},
			checkAs: func(err error) bool {
				var target *upstream.SourceUnavailableError
				return errors.As(err, &target) && target.Source == "s2"
			},
		},
		{
			name: "malformed",
			fail: &upstream.SourceMalformedError{Source: "s2", Err: errors.New("line 1: missing #EXTM3U header")},
			checkAs: func(err error) bool {
				var target *upstream.SourceMalformedError
				return errors.As(err, &target) && target.Source == "s2"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockPlaylistFetcher{
				fetchPlaylistFunc: func(ctx context.Context, source string) (playlist.Source, error) {
					if source == "s2" {
						return playlist.Source{}, tt.fail
					}
					return sourceOne, nil
				},
			}
			service := NewChannelService(fetcher, &mockCorrectionStore{}, []string{"s1", "s2"}, nil)

			set, err := service.Merged(context.Background())
			if set != nil {
				t.Error("no partial set may be returned")
			}
			if !tt.checkAs(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestChannelService_Filtered(t *testing.T) {
	store := &mockCorrectionStore{
		channelTableFunc: func(ctx context.Context) (correction.Table, error) {
			return correction.NewTable(map[string]correction.Entry{
				"BBC1": {
					Name:       ptr("BBC One"),
					Attributes: playlist.Attributes{{Key: playlist.AttrGroupTitle, Value: "UK"}},
				},
				"CNN": {Disable: true},
			}), nil
		},
	}
	fetcher := sourcesFetcher(map[string]playlist.Source{"s1": sourceOne, "s2": sourceTwo})
	service := NewChannelService(fetcher, store, []string{"s1", "s2"}, nil)

	set, err := service.Filtered(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(set.Names(), []string{"BBC One"}) {
		t.Fatalf("names = %v, want [BBC One]", set.Names())
	}
	bbc, _ := set.Get("BBC One")
	if bbc.URL != "http://a/bbc1" {
		t.Errorf("url = %q", bbc.URL)
	}
	if v, _ := bbc.Attributes.Get(playlist.AttrGroupTitle); v != "UK" {
		t.Errorf("group-title = %q, want UK", v)
	}
	if v, _ := bbc.Attributes.Get(playlist.AttrTVGID); v != "bbc1.uk" {
		t.Errorf("tvg-id = %q, want bbc1.uk", v)
	}
}

func TestChannelService_Filtered_TableError(t *testing.T) {
	loadErr := &correction.LoadError{Path: "iptv_corrected.json", Err: correction.ErrEmptyTable}
	fetched := false
	fetcher := &mockPlaylistFetcher{
		fetchPlaylistFunc: func(ctx context.Context, source string) (playlist.Source, error) {
			fetched = true
			return sourceOne, nil
		},
	}
	store := &mockCorrectionStore{
		channelTableFunc: func(ctx context.Context) (correction.Table, error) {
			return correction.Table{}, loadErr
		},
	}
	service := NewChannelService(fetcher, store, []string{"s1"}, nil)

	_, err := service.Filtered(context.Background())

	var target *correction.LoadError
	if !errors.As(err, &target) {
		t.Fatalf("expected *correction.LoadError, got %v", err)
	}
	if fetched {
		t.Error("sources should not be fetched when the table fails to load")
	}
}

func TestChannelService_Report(t *testing.T) {
	store := &mockCorrectionStore{
		channelTableFunc: func(ctx context.Context) (correction.Table, error) {
			return correction.NewTable(map[string]correction.Entry{
				"BBC1":  {Name: ptr("BBC One")},
				"CNN":   {Disable: true},
				"Ghost": {},
			}), nil
		},
	}
	fetcher := sourcesFetcher(map[string]playlist.Source{"s1": sourceOne, "s2": sourceTwo})
	service := NewChannelService(fetcher, store, []string{"s1", "s2"}, nil)

	report, err := service.Report(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Sources != 2 || report.Merged != 3 || report.Selected != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/3/1", report.Sources, report.Merged, report.Selected)
	}
	if !slices.Equal(report.Disabled, []string{"CNN"}) {
		t.Errorf("Disabled = %v", report.Disabled)
	}
	if !slices.Equal(report.Unlisted, []string{"ITV"}) {
		t.Errorf("Unlisted = %v", report.Unlisted)
	}
	if !slices.Equal(report.Missing, []string{"Ghost"}) {
		t.Errorf("Missing = %v", report.Missing)
	}
}

func TestChannelService_SourcesIsACopy(t *testing.T) {
	sources := []string{"s1", "s2"}
	service := NewChannelService(&mockPlaylistFetcher{}, &mockCorrectionStore{}, sources, nil)
	sources[0] = "changed"

	got := service.Sources()
	got[1] = "changed"

	if !slices.Equal(service.Sources(), []string{"s1", "s2"}) {
		t.Errorf("Sources() = %v", service.Sources())
	}
}
