package driven

import (
	port "github.com/alorle/iptv-relay/internal/port/driven"
)

// Compile-time check that M3UFetcher implements PlaylistFetcher interface
var _ port.PlaylistFetcher = (*M3UFetcher)(nil)

// Compile-time check that XMLTVFetcher implements GuideFetcher interface
var _ port.GuideFetcher = (*XMLTVFetcher)(nil)

// Compile-time check that CorrectionFileStore implements CorrectionStore interface
var _ port.CorrectionStore = (*CorrectionFileStore)(nil)
