package driven

import (
	"context"

	"github.com/alorle/iptv-relay/internal/correction"
	"github.com/alorle/iptv-relay/metrics"
)

// CorrectionFileStore serves the correction tables from files on disk.
// It implements the driven.CorrectionStore port.
//
// Both files are loaded once on construction so a broken table stops the
// process from starting. With reload set, every call reads the file again
// so operator edits apply to the next request; otherwise the startup copy
// is served.
type CorrectionFileStore struct {
	channelsPath string
	guidePath    string
	reload       bool

	channels correction.Table
	guide    correction.GuideTable
}

// NewCorrectionFileStore loads both tables and returns a store serving them.
func NewCorrectionFileStore(channelsPath, guidePath string, reload bool) (*CorrectionFileStore, error) {
	s := &CorrectionFileStore{
		channelsPath: channelsPath,
		guidePath:    guidePath,
		reload:       reload,
	}

	var err error
	if s.channels, err = s.loadChannels(); err != nil {
		return nil, err
	}
	if s.guide, err = s.loadGuide(); err != nil {
		return nil, err
	}
	return s, nil
}

// ChannelTable returns the channel correction table.
func (s *CorrectionFileStore) ChannelTable(ctx context.Context) (correction.Table, error) {
	if !s.reload {
		return s.channels, nil
	}
	if err := ctx.Err(); err != nil {
		return correction.Table{}, err
	}
	return s.loadChannels()
}

// GuideTable returns the guide correction table.
func (s *CorrectionFileStore) GuideTable(ctx context.Context) (correction.GuideTable, error) {
	if !s.reload {
		return s.guide, nil
	}
	if err := ctx.Err(); err != nil {
		return correction.GuideTable{}, err
	}
	return s.loadGuide()
}

func (s *CorrectionFileStore) loadChannels() (correction.Table, error) {
	table, err := correction.LoadTable(s.channelsPath)
	if err != nil {
		metrics.RecordTableLoadError(metrics.TableChannels)
		return correction.Table{}, err
	}
	return table, nil
}

func (s *CorrectionFileStore) loadGuide() (correction.GuideTable, error) {
	table, err := correction.LoadGuideTable(s.guidePath)
	if err != nil {
		metrics.RecordTableLoadError(metrics.TableGuide)
		return correction.GuideTable{}, err
	}
	return table, nil
}
