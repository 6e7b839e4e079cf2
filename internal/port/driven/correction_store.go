package driven

import (
	"context"

	"github.com/alorle/iptv-relay/internal/correction"
)

// CorrectionStore defines the interface for obtaining the operator's
// correction tables.
type CorrectionStore interface {
	// ChannelTable returns the channel correction table. Returns a
	// *correction.LoadError when the table cannot be loaded.
	ChannelTable(ctx context.Context) (correction.Table, error)

	// GuideTable returns the guide correction table. Returns a
	// *correction.LoadError when the table cannot be loaded.
	GuideTable(ctx context.Context) (correction.GuideTable, error)
}
