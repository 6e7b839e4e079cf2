package driver

import (
	"bytes"
	"context"

	"github.com/alorle/iptv-relay/internal/m3u"
	"github.com/alorle/iptv-relay/internal/playlist"
	"github.com/alorle/iptv-relay/metrics"
)

// ContentTypeM3U is the media type of served playlists.
const ContentTypeM3U = "audio/x-mpegurl"

// Playlist labels for the served channels gauge.
const (
	playlistFiltered   = "filtered"
	playlistUnfiltered = "unfiltered"
)

// GetFilteredPlaylist serves the merged playlist corrected by the channel table.
func (s *Server) GetFilteredPlaylist(ctx context.Context, _ GetFilteredPlaylistRequestObject) (GetFilteredPlaylistResponseObject, error) {
	set, err := s.channels.Filtered(ctx)
	if err != nil {
		return nil, err
	}
	body, err := encodePlaylist(set, playlistFiltered)
	if err != nil {
		return nil, err
	}
	return GetFilteredPlaylist200AudioxMpegurlResponse{Body: body, ContentLength: int64(body.Len())}, nil
}

// GetUnfilteredPlaylist serves the merged playlist of every source.
func (s *Server) GetUnfilteredPlaylist(ctx context.Context, _ GetUnfilteredPlaylistRequestObject) (GetUnfilteredPlaylistResponseObject, error) {
	set, err := s.channels.Merged(ctx)
	if err != nil {
		return nil, err
	}
	body, err := encodePlaylist(set, playlistUnfiltered)
	if err != nil {
		return nil, err
	}
	return GetUnfilteredPlaylist200AudioxMpegurlResponse{Body: body, ContentLength: int64(body.Len())}, nil
}

// encodePlaylist renders set before anything is written, so a failure never
// leaves a partial playlist.
func encodePlaylist(set *playlist.Set, label string) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := m3u.NewEncoder(&buf).Encode(set); err != nil {
		return nil, err
	}
	metrics.SetChannelsServed(label, set.Len())
	return &buf, nil
}
