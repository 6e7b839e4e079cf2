package m3u

import (
	"fmt"
	"io"
	"strings"

	"github.com/alorle/iptv-relay/internal/playlist"
)

const defaultDuration = "-1"

// Encoder writes a channel set in extended M3U form.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the #EXTM3U header followed by every channel of set:
// its #EXTINF line, its extras verbatim and its stream URL.
func (e *Encoder) Encode(set *playlist.Set) error {
	if _, err := fmt.Fprintf(e.w, "#EXTM3U%s\n", encodeAttributes(set.Header())); err != nil {
		return err
	}
	for _, ch := range set.Channels() {
		if err := e.encodeChannel(ch); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeChannel(ch playlist.Channel) error {
	duration := ch.Duration
	if duration == "" {
		duration = defaultDuration
	}
	if _, err := fmt.Fprintf(e.w, "#EXTINF:%s%s,%s\n", duration, encodeAttributes(ch.Attributes), ch.Name); err != nil {
		return err
	}
	for _, extra := range ch.Extras {
		if _, err := fmt.Fprintf(e.w, "%s\n", extra); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(e.w, "%s\n", ch.URL); err != nil {
		return err
	}
	return nil
}

// encodeAttributes renders attributes as ` key="value"` pairs, keeping order.
func encodeAttributes(attrs playlist.Attributes) string {
	var sb strings.Builder
	for _, attr := range attrs {
		fmt.Fprintf(&sb, " %s=\"%s\"", attr.Key, attr.Value)
	}
	return sb.String()
}

// EncodeString renders set as playlist text.
func EncodeString(set *playlist.Set) (string, error) {
	var sb strings.Builder
	if err := NewEncoder(&sb).Encode(set); err != nil {
		return "", err
	}
	return sb.String(), nil
}
