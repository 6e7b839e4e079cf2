package m3u

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alorle/iptv-relay/internal/playlist"
)

const (
	headerTag = "#EXTM3U"
	extinfTag = "#EXTINF:"

	maxLineSize = 1 << 20 // 1 MiB per line
)

// SyntaxError describes a playlist that does not follow the extended M3U
// grammar.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("m3u: line %d: %s", e.Line, e.Msg)
}

// Decode parses an extended M3U playlist. The first non-blank line must be
// the #EXTM3U header. Each #EXTINF line opens a channel; the '#' lines that
// follow are kept as extras and the next plain line is the stream URL. Tag
// lines seen before an #EXTINF are attached to the channel it opens.
func Decode(r io.Reader) (playlist.Source, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)

	var (
		src     playlist.Source
		lineNo  int
		sawHead bool
		pending *playlist.Channel
		pendAt  int
		extras  []string
	)

	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !sawHead {
			if !strings.HasPrefix(line, headerTag) {
				return playlist.Source{}, &SyntaxError{Line: lineNo, Msg: "missing #EXTM3U header"}
			}
			header, _, err := parseAttributes(strings.TrimPrefix(line, headerTag), false)
			if err != nil {
				return playlist.Source{}, &SyntaxError{Line: lineNo, Msg: err.Error()}
			}
			src.Header = header
			sawHead = true
			continue
		}

		switch {
		case strings.HasPrefix(line, extinfTag):
			if pending != nil {
				return playlist.Source{}, &SyntaxError{Line: pendAt, Msg: fmt.Sprintf("channel %q has no stream url", pending.Name)}
			}
			ch, err := parseExtinf(line)
			if err != nil {
				return playlist.Source{}, &SyntaxError{Line: lineNo, Msg: err.Error()}
			}
			ch.Extras = extras
			extras = nil
			pending, pendAt = &ch, lineNo

		case strings.HasPrefix(line, "#"):
			if pending != nil {
				pending.Extras = append(pending.Extras, line)
			} else {
				extras = append(extras, line)
			}

		default:
			if pending == nil {
				// A URL without #EXTINF carries no channel name; skip it.
				continue
			}
			pending.URL = line
			src.Channels = append(src.Channels, *pending)
			pending = nil
		}
	}
	if err := sc.Err(); err != nil {
		return playlist.Source{}, fmt.Errorf("reading playlist: %w", err)
	}

	if !sawHead {
		return playlist.Source{}, &SyntaxError{Line: lineNo, Msg: "empty playlist, missing #EXTM3U header"}
	}
	if pending != nil {
		return playlist.Source{}, &SyntaxError{Line: pendAt, Msg: fmt.Sprintf("channel %q has no stream url", pending.Name)}
	}

	return src, nil
}

// DecodeString parses playlist text.
func DecodeString(s string) (playlist.Source, error) {
	return Decode(strings.NewReader(s))
}

// parseExtinf parses `#EXTINF:<duration> k="v" ...,<name>`.
func parseExtinf(line string) (playlist.Channel, error) {
	body := strings.TrimPrefix(line, extinfTag)

	end := strings.IndexAny(body, " \t,")
	if end < 0 {
		return playlist.Channel{}, fmt.Errorf("missing comma before channel name")
	}
	ch := playlist.Channel{Duration: strings.TrimSpace(body[:end])}

	attrs, rest, err := parseAttributes(body[end:], true)
	if err != nil {
		return playlist.Channel{}, err
	}
	if !strings.HasPrefix(rest, ",") {
		return playlist.Channel{}, fmt.Errorf("missing comma before channel name")
	}
	ch.Attributes = attrs
	ch.Name = strings.TrimSpace(rest[1:])
	return ch, nil
}

// parseAttributes reads key="value" pairs from s. When stopAtComma is set the
// scan ends at the first comma outside quotes and the remainder, starting at
// that comma, is returned.
func parseAttributes(s string, stopAtComma bool) (playlist.Attributes, string, error) {
	var attrs playlist.Attributes
	i := 0
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			return attrs, "", nil
		}
		if stopAtComma && s[i] == ',' {
			return attrs, s[i:], nil
		}

		start := i
		for i < len(s) && s[i] != '=' && s[i] != ' ' && s[i] != '\t' && !(stopAtComma && s[i] == ',') {
			i++
		}
		key := s[start:i]
		if i >= len(s) || s[i] != '=' {
			// Bare token without a value.
			attrs.Set(key, "")
			continue
		}
		i++ // '='

		var value string
		if i < len(s) && s[i] == '"' {
			closing := strings.IndexByte(s[i+1:], '"')
			if closing < 0 {
				return nil, "", fmt.Errorf("unterminated quote in attribute %q", key)
			}
			value = s[i+1 : i+1+closing]
			i += closing + 2
		} else {
			vstart := i
			for i < len(s) && s[i] != ' ' && s[i] != '\t' && !(stopAtComma && s[i] == ',') {
				i++
			}
			value = s[vstart:i]
		}
		attrs.Set(key, value)
	}
}
