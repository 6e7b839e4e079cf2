package correction

import "github.com/alorle/iptv-relay/internal/playlist"

// Correct builds the filtered channel set. Only channels listed in table
// survive: an unlisted channel is dropped, a disabled one is dropped, and
// every other one is copied with the entry's fields written over it. Output
// order follows input order. When two channels are renamed to the same
// name the first one wins.
//
// Neither in nor table is modified.
func Correct(in *playlist.Set, table Table) *playlist.Set {
	out := playlist.NewSet()
	for _, attr := range in.Header() {
		out.SetHeader(attr.Key, attr.Value)
	}

	for _, ch := range in.Channels() {
		entry, listed := table.Lookup(ch.Name)
		if !listed {
			continue
		}
		if entry.Disable {
			continue
		}
		out.Add(entry.Apply(ch))
	}
	return out
}
