package correction

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/alorle/iptv-relay/internal/playlist"
)

var (
	ErrEmptyTable  = errors.New("correction table is empty")
	ErrNotAMapping = errors.New("correction table must be a mapping")
)

// LoadError reports a correction table that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading correction table %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Entry holds the corrections for one channel, keyed by its original name.
// A nil Name, a nil Extras or a key missing from Attributes means "keep the
// channel's own value".
type Entry struct {
	// Name replaces the channel display name.
	Name *string
	// Extras replaces the auxiliary tag lines.
	Extras []string
	// Attributes replace individual #EXTINF attributes, in table order.
	Attributes playlist.Attributes
	// Disable removes the channel from the filtered playlist.
	Disable bool
}

func (e Entry) clone() Entry {
	if e.Name != nil {
		name := *e.Name
		e.Name = &name
	}
	if e.Extras != nil {
		e.Extras = slices.Clone(e.Extras)
	}
	e.Attributes = e.Attributes.Clone()
	return e
}

// Apply returns a copy of ch with every given field of the entry written
// over it. Fields the entry does not set keep the channel's value.
func (e Entry) Apply(ch playlist.Channel) playlist.Channel {
	out := ch.Clone()
	if e.Name != nil {
		out.Name = *e.Name
	}
	if e.Extras != nil {
		out.Extras = slices.Clone(e.Extras)
	}
	for _, attr := range e.Attributes {
		out.Attributes.Set(attr.Key, attr.Value)
	}
	return out
}

// Table maps original channel names to their corrections. It is never
// modified after construction.
type Table struct {
	entries map[string]Entry
}

// NewTable builds a Table from entries.
func NewTable(entries map[string]Entry) Table {
	t := Table{entries: make(map[string]Entry, len(entries))}
	for name, entry := range entries {
		t.entries[name] = entry.clone()
	}
	return t
}

// Lookup returns the entry for name. A miss is not an error: callers decide
// what an unlisted channel means.
func (t Table) Lookup(name string) (Entry, bool) {
	entry, ok := t.entries[name]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.entries)
}

// Names returns the listed channel names, sorted.
func (t Table) Names() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

// GuideTable maps guide display-name text to its replacement.
type GuideTable struct {
	names map[string]string
}

// NewGuideTable builds a GuideTable from names.
func NewGuideTable(names map[string]string) GuideTable {
	return GuideTable{names: maps.Clone(names)}
}

// Lookup returns the replacement for a display name.
func (t GuideTable) Lookup(name string) (string, bool) {
	v, ok := t.names[name]
	return v, ok
}

// Len returns the number of entries.
func (t GuideTable) Len() int {
	return len(t.names)
}

// LoadTable reads the channel correction table at path. The file is JSON or
// YAML: a mapping from channel name to an object with the optional fields
// name, extras, disable, tvg-id, tvg-name, tvg-logo, tvg-shift, tvg-chno,
// group-title and attributes. Fields of the wrong shape are ignored.
func LoadTable(path string) (Table, error) {
	root, err := readMapping(path)
	if err != nil {
		return Table{}, err
	}

	entries := make(map[string]Entry, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		name, ok := scalar(key)
		if !ok {
			continue
		}
		entries[name] = decodeEntry(value)
	}
	return Table{entries: entries}, nil
}

// LoadGuideTable reads the guide correction table at path: a JSON or YAML
// mapping from display-name text to replacement text. Pairs that are not
// plain strings, or that map to an empty string, are skipped.
func LoadGuideTable(path string) (GuideTable, error) {
	root, err := readMapping(path)
	if err != nil {
		return GuideTable{}, err
	}

	names := make(map[string]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		from, okFrom := scalar(root.Content[i])
		to, okTo := scalar(root.Content[i+1])
		if !okFrom || !okTo || to == "" {
			continue
		}
		names[from] = to
	}
	return GuideTable{names: names}, nil
}

// readMapping parses path and returns its top-level mapping node. A file
// whose first character is '{' or '[' is read as JSON first and as YAML
// only when that fails, so a YAML flow mapping still loads.
func readMapping(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	root, err := decodeTable(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if root.Kind != yaml.MappingNode {
		return nil, &LoadError{Path: path, Err: ErrNotAMapping}
	}
	return root, nil
}

func decodeTable(data []byte) (*yaml.Node, error) {
	var jsonErr error
	if looksLikeJSON(data) {
		root, err := decodeJSON(data)
		if err == nil {
			return root, nil
		}
		jsonErr = err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		if jsonErr != nil {
			return nil, jsonErr
		}
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyTable
	}
	return doc.Content[0], nil
}
