package correction

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alorle/iptv-relay/internal/playlist"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadTable_JSON(t *testing.T) {
	path := writeFile(t, "iptv_corrected.json", `{
  "Das Erste HD": {
    "name": "ARD",
    "tvg-id": "ARD.de",
    "group-title": "Vollprogramm",
    "tvg_chno": "1",
    "extras": ["#EXTVLCOPT:http-user-agent=Kodi"]
  },
  "Sky Sport News": {"disable": true},
  "ZDF HD": {}
}`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() unexpected error = %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
	if got := table.Names(); !slices.Equal(got, []string{"Das Erste HD", "Sky Sport News", "ZDF HD"}) {
		t.Errorf("Names() = %v", got)
	}

	ard, ok := table.Lookup("Das Erste HD")
	if !ok {
		t.Fatal("Lookup(Das Erste HD) should find the entry")
	}
	if ard.Name == nil || *ard.Name != "ARD" {
		t.Errorf("Name = %v, want ARD", ard.Name)
	}
	wantAttrs := playlist.Attributes{
		{Key: playlist.AttrTVGID, Value: "ARD.de"},
		{Key: playlist.AttrGroupTitle, Value: "Vollprogramm"},
		{Key: playlist.AttrTVGChno, Value: "1"},
	}
	if !slices.Equal(ard.Attributes, wantAttrs) {
		t.Errorf("Attributes = %v, want %v", ard.Attributes, wantAttrs)
	}
	if !slices.Equal(ard.Extras, []string{"#EXTVLCOPT:http-user-agent=Kodi"}) {
		t.Errorf("Extras = %v", ard.Extras)
	}

	sky, _ := table.Lookup("Sky Sport News")
	if !sky.Disable {
		t.Error("Sky Sport News should be disabled")
	}

	zdf, ok := table.Lookup("ZDF HD")
	if !ok {
		t.Fatal("an empty entry still lists the channel")
	}
	if zdf.Name != nil || zdf.Extras != nil || len(zdf.Attributes) != 0 || zdf.Disable {
		t.Errorf("empty entry should set nothing, got %+v", zdf)
	}

	if _, ok := table.Lookup("Unknown"); ok {
		t.Error("Lookup(Unknown) should miss")
	}
}

func TestLoadTable_YAML(t *testing.T) {
	path := writeFile(t, "corrections.yaml", `
BBC1:
  name: BBC One
  group-title: UK
  tvg-shift: 1
  attributes:
    catchup: default
    catchup-days: 7
Old Channel:
  disable: yes-please
`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() unexpected error = %v", err)
	}

	bbc, _ := table.Lookup("BBC1")
	want := playlist.Attributes{
		{Key: playlist.AttrGroupTitle, Value: "UK"},
		{Key: playlist.AttrTVGShift, Value: "1"},
		{Key: "catchup", Value: "default"},
		{Key: "catchup-days", Value: "7"},
	}
	if !slices.Equal(bbc.Attributes, want) {
		t.Errorf("Attributes = %v, want %v", bbc.Attributes, want)
	}

	old, ok := table.Lookup("Old Channel")
	if !ok {
		t.Fatal("Old Channel should be listed")
	}
	if !old.Disable {
		t.Error("a non-empty string disable value should disable the channel")
	}
}

func TestLoadTable_DisableValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "true", want: true},
		{value: "false", want: false},
		{value: "1", want: true},
		{value: "0", want: false},
		{value: "0.0", want: false},
		{value: "2.5", want: true},
		{value: `"yes"`, want: true},
		{value: `"no"`, want: false},
		{value: `"False"`, want: false},
		{value: `"off"`, want: false},
		{value: `""`, want: false},
		{value: "null", want: false},
		{value: "[]", want: false},
		{value: `["x"]`, want: true},
		{value: "{}", want: false},
		{value: `{"x": 1}`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			path := writeFile(t, "corrections.json", `{"A": {"disable": `+tt.value+`}}`)
			table, err := LoadTable(path)
			if err != nil {
				t.Fatalf("LoadTable() unexpected error = %v", err)
			}
			entry, _ := table.Lookup("A")
			if entry.Disable != tt.want {
				t.Errorf("Disable = %v, want %v", entry.Disable, tt.want)
			}
		})
	}
}

func TestLoadTable_JSONEscapes(t *testing.T) {
	path := writeFile(t, "iptv_corrected.json", "\ufeff"+`{
  "BBC1": {"tvg-logo": "http:\/\/x\/logo.png"},
  "A": {"name": "x\/y", "extras": ["#EXTGRP:\u00dcbersicht"]},
  "B\/C": {}
}`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() unexpected error = %v", err)
	}
	if got := table.Names(); !slices.Equal(got, []string{"A", "B/C", "BBC1"}) {
		t.Errorf("Names() = %v", got)
	}

	bbc, _ := table.Lookup("BBC1")
	if v, _ := bbc.Attributes.Get(playlist.AttrTVGLogo); v != "http://x/logo.png" {
		t.Errorf("tvg-logo = %q, want http://x/logo.png", v)
	}
	a, _ := table.Lookup("A")
	if a.Name == nil || *a.Name != "x/y" {
		t.Errorf("Name = %v, want x/y", a.Name)
	}
	if !slices.Equal(a.Extras, []string{"#EXTGRP:Übersicht"}) {
		t.Errorf("Extras = %v", a.Extras)
	}

	guide := writeFile(t, "epg_corrected.json", `{"ITV\/1": "ITV1 \/ HD"}`)
	names, err := LoadGuideTable(guide)
	if err != nil {
		t.Fatalf("LoadGuideTable() unexpected error = %v", err)
	}
	if v, ok := names.Lookup("ITV/1"); !ok || v != "ITV1 / HD" {
		t.Errorf("Lookup(ITV/1) = %q, %v", v, ok)
	}
}

func TestLoadTable_YAMLFlowMapping(t *testing.T) {
	path := writeFile(t, "corrections.yaml", "{BBC1: {name: BBC One}}\n")

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() unexpected error = %v", err)
	}
	bbc, _ := table.Lookup("BBC1")
	if bbc.Name == nil || *bbc.Name != "BBC One" {
		t.Errorf("Name = %v, want BBC One", bbc.Name)
	}
}

func TestLoadTable_MalformedFieldsAreAbsent(t *testing.T) {
	path := writeFile(t, "corrections.json", `{
  "A": {"name": "", "group-title": null, "tvg-id": ["x"], "extras": [], "unknown-field": "x"},
  "B": "not an object",
  "C": {"name": {"nested": true}, "extras": "#EXTGRP:single"}
}`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() unexpected error = %v", err)
	}

	a, _ := table.Lookup("A")
	if a.Name != nil || a.Extras != nil || len(a.Attributes) != 0 {
		t.Errorf("A should set nothing, got %+v", a)
	}

	b, ok := table.Lookup("B")
	if !ok {
		t.Fatal("B should still be listed")
	}
	if b.Name != nil || b.Disable {
		t.Errorf("B should set nothing, got %+v", b)
	}

	c, _ := table.Lookup("C")
	if c.Name != nil {
		t.Errorf("C name = %v, want absent", *c.Name)
	}
	if !slices.Equal(c.Extras, []string{"#EXTGRP:single"}) {
		t.Errorf("C extras = %v, want single line", c.Extras)
	}
}

func TestLoadTable_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    filepath.Join(dir, "missing.json"),
			wantErr: fs.ErrNotExist,
		},
		{
			name:    "empty file",
			path:    writeFile(t, "empty.json", ""),
			wantErr: ErrEmptyTable,
		},
		{
			name:    "top level list",
			path:    writeFile(t, "list.json", `["a", "b"]`),
			wantErr: ErrNotAMapping,
		},
		{
			name:    "top level scalar",
			path:    writeFile(t, "scalar.yaml", "just text"),
			wantErr: ErrNotAMapping,
		},
		{
			name: "broken syntax",
			path: writeFile(t, "broken.json", `{"a": {"name": "x"`),
		},
		{
			name: "trailing data",
			path: writeFile(t, "trailing.json", `{"a": {}} {"b": {}}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTable(tt.path)

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("LoadTable() error = %v, want *LoadError", err)
			}
			if loadErr.Path != tt.path {
				t.Errorf("LoadError.Path = %q, want %q", loadErr.Path, tt.path)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadTable() error = %v, want %v", err, tt.wantErr)
			}

			if _, err := LoadGuideTable(tt.path); !errors.As(err, &loadErr) {
				t.Errorf("LoadGuideTable() error = %v, want *LoadError", err)
			}
		})
	}
}

func TestLoadGuideTable(t *testing.T) {
	path := writeFile(t, "epg_corrected.json", `{
  "ITV": "ITV1 HD",
  "Das Erste": "Das Erste HD",
  "Empty": "",
  "Nested": {"x": "y"},
  "Number": 5
}`)

	table, err := LoadGuideTable(path)
	if err != nil {
		t.Fatalf("LoadGuideTable() unexpected error = %v", err)
	}

	tests := []struct {
		from   string
		want   string
		wantOK bool
	}{
		{from: "ITV", want: "ITV1 HD", wantOK: true},
		{from: "Das Erste", want: "Das Erste HD", wantOK: true},
		{from: "Number", want: "5", wantOK: true},
		{from: "Empty", wantOK: false},
		{from: "Nested", wantOK: false},
		{from: "Unknown", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			got, ok := table.Lookup(tt.from)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.from, got, ok, tt.want, tt.wantOK)
			}
		})
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
}

func TestTable_LookupReturnsCopy(t *testing.T) {
	name := "Renamed"
	table := NewTable(map[string]Entry{
		"A": {Name: &name, Extras: []string{"#EXTGRP:a"}, Attributes: playlist.Attributes{{Key: "k", Value: "v"}}},
	})
	name = "mutated after construction"

	first, _ := table.Lookup("A")
	*first.Name = "mutated"
	first.Extras[0] = "mutated"
	first.Attributes.Set("k", "mutated")

	second, _ := table.Lookup("A")
	if *second.Name != "Renamed" {
		t.Errorf("Name = %q, table must not be mutable through Lookup", *second.Name)
	}
	if second.Extras[0] != "#EXTGRP:a" {
		t.Errorf("Extras = %v, table must not be mutable through Lookup", second.Extras)
	}
	if v, _ := second.Attributes.Get("k"); v != "v" {
		t.Errorf("Attributes k = %q, table must not be mutable through Lookup", v)
	}
}
