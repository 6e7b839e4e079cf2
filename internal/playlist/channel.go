package playlist

import "slices"

// Well-known channel attribute keys found on #EXTINF lines.
const (
	AttrTVGID      = "tvg-id"
	AttrTVGName    = "tvg-name"
	AttrTVGLogo    = "tvg-logo"
	AttrTVGShift   = "tvg-shift"
	AttrTVGChno    = "tvg-chno"
	AttrGroupTitle = "group-title"
)

// Attribute is a single key="value" pair of an #EXTINF line.
type Attribute struct {
	Key   string
	Value string
}

// Attributes is an ordered set of channel attributes with map semantics.
// Keys are unique; the order in which keys were first set is kept so that a
// parsed playlist serializes back in its original shape.
type Attributes []Attribute

// Get returns the value stored for key.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the value for key in place, or appends it when missing.
func (a *Attributes) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Key: key, Value: value})
}

// Keys returns the attribute keys in order.
func (a Attributes) Keys() []string {
	keys := make([]string, len(a))
	for i, attr := range a {
		keys[i] = attr.Key
	}
	return keys
}

// Map returns the attributes as a plain map, dropping order.
func (a Attributes) Map() map[string]string {
	m := make(map[string]string, len(a))
	for _, attr := range a {
		m[attr.Key] = attr.Value
	}
	return m
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	return slices.Clone(a)
}

// Channel is one playlist entry.
type Channel struct {
	// Name is the display name written after the comma of #EXTINF. It is the
	// identity used for deduplication and correction lookups.
	Name string
	// Duration is the raw duration token of #EXTINF, usually "-1".
	Duration string
	// Attributes holds the key="value" pairs of #EXTINF.
	Attributes Attributes
	// Extras are auxiliary tag lines (#EXTVLCOPT, #KODIPROP, #EXTGRP, ...)
	// kept verbatim.
	Extras []string
	// URL is the stream location.
	URL string
}

// Clone returns a deep copy of the channel.
func (c Channel) Clone() Channel {
	c.Attributes = c.Attributes.Clone()
	if c.Extras != nil {
		c.Extras = slices.Clone(c.Extras)
	}
	return c
}

// Equal reports whether both channels carry the same name, duration, URL,
// extras and attribute values. Attribute order is ignored.
func (c Channel) Equal(o Channel) bool {
	if c.Name != o.Name || c.Duration != o.Duration || c.URL != o.URL {
		return false
	}
	if !slices.Equal(c.Extras, o.Extras) {
		return false
	}
	if len(c.Attributes) != len(o.Attributes) {
		return false
	}
	for _, attr := range c.Attributes {
		v, ok := o.Attributes.Get(attr.Key)
		if !ok || v != attr.Value {
			return false
		}
	}
	return true
}
