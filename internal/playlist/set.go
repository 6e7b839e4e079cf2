package playlist

// Source is one parsed upstream playlist: its #EXTM3U header attributes and
// its channels in document order.
type Source struct {
	Header   Attributes
	Channels []Channel
}

// Set is an ordered collection of channels with unique names.
// Insertion order drives output order and the first-wins rule.
type Set struct {
	header   Attributes
	channels []Channel
	index    map[string]int
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Add appends ch unless a channel with the same name is already present.
// It reports whether the channel was accepted.
func (s *Set) Add(ch Channel) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, seen := s.index[ch.Name]; seen {
		return false
	}
	s.index[ch.Name] = len(s.channels)
	s.channels = append(s.channels, ch)
	return true
}

// SetHeader records a header attribute unless the key is already known.
func (s *Set) SetHeader(key, value string) {
	if _, ok := s.header.Get(key); ok {
		return
	}
	s.header.Set(key, value)
}

// Header returns a copy of the playlist header attributes.
func (s *Set) Header() Attributes {
	return s.header.Clone()
}

// Channels returns a copy of the channels in order.
func (s *Set) Channels() []Channel {
	out := make([]Channel, len(s.channels))
	for i, ch := range s.channels {
		out[i] = ch.Clone()
	}
	return out
}

// Get returns the channel stored under name.
func (s *Set) Get(name string) (Channel, bool) {
	i, ok := s.index[name]
	if !ok {
		return Channel{}, false
	}
	return s.channels[i].Clone(), true
}

// Names returns the channel names in order.
func (s *Set) Names() []string {
	names := make([]string, len(s.channels))
	for i, ch := range s.channels {
		names[i] = ch.Name
	}
	return names
}

// Len returns the number of channels.
func (s *Set) Len() int {
	return len(s.channels)
}

// Merge combines sources into one Set. Sources listed earlier, and channels
// appearing earlier within a source, win over later channels with the same
// name. Header attributes follow the same rule per key.
func Merge(sources ...Source) *Set {
	set := NewSet()
	for _, src := range sources {
		for _, attr := range src.Header {
			set.SetHeader(attr.Key, attr.Value)
		}
		for _, ch := range src.Channels {
			set.Add(ch.Clone())
		}
	}
	return set
}
