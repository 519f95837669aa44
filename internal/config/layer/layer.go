// Package layer holds the flat key/value layers a configuration store
// resolves through.
//
// Every layer has a fixed source; the source's rank is its precedence.
// Higher sources override lower ones key by key.
package layer

import (
	"sync"
	"time"
)

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceDefault represents registry defaults.
	SourceDefault Source = iota
	// SourceFile represents the user's config file.
	SourceFile
	// SourceEnv represents environment variables.
	SourceEnv
	// SourceOverride represents runtime overrides from scripts or hosts.
	SourceOverride

	sourceCount
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "env"
	case SourceOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Sources returns every source from highest to lowest precedence.
func Sources() []Source {
	return []Source{SourceOverride, SourceEnv, SourceFile, SourceDefault}
}

// Layer represents a single configuration layer.
type Layer struct {
	// Source indicates where the layer came from.
	Source Source

	// Path is the file path (if loaded from file).
	Path string

	// Data holds flat key/value pairs.
	Data map[string]any

	// ModTime is when the layer was last replaced or edited.
	ModTime time.Time
}

// New creates an empty layer.
func New(source Source) *Layer {
	return &Layer{
		Source:  source,
		Data:    make(map[string]any),
		ModTime: time.Now(),
	}
}

// NewWithData creates a layer holding data.
func NewWithData(source Source, path string, data map[string]any) *Layer {
	l := New(source)
	l.Path = path
	for k, v := range data {
		l.Data[k] = v
	}
	return l
}

// Clone creates a copy of the layer. Values are flat, so a shallow copy of
// the map is enough.
func (l *Layer) Clone() *Layer {
	return NewWithData(l.Source, l.Path, l.Data)
}

// Stack holds one layer per source.
type Stack struct {
	mu     sync.RWMutex
	layers [sourceCount]*Layer
}

// NewStack creates a stack with an empty layer for every source.
func NewStack() *Stack {
	s := &Stack{}
	for i := range s.layers {
		s.layers[i] = New(Source(i))
	}
	return s
}

// Replace swaps in l for its source and returns the previous layer.
func (s *Stack) Replace(l *Layer) *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.Source >= sourceCount {
		return nil
	}
	prev := s.layers[l.Source]
	s.layers[l.Source] = l
	return prev
}

// Layer returns a copy of the layer for source.
func (s *Stack) Layer(source Source) *Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if source >= sourceCount {
		return nil
	}
	return s.layers[source].Clone()
}

// Put writes a single value into the layer for source.
func (s *Stack) Put(source Source, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.layers[source]
	l.Data[key] = value
	l.ModTime = time.Now()
}

// Delete removes key from the layer for source and reports whether it was
// present.
func (s *Stack) Delete(source Source, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.layers[source]
	if _, ok := l.Data[key]; !ok {
		return false
	}
	delete(l.Data, key)
	l.ModTime = time.Now()
	return true
}

// Walk calls fn with every value set for key, highest precedence first,
// until fn returns false.
func (s *Stack) Walk(key string, fn func(source Source, value any) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, src := range Sources() {
		if v, ok := s.layers[src].Data[key]; ok {
			if !fn(src, v) {
				return
			}
		}
	}
}

// Keys returns every key set in any layer.
func (s *Stack) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, l := range s.layers {
		for k := range l.Data {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
