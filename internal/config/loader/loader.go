// Package loader provides configuration file loading for pauseclick.
//
// The loader package parses configuration files (TOML, YAML, JSON) and
// environment variables into flat maps keyed by setting name. Nested tables
// are flattened with "-", so the TOML document
//
//	[pause-click]
//	mouse-button = 2
//
// yields the key "pause-click-mouse-button".
package loader

import (
	"io/fs"
	"os"
	"sort"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a flat map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Separator joins nested table names into flat setting keys.
const Separator = "-"

// Flatten collapses nested maps into a single level, joining keys with
// Separator. Non-map values are copied as they are.
func Flatten(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	flattenInto(dst, "", src)
	return dst
}

func flattenInto(dst map[string]any, prefix string, src map[string]any) {
	for key, val := range src {
		full := key
		if prefix != "" {
			full = prefix + Separator + key
		}
		switch v := val.(type) {
		case map[string]any:
			flattenInto(dst, full, v)
		case map[any]any:
			flattenInto(dst, full, stringKeys(v))
		default:
			dst[full] = val
		}
	}
}

// stringKeys converts a generic-keyed map, as some YAML documents produce,
// into a string-keyed one.
func stringKeys(src map[any]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if s, ok := k.(string); ok {
			out[s] = v
		}
	}
	return out
}

// Keys returns the keys of a flat map in sorted order.
func Keys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
