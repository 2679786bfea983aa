package mapping

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ Category classifies a tracked source file for destination mapping
type Category int

const (
	CategoryUnknown Category = iota
	CategoryHeader           // shared headers, mirrored at their original path
	CategorySchedBroad       // scheduler group included wholesale
	CategorySchedNarrow      // scheduler group filtered by component allow-list
)

// String returns a string representation of Category
func (c Category) String() string {
	switch c {
	case CategoryHeader:
		return "header"
	case CategorySchedBroad:
		return "sched-broad"
	case CategorySchedNarrow:
		return "sched-narrow"
	default:
		return "unknown"
	}
}

// 📄 FileMapping binds a tracked source path to its downstream destination.
// Both paths are slash-separated; Dest is relative to the downstream root.
type FileMapping struct {
	Category Category
	Source   string
	Dest     string
}

// 🗺️ Mapper derives destination paths from source paths per category.
// It is a pure function of its inputs and performs no I/O.
type Mapper struct {
	allow   map[string]struct{}
	exclude []string
}

// 🏭 NewMapper creates a mapper with the narrow-category allow-list and a set
// of doublestar patterns excluding sources from mapping entirely.
func NewMapper(allowList []string, excludePatterns []string) (*Mapper, error) {
	for _, pattern := range excludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	allow := make(map[string]struct{}, len(allowList))
	for _, name := range allowList {
		allow[name] = struct{}{}
	}

	return &Mapper{
		allow:   allow,
		exclude: excludePatterns,
	}, nil
}

// 🎯 Map computes the destination for a single source path. The boolean is
// false when the path produces no mapping: excluded by pattern, narrow
// component off the allow-list, or too shallow for its category.
func (m *Mapper) Map(cat Category, src string) (FileMapping, bool) {
	src = path.Clean(src)
	if m.excluded(src) {
		return FileMapping{}, false
	}

	switch cat {
	case CategoryHeader:
		return FileMapping{Category: cat, Source: src, Dest: src}, true

	case CategorySchedBroad:
		// <group>/<rest> → <rest>
		segments := strings.SplitN(src, "/", 2)
		if len(segments) < 2 {
			return FileMapping{}, false
		}
		return FileMapping{Category: cat, Source: src, Dest: segments[1]}, true

	case CategorySchedNarrow:
		// <group>/<component>/<rest> → <rest>, allow-listed components only
		segments := strings.SplitN(src, "/", 3)
		if len(segments) < 3 {
			return FileMapping{}, false
		}
		if _, ok := m.allow[segments[1]]; !ok {
			return FileMapping{}, false
		}
		return FileMapping{Category: cat, Source: src, Dest: segments[2]}, true

	default:
		return FileMapping{}, false
	}
}

// 📋 MapAll maps a list of source paths, preserving enumeration order and
// silently dropping paths that produce no mapping.
func (m *Mapper) MapAll(cat Category, srcs []string) []FileMapping {
	mappings := make([]FileMapping, 0, len(srcs))
	for _, src := range srcs {
		if fm, ok := m.Map(cat, src); ok {
			mappings = append(mappings, fm)
		}
	}
	return mappings
}

func (m *Mapper) excluded(src string) bool {
	for _, pattern := range m.exclude {
		// Patterns were validated at construction time.
		if ok, _ := doublestar.Match(pattern, src); ok {
			return true
		}
	}
	return false
}
