package source

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// 🧪 Static is an in-memory Source for tests and fixtures: file listings and
// content are supplied up front, no repository is consulted.
type Static struct {
	HeaderFiles    []string
	SourcesByGroup map[string][]string
	Files          map[string][]byte
}

var _ Source = (*Static)(nil)

// Headers implements Source.Headers
func (s *Static) Headers(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.HeaderFiles...), nil
}

// Sources implements Source.Sources
func (s *Static) Sources(ctx context.Context, group string) ([]string, error) {
	return append([]string(nil), s.SourcesByGroup[group]...), nil
}

// ReadFile implements Source.ReadFile
func (s *Static) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, ok := s.Files[path]
	if !ok {
		return nil, errors.Errorf("no such file: %s", path)
	}
	return append([]byte(nil), content...), nil
}
