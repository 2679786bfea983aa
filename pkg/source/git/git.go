// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package git

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
	"github.com/walteh/schedsync/pkg/source"
	"gitlab.com/tozd/go/errors"
)

func init() {
	source.Register("git", New)
}

// 🎯 Source enumerates tracked files from a local clone, the Go analogue of
// `git ls-files`: listings come from the HEAD tree, content from the
// worktree.
type Source struct {
	tree      *object.Tree
	worktree  billy.Filesystem
	prefix    string
	headerDir string
}

// 🏭 New opens the repository at opts.Root
func New(ctx context.Context, opts source.Options) (source.Source, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("root", opts.Root).Str("prefix", opts.Prefix).Msg("opening source repository")

	repo, err := gogit.PlainOpen(opts.Root)
	if err != nil {
		return nil, errors.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, errors.Errorf("resolving HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, errors.Errorf("reading HEAD commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.Errorf("reading HEAD tree: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Errorf("opening worktree: %w", err)
	}

	return &Source{
		tree:      tree,
		worktree:  wt.Filesystem,
		prefix:    opts.Prefix,
		headerDir: opts.HeaderDir,
	}, nil
}

// Headers implements source.Source.Headers
func (s *Source) Headers(ctx context.Context) ([]string, error) {
	return s.list(s.headerDir)
}

// Sources implements source.Source.Sources
func (s *Source) Sources(ctx context.Context, group string) ([]string, error) {
	return s.list(group)
}

// ReadFile implements source.Source.ReadFile
func (s *Source) ReadFile(ctx context.Context, p string) ([]byte, error) {
	content, err := util.ReadFile(s.worktree, path.Join(s.prefix, p))
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", p, err)
	}
	return content, nil
}

// list walks the HEAD tree and returns tracked files under prefix/dir,
// trimmed of the prefix but keeping the dir segment, sorted for determinism.
func (s *Source) list(dir string) ([]string, error) {
	want := path.Join(s.prefix, dir) + "/"

	var files []string
	err := s.tree.Files().ForEach(func(f *object.File) error {
		if strings.HasPrefix(f.Name, want) {
			files = append(files, strings.TrimPrefix(f.Name, s.prefix+"/"))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking HEAD tree: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
