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

package github

import (
	"context"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/schedsync/pkg/source"
	"gitlab.com/tozd/go/errors"
)

func init() {
	source.Register("github", New)
}

// 🎯 Source enumerates tracked files of a remote repository at a ref via the
// git-trees API, so a sync can run without a local clone.
type Source struct {
	client    *github.Client
	owner     string
	repo      string
	ref       string
	prefix    string
	headerDir string
	logger    zerolog.Logger
}

// 🏭 New creates a GitHub-backed source. GITHUB_TOKEN is used when set;
// public repositories work without it.
func New(ctx context.Context, opts source.Options) (source.Source, error) {
	logger := zerolog.Ctx(ctx)

	owner, name, err := parseRepo(opts.Repo)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}

	ref := opts.Ref
	if ref == "" {
		ref = "HEAD"
	}

	return &Source{
		client:    client,
		owner:     owner,
		repo:      name,
		ref:       ref,
		prefix:    opts.Prefix,
		headerDir: opts.HeaderDir,
		logger:    *logger,
	}, nil
}

// 🔍 parseRepo parses an owner/name repository reference
func parseRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) < 2 {
		return "", "", errors.Errorf("invalid repository format: %s", repo)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// Headers implements source.Source.Headers
func (s *Source) Headers(ctx context.Context) ([]string, error) {
	return s.list(ctx, s.headerDir)
}

// Sources implements source.Source.Sources
func (s *Source) Sources(ctx context.Context, group string) ([]string, error) {
	return s.list(ctx, group)
}

// 📂 list returns tracked files under prefix/dir at the configured ref
func (s *Source) list(ctx context.Context, dir string) ([]string, error) {
	tree, _, err := s.client.Git.GetTree(ctx, s.owner, s.repo, s.ref, true)
	if err != nil {
		return nil, errors.Errorf("getting repository tree: %w", err)
	}
	if tree.GetTruncated() {
		return nil, errors.New("repository tree truncated by the API, use a local clone")
	}

	want := path.Join(s.prefix, dir) + "/"

	var files []string
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		p := entry.GetPath()
		if !strings.HasPrefix(p, want) {
			continue
		}
		files = append(files, strings.TrimPrefix(p, s.prefix+"/"))
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile implements source.Source.ReadFile
func (s *Source) ReadFile(ctx context.Context, p string) ([]byte, error) {
	full := path.Join(s.prefix, p)

	content, _, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, full, &github.RepositoryContentGetOptions{
		Ref: s.ref,
	})
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if content == nil {
		return nil, errors.Errorf("path is not a file: %s", full)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding file content: %w", err)
	}

	s.logger.Debug().Str("path", full).Int("size", len(decoded)).Msg("fetched file from github")
	return []byte(decoded), nil
}
