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

package source

import (
	"context"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// 🎯 Source enumerates the tracked files of the development repository and
// serves their content. All returned paths are slash-separated and relative
// to the tracked prefix: header paths keep the header directory segment
// (include/a.h), scheduler paths keep the group segment (rust-user/x/main.rs).
type Source interface {
	// 📑 Headers lists tracked header files
	Headers(ctx context.Context) ([]string, error)

	// 📦 Sources lists tracked scheduler files under one group
	Sources(ctx context.Context, group string) ([]string, error)

	// 📄 ReadFile returns the content of a listed file
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// ⚙️ Options configures a source backend
type Options struct {
	Root      string // local repository root (git backend)
	Repo      string // owner/name (github backend)
	Ref       string // branch or tag (github backend), default branch if empty
	Prefix    string // tracked path prefix, e.g. "scheds"
	HeaderDir string // header directory under the prefix, e.g. "include"
}

// 🏭 Factory creates a source from options
type Factory func(ctx context.Context, opts Options) (Source, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// 📝 Register registers a source backend factory
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// 🎯 New creates a source backend by name
func New(ctx context.Context, name string, opts Options) (Source, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown source backend: %s", name)
	}
	return factory(ctx, opts)
}
