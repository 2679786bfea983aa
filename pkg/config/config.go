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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📑 HeaderArgs selects the shared headers to mirror
type HeaderArgs struct {
	Dir     string   `json:"dir" yaml:"dir"`                             // directory under the tracked prefix, e.g. "include"
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"` // doublestar patterns for generated files
}

// 📦 GroupArgs selects scheduler source groups to mirror
type GroupArgs struct {
	Groups []string `json:"groups" yaml:"groups"`                   // group directories under the tracked prefix
	Allow  []string `json:"allow,omitempty" yaml:"allow,omitempty"` // component allow-list (narrow groups only)
}

// 📜 ManifestArgs configures the dependency rewrite for manifest files
type ManifestArgs struct {
	Name       string `json:"name" yaml:"name"`             // manifest base name, e.g. "Cargo.toml"
	Dependency string `json:"dependency" yaml:"dependency"` // dependency whose local path is dropped
}

// 📚 Config represents the complete sync configuration
type Config struct {
	Prefix   string       `json:"prefix" yaml:"prefix"` // tracked path prefix in the source repo
	Headers  HeaderArgs   `json:"headers" yaml:"headers"`
	Broad    GroupArgs    `json:"broad" yaml:"broad"`
	Narrow   GroupArgs    `json:"narrow" yaml:"narrow"`
	Manifest ManifestArgs `json:"manifest" yaml:"manifest"`
}

// 🏭 Default returns the built-in configuration used when no config file is
// given: mirror the tracked scheduler tree the way the upstream sync script
// always has.
func Default() *Config {
	return &Config{
		Prefix: "scheds",
		Headers: HeaderArgs{
			Dir:     "include",
			Exclude: []string{"**/vmlinux*.h"},
		},
		Broad: GroupArgs{
			Groups: []string{"kernel-examples"},
		},
		Narrow: GroupArgs{
			Groups: []string{"rust-user"},
			Allow:  []string{"scx_rusty"},
		},
		Manifest: ManifestArgs{
			Name:       "Cargo.toml",
			Dependency: "scx_utils",
		},
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// ✅ Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Prefix == "" {
		return errors.New("prefix is required")
	}
	if strings.Contains(c.Prefix, "..") {
		return errors.Errorf("prefix must stay inside the repository: %s", c.Prefix)
	}
	if c.Headers.Dir == "" {
		return errors.New("headers.dir is required")
	}
	if len(c.Broad.Groups) == 0 && len(c.Narrow.Groups) == 0 {
		return errors.New("at least one scheduler group is required")
	}
	if len(c.Narrow.Groups) > 0 && len(c.Narrow.Allow) == 0 {
		return errors.New("narrow.allow is required when narrow groups are set")
	}
	if c.Manifest.Name == "" {
		return errors.New("manifest.name is required")
	}
	if c.Manifest.Dependency == "" {
		return errors.New("manifest.dependency is required")
	}
	return nil
}
