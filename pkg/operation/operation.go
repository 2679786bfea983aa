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

package operation

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/schedsync/pkg/config"
	"github.com/walteh/schedsync/pkg/log"
	"github.com/walteh/schedsync/pkg/mapping"
	"github.com/walteh/schedsync/pkg/source"
	"github.com/walteh/schedsync/pkg/transform"
	"gitlab.com/tozd/go/errors"
)

// ⚙️ Options holds dependencies for a sync operation
type Options struct {
	Config   *config.Config
	Source   source.Source
	DestFS   billy.Filesystem // rooted at the downstream tree
	Reporter *log.Reporter    // optional per-file console reporting
	DryRun   bool             // diff and report without writing
}

// 🏃 SyncOperation mirrors the tracked file set into the downstream tree:
// enumerate, map, validate every destination, then diff and copy.
type SyncOperation struct {
	opts        Options
	mapper      *mapping.Mapper
	transformer *transform.ManifestTransformer
}

// 📦 NewSyncOperation creates a sync operation from options
func NewSyncOperation(opts Options) (*SyncOperation, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Source == nil {
		return nil, errors.New("source is required")
	}
	if opts.DestFS == nil {
		return nil, errors.New("destination filesystem is required")
	}

	mapper, err := mapping.NewMapper(opts.Config.Narrow.Allow, opts.Config.Headers.Exclude)
	if err != nil {
		return nil, errors.Errorf("creating mapper: %w", err)
	}

	transformer, err := transform.NewManifestTransformer(transform.Rule{
		ManifestName: opts.Config.Manifest.Name,
		Dependency:   opts.Config.Manifest.Dependency,
	})
	if err != nil {
		return nil, errors.Errorf("creating manifest transformer: %w", err)
	}

	return &SyncOperation{
		opts:        opts,
		mapper:      mapper,
		transformer: transformer,
	}, nil
}

// 🗺️ Plan enumerates the tracked file set and computes all destination
// mappings: headers first, then broad groups, then narrow groups, each in
// enumeration order.
func (op *SyncOperation) Plan(ctx context.Context) ([]mapping.FileMapping, error) {
	logger := zerolog.Ctx(ctx)

	headers, err := op.opts.Source.Headers(ctx)
	if err != nil {
		return nil, errors.Errorf("enumerating headers: %w", err)
	}
	mappings := op.mapper.MapAll(mapping.CategoryHeader, headers)

	for _, group := range op.opts.Config.Broad.Groups {
		srcs, err := op.opts.Source.Sources(ctx, group)
		if err != nil {
			return nil, errors.Errorf("enumerating group %s: %w", group, err)
		}
		mappings = append(mappings, op.mapper.MapAll(mapping.CategorySchedBroad, srcs)...)
	}

	for _, group := range op.opts.Config.Narrow.Groups {
		srcs, err := op.opts.Source.Sources(ctx, group)
		if err != nil {
			return nil, errors.Errorf("enumerating group %s: %w", group, err)
		}
		mappings = append(mappings, op.mapper.MapAll(mapping.CategorySchedNarrow, srcs)...)
	}

	logger.Debug().Int("mappings", len(mappings)).Msg("computed file mappings")
	return mappings, nil
}

// 🏃 Execute runs the full sync: plan, validate, then diff and copy. The
// returned report is populated as far as the run got, including the missing
// destination list when validation fails.
func (op *SyncOperation) Execute(ctx context.Context) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	mappings, err := op.Plan(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Total: len(mappings)}

	// The existence barrier: every destination is checked before any write.
	missing, err := op.Validate(ctx, mappings)
	if err != nil {
		return report, err
	}
	if len(missing) > 0 {
		report.Missing = missing
		return report, &MissingDestinationsError{Paths: missing}
	}

	logger.Debug().Int("files", len(mappings)).Bool("dry_run", op.opts.DryRun).Msg("destinations validated, syncing")

	for _, fm := range mappings {
		if err := op.syncFile(ctx, fm, report); err != nil {
			// Fail fast: already-copied files stay in place, no rollback.
			return report, errors.Errorf("syncing %s: %w", fm.Dest, err)
		}
	}

	return report, nil
}
