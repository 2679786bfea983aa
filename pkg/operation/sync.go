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
	"bytes"
	"context"

	"github.com/go-git/go-billy/v5/util"
	"github.com/walteh/schedsync/pkg/log"
	"github.com/walteh/schedsync/pkg/mapping"
	"gitlab.com/tozd/go/errors"
)

// 📄 syncFile diffs one mapping and copies on difference. Destination
// existence was established by the validation barrier; a read failure here is
// a hard error, not a missing file.
func (op *SyncOperation) syncFile(ctx context.Context, fm mapping.FileMapping, report *Report) error {
	content, err := op.opts.Source.ReadFile(ctx, fm.Source)
	if err != nil {
		return errors.Errorf("reading source: %w", err)
	}

	// Effective content: manifests get the dependency rewrite, everything
	// else is copied verbatim.
	rewritten := false
	if op.transformer.Applies(fm.Source) {
		result := op.transformer.Transform(content)
		content = result.ModifiedContent
		rewritten = result.WasModified
	}

	current, err := util.ReadFile(op.opts.DestFS, fm.Dest)
	if err != nil {
		return errors.Errorf("reading destination: %w", err)
	}

	copied := false
	if !bytes.Equal(content, current) {
		if !op.opts.DryRun {
			if err := util.WriteFile(op.opts.DestFS, fm.Dest, content, 0644); err != nil {
				return errors.Errorf("writing destination: %w", err)
			}
		}
		copied = true
		if fm.Category == mapping.CategoryHeader {
			report.CopiedHeaders++
		} else {
			report.CopiedSources++
		}
		if rewritten {
			report.Rewritten++
		}
	} else {
		report.Skipped++
	}

	if op.opts.Reporter != nil {
		op.opts.Reporter.LogFileOperation(ctx, log.FileOperation{
			Dest:        fm.Dest,
			Source:      fm.Source,
			Category:    fm.Category.String(),
			IsCopied:    copied,
			IsSkipped:   !copied,
			IsRewritten: copied && rewritten,
		})
	}

	return nil
}
