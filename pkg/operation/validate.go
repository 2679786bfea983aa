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
	"os"

	"github.com/walteh/schedsync/pkg/mapping"
	"gitlab.com/tozd/go/errors"
)

// ✅ Validate checks that every computed destination already exists in the
// downstream tree. It always inspects the complete mapping set so the caller
// can report every missing path, not just the first.
func (op *SyncOperation) Validate(ctx context.Context, mappings []mapping.FileMapping) ([]string, error) {
	var missing []string
	for _, fm := range mappings {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("validation cancelled: %w", err)
		}

		_, err := op.opts.DestFS.Stat(fm.Dest)
		switch {
		case err == nil:
			// exists
		case os.IsNotExist(err):
			missing = append(missing, fm.Dest)
		default:
			return nil, errors.Errorf("checking destination %s: %w", fm.Dest, err)
		}
	}
	return missing, nil
}
