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

import "fmt"

// 📊 Report summarizes one sync run
type Report struct {
	Total         int      // total computed mappings
	Missing       []string // destinations that failed the pre-flight check
	Skipped       int      // destinations whose content already matched
	CopiedHeaders int      // header files written
	CopiedSources int      // scheduler source files written
	Rewritten     int      // manifests whose dependency line was rewritten
}

// 🔢 Copied returns the total number of files written
func (r *Report) Copied() int {
	return r.CopiedHeaders + r.CopiedSources
}

// 📝 Summary returns the one-line result printed on success
func (r *Report) Summary() string {
	return fmt.Sprintf("synced %d headers and %d sources, skipped %d unchanged",
		r.CopiedHeaders, r.CopiedSources, r.Skipped)
}
