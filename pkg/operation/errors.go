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

// 🚫 MissingDestinationsError reports every computed destination that does
// not exist in the downstream tree. Its presence means zero writes were
// performed: syncing onto an incompletely prepared tree is disallowed.
type MissingDestinationsError struct {
	Paths []string // missing destination paths, in mapping order
}

// Error implements error
func (e *MissingDestinationsError) Error() string {
	if len(e.Paths) == 1 {
		return fmt.Sprintf("destination %s does not exist", e.Paths[0])
	}
	return fmt.Sprintf("%d destinations do not exist", len(e.Paths))
}
