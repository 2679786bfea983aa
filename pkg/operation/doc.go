/*
Package operation implements the sync pipeline for mirroring scheduler
sources into a downstream kernel tree.

	+-----------+     +-----------+     +-----------+
	|   Plan    | --> | Validate  | --> | DiffSync  |
	| (mapping) |     | (barrier) |     | (copy)    |
	+-----------+     +-----------+     +-----------+

🎯 Purpose:
- Enumerates tracked sources and computes destination mappings
- Enforces the all-destinations-exist barrier before any write
- Copies only files whose effective content differs

🔄 Flow:
 1. Plan asks the source backend for headers and scheduler groups and maps
    them through pkg/mapping
 2. Validate stats every destination; any missing path aborts the run with
    the complete missing list and zero writes
 3. DiffSync computes effective content (manifest rewrite via pkg/transform),
    compares byte-for-byte and overwrites on difference

⚡ Key Responsibilities:
- The validate-before-write ordering guarantee
- Per-category copy counters for the final report
- Fail-fast write errors with no rollback

📝 Design Philosophy:
The operation is single-threaded with blocking I/O and idempotent by
construction: re-running against a synced tree performs zero writes, which is
the whole recovery story. Partial state after a mid-run failure is fine
because the next run converges.
*/
package operation
