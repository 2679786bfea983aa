package transform

import (
	"path"
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// Rule describes the manifest rewrite applied while mirroring: in manifest
// files named ManifestName, a dependency on Dependency declared as an inline
// table carrying a local path is collapsed to a bare version string. The
// downstream tree has no workspace to resolve the path against, so only the
// version survives.
type Rule struct {
	ManifestName string // base name that marks a file as a manifest, e.g. "Cargo.toml"
	Dependency   string // dependency whose local path gets stripped, e.g. "scx_utils"
}

// DefaultRule returns the rule used for scheduler manifests.
func DefaultRule() Rule {
	return Rule{
		ManifestName: "Cargo.toml",
		Dependency:   "scx_utils",
	}
}

// Result holds the outcome of a manifest transformation
type Result struct {
	OriginalContent []byte
	ModifiedContent []byte
	WasModified     bool
}

// ManifestTransformer rewrites dependency declarations in manifest files.
// The transform is pure and idempotent: its output never matches the
// declaration pattern again, so applying it twice equals applying it once.
type ManifestTransformer struct {
	rule    Rule
	decl    *regexp.Regexp
	hasPath *regexp.Regexp
	version *regexp.Regexp
}

// NewManifestTransformer creates a transformer for the given rule
func NewManifestTransformer(rule Rule) (*ManifestTransformer, error) {
	if rule.ManifestName == "" {
		return nil, errors.New("manifest name is required")
	}
	if rule.Dependency == "" {
		return nil, errors.New("dependency name is required")
	}

	// Matches the whole dependency line when declared as an inline table,
	// e.g. `scx_utils = { path = "../../rust/scx_utils", version = "1.0.1" }`.
	// Field order inside the table is not fixed, so path and version are
	// located separately.
	decl, err := regexp.Compile(`(?m)^([ \t]*` + regexp.QuoteMeta(rule.Dependency) + `[ \t]*=[ \t]*)\{([^}]*)\}[ \t]*$`)
	if err != nil {
		return nil, errors.Errorf("compiling declaration pattern: %w", err)
	}

	return &ManifestTransformer{
		rule:    rule,
		decl:    decl,
		hasPath: regexp.MustCompile(`(^|[,{ \t])path[ \t]*=`),
		version: regexp.MustCompile(`(^|[,{ \t])version[ \t]*=[ \t]*"([^"]*)"`),
	}, nil
}

// Applies reports whether the rule covers the given source path
func (t *ManifestTransformer) Applies(src string) bool {
	return path.Base(src) == t.rule.ManifestName
}

// Transform rewrites the manifest content. Lines that do not declare the
// configured dependency with a local path pass through unchanged.
func (t *ManifestTransformer) Transform(content []byte) *Result {
	result := &Result{
		OriginalContent: content,
		ModifiedContent: content,
	}

	modified := t.decl.ReplaceAllFunc(content, func(line []byte) []byte {
		sub := t.decl.FindSubmatch(line)
		table := sub[2]

		// Only declarations that encode a local path are rewritten;
		// a plain registry table stays as-is.
		if !t.hasPath.Match(table) {
			return line
		}
		ver := t.version.FindSubmatch(table)
		if ver == nil {
			return line
		}

		result.WasModified = true
		return append(append([]byte{}, sub[1]...), []byte(`"`+string(ver[2])+`"`)...)
	})

	result.ModifiedContent = modified
	return result
}
