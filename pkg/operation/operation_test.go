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
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/schedsync/pkg/config"
	"github.com/walteh/schedsync/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// fixtureConfig mirrors the canonical sync scenario: one header, one broad
// group included wholesale, one narrow group filtered to schedX.
func fixtureConfig() *config.Config {
	return &config.Config{
		Prefix:  "scheds",
		Headers: config.HeaderArgs{Dir: "include", Exclude: []string{"**/vmlinux*.h"}},
		Broad:   config.GroupArgs{Groups: []string{"grpA"}},
		Narrow:  config.GroupArgs{Groups: []string{"rust-user"}, Allow: []string{"schedX"}},
		Manifest: config.ManifestArgs{
			Name:       "Cargo.toml",
			Dependency: "dep",
		},
	}
}

func fixtureSource() *source.Static {
	return &source.Static{
		HeaderFiles: []string{"include/a.h"},
		SourcesByGroup: map[string][]string{
			"grpA":      {"grpA/s1.c"},
			"rust-user": {"rust-user/schedX/Cargo.toml", "rust-user/schedY/Cargo.toml"},
		},
		Files: map[string][]byte{
			"include/a.h":                 []byte("#define A 1\n"),
			"grpA/s1.c":                   []byte("int main(void) { return 0; }\n"),
			"rust-user/schedX/Cargo.toml": []byte("dep = { path = \"../x\", version = \"1.2.3\" }\n"),
			"rust-user/schedY/Cargo.toml": []byte("dep = { path = \"../y\", version = \"9.9.9\" }\n"),
		},
	}
}

func seedDest(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for path, content := range files {
		require.NoError(t, util.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func readDest(t *testing.T, fs billy.Filesystem, path string) string {
	t.Helper()
	content, err := util.ReadFile(fs, path)
	require.NoError(t, err)
	return string(content)
}

func TestSyncOperation_Plan(t *testing.T) {
	op, err := NewSyncOperation(Options{
		Config: fixtureConfig(),
		Source: fixtureSource(),
		DestFS: memfs.New(),
	})
	require.NoError(t, err)

	mappings, err := op.Plan(context.Background())
	require.NoError(t, err)

	var dests []string
	for _, fm := range mappings {
		dests = append(dests, fm.Dest)
	}
	// schedY is off the allow-list and yields no mapping at all.
	assert.Equal(t, []string{"include/a.h", "s1.c", "Cargo.toml"}, dests)
}

func TestSyncOperation_EndToEnd(t *testing.T) {
	fs := seedDest(t, map[string]string{
		"include/a.h": "#define A 0\n",                  // stale, will be copied
		"s1.c":        "int main(void) { return 0; }\n", // identical, will be skipped
		"Cargo.toml":  "",                               // stale manifest, copied with rewrite
	})

	op, err := NewSyncOperation(Options{
		Config: fixtureConfig(),
		Source: fixtureSource(),
		DestFS: fs,
	})
	require.NoError(t, err)

	report, err := op.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Empty(t, report.Missing)
	assert.Equal(t, 1, report.CopiedHeaders)
	assert.Equal(t, 1, report.CopiedSources)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Rewritten)

	assert.Equal(t, "#define A 1\n", readDest(t, fs, "include/a.h"))
	assert.Equal(t, "dep = \"1.2.3\"\n", readDest(t, fs, "Cargo.toml"))

	// Second run against the synced tree copies nothing.
	report, err = op.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Copied())
	assert.Equal(t, report.Total, report.Skipped)
}

func TestSyncOperation_MissingDestinationGating(t *testing.T) {
	// s1.c is absent from the downstream tree.
	fs := seedDest(t, map[string]string{
		"include/a.h": "#define A 0\n",
		"Cargo.toml":  "",
	})

	op, err := NewSyncOperation(Options{
		Config: fixtureConfig(),
		Source: fixtureSource(),
		DestFS: fs,
	})
	require.NoError(t, err)

	report, err := op.Execute(context.Background())
	require.Error(t, err)

	var missingErr *MissingDestinationsError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"s1.c"}, missingErr.Paths)
	assert.Equal(t, []string{"s1.c"}, report.Missing)
	assert.Equal(t, 0, report.Copied())

	// Existing destinations stay byte-identical: the stale header was not
	// touched even though it differed.
	assert.Equal(t, "#define A 0\n", readDest(t, fs, "include/a.h"))
}

func TestSyncOperation_ReportsEveryMissingPath(t *testing.T) {
	fs := seedDest(t, map[string]string{
		"s1.c": "int main(void) { return 0; }\n",
	})

	op, err := NewSyncOperation(Options{
		Config: fixtureConfig(),
		Source: fixtureSource(),
		DestFS: fs,
	})
	require.NoError(t, err)

	_, err = op.Execute(context.Background())
	require.Error(t, err)

	var missingErr *MissingDestinationsError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"include/a.h", "Cargo.toml"}, missingErr.Paths)
}

func TestSyncOperation_DryRun(t *testing.T) {
	fs := seedDest(t, map[string]string{
		"include/a.h": "#define A 0\n",
		"s1.c":        "int main(void) { return 0; }\n",
		"Cargo.toml":  "",
	})

	op, err := NewSyncOperation(Options{
		Config: fixtureConfig(),
		Source: fixtureSource(),
		DestFS: fs,
		DryRun: true,
	})
	require.NoError(t, err)

	report, err := op.Execute(context.Background())
	require.NoError(t, err)

	// Counters report what would change, the tree stays untouched.
	assert.Equal(t, 2, report.Copied())
	assert.Equal(t, "#define A 0\n", readDest(t, fs, "include/a.h"))
	assert.Equal(t, "", readDest(t, fs, "Cargo.toml"))
}

func TestSyncOperation_SourceReadFailure(t *testing.T) {
	src := fixtureSource()
	delete(src.Files, "grpA/s1.c")

	fs := seedDest(t, map[string]string{
		"include/a.h": "#define A 0\n",
		"s1.c":        "",
		"Cargo.toml":  "",
	})

	op, err := NewSyncOperation(Options{
		Config: fixtureConfig(),
		Source: src,
		DestFS: fs,
	})
	require.NoError(t, err)

	report, err := op.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syncing s1.c")

	// Fail-fast: the header mapped before the failure stays copied.
	assert.Equal(t, 1, report.CopiedHeaders)
	assert.Equal(t, "#define A 1\n", readDest(t, fs, "include/a.h"))
}

func TestNewSyncOperation_Validation(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantError string
	}{
		{
			name:      "missing_config",
			opts:      Options{Source: fixtureSource(), DestFS: memfs.New()},
			wantError: "config is required",
		},
		{
			name:      "missing_source",
			opts:      Options{Config: fixtureConfig(), DestFS: memfs.New()},
			wantError: "source is required",
		},
		{
			name:      "missing_destfs",
			opts:      Options{Config: fixtureConfig(), Source: fixtureSource()},
			wantError: "destination filesystem is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSyncOperation(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}
