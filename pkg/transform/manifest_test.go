package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestTransformer_Transform(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		want         string
		wantModified bool
	}{
		{
			name:         "path_and_version",
			content:      `scx_utils = { path = "../../../rust/scx_utils", version = "1.0.14" }`,
			want:         `scx_utils = "1.0.14"`,
			wantModified: true,
		},
		{
			name:         "version_before_path",
			content:      `scx_utils = { version = "0.9.1", path = "../scx_utils" }`,
			want:         `scx_utils = "0.9.1"`,
			wantModified: true,
		},
		{
			name: "surrounding_lines_untouched",
			content: "[dependencies]\n" +
				`anyhow = "1.0"` + "\n" +
				`scx_utils = { path = "../../../rust/scx_utils", version = "1.0.14" }` + "\n" +
				`libbpf-rs = "0.24"` + "\n",
			want: "[dependencies]\n" +
				`anyhow = "1.0"` + "\n" +
				`scx_utils = "1.0.14"` + "\n" +
				`libbpf-rs = "0.24"` + "\n",
			wantModified: true,
		},
		{
			name:         "no_path_field_left_alone",
			content:      `scx_utils = { version = "1.0.14", features = ["log"] }`,
			want:         `scx_utils = { version = "1.0.14", features = ["log"] }`,
			wantModified: false,
		},
		{
			name:         "already_bare_version",
			content:      `scx_utils = "1.0.14"`,
			want:         `scx_utils = "1.0.14"`,
			wantModified: false,
		},
		{
			name:         "other_dependency_with_path",
			content:      `scx_rustland_core = { path = "../scx_rustland_core", version = "2.0" }`,
			want:         `scx_rustland_core = { path = "../scx_rustland_core", version = "2.0" }`,
			wantModified: false,
		},
		{
			name:         "empty_content",
			content:      "",
			want:         "",
			wantModified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewManifestTransformer(DefaultRule())
			require.NoError(t, err)

			result := tr.Transform([]byte(tt.content))
			require.NotNil(t, result)
			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestManifestTransformer_Idempotent(t *testing.T) {
	tr, err := NewManifestTransformer(DefaultRule())
	require.NoError(t, err)

	content := []byte("[dependencies]\n" +
		`scx_utils = { path = "../../../rust/scx_utils", version = "1.0.14" }` + "\n")

	once := tr.Transform(content)
	require.True(t, once.WasModified)

	twice := tr.Transform(once.ModifiedContent)
	assert.False(t, twice.WasModified)
	assert.Equal(t, string(once.ModifiedContent), string(twice.ModifiedContent))
}

func TestManifestTransformer_Applies(t *testing.T) {
	tr, err := NewManifestTransformer(DefaultRule())
	require.NoError(t, err)

	assert.True(t, tr.Applies("rust-user/scx_rusty/Cargo.toml"))
	assert.True(t, tr.Applies("Cargo.toml"))
	assert.False(t, tr.Applies("rust-user/scx_rusty/src/main.rs"))
	assert.False(t, tr.Applies("Cargo.lock"))
}

func TestNewManifestTransformer_Validation(t *testing.T) {
	_, err := NewManifestTransformer(Rule{Dependency: "scx_utils"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest name")

	_, err = NewManifestTransformer(Rule{ManifestName: "Cargo.toml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency name")
}
