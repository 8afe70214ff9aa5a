package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projectTree builds a directory tree for upward-search tests. The root
// gets a .git directory so the search never escapes the temp dir.
func projectTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestFindProjectConfigInStartDir(t *testing.T) {
	t.Parallel()

	root := projectTree(t, map[string]string{"ruff.toml": ""})

	project, pyproject, err := FindProjectConfig(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "ruff.toml"), project)
	assert.Empty(t, pyproject)
}

func TestFindProjectConfigSearchesUpward(t *testing.T) {
	t.Parallel()

	root := projectTree(t, map[string]string{
		"ruff.toml":        "",
		"src/pkg/deep.txt": "",
	})

	project, _, err := FindProjectConfig(context.Background(), filepath.Join(root, "src", "pkg"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "ruff.toml"), project)
}

func TestFindProjectConfigPreference(t *testing.T) {
	t.Parallel()

	// A dedicated config file in the same directory beats pyproject.toml,
	// and the hidden variant beats the plain one.
	root := projectTree(t, map[string]string{
		".ruff.toml":     "",
		"ruff.toml":      "",
		"pyproject.toml": "",
	})

	project, pyproject, err := FindProjectConfig(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".ruff.toml"), project)
	assert.Empty(t, pyproject)
}

func TestFindProjectConfigPyprojectFallback(t *testing.T) {
	t.Parallel()

	root := projectTree(t, map[string]string{"pyproject.toml": ""})

	project, pyproject, err := FindProjectConfig(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, project)
	assert.Equal(t, filepath.Join(root, "pyproject.toml"), pyproject)
}

func TestFindProjectConfigNearerPyprojectWins(t *testing.T) {
	t.Parallel()

	// A pyproject.toml in the start directory stops the search before a
	// ruff.toml higher up is reached.
	root := projectTree(t, map[string]string{
		"ruff.toml":          "",
		"sub/pyproject.toml": "",
	})

	project, pyproject, err := FindProjectConfig(context.Background(), filepath.Join(root, "sub"))
	require.NoError(t, err)
	assert.Empty(t, project)
	assert.Equal(t, filepath.Join(root, "sub", "pyproject.toml"), pyproject)
}

func TestFindProjectConfigStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	root := projectTree(t, map[string]string{"ruff.toml": ""})

	// An inner repository bounds the search; the outer ruff.toml is
	// invisible from inside it.
	inner := filepath.Join(root, "other")
	require.NoError(t, os.MkdirAll(filepath.Join(inner, ".git"), 0o755))

	project, pyproject, err := FindProjectConfig(context.Background(), inner)
	require.NoError(t, err)
	assert.Empty(t, project)
	assert.Empty(t, pyproject)
}

func TestFindProjectConfigYAMLVariants(t *testing.T) {
	t.Parallel()

	root := projectTree(t, map[string]string{"ruff.yaml": ""})

	project, _, err := FindProjectConfig(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "ruff.yaml"), project)
}

func TestFindProjectConfigCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := FindProjectConfig(ctx, t.TempDir())
	require.Error(t, err)
}

func TestConfigFileKind(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTOMLConfig("ruff.toml"))
	assert.False(t, IsTOMLConfig("ruff.yaml"))
	assert.True(t, IsYAMLConfig("ruff.yaml"))
	assert.True(t, IsYAMLConfig("ruff.yml"))
	assert.False(t, IsYAMLConfig("ruff.toml"))
}
