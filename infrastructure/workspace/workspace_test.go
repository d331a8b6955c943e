package workspace //nolint:testpackage // tests the unexported working tree directly

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T) *gitWorkingTree {
	t.Helper()
	return &gitWorkingTree{
		dir:       t.TempDir(),
		originals: make(map[string]string),
	}
}

func TestGitWorkingTree_Files(t *testing.T) {
	t.Parallel()

	t.Run("should report and read an existing file", func(t *testing.T) {
		t.Parallel()

		// given
		tree := newTestTree(t)
		path := filepath.Join(tree.dir, "requirements.txt")
		require.NoError(t, os.WriteFile(path, []byte("requests==2.20.0\n"), 0o644))

		// when / then
		assert.True(t, tree.HasFile("requirements.txt"))
		assert.False(t, tree.HasFile("missing.txt"))

		contents, err := tree.ReadFile("requirements.txt")
		require.NoError(t, err)
		assert.Equal(t, "requests==2.20.0\n", contents)
	})

	t.Run("should not report a directory as a file", func(t *testing.T) {
		t.Parallel()

		// given
		tree := newTestTree(t)
		require.NoError(t, os.Mkdir(filepath.Join(tree.dir, "vendor"), 0o755))

		// when / then
		assert.False(t, tree.HasFile("vendor"))
	})

	t.Run("should persist writes and read them back", func(t *testing.T) {
		t.Parallel()

		// given
		tree := newTestTree(t)

		// when
		err := tree.WriteFile("requirements.txt", "requests==2.28.0\n")

		// then
		require.NoError(t, err)
		contents, err := tree.ReadFile("requirements.txt")
		require.NoError(t, err)
		assert.Equal(t, "requests==2.28.0\n", contents)
	})
}

func TestGitWorkingTree_Diff(t *testing.T) {
	t.Parallel()

	t.Run("should render a unified diff against the pre-edit contents", func(t *testing.T) {
		t.Parallel()

		// given
		tree := newTestTree(t)
		path := filepath.Join(tree.dir, "requirements.txt")
		require.NoError(t, os.WriteFile(path, []byte("flask==2.0.1\nrequests==2.20.0\n"), 0o644))
		require.NoError(t, tree.WriteFile("requirements.txt", "flask==2.0.1\nrequests==2.28.0\n"))

		// when
		diff, err := tree.Diff()

		// then
		require.NoError(t, err)
		assert.Contains(t, diff, "-requests==2.20.0")
		assert.Contains(t, diff, "+requests==2.28.0")
		assert.NotContains(t, diff, "-flask==2.0.1")
	})

	t.Run("should diff against the original after repeated edits", func(t *testing.T) {
		t.Parallel()

		// given
		tree := newTestTree(t)
		path := filepath.Join(tree.dir, "requirements.txt")
		require.NoError(t, os.WriteFile(path, []byte("requests==2.20.0\n"), 0o644))
		require.NoError(t, tree.WriteFile("requirements.txt", "requests==2.25.0\n"))
		require.NoError(t, tree.WriteFile("requirements.txt", "requests==2.28.0\n"))

		// when
		diff, err := tree.Diff()

		// then
		require.NoError(t, err)
		assert.Contains(t, diff, "-requests==2.20.0")
		assert.Contains(t, diff, "+requests==2.28.0")
		assert.NotContains(t, diff, "2.25.0")
	})

	t.Run("should render nothing when no file was edited", func(t *testing.T) {
		t.Parallel()

		// given
		tree := newTestTree(t)

		// when
		diff, err := tree.Diff()

		// then
		require.NoError(t, err)
		assert.Empty(t, diff)
	})
}

func TestGitWorkingTree_Close(t *testing.T) {
	t.Parallel()

	t.Run("should remove the workspace directory", func(t *testing.T) {
		t.Parallel()

		// given
		dir, err := os.MkdirTemp("", "fleetpatch-test-*")
		require.NoError(t, err)
		tree := &gitWorkingTree{dir: dir, originals: make(map[string]string)}

		// when
		err = tree.Close()

		// then
		require.NoError(t, err)
		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr))
	})
}
