package layout_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"trellis.dev/trellis/internal/layout"
)

func TestReadFile(t *testing.T) {
	t.Run("missing file yields empty layout", func(t *testing.T) {
		l, err := layout.ReadFile(filepath.Join(t.TempDir(), "trellis"))
		require.NoError(t, err)
		require.Empty(t, l.Roots)
	})

	t.Run("reads and parses", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trellis")
		require.NoError(t, os.WriteFile(path, []byte("develop\n\tcall-ws\n"), 0o644))

		l, err := layout.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, []string{"develop"}, l.Roots)
		require.Equal(t, []string{"call-ws"}, l.Children("develop"))
	})

	t.Run("surfaces parse errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trellis")
		require.NoError(t, os.WriteFile(path, []byte("develop\ndevelop\n"), 0o644))

		_, err := layout.ReadFile(path)
		require.Error(t, err)
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("writes the rendered layout", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trellis")
		l := mustParse(t, "develop\n\tcall-ws PR #42\n")

		require.NoError(t, layout.WriteFile(path, l))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "develop\n\tcall-ws PR #42\n", string(data))
	})

	t.Run("replaces existing content atomically", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "trellis")
		require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

		require.NoError(t, layout.WriteFile(path, mustParse(t, "new\n")))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "new\n", string(data))

		// No stray temp files left behind.
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})
}

func TestWriteFileWithBackup(t *testing.T) {
	t.Run("saves the previous file to the backup path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trellis")
		require.NoError(t, os.WriteFile(path, []byte("develop\n"), 0o644))

		require.NoError(t, layout.WriteFileWithBackup(path, mustParse(t, "master\n\thotfix\n")))

		backup, err := os.ReadFile(layout.BackupPath(path))
		require.NoError(t, err)
		require.Equal(t, "develop\n", string(backup))

		current, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "master\n\thotfix\n", string(current))
	})

	t.Run("works without a previous file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trellis")
		require.NoError(t, layout.WriteFileWithBackup(path, mustParse(t, "main\n")))

		_, err := os.Stat(layout.BackupPath(path))
		require.True(t, os.IsNotExist(err))
	})
}
