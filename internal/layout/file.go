package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadFile parses the layout file at path. A missing file yields an empty
// layout rather than an error, so a repository that was never initialized
// behaves like one with no managed branches.
func ReadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read layout file %s: %w", path, err)
	}

	l, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	return l, nil
}

// WriteFile atomically replaces the layout file at path with the rendered
// layout. The content is written to a temporary file in the same directory
// and renamed into place so a crash never leaves a half-written file.
func WriteFile(path string, l *Layout) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temporary layout file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(l.Render()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write layout file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write layout file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace layout file %s: %w", path, err)
	}
	return nil
}

// BackupPath returns the path of the backup written before destructive
// rewrites of the layout file.
func BackupPath(path string) string {
	return path + "~"
}

// WriteFileWithBackup saves the existing layout file to its backup path and
// then writes the new layout. Used by operations that replace the whole tree,
// so the previous definition can be restored by hand.
func WriteFileWithBackup(path string, l *Layout) error {
	if data, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(BackupPath(path), data, 0o644); err != nil {
			return fmt.Errorf("failed to write layout backup %s: %w", BackupPath(path), err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read layout file %s: %w", path, err)
	}
	return WriteFile(path, l)
}
