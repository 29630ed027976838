// Package filesaver writes generated files in one step: content is rendered
// into memory first and only replaces the target once rendering succeeded.
package filesaver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// BackupPath is where the previous version of path is kept.
func BackupPath(path string) string {
	return path + ".bak"
}

// SaveToFile renders through write and stores the result at path. When
// makeBackup is set, an existing file is first renamed to BackupPath(path).
// Errors from write are returned unchanged and leave path untouched.
func SaveToFile(path string, makeBackup bool, write func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	if makeBackup {
		if err := os.Rename(path, BackupPath(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("backing up %s: %w", path, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
