// Package fsys is the filesystem capability every pipeline stage receives.
//
// Stages never touch the os package directly; they are handed an FS so the
// CLI can pass the real disk and tests can pass an in-memory tree.
package fsys

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS is the filesystem abstraction shared by all stages.
type FS = afero.Fs

// OS returns the real filesystem.
func OS() FS { return afero.NewOsFs() }

// Memory returns an empty in-memory filesystem.
func Memory() FS { return afero.NewMemMapFs() }

// Exists reports whether path exists.
func Exists(fsys FS, path string) (bool, error) {
	return afero.Exists(fsys, path)
}

// DirExists reports whether path exists and is a directory.
func DirExists(fsys FS, path string) (bool, error) {
	return afero.DirExists(fsys, path)
}

// ReadFile reads a whole file.
func ReadFile(fsys FS, path string) ([]byte, error) {
	return afero.ReadFile(fsys, path)
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(fsys FS, path string, data []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, data, 0o644)
}

// CopyDir recursively copies a directory tree. Existing files in dst are
// overwritten; files only present in dst are left alone.
func CopyDir(fsys FS, src, dst string) error {
	srcInfo, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("copy dir: %s is not a directory", src)
	}

	if err := fsys.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := afero.ReadDir(fsys, src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := CopyDir(fsys, srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(fsys, srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

// CopyFile copies a single file from src to dst, preserving its mode.
func CopyFile(fsys FS, src, dst string) error {
	srcFile, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	return fsys.Chmod(dst, srcInfo.Mode().Perm())
}

// Snapshot returns every regular file under root mapped to its content,
// keyed by slash-separated path relative to root.
func Snapshot(fsys FS, root string) (map[string]string, error) {
	out := make(map[string]string)
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
