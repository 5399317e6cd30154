// Package walk provides a visitor-style directory tree walk shared by the
// staging and substitution stages.
package walk

import (
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 🚫 skipDirs are directory names excluded at any depth
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// 🎯 VisitFunc is called once per visited entry. path is the absolute path,
// rel is the path relative to the walk root ("." for the root itself).
type VisitFunc func(path string, rel string, d fs.DirEntry) error

// 🏃 Walk descends root depth-first, invoking fn for every directory and
// regular file. Version-control and dependency-cache directories are skipped
// at any depth. Symlinks and special files are skipped silently.
func Walk(root string, fn VisitFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.Errorf("resolving walk root: %w", err)
	}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}

		if d.IsDir() {
			if rel != "." && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return fn(path, rel, d)
		}

		// Regular files only; symlinks and special files are out of scope
		if !d.Type().IsRegular() {
			return nil
		}

		return fn(path, rel, d)
	})
	if err != nil {
		return err
	}
	return nil
}

// 🔍 FileMode returns the permission bits for an entry, falling back to a
// plain 0644/0755 split when the info call fails.
func FileMode(d fs.DirEntry) os.FileMode {
	info, err := d.Info()
	if err != nil {
		if d.IsDir() {
			return 0755
		}
		return 0644
	}
	return info.Mode().Perm()
}
