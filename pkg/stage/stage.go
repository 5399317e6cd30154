// Package stage materializes the disposable workspace a reservation run
// mutates and publishes from. The original project tree is only ever read.
package stage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkgclaim/pkgclaim/pkg/walk"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📦 Workspace is an ownership-exclusive subtree rooted at a freshly
// allocated temporary path. It is created once, mutated in place by the
// later stages, and removed at the end of the run regardless of outcome.
type Workspace struct {
	// Root is the absolute path of the staged tree
	Root string
}

// 🏗️ Stage copies the source tree into a new uniquely named temporary root.
// Version-control and dependency-cache directories are excluded at any
// depth. Any I/O error aborts the run; the source tree is never written to.
func Stage(ctx context.Context, srcRoot string) (*Workspace, error) {
	logger := zerolog.Ctx(ctx)

	tmpRoot, err := os.MkdirTemp("", "pkgclaim-*")
	if err != nil {
		return nil, errors.Errorf("allocating temp workspace: %w", err)
	}

	ws := &Workspace{Root: tmpRoot}
	logger.Debug().Str("src", srcRoot).Str("workspace", tmpRoot).Msg("staging workspace")

	err = walk.Walk(srcRoot, func(path, rel string, d fs.DirEntry) error {
		if rel == "." {
			return nil
		}
		dst := filepath.Join(tmpRoot, rel)

		if d.IsDir() {
			if err := os.MkdirAll(dst, walk.FileMode(d)); err != nil {
				return errors.Errorf("creating directory %s: %w", rel, err)
			}
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Errorf("reading %s: %w", rel, err)
		}
		if err := os.WriteFile(dst, data, walk.FileMode(d)); err != nil {
			return errors.Errorf("writing %s: %w", rel, err)
		}
		return nil
	})
	if err != nil {
		// Leave no half-staged tree behind; the removal error is secondary
		_ = os.RemoveAll(tmpRoot)
		return nil, errors.Errorf("staging workspace: %w", err)
	}

	return ws, nil
}

// 🗑️ Remove deletes the staged tree. Callers treat failure as a warning:
// the original tree's integrity does not depend on cleanup succeeding.
func (w *Workspace) Remove() error {
	if err := os.RemoveAll(w.Root); err != nil {
		return errors.Errorf("removing workspace %s: %w", w.Root, err)
	}
	return nil
}
