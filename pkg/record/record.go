// Package record persists successful reservations to the project's log.
package record

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 LogFileName is the reservation log at the original project root
const LogFileName = "reserved.log"

// 📝 Record prepends name to the reservation log, newest first, keeping the
// previous content unchanged. It only runs after a successful publish;
// callers downgrade any error to a warning since the reservation itself
// already happened on the registry.
func Record(ctx context.Context, originalRoot, name string) error {
	logger := zerolog.Ctx(ctx)
	path := filepath.Join(originalRoot, LogFileName)

	previous, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Errorf("reading reservation log: %w", err)
	}

	content := append([]byte(name+"\n"), previous...)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Errorf("writing reservation log: %w", err)
	}

	logger.Debug().Str("name", name).Str("log", path).Msg("reservation recorded")
	return nil
}
