// Package manifest finalizes the staged package.json. It runs after textual
// substitution and authoritatively overwrites the identity fields, so a
// template whose manifest uses unexpected placeholder spellings still
// publishes under the requested name.
package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkgclaim/pkgclaim/pkg/config"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 FileName is the registry manifest at the staged workspace root
const FileName = "package.json"

// 🏷️ ReservedVersion is the placeholder version published for a reservation
const ReservedVersion = "0.0.1-reserved"

// 🏃 Finalize forces the staged manifest's name, author, and version fields.
// A missing or unparseable manifest is a logged no-op: the publish stage is
// the one that fails loudly on a broken package, and its error message is
// far more useful than anything this stage could synthesize. Finalizing an
// already-finalized manifest yields identical content.
func Finalize(ctx context.Context, stagedRoot string, req config.Request) error {
	logger := zerolog.Ctx(ctx)
	path := filepath.Join(stagedRoot, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("manifest", FileName).Msg("no manifest in staged workspace, deferring to publish")
			return nil
		}
		return errors.Errorf("reading manifest: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		logger.Warn().Err(err).Str("manifest", FileName).Msg("unparseable manifest, deferring to publish")
		return nil
	}

	fields["name"] = req.Name
	fields["author"] = req.Username
	fields["version"] = ReservedVersion

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return errors.Errorf("serializing manifest: %w", err)
	}
	out = append(out, '\n')

	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.Errorf("rewriting manifest: %w", err)
	}

	logger.Debug().Str("name", req.Name).Str("version", ReservedVersion).Msg("manifest finalized")
	return nil
}
