package operation

import (
	"context"
	"fmt"

	"github.com/pkgclaim/pkgclaim/pkg/manifest"
	"github.com/pkgclaim/pkgclaim/pkg/prune"
	"github.com/pkgclaim/pkgclaim/pkg/record"
	"github.com/pkgclaim/pkgclaim/pkg/stage"
	"github.com/pkgclaim/pkgclaim/pkg/text"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Reserve runs the full reservation pipeline:
//
//	stage → substitute → finalize → prune → publish → record
//
// Each stage fully completes before the next begins, and every stage after
// staging mutates only the disposable workspace. The workspace is removed
// on every exit path; cleanup and log-write failures are warnings because
// the run's outcome is already determined by the publish result.
func (op *Operation) Reserve(ctx context.Context) (err error) {
	logger := zerolog.Ctx(ctx)
	ulog := op.opts.UserLogger
	req := op.opts.Request

	ulog.Stage("stage", "copying project into disposable workspace")
	ws, err := stage.Stage(ctx, op.opts.ProjectRoot)
	if err != nil {
		return errors.Errorf("staging workspace: %w", err)
	}
	defer func() {
		if rmErr := ws.Remove(); rmErr != nil {
			logger.Warn().Err(rmErr).Msg("workspace cleanup failed")
			ulog.Warningf("could not remove temporary workspace %s", ws.Root)
		}
	}()

	ulog.Stage("substitute", "replacing placeholder tokens")
	replaced, err := text.Apply(ctx, ws.Root, text.NewMap(req.Name, req.Username))
	if err != nil {
		return errors.Errorf("substituting placeholders: %w", err)
	}
	logger.Debug().Int("files", replaced).Msg("substitution complete")

	ulog.Stage("finalize", "rewriting manifest identity fields")
	if err := manifest.Finalize(ctx, ws.Root, req); err != nil {
		return errors.Errorf("finalizing manifest: %w", err)
	}

	ulog.Stage("prune", "removing non-publishable paths")
	list, err := prune.Load(op.opts.ProjectRoot, op.opts.Defaults.Prune...)
	if err != nil {
		return errors.Errorf("loading prune list: %w", err)
	}
	if err := list.Apply(ctx, ws.Root); err != nil {
		return errors.Errorf("pruning workspace: %w", err)
	}

	ulog.Stage("publish", fmt.Sprintf("reserving %q on the registry", req.Name))
	if _, err := op.opts.Publisher.Publish(ctx, ws.Root); err != nil {
		return errors.Errorf("publishing %s: %w", req.Name, err)
	}

	if err := record.Record(ctx, op.opts.ProjectRoot, req.Name); err != nil {
		logger.Warn().Err(err).Msg("reservation log update failed")
		ulog.Warningf("reserved %q but could not update %s", req.Name, record.LogFileName)
	}

	ulog.Successf("reserved %q", req.Name)
	return nil
}
