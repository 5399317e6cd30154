package operation

import (
	"context"

	"github.com/pkgclaim/pkgclaim/pkg/config"
	"github.com/pkgclaim/pkgclaim/pkg/log"
	"github.com/pkgclaim/pkgclaim/pkg/publish"
	"gitlab.com/tozd/go/errors"
)

// 📤 Publisher is the registry publish boundary. The production
// implementation shells out to the registry CLI; tests substitute stubs.
type Publisher interface {
	// Publish runs the registry publish command against the staged
	// workspace and returns its outcome
	Publish(ctx context.Context, stagedRoot string) (*publish.Outcome, error)
}

// 🔧 Options contains configuration for the reservation operation
type Options struct {
	// Request is the validated reservation request
	Request config.Request
	// ProjectRoot is the original template project; it is only ever read
	ProjectRoot string
	// Publisher performs the registry publish
	Publisher Publisher
	// Defaults are the optional per-project defaults
	Defaults *config.Defaults
	// UserLogger renders user-facing progress
	UserLogger *log.Logger
}

// 🏭 New creates a reservation operation with the given options
func New(opts Options) (*Operation, error) {
	if opts.ProjectRoot == "" {
		return nil, errors.Errorf("project root is required")
	}
	if opts.Publisher == nil {
		return nil, errors.Errorf("publisher is required")
	}
	if opts.UserLogger == nil {
		return nil, errors.Errorf("user logger is required")
	}
	if opts.Defaults == nil {
		opts.Defaults = &config.Defaults{}
	}
	if err := opts.Request.Validate(); err != nil {
		return nil, errors.Errorf("validating request: %w", err)
	}
	return &Operation{opts: opts}, nil
}

// 🎮 Operation drives one reservation run
type Operation struct {
	opts Options
}
