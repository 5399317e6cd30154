// Package publish invokes the registry publish command against the staged
// workspace and interprets its outcome.
package publish

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔐 CredentialFileName is written at the staged workspace root only. It
// must never be copied back to the original tree or logged.
const CredentialFileName = ".npmrc"

// 🌐 DefaultRegistry is the registry host the auth token is scoped to
const DefaultRegistry = "registry.npmjs.org"

// 🚫 ErrNameConflict marks a publish rejected because the name is taken,
// too similar to an existing package, or otherwise forbidden. The tool
// never retries under a scoped name; the username exists solely for
// manifest metadata.
var ErrNameConflict = errors.New("package name rejected by registry")

// 🔍 conflictMarkers are scanned case-insensitively in the combined output
var conflictMarkers = []string{
	"too similar",
	"already exists",
	"cannot publish over",
	"you do not have permission",
	"forbidden",
	"403",
}

// 📊 Outcome is the immutable terminal state of a publish invocation
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// 🔧 Options configures a Publisher
type Options struct {
	// Token is the registry auth token, read once at run start
	Token string
	// Registry is the registry host; defaults to DefaultRegistry
	Registry string
	// Command is the publish executable; defaults to "npm"
	Command string
	// Stdout and Stderr receive the subprocess streams in real time;
	// they default to the process streams
	Stdout io.Writer
	Stderr io.Writer
}

// 📤 Publisher runs the external publish command
type Publisher struct {
	token    string
	registry string
	command  string
	stdout   io.Writer
	stderr   io.Writer
}

// 🏭 New creates a Publisher. The token is required.
func New(opts Options) (*Publisher, error) {
	if opts.Token == "" {
		return nil, errors.Errorf("auth token is required")
	}
	if opts.Registry == "" {
		opts.Registry = DefaultRegistry
	}
	if opts.Command == "" {
		opts.Command = "npm"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Publisher{
		token:    opts.Token,
		registry: opts.Registry,
		command:  opts.Command,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
	}, nil
}

// 🏃 Publish writes the credential file into the staged workspace, runs the
// publish command there with public visibility, and returns the outcome.
// Output is streamed to the configured writers while also buffered for
// classification. A non-nil Outcome accompanies classification errors so
// callers can inspect the captured streams.
func (p *Publisher) Publish(ctx context.Context, stagedRoot string) (*Outcome, error) {
	logger := zerolog.Ctx(ctx)

	if err := p.writeCredentials(stagedRoot); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, p.command, "publish", "--access", "public")
	cmd.Dir = stagedRoot

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Errorf("opening stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Errorf("opening stderr pipe: %w", err)
	}

	var outBuf, errBuf bytes.Buffer

	logger.Debug().Str("command", p.command).Str("dir", stagedRoot).Msg("invoking registry publish")
	if err := cmd.Start(); err != nil {
		return nil, errors.Errorf("starting %s publish: %w", p.command, err)
	}

	// Tee both streams to the caller and the buffers; the process is always
	// reaped by Wait below, on every exit path.
	g := new(errgroup.Group)
	g.Go(func() error {
		_, err := io.Copy(io.MultiWriter(p.stdout, &outBuf), stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(io.MultiWriter(p.stderr, &errBuf), stderrPipe)
		return err
	})
	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	outcome := &Outcome{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
	}

	if pumpErr != nil {
		return outcome, errors.Errorf("streaming publish output: %w", pumpErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return outcome, errors.Errorf("running %s publish: %w", p.command, waitErr)
		}
		return outcome, Classify(outcome)
	}

	logger.Debug().Int("exit_code", outcome.ExitCode).Msg("publish succeeded")
	return outcome, nil
}

// 🔐 writeCredentials writes the registry auth file inside the disposable
// workspace. The token value is deliberately kept out of all log output.
func (p *Publisher) writeCredentials(stagedRoot string) error {
	line := "//" + p.registry + "/:_authToken=" + p.token + "\n"
	path := filepath.Join(stagedRoot, CredentialFileName)
	if err := os.WriteFile(path, []byte(line), 0600); err != nil {
		return errors.Errorf("writing credential file: %w", err)
	}
	return nil
}

// 🔍 Classify turns a failed outcome into a descriptive error. Name
// conflicts are called out with the categorical no-scoped-retry policy.
func Classify(outcome *Outcome) error {
	combined := strings.ToLower(outcome.Stdout + "\n" + outcome.Stderr)
	for _, marker := range conflictMarkers {
		if strings.Contains(combined, marker) {
			return errors.Errorf(
				"%w (matched %q, exit code %d): the name is taken, too similar to an existing package, or forbidden; this tool will not retry under a scoped name",
				ErrNameConflict, marker, outcome.ExitCode)
		}
	}
	return errors.Errorf("publish failed with exit code %d", outcome.ExitCode)
}
