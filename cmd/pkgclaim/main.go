package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkgclaim/pkgclaim/pkg/config"
	"github.com/pkgclaim/pkgclaim/pkg/log"
	"github.com/pkgclaim/pkgclaim/pkg/operation"
	"github.com/pkgclaim/pkgclaim/pkg/publish"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	nameFlag     string
	usernameFlag string
	projectRoot  string
	registryFlag string
	debug        bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// 🏭 newRootCmd builds the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pkgclaim [name [username]]",
		Short: "Reserve a package name on the npm registry",
		Long: `pkgclaim reserves a package name by publishing a placeholder version
from a sanitized, disposable copy of the current project. The project tree
itself is never modified.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "package name to reserve")
	cmd.Flags().StringVarP(&usernameFlag, "username", "u", "", "author name recorded in the manifest")
	cmd.Flags().StringVarP(&projectRoot, "project", "p", ".", "template project root")
	cmd.Flags().StringVar(&registryFlag, "registry", "", "registry host (default "+publish.DefaultRegistry+")")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	return cmd
}

// 🏃 run resolves inputs and drives the reservation pipeline
func run(cmd *cobra.Command, args []string) error {
	logLevel := zerolog.WarnLevel
	if debug {
		logLevel = zerolog.DebugLevel
	}
	zlog := zerolog.New(os.Stderr).Level(logLevel).With().Timestamp().Logger()
	ctx := zlog.WithContext(cmd.Context())

	ulog := log.New(os.Stdout, logLevel)
	ulog.Header("reserve a package name")

	defaults, err := config.LoadDefaults(projectRoot)
	if err != nil {
		ulog.Errorf("invalid defaults file: %v", err)
		return err
	}

	req, err := resolveRequest(args, defaults)
	if err != nil {
		ulog.Error(err.Error())
		return err
	}
	if err := req.Validate(); err != nil {
		ulog.Error(err.Error())
		return err
	}

	token, err := config.TokenFromEnv()
	if err != nil {
		ulog.Error(err.Error())
		return err
	}

	registry := registryFlag
	if registry == "" {
		registry = defaults.Registry
	}

	publisher, err := publish.New(publish.Options{
		Token:    token,
		Registry: registry,
	})
	if err != nil {
		ulog.Error(err.Error())
		return err
	}

	op, err := operation.New(operation.Options{
		Request:     req,
		ProjectRoot: projectRoot,
		Publisher:   publisher,
		Defaults:    defaults,
		UserLogger:  ulog,
	})
	if err != nil {
		ulog.Error(err.Error())
		return err
	}

	if err := op.Reserve(ctx); err != nil {
		ulog.Error(err.Error())
		return err
	}
	return nil
}

// 🧭 resolveRequest fills the request from flags, then positional arguments,
// then the defaults file, then interactive prompts. First non-empty source
// wins per field.
func resolveRequest(args []string, defaults *config.Defaults) (config.Request, error) {
	req := config.Request{
		Name:     nameFlag,
		Username: usernameFlag,
	}

	if req.Name == "" && len(args) > 0 {
		req.Name = args[0]
	}
	if req.Username == "" && len(args) > 1 {
		req.Username = args[1]
	}
	if req.Username == "" {
		req.Username = defaults.Username
	}

	if req.Name != "" && req.Username != "" {
		return req, nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return req, errors.Errorf("package name and username are required (pass them as flags or arguments when not running interactively)")
	}

	var err error
	if req.Name == "" {
		req.Name, err = promptFor("Package name to reserve")
		if err != nil {
			return req, err
		}
	}
	if req.Username == "" {
		req.Username, err = promptFor("Your npm username")
		if err != nil {
			return req, err
		}
	}
	return req, nil
}

// ⌨️ promptFor asks the user for a single value
func promptFor(label string) (string, error) {
	value, err := pterm.DefaultInteractiveTextInput.Show(label)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", label, err)
	}
	return value, nil
}
