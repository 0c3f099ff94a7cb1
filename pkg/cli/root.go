package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SpineEventEngine/base-sub010/pkg/config"
	"github.com/SpineEventEngine/base-sub010/pkg/observability"
)

// Version is set at build time
var Version = "dev"

// app carries the state shared by the subcommands of one invocation
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg   *config.Config
	log   logrus.FieldLogger
	runID string
}

// NewRootCommand creates the spine-mc command tree
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "spine-mc",
		Short: "spine-mc - Spine model compiler for Protobuf messages",
		Long: `spine-mc matches Protobuf messages against file patterns, type references
and Spine options, and emits Java insertion-point artifacts that add
interfaces, methods, fields and nested classes to the generated code.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Configuration file (default: looked up in the working directory)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(newGenerateCommand(a))
	root.AddCommand(newRefsCommand())
	root.AddCommand(newConfigCommand(a))
	return root
}

// Execute runs the root command with the given arguments
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// setup loads the configuration and creates the logger of the run
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg.ApplyEnv()

	obs := &a.cfg.Observability
	if cmd.Flags().Changed("log-level") {
		obs.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		obs.LogFormat = a.logFormat
	}

	logger, err := observability.NewLogger(obs.LogLevel, observability.Format(obs.LogFormat), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.runID = observability.NewRunID()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = observability.WithLogger(observability.WithRunID(ctx, a.runID), logger)
	a.log = observability.FromContext(ctx)
	cmd.SetContext(ctx)
	return nil
}
