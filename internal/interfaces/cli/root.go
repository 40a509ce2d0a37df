// Package cli implements the agrimat command line tool: catalog browsing,
// material comparison, exports, performance prediction and the API server.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/AgriMat-Platform/internal/config"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/platform"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputText  = "text"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	NoColor      bool
	Timeout      time.Duration
}

// CLIContext carries the loaded configuration and the lazily built platform
// through the command tree.
type CLIContext struct {
	Config       *config.Config
	ConfigPath   string
	Logger       logging.Logger
	OutputFormat string
	Timeout      time.Duration

	buildOpts []platform.Option
	platform  *platform.Platform
}

// Platform builds the offline platform on first use. Commands other than
// serve never touch redis, minio or kafka.
func (c *CLIContext) Platform(ctx context.Context) (*platform.Platform, error) {
	if c.platform != nil {
		return c.platform, nil
	}
	opts := append([]platform.Option{platform.WithOffline()}, c.buildOpts...)
	p, err := platform.Build(ctx, c.Config, c.Logger, opts...)
	if err != nil {
		return nil, err
	}
	c.platform = p
	return p, nil
}

func (c *CLIContext) close() {
	if c.platform != nil {
		_ = c.platform.Close()
		c.platform = nil
	}
}

// NewRootCommand creates the root command with every subcommand registered.
// opts are passed to platform.Build, which lets tests swap the estimator.
func NewRootCommand(opts ...platform.Option) *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "agrimat",
		Short:   "Agricultural machinery material catalog and comparison tool",
		Long:    "agrimat browses the agricultural machinery material catalog, compares materials\nside by side, exports data sheets and serves the HTTP API.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", platform.Version, platform.GitCommit, platform.BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, ro, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cliCtx, err := GetCLIContext(cmd); err == nil {
				cliCtx.close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&ro.ConfigPath, "config", "c", "", "config file path (default: AGRIMAT_* environment and built-in defaults)")
	pf.StringVar(&ro.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&ro.OutputFormat, "output", "o", OutputTable, "output format (table, json, text)")
	pf.BoolVar(&ro.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&ro.Timeout, "timeout", 30*time.Second, "global operation timeout")

	cmd.AddCommand(
		NewMaterialsCmd(),
		NewCompareCmd(),
		NewEquipmentCmd(),
		NewPartsCmd(),
		NewExperimentsCmd(),
		NewPredictCmd(),
		NewServeCmd(),
	)
	return cmd
}

// persistentPreRun loads config and logger, then stores the CLIContext.
func persistentPreRun(cmd *cobra.Command, ro *RootOptions, opts []platform.Option) error {
	switch strings.ToLower(ro.OutputFormat) {
	case OutputTable, OutputJSON, OutputText:
	default:
		return errors.InvalidParam("invalid output format").WithDetail(ro.OutputFormat + " (must be table|json|text)")
	}
	if ro.NoColor {
		color.NoColor = true
	}

	cfg, err := config.LoadOrDefault(ro.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(ro)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		ConfigPath:   ro.ConfigPath,
		Logger:       logger,
		OutputFormat: strings.ToLower(ro.OutputFormat),
		Timeout:      ro.Timeout,
		buildOpts:    opts,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initLogger creates a console logger on stderr so stdout stays parseable.
func initLogger(ro *RootOptions) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:            strings.ToLower(ro.LogLevel),
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// withPlatform resolves the CLIContext and platform and runs fn under the
// global timeout.
func withPlatform(cmd *cobra.Command, fn func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if cliCtx.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cliCtx.Timeout)
		defer cancel()
	}
	p, err := cliCtx.Platform(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, cliCtx, p)
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("OK:"), msg)
}

// exitCode maps an error to a process exit status: 2 for invalid input,
// 3 for unknown records, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsValidation(err), errors.IsInvalidSelection(err):
		return 2
	case errors.IsNotFound(err):
		return 3
	default:
		return 1
	}
}

// Main runs the CLI and exits the process with the mapped status.
func Main() {
	if err := Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
