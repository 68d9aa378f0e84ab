package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/gingerrexayers/shatool-go/internal/shatool/types"
	"github.com/spf13/cobra"
)

// appState is shared by all subcommands and filled in before any of them run.
type appState struct {
	configDir string
	verbose   bool
	config    types.Config
	logger    *slog.Logger
}

// withUsage marks argument validation failures as usage errors.
func withUsage(args cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := args(cmd, a); err != nil {
			return fmt.Errorf("%v: %w", err, lib.ErrUsage)
		}
		return nil
	}
}

// NewRootCommand builds the shatool command tree.
func NewRootCommand() *cobra.Command {
	app := &appState{}

	rootCmd := &cobra.Command{
		Use:           "shatool",
		Short:         "Streaming SHA-256 checksums with reference verification.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if app.verbose {
				level = slog.LevelDebug
			}
			app.logger = lib.NewLogger(cmd.ErrOrStderr(), level)

			cfg, err := lib.LoadConfig(app.configDir)
			if err != nil {
				return err
			}
			app.config = cfg
			app.logger.Debug("configuration loaded", "dir", app.configDir, "workers", cfg.Workers, "reference", cfg.Reference)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log diagnostic detail to stderr")
	rootCmd.PersistentFlags().StringVar(&app.configDir, "config-dir", ".", "Directory containing "+lib.ConfigFilename)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%v: %w", err, lib.ErrUsage)
	})

	// Add commands
	rootCmd.AddCommand(NewSumCommand(app))
	rootCmd.AddCommand(NewCheckCommand(app))
	rootCmd.AddCommand(NewVerifyCommand(app))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shatool:", err)
		stop()
		os.Exit(lib.ExitCode(err))
	}
}
