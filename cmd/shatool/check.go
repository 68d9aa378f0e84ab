package main

import (
	"github.com/gingerrexayers/shatool-go/internal/shatool/commands"
	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the 'check' command for the CLI.
func NewCheckCommand(app *appState) *cobra.Command {
	var opts commands.CheckOptions
	var decompress string

	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "Verify files against a checksum manifest.",
		Long: `Reads "<digest>  <path>" lines, re-hashes every listed file and reports
OK, FAILED or MISSING for each. Exits non-zero if any file does not match.`,
		Args:              withUsage(cobra.ExactArgs(1)),
		ValidArgsFunction: manifestCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				opts.Workers = app.config.Workers
			}
			if !cmd.Flags().Changed("decompress") {
				decompress = app.config.Decompress
			}
			mode, err := lib.ParseDecompressMode(decompress)
			if err != nil {
				return err
			}
			opts.Decompress = mode
			opts.Logger = app.logger

			_, err = commands.Check(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.BaseDir, "base-dir", "C", "", "Resolve relative manifest paths against this directory")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only print files that fail")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "Number of files hashed in parallel")
	cmd.Flags().StringVar(&decompress, "decompress", "none", "Decode input first: none, auto, gzip, zstd or lz4")

	return cmd
}
