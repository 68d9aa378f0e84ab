package main

import (
	"github.com/gingerrexayers/shatool-go/internal/shatool/commands"
	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/spf13/cobra"
)

// NewSumCommand creates the 'sum' command for the CLI.
func NewSumCommand(app *appState) *cobra.Command {
	var opts commands.SumOptions
	var decompress string

	cmd := &cobra.Command{
		Use:   "sum [file|directory|-]...",
		Short: "Print SHA-256 checksums of files, text or stdin.",
		Long: `Computes SHA-256 checksums with the built-in streaming engine and prints
one "<digest>  <name>" line per input. With no arguments, standard input is
hashed. Directories are hashed with --recursive, honouring .shatoolignore.`,
		Args: withUsage(cobra.ArbitraryArgs),
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
			opts.Stdin = cmd.InOrStdin()
			opts.Logger = app.logger

			_, err = commands.Sum(cmd.Context(), cmd.OutOrStdout(), args, opts)
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Texts, "string", "s", nil, "Hash a literal string (repeatable)")
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "Hash every file below directory arguments")
	cmd.Flags().BoolVar(&opts.Chunks, "chunks", false, "Also print content-defined chunk digests")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "Number of files hashed in parallel")
	cmd.Flags().StringVar(&decompress, "decompress", "none", "Decode input first: none, auto, gzip, zstd or lz4")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write a manifest of the file arguments to this file (not with --string or stdin)")

	return cmd
}
