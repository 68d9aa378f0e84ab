package main

import (
	"fmt"

	"github.com/gingerrexayers/shatool-go/internal/shatool/commands"
	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/spf13/cobra"
)

// NewVerifyCommand creates the 'verify' command for the CLI.
func NewVerifyCommand(app *appState) *cobra.Command {
	var opts commands.VerifyOptions

	cmd := &cobra.Command{
		Use:   "verify [text]",
		Short: "Cross-check the engine against an external SHA-256 tool.",
		Long: `Hashes the text argument (or --file) with the built-in engine and with the
reference hasher (openssl dgst -sha256 unless configured otherwise), then
reports MATCH, MISMATCH or UNAVAILABLE. The input is passed to the reference
tool on stdin, so no shell quoting is involved.`,
		Args: withUsage(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) > 0 {
				text = args[0]
			}
			if len(args) > 0 && opts.File != "" {
				return fmt.Errorf("verify takes either a text argument or --file, not both: %w", lib.ErrUsage)
			}
			if len(opts.Reference) == 0 {
				opts.Reference = app.config.Reference
			}
			opts.Logger = app.logger

			_, err := commands.Verify(cmd.Context(), cmd.OutOrStdout(), text, opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Verify the contents of this file instead of text")
	cmd.Flags().StringArrayVar(&opts.Reference, "reference", nil, "Reference command and arguments (repeat per argument)")

	return cmd
}
