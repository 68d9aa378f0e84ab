package main

import (
	"strings"

	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/spf13/cobra"
)

// manifestCompletions restricts tab completion of the manifest argument to
// files carrying the manifest extension.
func manifestCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// This completion function is for the first argument only.
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{strings.TrimPrefix(lib.ManifestExtension, ".")}, cobra.ShellCompDirectiveFilterFileExt
}
