package main

import "github.com/spf13/cobra"

// NewCompletionCommand creates the 'completion' command, which is a standard
// feature in Cobra applications to generate shell completion scripts.
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:

  To load completions for the current session, run:
  $ source <(shatool completion bash)

  To load completions for all new sessions, run once:
  # macOS (using Homebrew):
  $ shatool completion bash > $(brew --prefix)/etc/bash_completion.d/shatool
  # Linux:
  $ sudo shatool completion bash > /etc/bash_completion.d/shatool

Zsh:

  If shell completion is not already enabled in your environment,
  you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  To load completions for all new sessions, run once:
  $ shatool completion zsh > "${fpath[1]}/_shatool"

  You will need to start a new shell for this setup to take effect.

Fish:

  To load completions for the current session, run:
  $ shatool completion fish | source

  To load completions for all new sessions, run once:
  $ shatool completion fish > ~/.config/fish/completions/shatool.fish

Powershell:

  To load completions for the current session, run:
  PS> shatool completion powershell | Out-String | Invoke-Expression

  To load completions for all new sessions, add the following
  to your PowerShell profile file:
  PS> Invoke-Expression (& shatool completion powershell | Out-String)

  If the profile file doesn't exist, you can create it by running:
  PS> New-Item -Path $PROFILE -Type File -Force
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  withUsage(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
