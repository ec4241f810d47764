package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand writes shell completion scripts to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for taxmagick.

  bash:        source <(taxmagick completion bash)
  zsh:         taxmagick completion zsh > "${fpath[1]}/_taxmagick"
  fish:        taxmagick completion fish > ~/.config/fish/completions/taxmagick.fish
  powershell:  taxmagick completion powershell | Out-String | Invoke-Expression

Tax ids are not completed; --format values are.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
