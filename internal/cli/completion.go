package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand prints shell completion scripts. Station arguments of
// route and render route complete to the codes of the configured dataset.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for meteo.

Station codes complete from the dataset selected by --data, --data-url,
--dataset or the config file, with the station name as description:

  $ meteo route KS<TAB>
  KSHG  -- Kashmere Gate

Load completions for the current shell:

  Bash:        source <(meteo completion bash)
  Zsh:         source <(meteo completion zsh)
  Fish:        meteo completion fish | source
  PowerShell:  meteo completion powershell | Out-String | Invoke-Expression
`,
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

// completeStations completes FROM and TO with station codes. Completion
// requests skip the persistent pre-run, so the config is loaded here.
func (c *CLI) completeStations(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 2 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.setup(cmd, args); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := c.openSession(ctx, false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer s.Close()
	net, err := s.network(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	prefix := strings.ToUpper(toComplete)
	var out []string
	for _, n := range net.Nodes() {
		if !strings.HasPrefix(strings.ToUpper(n.Code), prefix) || slices.Contains(args, n.Code) {
			continue
		}
		out = append(out, fmt.Sprintf("%s\t%s", n.Code, n.Name))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
