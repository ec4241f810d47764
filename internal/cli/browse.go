package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command for interactive navigation.
func (c *CLI) browseCommand() *cobra.Command {
	var f dataFlags

	cmd := &cobra.Command{
		Use:   "browse [taxdump]",
		Short: "Navigate the taxonomy interactively",
		Long: `Open an interactive view of the taxonomy starting at --root. Each screen
lists the children of one taxon with their rank, tax id and number of
children; enter opens a child and backspace returns to the parent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.names = true
			return c.runBrowse(cmd.Context(), args, f)
		},
	}

	addDataFlags(cmd, &f, false)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, args []string, f dataFlags) error {
	ds, err := c.loadData(ctx, args, f, true)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewBrowseModel(ds.root), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
