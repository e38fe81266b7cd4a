package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeforest/pkg/repository"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse, select and move nodes interactively",
		Long: `Open an interactive tree browser.

Select sibling nodes with space, press m and pick a new parent with enter
(or R for the root level). Moves use the same validation as the API.
Selection and expansion are saved in the session store. With the file
backend, external edits reload the view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sel, closeSel, err := c.openSelection(ctx)
			if err != nil {
				return err
			}
			defer closeSel()

			p := tea.NewProgram(NewBrowseModel(ctx, a.svc, sel), tea.WithAltScreen(), tea.WithContext(ctx))

			if w, ok := a.repo.(repository.Watcher); ok {
				wctx, cancel := context.WithCancel(ctx)
				defer cancel()
				go func() {
					if err := w.Watch(wctx, func() { p.Send(reloadMsg{}) }); err != nil {
						c.Logger.Debug("file watching disabled", "error", err)
					}
				}()
			}

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run browser: %w", err)
			}
			return nil
		},
	}
}
