package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeforest/pkg/config"
	"github.com/matzehuels/nodeforest/pkg/forest"
	"github.com/matzehuels/nodeforest/pkg/session"
)

// stateCommand creates the state command group.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage the saved selection and expansion state",
	}

	cmd.AddCommand(c.stateShowCommand())
	cmd.AddCommand(c.stateSelectCommand())
	cmd.AddCommand(c.stateClearCommand())
	cmd.AddCommand(c.statePathCommand())

	return cmd
}

// withSelection opens the app and the selection and runs fn with both.
func (c *CLI) withSelection(ctx context.Context, fn func(a *app, sel *session.Selection, nodes []forest.Node) error) error {
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

	nodes, err := a.svc.Nodes(ctx)
	if err != nil {
		return err
	}
	return fn(a, sel, nodes)
}

// stateShowCommand creates the "state show" subcommand.
func (c *CLI) stateShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show selected and expanded nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSelection(cmd.Context(), func(a *app, sel *session.Selection, nodes []forest.Node) error {
				printState(cmd.OutOrStdout(), sel, nodes)
				return nil
			})
		},
	}
}

// stateSelectCommand creates the "state select" subcommand.
func (c *CLI) stateSelectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>...",
		Short: "Replace the selection; all ids must share one parent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := forest.ParseIDs(args)
			if err != nil {
				return err
			}
			return c.withSelection(cmd.Context(), func(a *app, sel *session.Selection, nodes []forest.Node) error {
				for _, id := range ids {
					if _, ok := forest.FindNode(nodes, id); !ok {
						return fmt.Errorf("node %d not found", id)
					}
				}
				if err := sel.SetSelected(cmd.Context(), nodes, ids); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Selected %s", plural(len(ids), "node"))
				return nil
			})
		},
	}
}

// stateClearCommand creates the "state clear" subcommand.
func (c *CLI) stateClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the selection and collapse every node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sel, closeSel, err := c.openSelection(ctx)
			if err != nil {
				return err
			}
			defer closeSel()

			if err := errors.Join(sel.Clear(ctx), sel.SetExpanded(ctx, []int64{})); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Cleared session state")
			return nil
		},
	}
}

// statePathCommand creates the "state path" subcommand.
func (c *CLI) statePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the session state is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := c.cfg.Session
			out := cmd.OutOrStdout()
			switch sc.Backend {
			case config.SessionMemory:
				return fmt.Errorf("session state is kept in memory")
			case config.SessionRedis:
				key := sc.RedisKey
				if key == "" {
					key = session.DefaultRedisKey
				}
				fmt.Fprintf(out, "redis://%s/%d %s\n", c.cfg.Storage.Redis.Addr, c.cfg.Storage.Redis.DB, key)
				return nil
			}
			path := sc.Path
			if path == "" {
				p, err := session.DefaultStatePath()
				if err != nil {
					return fmt.Errorf("get state path: %w", err)
				}
				path = p
			}
			fmt.Fprintln(out, path)
			return nil
		},
	}
}

func printState(w io.Writer, sel *session.Selection, nodes []forest.Node) {
	st := sel.State()
	if len(st.SelectedIDs) == 0 && len(st.ExpandedIDs) == 0 {
		printInfo(w, "Nothing selected or expanded")
		return
	}

	var rows [][]string
	for _, id := range st.SelectedIDs {
		rows = append(rows, []string{"selected", fmt.Sprint(id), nodeName(nodes, id)})
	}
	for _, id := range st.ExpandedIDs {
		rows = append(rows, []string{"expanded", fmt.Sprint(id), nodeName(nodes, id)})
	}
	printTable(w, []string{"State", "ID", "Name"}, rows)

	if parent, ok := sel.ParentID(nodes); ok {
		level := "root"
		if parent != nil {
			level = fmt.Sprintf("children of %d", *parent)
		}
		printKeyValue(w, "Level", level)
	}
	if !sel.Valid(nodes) {
		printWarning(w, "selection spans several levels; select again before moving")
	}
}

func nodeName(nodes []forest.Node, id int64) string {
	if n, ok := forest.FindNode(nodes, id); ok {
		return n.Name
	}
	return "(missing)"
}
