package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeforest/pkg/forest"
	"github.com/matzehuels/nodeforest/pkg/render"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var flat, asJSON, collapse bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the node forest",
		Long: `Print the node forest as a terminal tree.

Selected nodes from the saved session are marked with a bullet. With
--collapse, only expanded nodes show their children. --json prints the
same JSON as GET /nodes.`,
		Example: `  nodeforest tree
  nodeforest tree --flat
  nodeforest tree --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if asJSON {
				v, err := a.svc.Query(ctx, flat)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}

			nodes, err := a.svc.Nodes(ctx)
			if err != nil {
				return err
			}
			if flat {
				printNodeTable(out, nodes)
				return nil
			}

			opts := render.Options{Collapse: collapse}
			if sel, closeSel, err := c.openSelection(ctx); err != nil {
				c.Logger.Debug("showing tree without session state", "error", err)
			} else {
				defer closeSel()
				opts.Selected, opts.Expanded = sel.Selected(), sel.Expanded()
			}
			fmt.Fprintln(out, render.Tree(forest.BuildForest(nodes), opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, "print the flat node list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON in the GET /nodes shape")
	cmd.Flags().BoolVar(&collapse, "collapse", false, "hide children of nodes that are not expanded")

	return cmd
}

func printNodeTable(w io.Writer, nodes []forest.Node) {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{fmt.Sprint(n.ID), n.Name, forest.FormatParent(n.ParentID)}
	}
	printTable(w, []string{"ID", "Name", "Parent"}, rows)
}
