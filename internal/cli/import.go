package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeforest/pkg/forest"
	nfio "github.com/matzehuels/nodeforest/pkg/io"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored node list with a JSON or YAML file",
		Long: `Replace the stored node list with the contents of a JSON or YAML file.

The file is rejected when it has blank names, duplicate ids or parent
cycles. Dangling parents are accepted. Selected or expanded nodes that no
longer exist are dropped from the saved session.`,
		Example: `  nodeforest import facility.yaml
  nodeforest export -o backup.json && nodeforest import backup.json --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := nfio.Import(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				return printReport(out, forest.Inspect(nodes))
			}

			ctx := cmd.Context()
			a, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.Replace(ctx, nodes); err != nil {
				return err
			}
			if sel, closeSel, err := c.openSelection(ctx); err == nil {
				if err := sel.Prune(ctx, nodes); err != nil {
					c.Logger.Warn("could not prune session state", "error", err)
				}
				closeSel()
			}

			printSuccess(out, "Imported %s", plural(len(nodes), "node"))
			printFile(out, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and report without writing")

	return cmd
}
