package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeforest/pkg/forest"
	"github.com/matzehuels/nodeforest/pkg/service"
)

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	var to string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "move <id>... --to <id|root>",
		Short: "Move nodes under a new parent",
		Long: `Move one or more nodes under a new parent, or to the root level.

The batch is validated as a whole before anything changes: every node and
the target must exist, and no node may be moved under itself or one of its
descendants. Use --dry-run to validate without writing.`,
		Example: `  nodeforest move 3 --to 2
  nodeforest move 2,3 --to root
  nodeforest move 5 6 --to 4 --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := forest.ParseIDs(args)
			if err != nil {
				return err
			}
			target, err := forest.ParseParent(to)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			req := service.MoveRequest{NodeIDs: ids, TargetParentID: target}
			if dryRun {
				if err := a.svc.CanMove(ctx, req); err != nil {
					return err
				}
				printSuccess(out, "Move of %v under %s is valid", ids, forest.FormatParent(target))
				printDetail(out, "dry run, nothing was written")
				return nil
			}

			res, err := a.svc.Move(ctx, req)
			if err != nil {
				return err
			}
			printSuccess(out, "Moved %s under %s", plural(len(res.Moved), "node"), forest.FormatParent(target))
			printDetail(out, "ids: %v", res.Moved)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", `target parent id, or "root"`)
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only")

	return cmd
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
