package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the stored node list for structural problems",
		Long: `Check the stored node list for duplicate ids, parent cycles and dangling
parent references.

Duplicates and cycles make the command exit with status 1. Dangling
parents are reported as warnings; those nodes are shown as roots.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.svc.Check(ctx)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), r)
		},
	}
}

// printReport prints r and returns errCheckFailed when it is not OK.
func printReport(w io.Writer, r forest.Report) error {
	printTable(w, []string{"Check", "Result"}, [][]string{
		{"Nodes", fmt.Sprint(r.Nodes)},
		{"Roots", fmt.Sprint(r.Roots)},
		{"Max depth", fmt.Sprint(r.MaxDepth)},
		{"Duplicate ids", idList(r.Duplicates)},
		{"Dangling parents", idList(r.Dangling)},
		{"On a cycle", idList(r.Cyclic)},
	})

	if len(r.Dangling) > 0 {
		printWarning(w, "%s point at missing parents and are shown as roots", plural(len(r.Dangling), "node"))
	}
	if !r.OK() {
		printError(w, "Node list is inconsistent")
		return errCheckFailed
	}
	printSuccess(w, "Node list is consistent")
	return nil
}

func idList(ids []int64) string {
	if len(ids) == 0 {
		return "none"
	}
	return fmt.Sprint(ids)
}
