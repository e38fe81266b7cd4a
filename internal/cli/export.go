package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeforest/pkg/forest"
	nfio "github.com/matzehuels/nodeforest/pkg/io"
	"github.com/matzehuels/nodeforest/pkg/render/nodelink"
)

// Export formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
)

var exportFormats = []string{formatJSON, formatYAML, formatDOT, formatSVG, formatPNG}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var format, output string
	var detailed, highlight bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the node list or a diagram of it",
		Long: `Export the node list as JSON or YAML, or the forest as a Graphviz diagram
(DOT source, SVG or PNG).

The format defaults to the extension of --output, or json when writing to
stdout. PNG output needs --output.`,
		Example: `  nodeforest export -o nodes.yaml
  nodeforest export --format dot | dot -Tpdf > forest.pdf
  nodeforest export -o forest.svg --detailed --highlight-selection`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveExportFormat(format, output)
			if err != nil {
				return err
			}
			if format == formatPNG && output == "" {
				return fmt.Errorf("png output needs --output")
			}

			ctx := cmd.Context()
			a, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			nodes, err := a.svc.Nodes(ctx)
			if err != nil {
				return err
			}

			opts := nodelink.Options{Detailed: detailed}
			if highlight {
				if sel, closeSel, err := c.openSelection(ctx); err == nil {
					opts.Highlight = sel.Selected()
					closeSel()
				} else {
					c.Logger.Warn("cannot highlight selection", "error", err)
				}
			}

			prog := newProgress(c.Logger)
			data, err := encodeNodes(ctx, nodes, format, opts)
			if err != nil {
				return err
			}
			prog.done("encoded nodes", "format", format, "nodes", len(nodes))

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(cmd.OutOrStdout(), "Exported %s as %s", plural(len(nodes), "node"), format)
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", fmt.Sprintf("output format %v", exportFormats))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include ids and depths in diagram labels")
	cmd.Flags().BoolVar(&highlight, "highlight-selection", false, "highlight the saved selection in diagrams")

	return cmd
}

// resolveExportFormat picks the explicit format, else the one implied by the
// output extension, else json.
func resolveExportFormat(format, output string) (string, error) {
	if format != "" {
		format = strings.ToLower(format)
		if format == "yml" {
			format = formatYAML
		}
		if !slices.Contains(exportFormats, format) {
			return "", fmt.Errorf("unknown format %q (want one of %v)", format, exportFormats)
		}
		return format, nil
	}
	if output == "" {
		return formatJSON, nil
	}

	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".dot", ".gv":
		return formatDOT, nil
	case ".svg":
		return formatSVG, nil
	case ".png":
		return formatPNG, nil
	default:
		return "", fmt.Errorf("cannot infer format from %q; pass --format", output)
	}
}

func encodeNodes(ctx context.Context, nodes []forest.Node, format string, opts nodelink.Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case formatJSON:
		if err := nfio.WriteJSON(nodes, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatYAML:
		if err := nfio.WriteYAML(nodes, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(forest.BuildForest(nodes), opts)
	switch format {
	case formatSVG:
		return renderWithSpinner(ctx, "Rendering SVG...", func() ([]byte, error) { return nodelink.RenderSVG(ctx, dot) })
	case formatPNG:
		return renderWithSpinner(ctx, "Rendering PNG...", func() ([]byte, error) { return nodelink.RenderPNG(ctx, dot) })
	default:
		return []byte(dot), nil
	}
}
