package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// Options controls text tree rendering.
type Options struct {
	// Selected ids are marked with a bullet and highlighted.
	Selected []int64

	// Expanded ids are shown open when Collapse is set.
	Expanded []int64

	// Collapse hides the children of nodes that are not in Expanded and
	// adds fold markers to nodes that have children.
	Collapse bool

	// HideIDs drops the "#id" suffix from labels.
	HideIDs bool
}

const (
	markSelected  = "●"
	markExpanded  = "▾"
	markCollapsed = "▸"
)

var (
	styleSelected   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleID         = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleEnumerator = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Tree renders roots as a text tree. An empty forest renders as "(empty)".
func Tree(roots []*forest.TreeNode, opts Options) string {
	if len(roots) == 0 {
		return "(empty)"
	}

	selected := toSet(opts.Selected)
	expanded := toSet(opts.Expanded)

	var b strings.Builder
	for i, root := range roots {
		if i > 0 {
			b.WriteByte('\n')
		}
		t := build(root, opts, selected, expanded)
		b.WriteString(t.String())
	}
	return b.String()
}

func build(n *forest.TreeNode, opts Options, selected, expanded map[int64]bool) *tree.Tree {
	t := tree.Root(Label(n, opts, selected[n.ID], expanded[n.ID])).
		Enumerator(tree.DefaultEnumerator).
		EnumeratorStyle(styleEnumerator)
	if opts.Collapse && !expanded[n.ID] {
		return t
	}
	for _, c := range n.Children {
		if len(c.Children) == 0 {
			t.Child(Label(c, opts, selected[c.ID], expanded[c.ID]))
			continue
		}
		t.Child(build(c, opts, selected, expanded))
	}
	return t
}

// Label formats a single node line: fold marker, selection bullet, name
// and id.
func Label(n *forest.TreeNode, opts Options, isSelected, isExpanded bool) string {
	var parts []string
	if opts.Collapse && len(n.Children) > 0 {
		if isExpanded {
			parts = append(parts, markExpanded)
		} else {
			parts = append(parts, markCollapsed)
		}
	}

	name := n.Name
	if isSelected {
		name = styleSelected.Render(markSelected + " " + name)
	}
	parts = append(parts, name)

	if !opts.HideIDs {
		parts = append(parts, styleID.Render(fmt.Sprintf("#%d", n.ID)))
	}
	return strings.Join(parts, " ")
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
