package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
	"github.com/matzehuels/nodeforest/pkg/forest"
	"github.com/matzehuels/nodeforest/pkg/service"
	"github.com/matzehuels/nodeforest/pkg/session"
)

// List styles
var (
	listCursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listSelectedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowseModel - Interactive forest browser
// =============================================================================

// reloadMsg asks the browser to re-read the node list, as after an
// external change to the repository.
type reloadMsg struct{}

// BrowseModel is the bubbletea model for browsing, selecting and moving
// nodes. All reads and moves go through the service; selection and
// expansion go through the session.
type BrowseModel struct {
	ctx context.Context
	svc *service.Service
	sel *session.Selection

	nodes []forest.Node
	rows  []*forest.TreeNode

	Cursor int
	Height int
	Offset int

	// Moving is set while the user picks a target for the selection.
	Moving bool

	Status    string
	StatusErr bool
}

// NewBrowseModel creates a browser and loads the node list.
func NewBrowseModel(ctx context.Context, svc *service.Service, sel *session.Selection) BrowseModel {
	m := BrowseModel{ctx: ctx, svc: svc, sel: sel, Height: 20}
	m.reload()
	return m
}

// Rows returns the visible nodes in display order.
func (m BrowseModel) Rows() []*forest.TreeNode { return m.rows }

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reloadMsg:
		m.reload()
		m.setStatus("Reloaded after an external change", false)
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 7
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	case tea.KeyMsg:
		if m.Moving {
			return m.updateMoving(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m BrowseModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case " ", "x":
		if n := m.current(); n != nil {
			m.check(m.sel.Toggle(m.ctx, m.nodes, n.ID))
		}
	case "enter", "tab":
		if n := m.current(); n != nil && len(n.Children) > 0 {
			m.check(m.sel.ToggleExpanded(m.ctx, n.ID))
			m.refreshRows()
		}
	case "right", "l":
		if n := m.current(); n != nil && len(n.Children) > 0 && !m.sel.IsExpanded(n.ID) {
			m.check(m.sel.ToggleExpanded(m.ctx, n.ID))
			m.refreshRows()
		}
	case "left", "h":
		m.collapseOrParent()
	case "c":
		m.check(m.sel.Clear(m.ctx))
		m.setStatus("Selection cleared", false)
	case "r":
		m.reload()
		m.setStatus("Reloaded", false)
	case "m":
		if len(m.sel.Selected()) == 0 {
			m.setStatus("Select nodes with space before moving", true)
			break
		}
		m.Moving = true
		m.setStatus(fmt.Sprintf("Moving %s: pick a new parent", plural(len(m.sel.Selected()), "node")), false)
	}
	return m, nil
}

func (m BrowseModel) updateMoving(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q":
		m.Moving = false
		m.setStatus("Move cancelled", false)
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		if n := m.current(); n != nil {
			m.moveSelection(forest.Ref(n.ID))
		}
	case "R", "0":
		m.moveSelection(nil)
	}
	return m, nil
}

// moveSelection moves the selected nodes under target. On success the
// selection is cleared, the target expanded and the list reloaded; on
// failure the validator's message is shown and nothing changes.
func (m *BrowseModel) moveSelection(target *int64) {
	ids := m.sel.Selected()
	res, err := m.svc.Move(m.ctx, service.MoveRequest{NodeIDs: ids, TargetParentID: target})
	m.Moving = false
	if err != nil {
		m.setStatus(nferrors.UserMessage(err), true)
		return
	}

	m.check(m.sel.Clear(m.ctx))
	if target != nil && !m.sel.IsExpanded(*target) {
		m.check(m.sel.ToggleExpanded(m.ctx, *target))
	}
	m.reload()
	m.setStatus(fmt.Sprintf("Moved %s under %s", plural(len(res.Moved), "node"), forest.FormatParent(target)), false)
}

func (m *BrowseModel) collapseOrParent() {
	n := m.current()
	if n == nil {
		return
	}
	if m.sel.IsExpanded(n.ID) {
		m.check(m.sel.ToggleExpanded(m.ctx, n.ID))
		m.refreshRows()
		return
	}
	parent, ok := forest.LookupParentID(m.nodes, n.ID)
	if !ok || parent == nil {
		return
	}
	for i, r := range m.rows {
		if r.ID == *parent {
			m.Cursor = i
			m.scroll()
			return
		}
	}
}

// reload re-reads the node list and drops session ids that vanished.
func (m *BrowseModel) reload() {
	nodes, err := m.svc.Nodes(m.ctx)
	if err != nil {
		m.setStatus(nferrors.UserMessage(err), true)
		return
	}
	m.nodes = nodes
	m.check(m.sel.Prune(m.ctx, nodes))
	m.refreshRows()
}

// refreshRows recomputes the visible rows, keeping the cursor on the same
// node when it is still visible.
func (m *BrowseModel) refreshRows() {
	var keep int64 = -1
	if n := m.current(); n != nil {
		keep = n.ID
	}

	var rows []*forest.TreeNode
	forest.Walk(forest.BuildForest(m.nodes), func(n *forest.TreeNode) bool {
		rows = append(rows, n)
		return m.sel.IsExpanded(n.ID)
	})
	m.rows = rows

	m.Cursor = min(m.Cursor, max(len(m.rows)-1, 0))
	for i, r := range m.rows {
		if r.ID == keep {
			m.Cursor = i
			break
		}
	}
	m.scroll()
}

func (m *BrowseModel) current() *forest.TreeNode {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.Cursor]
}

func (m *BrowseModel) move(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.rows) {
		return
	}
	m.Cursor = next
	m.scroll()
}

func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *BrowseModel) check(err error) {
	if err != nil {
		m.setStatus(err.Error(), true)
	}
}

func (m *BrowseModel) setStatus(s string, isErr bool) {
	m.Status, m.StatusErr = s, isErr
}

func (m BrowseModel) View() string {
	var b strings.Builder

	if m.Moving {
		b.WriteString(StyleTitle.Render("Pick New Parent"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ move here  R move to root  esc cancel"))
	} else {
		b.WriteString(StyleTitle.Render("Node Forest"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ fold  space select  m move  c clear  r reload  q quit"))
	}
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (no nodes)"))
		b.WriteString("\n")
	}

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Status != "" {
		if m.StatusErr {
			b.WriteString(StyleError.Render(iconError + " " + m.Status))
		} else {
			b.WriteString(StyleSuccess.Render(m.Status))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.rows), len(m.sel.Selected()))))

	return b.String()
}

func (m BrowseModel) renderRow(i int) string {
	n := m.rows[i]

	cursor := "  "
	if i == m.Cursor {
		cursor = "▸ "
	}
	fold := "  "
	if len(n.Children) > 0 {
		fold = "+ "
		if m.sel.IsExpanded(n.ID) {
			fold = "- "
		}
	}
	box := "[ ]"
	if m.sel.IsSelected(n.ID) {
		box = "[x]"
	}

	line := fmt.Sprintf("%s%s%s%s %s", cursor, strings.Repeat("  ", n.Depth-1), fold, box, n.Name)
	id := listDimStyle.Render(fmt.Sprintf(" #%d", n.ID))

	switch {
	case i == m.Cursor:
		return listCursorStyle.Render(line) + id
	case m.sel.IsSelected(n.ID):
		return listSelectedStyle.Render(line) + id
	default:
		return listNormalStyle.Render(line) + id
	}
}
