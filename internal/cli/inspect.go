package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/patchwire/patchwire/pkg/flow"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command, an interactive browser for
// the nodes of a patch graph.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Browse the nodes of a patch graph interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := flow.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}

			model := NewNodeListModel(&g)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}

			if m, ok := final.(NodeListModel); ok && m.Selected != nil {
				printNewline()
				printNodeDetail(&g, m.Selected)
			}
			return nil
		},
	}
}

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// nodeRow is one entry in the node list, with fan-in/out precomputed.
type nodeRow struct {
	Node    *flow.Node
	Inputs  int
	Outputs int
}

// NodeListModel is the bubbletea model for browsing graph nodes.
type NodeListModel struct {
	Rows     []nodeRow
	Cursor   int
	Selected *flow.Node
	Height   int
	Offset   int
}

// NewNodeListModel builds the list model from a graph, sorted by node ID.
func NewNodeListModel(g *flow.Graph) NodeListModel {
	inDegree := make(map[string]int, g.NodeCount())
	outDegree := make(map[string]int, g.NodeCount())
	for _, e := range g.Edges {
		outDegree[e.From]++
		inDegree[e.To]++
	}

	rows := make([]nodeRow, 0, g.NodeCount())
	for i := range g.Nodes {
		n := &g.Nodes[i]
		rows = append(rows, nodeRow{
			Node:    n,
			Inputs:  inDegree[n.ID],
			Outputs: outDegree[n.ID],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Node.ID < rows[j].Node.ID })

	return NodeListModel{
		Rows:   rows,
		Height: 15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) > 0 {
				m.Selected = m.Rows[m.Cursor].Node
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Patch Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		pos := "—"
		if r.Node.Pos != nil {
			pos = fmt.Sprintf("%.0f, %.0f", r.Node.Pos.X, r.Node.Pos.Y)
		}

		rows = append(rows, []string{
			cursor,
			r.Node.ID,
			r.Node.DisplayLabel(),
			fmt.Sprintf("%d in / %d out", r.Inputs, r.Outputs),
			pos,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Ports", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// printNodeDetail prints a selected node's wiring.
func printNodeDetail(g *flow.Graph, n *flow.Node) {
	fmt.Println(StyleTitle.Render(n.DisplayLabel()))
	printDetail("ID: %s", n.ID)
	if n.Pos != nil {
		printDetail("Position: %.1f, %.1f", n.Pos.X, n.Pos.Y)
	}
	if n.Width > 0 || n.Height > 0 {
		printDetail("Size: %.0f × %.0f", n.Width, n.Height)
	}
	for _, e := range g.Edges {
		if e.To == n.ID {
			printDetail("%s %s", iconArrow, "from "+e.From)
		}
		if e.From == n.ID {
			printDetail("%s %s", iconArrow, "to "+e.To)
		}
	}
}
