package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/savedump/schema"
	"github.com/wippyai/savedump/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	memberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

type browserModel struct {
	schema   *schema.Table
	root     string
	table    table.Model
	expanded bool
}

func newBrowserModel(s *schema.Table, root string) *browserModel {
	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Name", Width: 24},
		{Title: "Kind", Width: 8},
		{Title: "Size", Width: 6},
		{Title: "Layout", Width: 32},
	}

	rows := make([]table.Row, 0, s.Len())
	for id, t := range s.Types() {
		rows = append(rows, table.Row{
			strconv.Itoa(id),
			t.Name(),
			t.Kind().String(),
			strconv.Itoa(t.Size()),
			t.Describe(),
		})
	}

	height := min(max(len(rows), 1), 12)
	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Bold(false)
	tbl.SetStyles(styles)

	return &browserModel{schema: s, root: root, table: tbl}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			m.expanded = !m.expanded
			return m, nil
		case "esc":
			m.expanded = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// selected returns the descriptor under the cursor.
func (m *browserModel) selected() (*types.Type, bool) {
	return m.schema.Lookup(int32(m.table.Cursor()))
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Schema"))
	b.WriteString(" ")
	b.WriteString(m.root)
	b.WriteString(fmt.Sprintf(" (%d types)\n\n", m.schema.Len()))
	b.WriteString(baseStyle.Render(m.table.View()))
	b.WriteString("\n")

	if t, ok := m.selected(); ok && m.expanded {
		b.WriteString("\n")
		b.WriteString(m.formatType(t))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter details • q quit"))
	return b.String()
}

func (m *browserModel) formatType(t *types.Type) string {
	var b strings.Builder
	switch t.Kind() {
	case types.KindStruct:
		if t.NumMembers() == 0 {
			b.WriteString("  no members\n")
		}
		for _, mem := range t.Members() {
			b.WriteString(fmt.Sprintf("  +%-4d %s %s\n",
				mem.Offset, memberStyle.Render(mem.Name), typeStyle.Render(mem.Type.Name())))
		}
	case types.KindArray:
		b.WriteString(fmt.Sprintf("  %d x %s\n", t.Len(), typeStyle.Render(t.Elem().Name())))
	case types.KindPointer:
		b.WriteString(fmt.Sprintf("  -> %s\n", typeStyle.Render(t.Elem().Name())))
	default:
		b.WriteString(fmt.Sprintf("  %s, %d bytes\n", typeStyle.Render(t.Kind().String()), t.Size()))
	}
	return b.String()
}

func runInteractive(s *schema.Table, root string) error {
	p := tea.NewProgram(newBrowserModel(s, root), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
