package entries

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daycounter/internal/models"
	"github.com/julianstephens/daycounter/internal/tracker"
)

type AddEntryMsg struct{}

type EditEntryMsg struct {
	Entry models.Entry
}

type DeleteEntryMsg struct {
	Entry models.Entry
}

type ToggleEntryMsg struct {
	Entry models.Entry
}

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "enable/disable"),
		),
	}
}

var disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// Model is the entries table. Rows are kept in display order alongside the
// table so the cursor maps back to an entry.
type Model struct {
	table table.Model
	rows  []tracker.Row
	keys  KeyMap
}

func columns(width int) []table.Column {
	// Title takes whatever the fixed columns leave over
	fixed := []table.Column{
		{Title: "Start", Width: 16},
		{Title: "Elapsed", Width: 16},
		{Title: "Days", Width: 6},
		{Title: "Next Milestone", Width: 16},
	}
	titleWidth := 30
	if width > 0 {
		used := 0
		for _, c := range fixed {
			used += c.Width + 2
		}
		titleWidth = max(width-used-2, 12)
	}
	return append([]table.Column{{Title: "Title", Width: titleWidth}}, fixed...)
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(max(height, 5)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{table: t, keys: DefaultKeyMap()}
}

// SetRows replaces the table contents, keeping the cursor in range.
func (m *Model) SetRows(rows []tracker.Row) {
	m.rows = rows
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		title := r.Entry.Title
		if !r.Entry.Enabled {
			title = disabledStyle.Render(title + " (off)")
		}
		tableRows[i] = table.Row{title, r.Start, r.Elapsed, strconv.Itoa(r.Days), r.Next.String()}
	}
	m.table.SetRows(tableRows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Len returns the number of rows shown.
func (m Model) Len() int {
	return len(m.rows)
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (models.Entry, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return models.Entry{}, false
	}
	return m.rows[c].Entry, true
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddEntryMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditEntryMsg{Entry: e} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteEntryMsg{Entry: e} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleEntryMsg{Entry: e} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		return "\n  No entries yet.\n  Press 'a' to add one."
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetHeight(max(height, 5))
}
