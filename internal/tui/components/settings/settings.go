package settings

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daycounter/internal/models"
)

type EditSettingsMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(26)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			MarginTop(2)
)

type Model struct {
	settings models.Settings
	edit     key.Binding
	width    int
}

func New(settings models.Settings, width int) Model {
	return Model{
		settings: settings,
		edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit settings")),
		width:    width,
	}
}

func (m *Model) SetSettings(settings models.Settings) {
	m.settings = settings
}

func (m *Model) SetWidth(width int) {
	m.width = width
}

func (m Model) EditKey() key.Binding {
	return m.edit
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.edit) {
		return m, func() tea.Msg { return EditSettingsMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	fun := models.FormatFunNumbers(m.settings.FunNumbers)
	if fun == "" {
		fun = "(none)"
	}

	row := func(label string, value any) string {
		return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(fmt.Sprint(value)))
	}

	funStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	if m.width > 30 {
		funStyle = funStyle.Width(m.width - 30)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Milestone Notifications"),
		row("Every 100 days:", m.settings.Notify100),
		row("Every 1000 days:", m.settings.Notify1000),
		row("Fun numbers:", m.settings.NotifyFun),
		"",
		labelStyle.Render("Fun number list:"),
		funStyle.Render(fun),
		hintStyle.Render("Press 'e' to edit settings"),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}
