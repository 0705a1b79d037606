package tui

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daycounter/internal/constants"
	apperrors "github.com/julianstephens/daycounter/internal/errors"
	"github.com/julianstephens/daycounter/internal/models"
	"github.com/julianstephens/daycounter/internal/notifier"
	"github.com/julianstephens/daycounter/internal/storage"
	"github.com/julianstephens/daycounter/internal/tracker"
	"github.com/julianstephens/daycounter/internal/tui/components/entries"
	"github.com/julianstephens/daycounter/internal/tui/components/settings"
)

// TickMsg drives the once-per-second refresh.
type TickMsg time.Time

type statusKind int

const (
	statusInfo statusKind = iota
	statusError
	statusCelebrate
)

type Model struct {
	store   storage.Provider
	tracker *tracker.Tracker
	now     func() time.Time

	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	entries  entries.Model
	settings settings.Model

	form         *huh.Form
	entryForm    *EntryFormModel
	settingsForm *SettingsFormModel
	formError    string
	editingID    string

	deleteID    string
	deleteTitle string

	status     string
	statusKind statusKind

	quitting bool
	width    int
	height   int
}

// NewModel builds the dashboard over an already loaded store. Milestones
// reached while the dashboard is open are sent through sender.
func NewModel(store storage.Provider, sender notifier.Sender) Model {
	m := Model{
		store:    store,
		tracker:  tracker.New(store, sender),
		now:      time.Now,
		state:    constants.StateEntries,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		entries:  entries.New(0, 10),
		settings: settings.New(models.DefaultSettings(), 0),
	}

	if s, err := store.GetSettings(); err == nil {
		m.settings.SetSettings(s)
	}
	if err := m.refresh(m.now()); err != nil {
		m.setError(err)
		return m
	}

	m.setStatus(fmt.Sprintf("Loaded %d entries. Data: %s", m.entries.Len(), store.GetConfigPath()))
	return m
}

func tick() tea.Cmd {
	return tea.Tick(constants.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// refresh recomputes the table rows at now.
func (m *Model) refresh(now time.Time) error {
	rows, err := m.tracker.Rows(now)
	if err != nil {
		return err
	}
	m.entries.SetRows(rows)
	return nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusKind = statusInfo
}

func (m *Model) setError(err error) {
	m.status = fmt.Sprintf("Error: %v", err)
	if hint := apperrors.Hint(err); hint != "" {
		m.status += " (" + hint + ")"
	}
	m.statusKind = statusError
}

func (m *Model) celebrate(fired []tracker.Fired) {
	if len(fired) == 0 {
		return
	}
	f := fired[len(fired)-1]
	m.status = fmt.Sprintf("%s reached %d days!", f.Entry.Title, slices.Max(f.Days))
	if len(fired) > 1 {
		m.status += fmt.Sprintf(" (+%d more)", len(fired)-1)
	}
	m.statusKind = statusCelebrate
}

// inForm reports whether a huh form currently owns the keyboard.
func (m Model) inForm() bool {
	switch m.state {
	case constants.StateAddEntry, constants.StateEditEntry, constants.StateEditSettings:
		return true
	}
	return false
}
