package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daycounter/internal/constants"
	apperrors "github.com/julianstephens/daycounter/internal/errors"
	"github.com/julianstephens/daycounter/internal/logger"
	"github.com/julianstephens/daycounter/internal/models"
	"github.com/julianstephens/daycounter/internal/tui/components/entries"
	"github.com/julianstephens/daycounter/internal/tui/components/settings"
	"github.com/julianstephens/daycounter/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, status line and help take the remaining rows
		m.entries.SetSize(msg.Width-4, msg.Height-8)
		m.settings.SetWidth(msg.Width)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case refreshMsg:
		if err := m.refresh(time.Time(msg)); err != nil {
			m.setError(err)
		}
		return m, nil

	case entries.AddEntryMsg:
		return m.openAddForm()

	case entries.EditEntryMsg:
		m.editingID = msg.Entry.ID
		m.entryForm = entryFormFrom(msg.Entry)
		m.form = newEntryForm(m.entryForm, true)
		m.formError = ""
		m.state = constants.StateEditEntry
		return m, m.form.Init()

	case entries.DeleteEntryMsg:
		m.deleteID = msg.Entry.ID
		m.deleteTitle = msg.Entry.Title
		m.state = constants.StateConfirmDelete
		return m, nil

	case entries.ToggleEntryMsg:
		e := msg.Entry
		e.Enabled = !e.Enabled
		if err := m.store.UpdateEntry(e); err != nil {
			m.setError(err)
			return m, nil
		}
		if e.Enabled {
			m.setStatus("Enabled: " + e.Title)
		} else {
			m.setStatus("Disabled: " + e.Title)
		}
		return m, m.refreshCmd()

	case settings.EditSettingsMsg:
		s, err := m.store.GetSettings()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.settingsForm = settingsFormFrom(s)
		m.form = newSettingsForm(m.settingsForm)
		m.formError = ""
		m.state = constants.StateEditSettings
		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.inForm() {
		return m.updateForm(msg)
	}

	if m.state == constants.StateConfirmDelete {
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
			if m.state == constants.StateEntries {
				m.state = constants.StateSettings
			} else {
				m.state = constants.StateEntries
			}
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateEntries:
		m.entries, cmd = m.entries.Update(msg)
	case constants.StateSettings:
		m.settings, cmd = m.settings.Update(msg)
	}
	return m, cmd
}

// refreshCmd schedules an immediate recompute instead of waiting for the
// next tick.
func (m Model) refreshCmd() tea.Cmd {
	now := m.now()
	return func() tea.Msg { return refreshMsg(now) }
}

type refreshMsg time.Time

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	fired, err := m.tracker.Tick(now)
	if err != nil {
		logger.Error("Milestone check failed", "error", err)
		m.setError(err)
	}
	m.celebrate(fired)
	if err := m.refresh(now); err != nil {
		m.setError(err)
	}
	return m, tick()
}

func (m Model) openAddForm() (tea.Model, tea.Cmd) {
	list, err := m.store.ListEntries()
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if len(list) >= constants.MaxEntries {
		m.setError(apperrors.ErrCapacityExceeded)
		return m, nil
	}

	m.editingID = ""
	m.entryForm = &EntryFormModel{
		Start:   m.now().Format(constants.DateFormat + " " + constants.TimeFormat),
		Enabled: true,
	}
	m.form = newEntryForm(m.entryForm, false)
	m.formError = ""
	m.state = constants.StateAddEntry
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			// keep the form open so the input can be corrected
			m.formError = apperrors.Format(err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.closeForm()
		return m, m.refreshCmd()
	}
	return m, cmd
}

func (m *Model) submitForm() error {
	switch m.state {
	case constants.StateAddEntry:
		start, err := utils.ParseDateTime(m.entryForm.Start)
		if err != nil {
			return err
		}
		e, err := m.store.AddEntry(m.entryForm.Title, start)
		if err != nil {
			return err
		}
		m.setStatus("Added: " + e.Title)

	case constants.StateEditEntry:
		e, err := m.store.GetEntry(m.editingID)
		if err != nil {
			return err
		}
		// an untouched start keeps its full precision
		if m.entryForm.startChanged() {
			start, err := utils.ParseDateTime(m.entryForm.Start)
			if err != nil {
				return err
			}
			e.Start = start
		}
		e.Title = m.entryForm.Title
		e.Enabled = m.entryForm.Enabled
		if err := m.store.UpdateEntry(e); err != nil {
			return err
		}
		m.setStatus("Updated: " + e.Title)

	case constants.StateEditSettings:
		nums, err := models.ParseFunNumbers(m.settingsForm.FunNumbers)
		if err != nil {
			return err
		}
		s := models.Settings{
			FunNumbers: nums,
			Notify100:  m.settingsForm.Notify100,
			Notify1000: m.settingsForm.Notify1000,
			NotifyFun:  m.settingsForm.NotifyFun,
		}
		if err := m.store.SaveSettings(s); err != nil {
			return err
		}
		m.settings.SetSettings(s.Normalized())
		m.setStatus("Settings saved.")
	}
	return nil
}

func (m *Model) closeForm() {
	if m.state == constants.StateEditSettings {
		m.state = constants.StateSettings
	} else {
		m.state = constants.StateEntries
	}
	m.form = nil
	m.entryForm = nil
	m.settingsForm = nil
	m.formError = ""
	m.editingID = ""
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.store.DeleteEntry(m.deleteID); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Deleted entry.")
		}
	case key.Matches(keyMsg, m.keys.Cancel):
	default:
		return m, nil
	}

	m.deleteID = ""
	m.deleteTitle = ""
	m.state = constants.StateEntries
	return m, m.refreshCmd()
}
