package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daycounter/internal/constants"
	apperrors "github.com/julianstephens/daycounter/internal/errors"
	"github.com/julianstephens/daycounter/internal/logger"
	"github.com/julianstephens/daycounter/internal/models"
)

// State is the full persisted document.
type State struct {
	Entries  []models.Entry           `json:"entries"`
	Settings models.Settings          `json:"settings"`
	Notified map[string]models.DaySet `json:"notified"`
}

func newState() *State {
	return &State{
		Entries:  []models.Entry{},
		Settings: models.DefaultSettings(),
		Notified: make(map[string]models.DaySet),
	}
}

// normalize restores the invariants a hand-edited or older file may break.
func (st *State) normalize() {
	if st.Entries == nil {
		st.Entries = []models.Entry{}
	}
	if st.Notified == nil {
		st.Notified = make(map[string]models.DaySet)
	}
	for _, e := range st.Entries {
		if _, ok := st.Notified[e.ID]; !ok {
			st.Notified[e.ID] = models.NewDaySet()
		}
	}
	st.Settings = st.Settings.Normalized()
}

func (st *State) clone() *State {
	c := &State{
		Entries:  append([]models.Entry{}, st.Entries...),
		Settings: st.Settings,
		Notified: make(map[string]models.DaySet, len(st.Notified)),
	}
	c.Settings.FunNumbers = append([]int{}, st.Settings.FunNumbers...)
	for id, days := range st.Notified {
		c.Notified[id] = days.Clone()
	}
	return c
}

func (st *State) indexOf(id string) int {
	for i, e := range st.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// newEntryID is swapped in tests
var newEntryID = func() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// base holds the in-memory document shared by every backend. persist
// writes the whole document to the backing medium.
type base struct {
	state   *State
	persist func(*State) error
}

func (b *base) loaded() error {
	if b.state == nil {
		return apperrors.ErrNotLoaded
	}
	return nil
}

// mutate applies fn to the state and persists it. If persisting fails the
// previous state is restored, so the caller never observes an unsaved change.
func (b *base) mutate(fn func(st *State) error) error {
	if err := b.loaded(); err != nil {
		return err
	}
	prev := b.state.clone()
	if err := fn(b.state); err != nil {
		b.state = prev
		return err
	}
	if err := b.persist(b.state); err != nil {
		b.state = prev
		return err
	}
	return nil
}

func (b *base) Save() error {
	if err := b.loaded(); err != nil {
		return err
	}
	return b.persist(b.state)
}

func (b *base) ListEntries() ([]models.Entry, error) {
	if err := b.loaded(); err != nil {
		return nil, err
	}
	return append([]models.Entry{}, b.state.Entries...), nil
}

func (b *base) GetEntry(id string) (models.Entry, error) {
	if err := b.loaded(); err != nil {
		return models.Entry{}, err
	}
	i := b.state.indexOf(id)
	if i < 0 {
		return models.Entry{}, fmt.Errorf("entry not found: %s", id)
	}
	return b.state.Entries[i], nil
}

func (b *base) AddEntry(title string, start time.Time) (models.Entry, error) {
	entry := models.Entry{
		ID:      newEntryID(),
		Title:   strings.TrimSpace(title),
		Start:   start,
		Enabled: true,
	}
	if err := entry.Validate(); err != nil {
		return models.Entry{}, err
	}

	err := b.mutate(func(st *State) error {
		if len(st.Entries) >= constants.MaxEntries {
			return apperrors.ErrCapacityExceeded
		}
		if st.indexOf(entry.ID) >= 0 {
			return fmt.Errorf("duplicate entry id: %s", entry.ID)
		}
		st.Entries = append(st.Entries, entry)
		st.Notified[entry.ID] = models.NewDaySet()
		return nil
	})
	if err != nil {
		return models.Entry{}, err
	}

	logger.Debug("Entry added", "id", entry.ID, "title", entry.Title)
	return entry, nil
}

// UpdateEntry replaces the entry with a matching ID in place. Unknown IDs are ignored.
func (b *base) UpdateEntry(entry models.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return b.mutate(func(st *State) error {
		if i := st.indexOf(entry.ID); i >= 0 {
			st.Entries[i] = entry
		}
		return nil
	})
}

// DeleteEntry removes the entry and its notified set. Unknown IDs are ignored.
func (b *base) DeleteEntry(id string) error {
	return b.mutate(func(st *State) error {
		if i := st.indexOf(id); i >= 0 {
			st.Entries = append(st.Entries[:i], st.Entries[i+1:]...)
		}
		delete(st.Notified, id)
		return nil
	})
}

func (b *base) GetSettings() (models.Settings, error) {
	if err := b.loaded(); err != nil {
		return models.Settings{}, err
	}
	s := b.state.Settings
	s.FunNumbers = append([]int{}, s.FunNumbers...)
	return s, nil
}

// SaveSettings replaces the settings wholesale.
func (b *base) SaveSettings(settings models.Settings) error {
	return b.mutate(func(st *State) error {
		st.Settings = settings.Normalized()
		return nil
	})
}

// GetNotified returns a copy of the milestones already notified for id.
func (b *base) GetNotified(id string) (models.DaySet, error) {
	if err := b.loaded(); err != nil {
		return nil, err
	}
	return b.state.Notified[id].Clone(), nil
}

// MarkNotified records day as notified for id in memory only. Callers flush
// with Save. Unknown IDs are ignored.
func (b *base) MarkNotified(id string, day int) error {
	if err := b.loaded(); err != nil {
		return err
	}
	if b.state.indexOf(id) < 0 {
		return nil
	}
	days, ok := b.state.Notified[id]
	if !ok {
		days = models.NewDaySet()
		b.state.Notified[id] = days
	}
	days.Add(day)
	return nil
}

// RecordNotified marks days as notified for id and persists them in one
// step. If persisting fails none of the marks remain, so the milestones are
// still pending on the next check. Unknown IDs are ignored.
func (b *base) RecordNotified(id string, days ...int) error {
	return b.mutate(func(st *State) error {
		if st.indexOf(id) < 0 {
			return nil
		}
		set, ok := st.Notified[id]
		if !ok {
			set = models.NewDaySet()
			st.Notified[id] = set
		}
		for _, day := range days {
			set.Add(day)
		}
		return nil
	})
}
