// Package tracker recomputes per-entry counters and fires milestone
// notifications once per tick.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/daycounter/internal/logger"
	"github.com/julianstephens/daycounter/internal/milestone"
	"github.com/julianstephens/daycounter/internal/models"
	"github.com/julianstephens/daycounter/internal/notifier"
	"github.com/julianstephens/daycounter/internal/storage"
	"github.com/julianstephens/daycounter/internal/utils"
)

// Row holds the display fields for one entry at a given instant.
type Row struct {
	Entry   models.Entry
	Start   string
	Elapsed string
	Days    int
	Next    milestone.Next
}

// Fired records the milestones an entry reached on a tick.
type Fired struct {
	Entry models.Entry
	Days  []int
}

type Tracker struct {
	store      storage.Provider
	dispatcher *notifier.Dispatcher
}

func New(store storage.Provider, sender notifier.Sender) *Tracker {
	return &Tracker{
		store:      store,
		dispatcher: notifier.NewDispatcher(store, sender),
	}
}

// Rows computes display rows for every entry, ordered by start time.
func (t *Tracker) Rows(now time.Time) ([]Row, error) {
	entries, err := t.store.ListEntries()
	if err != nil {
		return nil, err
	}
	settings, err := t.store.GetSettings()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start.Before(entries[j].Start)
	})

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		elapsed := e.Elapsed(now)
		days := utils.ElapsedDays(elapsed)
		rows = append(rows, Row{
			Entry:   e,
			Start:   utils.FormatStartForDisplay(e.Start, now),
			Elapsed: utils.FormatElapsed(elapsed),
			Days:    max(days, 0),
			Next:    milestone.NextMilestone(days, settings),
		})
	}
	return rows, nil
}

// Pending reports the milestones each enabled entry would fire at now,
// without marking or notifying.
func (t *Tracker) Pending(now time.Time) ([]Fired, error) {
	entries, err := t.store.ListEntries()
	if err != nil {
		return nil, err
	}
	settings, err := t.store.GetSettings()
	if err != nil {
		return nil, err
	}

	var pending []Fired
	for _, e := range entries {
		if !e.Enabled {
			continue
		}
		already, err := t.store.GetNotified(e.ID)
		if err != nil {
			return nil, err
		}
		days := utils.ElapsedDays(e.Elapsed(now))
		if reached := milestone.NewlyReached(days, settings, already); len(reached) > 0 {
			pending = append(pending, Fired{Entry: e, Days: reached})
		}
	}
	return pending, nil
}

// Tick dispatches every pending milestone at now. A failure for one entry
// does not stop the others.
func (t *Tracker) Tick(now time.Time) ([]Fired, error) {
	pending, err := t.Pending(now)
	if err != nil {
		return nil, err
	}

	var (
		fired []Fired
		errs  []error
	)
	for _, p := range pending {
		if err := t.dispatcher.Dispatch(p.Entry, p.Days); err != nil {
			errs = append(errs, fmt.Errorf("entry %s: %w", p.Entry.ID, err))
			continue
		}
		logger.Info("Milestone reached", "entry", p.Entry.ID, "title", p.Entry.Title, "days", p.Days)
		fired = append(fired, p)
	}
	return fired, errors.Join(errs...)
}

// Run ticks immediately and then every interval until ctx is done. onTick,
// when set, receives the tick time and what fired.
func (t *Tracker) Run(ctx context.Context, interval time.Duration, onTick func(time.Time, []Fired)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	tick := func(now time.Time) {
		fired, err := t.Tick(now)
		if err != nil {
			logger.Error("Tick failed", "error", err)
		}
		if onTick != nil {
			onTick(now, fired)
		}
	}

	tick(time.Now())
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			tick(now)
		}
	}
}
