package notifier

import (
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/daycounter/internal/constants"
	"github.com/julianstephens/daycounter/internal/models"
	"github.com/julianstephens/daycounter/internal/utils"
)

// Marker records delivered milestones. storage.Provider satisfies it.
// RecordNotified must persist the marks or leave none of them behind.
type Marker interface {
	RecordNotified(id string, days ...int) error
}

// Sender is the subset of Notifier the Dispatcher needs.
type Sender interface {
	Notify(title, body string) string
}

// Dispatcher turns newly reached milestones into a single notification.
type Dispatcher struct {
	store  Marker
	sender Sender
	now    func() time.Time
}

func NewDispatcher(store Marker, sender Sender) *Dispatcher {
	return &Dispatcher{store: store, sender: sender, now: time.Now}
}

// Message builds the notification title and body for entry reaching day.
func Message(entry models.Entry, day int, now time.Time) (string, string) {
	title := fmt.Sprintf("%s: %s", constants.AppName, entry.Title)
	body := fmt.Sprintf("Reached %d days since %s.", day, utils.FormatDateForDisplayAt(entry.Start, now))
	return title, body
}

// Dispatch records every reached milestone for entry in one save, then sends
// one notification naming the largest. Nothing happens when reached is empty.
// The marks are saved before sending, so a crash can drop a notification but
// never repeat one. A failed save sends nothing and leaves the milestones
// pending.
func (d *Dispatcher) Dispatch(entry models.Entry, reached []int) error {
	if len(reached) == 0 {
		return nil
	}

	if err := d.store.RecordNotified(entry.ID, reached...); err != nil {
		return fmt.Errorf("failed to save notified milestones for %s: %w", entry.ID, err)
	}

	title, body := Message(entry, slices.Max(reached), d.now())
	d.sender.Notify(title, body)
	return nil
}
