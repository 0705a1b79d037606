package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daycounter/internal/backup"
	"github.com/julianstephens/daycounter/internal/logger"
	"github.com/julianstephens/daycounter/internal/models"
	"github.com/julianstephens/daycounter/internal/notifier"
	"github.com/julianstephens/daycounter/internal/storage"
	"github.com/julianstephens/daycounter/internal/tracker"
)

type Context struct {
	Store    storage.Provider
	Notifier *notifier.Notifier
}

// Tracker returns a tracker over the context's store and notifier.
func (c *Context) Tracker() *tracker.Tracker {
	return tracker.New(c.Store, c.Notifier)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveEntry finds an entry by its row number in start order (as shown by
// list), its full ID, or a unique ID prefix.
func (c *Context) ResolveEntry(ref string) (models.Entry, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Entry{}, fmt.Errorf("entry reference cannot be empty")
	}

	if n, err := strconv.Atoi(ref); err == nil {
		rows, err := c.Tracker().Rows(time.Now())
		if err != nil {
			return models.Entry{}, err
		}
		if n < 1 || n > len(rows) {
			return models.Entry{}, fmt.Errorf("no entry #%d (have %d)", n, len(rows))
		}
		return rows[n-1].Entry, nil
	}

	entries, err := c.Store.ListEntries()
	if err != nil {
		return models.Entry{}, err
	}

	var matches []models.Entry
	for _, e := range entries {
		if e.ID == ref {
			return e, nil
		}
		if strings.HasPrefix(e.ID, ref) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return models.Entry{}, fmt.Errorf("entry not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Entry{}, fmt.Errorf("entry reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}
