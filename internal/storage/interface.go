package storage

import (
	"strings"
	"time"

	"github.com/julianstephens/daycounter/internal/models"
)

// Provider is the single source of truth for entries, settings and
// notified milestones. Every mutating call except MarkNotified persists
// before it returns; MarkNotified is batched and flushed with Save.
// RecordNotified is the persisted form and leaves nothing behind on failure.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Save() error
	Close() error

	// Entries
	ListEntries() ([]models.Entry, error)
	GetEntry(id string) (models.Entry, error)
	AddEntry(title string, start time.Time) (models.Entry, error)
	UpdateEntry(models.Entry) error
	DeleteEntry(id string) error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Notified milestones
	GetNotified(id string) (models.DaySet, error)
	MarkNotified(id string, day int) error
	RecordNotified(id string, days ...int) error

	// Utils
	GetConfigPath() string
}

// NewProvider picks a backend from the data path: ".db" selects SQLite,
// anything else the JSON file store.
func NewProvider(path string) Provider {
	if strings.HasSuffix(strings.ToLower(path), ".db") {
		return NewSQLiteStore(path)
	}
	return NewJSONStore(path)
}
