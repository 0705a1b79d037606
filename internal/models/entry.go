package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Entry is a tracked start date. ID is assigned by the store and never changes.
type Entry struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Start   time.Time `json:"start_iso"` // RFC 3339 with offset
	Enabled bool      `json:"enabled"`
}

func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("entry title cannot be empty")
	}
	if e.Start.IsZero() {
		return fmt.Errorf("entry start cannot be empty")
	}
	return nil
}

// Elapsed returns the time since Start. It is negative when Start is in the future.
func (e *Entry) Elapsed(now time.Time) time.Duration {
	return now.Sub(e.Start)
}

// UnmarshalJSON defaults Enabled to true when the field is absent.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type entryAlias Entry
	a := entryAlias{Enabled: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = Entry(a)
	return nil
}
