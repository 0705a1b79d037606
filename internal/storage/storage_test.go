package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/daycounter/internal/constants"
	apperrors "github.com/julianstephens/daycounter/internal/errors"
	"github.com/julianstephens/daycounter/internal/models"
)

type storeFactory struct {
	name string
	ext  string
	open func(path string) Provider
}

var factories = []storeFactory{
	{name: "json", ext: ".json", open: func(p string) Provider { return NewJSONStore(p) }},
	{name: "sqlite", ext: ".db", open: func(p string) Provider { return NewSQLiteStore(p) }},
}

func forEachStore(t *testing.T, fn func(t *testing.T, f storeFactory, path string)) {
	for _, f := range factories {
		t.Run(f.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data"+f.ext)
			fn(t, f, path)
		})
	}
}

func setupStore(t *testing.T, f storeFactory, path string) Provider {
	t.Helper()
	store := f.open(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func reopen(t *testing.T, f storeFactory, store Provider) Provider {
	t.Helper()
	path := store.GetConfigPath()
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return setupStore(t, f, path)
}

func TestLoadMissingFileCreatesDefaults(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)

		entries, err := store.ListEntries()
		if err != nil {
			t.Fatalf("ListEntries: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no entries, got %d", len(entries))
		}

		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings: %v", err)
		}
		want := models.DefaultSettings()
		if fmt.Sprint(settings) != fmt.Sprint(want) {
			t.Errorf("settings = %v, want %v", settings, want)
		}
	})
}

func TestInitRefusesExistingFile(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)
		store.Close()

		again := f.open(path)
		defer again.Close()
		if err := again.Init(); err == nil {
			t.Error("expected Init to fail on an existing file")
		}
	})
}

func TestRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)

		loc := time.FixedZone("", -4*3600)
		start := time.Date(2022, 10, 12, 8, 30, 0, 123456000, loc)
		e, err := store.AddEntry("  Quit coffee  ", start)
		if err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
		if e.Title != "Quit coffee" {
			t.Errorf("title not trimmed: %q", e.Title)
		}
		if !e.Enabled {
			t.Error("new entries should be enabled")
		}

		settings := models.Settings{FunNumbers: []int{777, 123, 123}, Notify100: false, Notify1000: true, NotifyFun: true}
		if err := store.SaveSettings(settings); err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}
		if err := store.MarkNotified(e.ID, 100); err != nil {
			t.Fatalf("MarkNotified: %v", err)
		}
		if err := store.Save(); err != nil {
			t.Fatalf("Save: %v", err)
		}

		store = reopen(t, f, store)

		got, err := store.GetEntry(e.ID)
		if err != nil {
			t.Fatalf("GetEntry: %v", err)
		}
		if got.Title != e.Title || !got.Start.Equal(start) || got.Enabled != e.Enabled {
			t.Errorf("entry = %+v, want %+v", got, e)
		}

		gotSettings, _ := store.GetSettings()
		if fmt.Sprint(gotSettings.FunNumbers) != "[123 777]" {
			t.Errorf("fun numbers = %v, want [123 777]", gotSettings.FunNumbers)
		}
		if gotSettings.Notify100 || !gotSettings.Notify1000 || !gotSettings.NotifyFun {
			t.Errorf("toggles = %+v", gotSettings)
		}

		notified, _ := store.GetNotified(e.ID)
		if !notified.Has(100) || len(notified) != 1 {
			t.Errorf("notified = %v, want {100}", notified.Sorted())
		}
	})
}

func TestMarkNotifiedIsNotPersistedWithoutSave(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)
		e, err := store.AddEntry("x", time.Now())
		if err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
		if err := store.MarkNotified(e.ID, 200); err != nil {
			t.Fatalf("MarkNotified: %v", err)
		}

		store = reopen(t, f, store)
		notified, _ := store.GetNotified(e.ID)
		if notified.Has(200) {
			t.Error("MarkNotified should not persist on its own")
		}
	})
}

func TestCapacity(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		for i := 0; i < constants.MaxEntries; i++ {
			if _, err := store.AddEntry(fmt.Sprintf("entry %d", i), start); err != nil {
				t.Fatalf("AddEntry %d: %v", i, err)
			}
		}

		_, err := store.AddEntry("one too many", start)
		if !errors.Is(err, apperrors.ErrCapacityExceeded) {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}

		entries, _ := store.ListEntries()
		if len(entries) != constants.MaxEntries {
			t.Errorf("entries = %d, want %d", len(entries), constants.MaxEntries)
		}
	})
}

func TestAddEntryValidation(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)
		if _, err := store.AddEntry("   ", time.Now()); err == nil {
			t.Error("expected blank title to be rejected")
		}
		if _, err := store.AddEntry("ok", time.Time{}); err == nil {
			t.Error("expected zero start to be rejected")
		}
		entries, _ := store.ListEntries()
		if len(entries) != 0 {
			t.Errorf("rejected entries were stored: %d", len(entries))
		}
	})
}

func TestUpdateAndDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)
		a, _ := store.AddEntry("a", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
		b, _ := store.AddEntry("b", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
		store.MarkNotified(a.ID, 100)

		a.Title = "renamed"
		a.Enabled = false
		if err := store.UpdateEntry(a); err != nil {
			t.Fatalf("UpdateEntry: %v", err)
		}
		if err := store.UpdateEntry(models.Entry{ID: "missing", Title: "ghost", Start: time.Now()}); err != nil {
			t.Fatalf("UpdateEntry unknown id: %v", err)
		}

		if err := store.DeleteEntry(b.ID); err != nil {
			t.Fatalf("DeleteEntry: %v", err)
		}
		if err := store.DeleteEntry("missing"); err != nil {
			t.Fatalf("DeleteEntry unknown id: %v", err)
		}

		store = reopen(t, f, store)
		entries, _ := store.ListEntries()
		if len(entries) != 1 {
			t.Fatalf("entries = %d, want 1", len(entries))
		}
		if entries[0].Title != "renamed" || entries[0].Enabled {
			t.Errorf("update not persisted: %+v", entries[0])
		}
		// the mutation saved the pending notified mark along with it
		notified, _ := store.GetNotified(a.ID)
		if !notified.Has(100) {
			t.Error("expected pending notified mark to be flushed by UpdateEntry")
		}
		if gone, _ := store.GetNotified(b.ID); len(gone) != 0 {
			t.Errorf("deleted entry kept notified set: %v", gone.Sorted())
		}
	})
}

func TestMarkNotifiedUnknownEntry(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)
		if err := store.MarkNotified("missing", 100); err != nil {
			t.Fatalf("MarkNotified: %v", err)
		}
		if days, _ := store.GetNotified("missing"); len(days) != 0 {
			t.Errorf("unknown entry gained notified set: %v", days.Sorted())
		}
	})
}

func TestGetNotifiedReturnsCopy(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)
		e, _ := store.AddEntry("x", time.Now())
		days, _ := store.GetNotified(e.ID)
		days.Add(500)
		again, _ := store.GetNotified(e.ID)
		if again.Has(500) {
			t.Error("GetNotified leaked internal state")
		}
	})
}

func TestNotLoaded(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := f.open(path)
		defer store.Close()

		if _, err := store.ListEntries(); !errors.Is(err, apperrors.ErrNotLoaded) {
			t.Errorf("ListEntries: expected ErrNotLoaded, got %v", err)
		}
		if _, err := store.AddEntry("x", time.Now()); !errors.Is(err, apperrors.ErrNotLoaded) {
			t.Errorf("AddEntry: expected ErrNotLoaded, got %v", err)
		}
		if err := store.Save(); !errors.Is(err, apperrors.ErrNotLoaded) {
			t.Errorf("Save: expected ErrNotLoaded, got %v", err)
		}
	})
}

func TestMutationRollsBackOnPersistFailure(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, err := store.AddEntry("keep", time.Now())
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	store.persist = func(*State) error { return errors.New("disk full") }

	if _, err := store.AddEntry("lost", time.Now()); err == nil {
		t.Fatal("expected AddEntry to fail")
	}
	if err := store.DeleteEntry(e.ID); err == nil {
		t.Fatal("expected DeleteEntry to fail")
	}

	entries, _ := store.ListEntries()
	if len(entries) != 1 || entries[0].ID != e.ID {
		t.Errorf("state changed after failed persist: %+v", entries)
	}
}

func TestRecordNotified(t *testing.T) {
	forEachStore(t, func(t *testing.T, f storeFactory, path string) {
		store := setupStore(t, f, path)
		e, _ := store.AddEntry("Run", time.Now())
		if err := store.RecordNotified(e.ID, 100, 1000); err != nil {
			t.Fatalf("RecordNotified: %v", err)
		}
		if err := store.RecordNotified("missing", 100); err != nil {
			t.Fatalf("RecordNotified unknown id: %v", err)
		}

		store = reopen(t, f, store)
		notified, _ := store.GetNotified(e.ID)
		if got := notified.Sorted(); len(got) != 2 || got[0] != 100 || got[1] != 1000 {
			t.Errorf("notified after reload = %v, want [100 1000]", got)
		}
		if missing, _ := store.GetNotified("missing"); len(missing) != 0 {
			t.Errorf("unknown id recorded: %v", missing.Sorted())
		}
	})
}

func TestRecordNotifiedRollsBackOnPersistFailure(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, _ := store.AddEntry("Run", time.Now())
	if err := store.RecordNotified(e.ID, 100); err != nil {
		t.Fatalf("RecordNotified: %v", err)
	}

	store.persist = func(*State) error { return errors.New("disk full") }
	if err := store.RecordNotified(e.ID, 200, 300); err == nil {
		t.Fatal("expected RecordNotified to fail")
	}

	notified, _ := store.GetNotified(e.ID)
	if got := notified.Sorted(); len(got) != 1 || got[0] != 100 {
		t.Errorf("notified = %v, want [100] after failed persist", got)
	}
}

func TestNewEntryIDsAreUnique(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		e, err := store.AddEntry("x", time.Now())
		if err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestDuplicateGeneratedIDRejected(t *testing.T) {
	orig := newEntryID
	newEntryID = func() string { return "fixed" }
	defer func() { newEntryID = orig }()

	store := NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := store.AddEntry("first", time.Now()); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := store.AddEntry("second", time.Now()); err == nil {
		t.Error("expected duplicate id to be rejected")
	}
}

func TestNewProvider(t *testing.T) {
	dir := t.TempDir()
	if _, ok := NewProvider(filepath.Join(dir, "data.json")).(*JSONStore); !ok {
		t.Error("expected JSONStore for .json path")
	}
	if _, ok := NewProvider(filepath.Join(dir, "data")).(*JSONStore); !ok {
		t.Error("expected JSONStore for extensionless path")
	}
	if _, ok := NewProvider(filepath.Join(dir, "data.db")).(*SQLiteStore); !ok {
		t.Error("expected SQLiteStore for .db path")
	}
}
