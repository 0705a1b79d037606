package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/daycounter/internal/constants"
	"github.com/julianstephens/daycounter/internal/storage"
)

// setupDataFile creates a data file with one entry using the store
// matching ext.
func setupDataFile(t *testing.T, ext string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data"+ext)
	store := storage.NewProvider(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := store.AddEntry("Quit coffee", time.Date(2022, 10, 12, 0, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func countEntries(t *testing.T, path string) int {
	t.Helper()
	store := storage.NewProvider(path)
	defer store.Close()
	if err := store.Load(); err != nil {
		t.Fatalf("Load %s: %v", path, err)
	}
	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	return len(entries)
}

func addEntry(t *testing.T, path, title string) {
	t.Helper()
	store := storage.NewProvider(path)
	defer store.Close()
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := store.AddEntry(title, time.Now()); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
}

var kinds = []string{".json", ".db"}

func TestCreateBackup(t *testing.T) {
	for _, ext := range kinds {
		t.Run(ext, func(t *testing.T) {
			dataPath := setupDataFile(t, ext)
			mgr := NewManager(dataPath)

			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatalf("CreateBackup failed: %v", err)
			}
			if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(dataPath), constants.BackupDirName) {
				t.Errorf("backup written to %s", backupPath)
			}
			name := filepath.Base(backupPath)
			if !strings.HasPrefix(name, BackupFilePrefix) || !strings.HasSuffix(name, ext) {
				t.Errorf("unexpected backup name %s", name)
			}
			if got := countEntries(t, backupPath); got != 1 {
				t.Errorf("expected 1 entry in backup, got %d", got)
			}
		})
	}
}

func TestCreateBackupMissingDataFile(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "data.json"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error for missing data file")
	}
}

func TestCreateBackupOfCorruptJSON(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(dataPath, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	backupPath, err := NewManager(dataPath).CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	data, _ := os.ReadFile(backupPath)
	if string(data) != "{broken" {
		t.Errorf("backup content = %q", data)
	}
}

func TestBackupRotation(t *testing.T) {
	dataPath := setupDataFile(t, ".json")
	mgr := NewManager(dataPath)

	numBackups := constants.MaxBackups + 5
	for i := 0; i < numBackups; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}

	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted correctly: backup %d is newer than backup %d", i, i-1)
		}
	}
}

func TestListBackups(t *testing.T) {
	dataPath := setupDataFile(t, ".json")
	mgr := NewManager(dataPath)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	// unrelated files are ignored
	os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600)
	os.WriteFile(filepath.Join(mgr.GetBackupDir(), BackupFilePrefix+"garbage.json"), []byte("{}"), 0600)

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Path == "" || b.Size == 0 || b.Timestamp.IsZero() {
			t.Errorf("incomplete backup info: %+v", b)
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	for _, ext := range kinds {
		t.Run(ext, func(t *testing.T) {
			dataPath := setupDataFile(t, ext)
			mgr := NewManager(dataPath)

			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatalf("CreateBackup failed: %v", err)
			}

			addEntry(t, dataPath, "Second")
			if got := countEntries(t, dataPath); got != 2 {
				t.Fatalf("expected 2 entries before restore, got %d", got)
			}

			before, _ := mgr.ListBackups()
			previous, err := mgr.RestoreBackup(backupPath)
			if err != nil {
				t.Fatalf("RestoreBackup failed: %v", err)
			}
			if previous == "" {
				t.Error("expected a pre-restore backup path")
			}
			after, _ := mgr.ListBackups()
			if len(after) != len(before)+1 {
				t.Errorf("expected %d backups after restore, got %d", len(before)+1, len(after))
			}

			if got := countEntries(t, dataPath); got != 1 {
				t.Errorf("expected 1 entry after restore, got %d", got)
			}
			if got := countEntries(t, previous); got != 2 {
				t.Errorf("pre-restore backup holds %d entries, want 2", got)
			}
			if _, err := os.Stat(dataPath + ".restore.tmp"); !os.IsNotExist(err) {
				t.Error("temporary restore file left behind")
			}
		})
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	mgr := NewManager(setupDataFile(t, ".json"))
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing backup")
	}
}

func TestVerifyBackup(t *testing.T) {
	for _, ext := range kinds {
		t.Run(ext, func(t *testing.T) {
			mgr := NewManager(setupDataFile(t, ext))

			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatalf("CreateBackup failed: %v", err)
			}
			if err := mgr.verifyBackup(backupPath); err != nil {
				t.Errorf("verifyBackup failed for valid backup: %v", err)
			}

			invalidPath := filepath.Join(mgr.GetBackupDir(), "invalid"+ext)
			if err := os.WriteFile(invalidPath, []byte("not a data file at all, padded for good measure"), 0600); err != nil {
				t.Fatalf("failed to create invalid file: %v", err)
			}
			if err := mgr.verifyBackup(invalidPath); err == nil {
				t.Error("verifyBackup should fail for invalid backup")
			}

			if _, err := mgr.RestoreBackup(invalidPath); err == nil {
				t.Error("RestoreBackup should refuse an invalid backup")
			}
		})
	}
}

func TestSQLiteBackupIsStandalone(t *testing.T) {
	dataPath := setupDataFile(t, ".db")
	backupPath, err := NewManager(dataPath).CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", backupPath)
	if err != nil {
		t.Fatalf("failed to open backup database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count); err != nil {
		t.Fatalf("failed to query backup database: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row in backup, got %d", count)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	mgr := NewManager(setupDataFile(t, ".json"))

	paths := make(map[string]bool)
	for i := 0; i < 5; i++ {
		backupPath, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		filename := filepath.Base(backupPath)
		if paths[filename] {
			t.Errorf("duplicate backup filename: %s", filename)
		}
		paths[filename] = true
	}
}

func TestParseStamp(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		seq  int
		want time.Time
	}{
		{"20250601-1504", true, 0, time.Date(2025, 6, 1, 15, 4, 0, 0, time.Local)},
		{"20250601-150405", true, 0, time.Date(2025, 6, 1, 15, 4, 5, 0, time.Local)},
		{"20250601-150405-12", true, 12, time.Date(2025, 6, 1, 15, 4, 5, 0, time.Local)},
		{"20250601-150405-x", false, 0, time.Time{}},
		{"garbage", false, 0, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, seq, ok := parseStamp(tt.in)
			if ok != tt.ok || seq != tt.seq || !got.Equal(tt.want) {
				t.Errorf("parseStamp(%q) = %v, %d, %v", tt.in, got, seq, ok)
			}
		})
	}
}
