package notifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/daycounter/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

// withTray points the sink at configDir and reports every PID as exe.
func withTray(t *testing.T, configDir, exe string) *int {
	t.Helper()
	oldUserConfigDirFunc, oldFindProcessFunc := userConfigDirFunc, findProcessFunc
	t.Cleanup(func() {
		userConfigDirFunc, findProcessFunc = oldUserConfigDirFunc, oldFindProcessFunc
	})

	lookups := 0
	userConfigDirFunc = func() (string, error) { return configDir, nil }
	findProcessFunc = func(pid int) (ps.Process, error) {
		lookups++
		if exe == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
	return &lookups
}

func writeLock(t *testing.T, configDir, content string) {
	t.Helper()
	dir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, constants.NotifierLockfileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParseTrayLock(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"two parts", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port not a number", "http|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "outside"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTrayLock(tt.content)
			if err == nil {
				t.Fatalf("expected error for %q", tt.content)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not mention %q", err, tt.contains)
			}
		})
	}

	lock, err := parseTrayLock("8080|12345|s3cret\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock != (trayLock{Port: 8080, PID: 12345, Secret: "s3cret"}) {
		t.Errorf("lock = %+v", lock)
	}
}

func TestTraySinkWithoutLockfile(t *testing.T) {
	lookups := withTray(t, t.TempDir(), constants.TrayExecutablePrefix)

	err := NewTraySink().Send("t", "b")
	if !errors.Is(err, ErrTrayNotRunning) {
		t.Fatalf("err = %v, want ErrTrayNotRunning", err)
	}
	if *lookups != 0 {
		t.Errorf("process lookups = %d, want none without a lockfile", *lookups)
	}
}

func TestTraySinkStaleLockfile(t *testing.T) {
	tests := []struct {
		name string
		exe  string
	}{
		{"no process", ""},
		{"other executable", "other-app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configDir := t.TempDir()
			withTray(t, configDir, tt.exe)
			writeLock(t, configDir, "8080|4242|s3cret")

			if err := NewTraySink().Send("t", "b"); !errors.Is(err, ErrTrayNotRunning) {
				t.Errorf("err = %v, want ErrTrayNotRunning", err)
			}
		})
	}
}

func newTrayServer(t *testing.T, secret string, got *trayMessage) int {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/notify" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("X-DayCounter-Secret") != secret {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var msg trayMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got != nil {
			*got = msg
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return port
}

func TestTraySinkSend(t *testing.T) {
	var got trayMessage
	port := newTrayServer(t, "s3cret", &got)

	configDir := t.TempDir()
	withTray(t, configDir, constants.TrayExecutablePrefix)
	writeLock(t, configDir, fmt.Sprintf("%d|4242|s3cret", port))

	if err := NewTraySink().Send("DayCounter: Run", "Reached 100 days since 12OCT."); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Title != "DayCounter: Run" || got.Body != "Reached 100 days since 12OCT." {
		t.Errorf("message = %+v", got)
	}
	if got.ExpireMs != constants.NotificationDurationMs {
		t.Errorf("expire = %d, want %d", got.ExpireMs, constants.NotificationDurationMs)
	}
}

func TestTraySinkWrongSecret(t *testing.T) {
	port := newTrayServer(t, "s3cret", nil)

	configDir := t.TempDir()
	withTray(t, configDir, constants.TrayExecutablePrefix)
	writeLock(t, configDir, fmt.Sprintf("%d|4242|nope", port))

	err := NewTraySink().Send("t", "b")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("err = %v, want a 401 rejection", err)
	}
}
