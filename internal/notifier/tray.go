package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/daycounter/internal/constants"
)

// ErrTrayNotRunning means no tray lockfile exists. The sink gives up
// before any process lookup or network call.
var ErrTrayNotRunning = errors.New("tray app is not running")

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// trayLock is the "port|pid|secret" record a running tray companion leaves
// in its config directory.
type trayLock struct {
	Port   int
	PID    int
	Secret string
}

type trayMessage struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ExpireMs int    `json:"expire_ms"`
}

// TraySink posts notifications to a running tray companion over its
// loopback webhook. Without a lockfile it fails fast with ErrTrayNotRunning.
type TraySink struct {
	client *http.Client
}

func NewTraySink() *TraySink {
	return &TraySink{client: &http.Client{Timeout: 2 * time.Second}}
}

func (s *TraySink) Name() string {
	return "tray"
}

func (s *TraySink) Send(title, body string) error {
	path, err := trayLockfilePath()
	if err != nil {
		return err
	}
	lock, err := readTrayLock(path)
	if err != nil {
		return err
	}
	if err := lock.validate(); err != nil {
		return err
	}

	return lock.post(s.client, trayMessage{
		Title:    title,
		Body:     body,
		ExpireMs: constants.NotificationDurationMs,
	})
}

func trayLockfilePath() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, constants.TrayAppIdentifier, constants.NotifierLockfileName), nil
}

func readTrayLock(path string) (trayLock, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return trayLock{}, ErrTrayNotRunning
	}
	if err != nil {
		return trayLock{}, fmt.Errorf("failed to read tray lockfile: %w", err)
	}
	return parseTrayLock(string(content))
}

func parseTrayLock(content string) (trayLock, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return trayLock{}, errors.New("tray lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return trayLock{}, fmt.Errorf("invalid port in tray lockfile: %q", parts[0])
	}
	if port < 1 || port > 65535 {
		return trayLock{}, fmt.Errorf("port %d in tray lockfile is outside 1-65535", port)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return trayLock{}, fmt.Errorf("invalid process ID in tray lockfile: %q", parts[1])
	}

	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return trayLock{}, errors.New("secret in tray lockfile is empty")
	}

	return trayLock{Port: port, PID: pid, Secret: secret}, nil
}

// validate checks that the lockfile's PID still belongs to the tray
// executable, so a stale lockfile never leads to a request.
func (l trayLock) validate() error {
	process, err := findProcessFunc(l.PID)
	if err != nil || process == nil {
		return fmt.Errorf("%w: stale lockfile for PID %d", ErrTrayNotRunning, l.PID)
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return fmt.Errorf("%w: PID %d is %s", ErrTrayNotRunning, l.PID, process.Executable())
	}
	return nil
}

func (l trayLock) post(client *http.Client, msg trayMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d/notify", l.Port)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-DayCounter-Secret", l.Secret)

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("tray rejected notification with status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
}
