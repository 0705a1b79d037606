package notifier

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// desktopNotifyFunc is swapped in tests
var desktopNotifyFunc = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// DesktopSink shows a native desktop notification (D-Bus or notify-send on
// Linux, Notification Center on macOS, toast on Windows).
type DesktopSink struct{}

func NewDesktopSink() *DesktopSink {
	return &DesktopSink{}
}

func (s *DesktopSink) Name() string {
	return "desktop"
}

func (s *DesktopSink) Send(title, body string) error {
	if err := desktopNotifyFunc(title, body); err != nil {
		return fmt.Errorf("desktop notification failed: %w", err)
	}
	return nil
}
