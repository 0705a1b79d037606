// Package notifier delivers milestone notifications.
//
// A Notifier tries each Sink in order and stops at the first that succeeds.
// When every sink fails the message is written to a fallback writer, so a
// notification is never lost silently and never surfaces as an error.
package notifier

import (
	"fmt"
	"io"

	"github.com/julianstephens/daycounter/internal/constants"
	"github.com/julianstephens/daycounter/internal/logger"
)

// Sink is one notification mechanism.
type Sink interface {
	Name() string
	Send(title, body string) error
}

type Notifier struct {
	sinks    []Sink
	fallback io.Writer
}

// New returns a Notifier that tries sinks in order and writes to fallback
// when all of them fail. A nil fallback discards the line.
func New(fallback io.Writer, sinks ...Sink) *Notifier {
	if fallback == nil {
		fallback = io.Discard
	}
	return &Notifier{sinks: sinks, fallback: fallback}
}

// NewDefault wires the tray webhook and native desktop sinks.
func NewDefault(fallback io.Writer) *Notifier {
	return New(fallback, NewTraySink(), NewDesktopSink())
}

// Notify delivers title and body and reports which sink handled it, or
// "fallback" when none did.
func (n *Notifier) Notify(title, body string) string {
	for _, sink := range n.sinks {
		err := sink.Send(title, body)
		if err == nil {
			logger.Debug("Notification sent", "sink", sink.Name(), "title", title)
			return sink.Name()
		}
		logger.Debug("Notification sink failed", "sink", sink.Name(), "error", err)
	}

	fmt.Fprintf(n.fallback, "%s %s: %s\n", constants.FallbackNotifyPrefix, title, body)
	logger.Warn("Notification fell back to log", "title", title, "body", body)
	return "fallback"
}
