// Package progress carries step progress and user-facing notifications from
// the batch pipeline to whatever surface is driving it.
package progress

import "github.com/rs/zerolog"

// Event is a step-level progress update.
type Event struct {
	Step    string
	Percent int
	Details []string
}

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a user-facing message independent of step progress.
type Notification struct {
	Type    Level
	Title   string
	Message string
}

// Reporter receives pipeline progress. Implementations must be cheap; the
// pipeline calls them inline.
type Reporter interface {
	Progress(e Event)
	Notify(n Notification)
}

// LogReporter writes progress to a structured logger.
type LogReporter struct {
	Log zerolog.Logger
}

func (r *LogReporter) Progress(e Event) {
	ev := r.Log.Info().Str("step", e.Step).Int("percent", e.Percent)
	if len(e.Details) > 0 {
		ev = ev.Strs("details", e.Details)
	}
	ev.Msg("pipeline progress")
}

func (r *LogReporter) Notify(n Notification) {
	var ev *zerolog.Event
	switch n.Type {
	case LevelError:
		ev = r.Log.Error()
	case LevelWarning:
		ev = r.Log.Warn()
	default:
		ev = r.Log.Info()
	}
	ev.Str("title", n.Title).Msg(n.Message)
}

// CaptureReporter records everything it receives. Test helper.
type CaptureReporter struct {
	Events        []Event
	Notifications []Notification
}

func (r *CaptureReporter) Progress(e Event) {
	r.Events = append(r.Events, e)
}

func (r *CaptureReporter) Notify(n Notification) {
	r.Notifications = append(r.Notifications, n)
}

// LastPercent returns the most recent percent reported for step, or -1.
func (r *CaptureReporter) LastPercent(step string) int {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Step == step {
			return r.Events[i].Percent
		}
	}
	return -1
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Progress(Event)      {}
func (Nop) Notify(Notification) {}
