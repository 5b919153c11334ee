// Package notify delivers schedule events to desktop notifications, webhooks
// and the log.
package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/themeswitch/themeswitch/internal/schedule"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
)

// Severity classifies a notice.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notice is what a notifier delivers.
type Notice struct {
	ID       string             `json:"id"`
	Type     schedule.EventType `json:"type"`
	Severity Severity           `json:"severity"`
	Title    string             `json:"title"`
	Body     string             `json:"body"`
	Theme    string             `json:"theme,omitempty"`
	At       time.Time          `json:"at"`
}

// NoticeFor converts an event into a notice with a fresh ULID. Only applied
// and error events are worth notifying; the second return is false for the
// rest.
func NoticeFor(e schedule.Event) (Notice, bool) {
	n := Notice{Type: e.Type, Severity: SeverityInfo, Theme: e.Name, At: e.At}
	if n.At.IsZero() {
		n.At = time.Now()
	}
	switch e.Type {
	case schedule.EventThemeApplied:
		n.Title = "Theme changed"
		n.Body = fmt.Sprintf("Switched color theme to %s", e.Name)
	case schedule.EventIconThemeApplied:
		n.Title = "Icon theme changed"
		n.Body = fmt.Sprintf("Switched icon theme to %s", e.Name)
	case schedule.EventError:
		n.Severity = SeverityError
		n.Title = "Theme switch failed"
		if e.Err != nil {
			n.Body = e.Err.Error()
		} else {
			n.Body = "unknown error"
		}
	default:
		return Notice{}, false
	}
	n.ID = ulid.Make().String()
	return n, true
}
