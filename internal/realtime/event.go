package realtime

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of realtime update.
type EventType string

const (
	EventToast              EventType = "toast"
	EventDashboardRefreshed EventType = "dashboard_refreshed"
)

// Event is the payload delivered to the admin tabs of one session.
type Event struct {
	Type EventType `json:"type"`
	// Topic routes the event; it is derived from the session ID, never the ID itself.
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data,omitempty"`
	At    time.Time       `json:"at"`
}

// Validate ensures required fields for each event type.
func (e Event) Validate() error {
	if e.Topic == "" {
		return errors.New("topic required")
	}
	switch e.Type {
	case EventToast:
		if len(e.Data) == 0 {
			return errors.New("toast data required")
		}
	case EventDashboardRefreshed:
	default:
		return errors.New("invalid event type")
	}
	return nil
}

var topicNamespace = uuid.MustParse("5b0f6f0e-2b8c-4d1e-9f3a-6c1d2e7a9b40")

// Topic maps a session ID onto its event topic. Session IDs are bearer
// secrets, so only this one-way digest crosses the pub/sub channel.
func Topic(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	return uuid.NewSHA1(topicNamespace, []byte(sessionID)).String()
}
