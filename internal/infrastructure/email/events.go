package email

import (
	"github.com/orris-inc/rbnotify/internal/domain/shared/events"
)

const (
	EventTypeEmailSent   = "email.sent"
	EventTypeEmailFailed = "email.failed"
)

// EmailSentEvent is published after a message was handed to the transport.
type EmailSentEvent struct {
	events.BaseEvent
	To       []string
	Subject  string
	Template string
}

// EmailFailedEvent is published when a message is dropped after its last
// attempt.
type EmailFailedEvent struct {
	events.BaseEvent
	To       []string
	Template string
	Attempts int
	Reason   string
}

func newEmailSentEvent(m *Message) *EmailSentEvent {
	return &EmailSentEvent{
		BaseEvent: events.NewBaseEvent(EventTypeEmailSent, m.ID),
		To:        m.To,
		Subject:   m.Subject,
		Template:  m.Template,
	}
}

func newEmailFailedEvent(m *Message, err error) *EmailFailedEvent {
	return &EmailFailedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeEmailFailed, m.ID),
		To:        m.To,
		Template:  m.Template,
		Attempts:  m.Attempts,
		Reason:    err.Error(),
	}
}
