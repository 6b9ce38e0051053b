package notification

import "time"

// EventType names the notification events published to the queue. A
// downstream mailer consumes these and does the actual delivery.
type EventType string

const (
	EventEmailVerification EventType = "email.verification"
	EventPasswordReset     EventType = "password.reset"
	EventPasswordChanged   EventType = "password.changed"
	EventWelcome           EventType = "user.welcome"
)

// Event is the message placed on the notification queue. Body is the
// fully rendered email text so consumers stay template-free.
type Event struct {
	Type       EventType         `json:"type"`
	Recipient  string            `json:"recipient"`
	Subject    string            `json:"subject"`
	Body       string            `json:"body"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
