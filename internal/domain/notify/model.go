package notify

import "context"

// Contact is one accountability recipient.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Request is the fanout payload.
type Request struct {
	UserName   string    `json:"userName"`
	Contacts   []Contact `json:"contacts"`
	DaysIndoor int       `json:"daysIndoor"`
}

// ContactResult reports the outcome for a single recipient. Partial
// failure is expected and never aborts the batch.
type ContactResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Result is the aggregate fanout outcome.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Results []ContactResult `json:"results"`
}

// Message is a single outbound email.
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender delivers one message. Implementations wrap the provider;
// an unconfigured provider fails with code email_unconfigured.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}
