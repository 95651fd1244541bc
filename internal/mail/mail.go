package mail

import (
	"context"
	"time"
)

// Message is one inbound mail item as delivered by the relay.
type Message struct {
	MessageID   string       `json:"message_id"`
	Subject     string       `json:"subject"`
	Sender      string       `json:"sender"`
	Body        string       `json:"body"`
	ReceivedAt  time.Time    `json:"received_at"`
	Attachments []Attachment `json:"attachments"`
}

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// Fetched pairs a relay entry with its parse outcome. Entries the relay
// could deliver but the client could not make sense of carry Err, so the
// capture job can count them as skips without aborting the batch.
type Fetched struct {
	Message *Message
	Err     error
}

// Fetcher retrieves up to limit messages newer than since from the mail
// source. A nil since means no date filter.
type Fetcher interface {
	Fetch(ctx context.Context, limit int, since *time.Time) ([]Fetched, error)
}
