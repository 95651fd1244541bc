package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// RelayClient fetches messages from the mail-relay service over HTTP. The
// relay owns the POP3 session and attachment decoding; this client only
// consumes its JSON surface.
type RelayClient struct {
	baseURL string
	sender  string
	client  *http.Client
}

func NewRelayClient(baseURL, sender string) *RelayClient {
	return &RelayClient{
		baseURL: baseURL,
		sender:  sender,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type relayEntry struct {
	MessageID   string       `json:"message_id"`
	Subject     string       `json:"subject"`
	Sender      string       `json:"sender"`
	Body        string       `json:"body"`
	ReceivedAt  string       `json:"received_at"`
	Attachments []Attachment `json:"attachments"`
}

func (c *RelayClient) Fetch(ctx context.Context, limit int, since *time.Time) ([]Fetched, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if since != nil {
		q.Set("since", since.Format(time.RFC3339))
	}
	if c.sender != "" {
		q.Set("sender", c.sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/messages?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching messages from relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}

	var payload struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding relay response: %w", err)
	}

	fetched := make([]Fetched, 0, len(payload.Messages))
	for _, raw := range payload.Messages {
		msg, err := parseEntry(raw)
		fetched = append(fetched, Fetched{Message: msg, Err: err})
	}
	return fetched, nil
}

func parseEntry(raw json.RawMessage) (*Message, error) {
	var entry relayEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("malformed relay entry: %w", err)
	}
	if entry.MessageID == "" {
		return nil, fmt.Errorf("relay entry without message_id")
	}

	receivedAt, err := time.Parse(time.RFC3339, entry.ReceivedAt)
	if err != nil {
		// the relay forwards the Date header as-is; fall back to now like
		// the mailbox importer does when the header is unparsable
		receivedAt = time.Now()
	}

	return &Message{
		MessageID:   entry.MessageID,
		Subject:     entry.Subject,
		Sender:      entry.Sender,
		Body:        entry.Body,
		ReceivedAt:  receivedAt,
		Attachments: entry.Attachments,
	}, nil
}
