// Package publisher exports screen events to nats.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	natsclient "github.com/autsoft/hwsw-jobs/internal/nats"
	"github.com/autsoft/hwsw-jobs/internal/ui/jobdetail"
)

// NATSClient publishes through jetstream and waits for the stream's ack.
// *natsclient.Client satisfies it.
type NATSClient interface {
	Publish(ctx context.Context, subject string, data any) error
}

// BrowseMessage is the payload published for every browse event.
type BrowseMessage struct {
	SessionID string    `json:"session_id,omitempty"`
	JobID     string    `json:"job_id"`
	URL       string    `json:"url"`
	At        time.Time `json:"at"`
}

// NATSPublisher publishes browse events.
type NATSPublisher struct {
	js  NATSClient
	now func() time.Time
}

// NewNATSPublisher creates a publisher on top of a jetstream client.
func NewNATSPublisher(js NATSClient) *NATSPublisher {
	return &NATSPublisher{js: js, now: time.Now}
}

// PublishBrowse publishes a browse event from the given session. It returns
// once the stream has stored the message or ctx is done.
func (p *NATSPublisher) PublishBrowse(ctx context.Context, sessionID string, ev jobdetail.BrowseURLEvent) error {
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	msg := BrowseMessage{
		SessionID: sessionID,
		JobID:     ev.JobID,
		URL:       ev.URL,
		At:        now().UTC(),
	}

	if err := p.js.Publish(ctx, natsclient.SubjectBrowse, msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

// DecodeBrowse parses a payload published by PublishBrowse.
func DecodeBrowse(data []byte) (BrowseMessage, error) {
	var msg BrowseMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("decode browse message: %w", err)
	}
	if msg.URL == "" {
		return msg, fmt.Errorf("decode browse message: empty url")
	}
	return msg, nil
}
