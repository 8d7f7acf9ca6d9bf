package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autsoft/hwsw-jobs/internal/ui/jobdetail"
)

// MockNATSClient mocks the jetstream publish we need
type MockNATSClient struct {
	PublishedCtx     context.Context
	PublishedSubject string
	PublishedData    any
	PublishError     error
}

func (m *MockNATSClient) Publish(ctx context.Context, subject string, data any) error {
	m.PublishedCtx = ctx
	m.PublishedSubject = subject
	m.PublishedData = data
	return m.PublishError
}

func TestNATSPublisher_PublishBrowse(t *testing.T) {
	mock := &MockNATSClient{}
	at := time.Date(2018, 11, 6, 10, 0, 0, 0, time.UTC)
	pub := NewNATSPublisher(mock)
	pub.now = func() time.Time { return at }

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := pub.PublishBrowse(ctx, "sess-1", jobdetail.BrowseURLEvent{JobID: "42", URL: "https://apply/42"})
	require.NoError(t, err)

	assert.Equal(t, "jobs.browse", mock.PublishedSubject)
	assert.Equal(t, ctx, mock.PublishedCtx, "ctx is handed to jetstream")

	data, err := json.Marshal(mock.PublishedData)
	require.NoError(t, err)
	msg, err := DecodeBrowse(data)
	require.NoError(t, err)
	assert.Equal(t, BrowseMessage{SessionID: "sess-1", JobID: "42", URL: "https://apply/42", At: at}, msg)
}

func TestNATSPublisher_PublishError(t *testing.T) {
	mock := &MockNATSClient{PublishError: errors.New("no responders")}
	pub := &NATSPublisher{js: mock}

	err := pub.PublishBrowse(context.Background(), "", jobdetail.BrowseURLEvent{JobID: "1", URL: "https://x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish event")
}

func TestDecodeBrowse_Invalid(t *testing.T) {
	_, err := DecodeBrowse([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeBrowse([]byte(`{"job_id":"1"}`))
	assert.Error(t, err)
}
