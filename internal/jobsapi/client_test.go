package jobsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const positionJSON = `{
	"id": "123",
	"created_at": "Mon Oct 15 10:00:00 UTC 2018",
	"title": "Go Developer",
	"location": "Budapest",
	"type": "Full Time",
	"description": "<p>Write Go</p>",
	"how_to_apply": "<a href=\"http://apply.example/123\">apply</a>",
	"company": "AutSoft",
	"company_url": "http://autsoft.hu",
	"company_logo": "http://logo.example/a.png",
	"url": "http://apply.example/123"
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestClient_ListPositions(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/positions.json", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + positionJSON + "]"))
	})

	positions, err := c.ListPositions(context.Background(), ListOptions{Search: "go", FullTime: true})
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.Equal(t, "123", p.ID)
	assert.Equal(t, "AutSoft", p.Company)
	require.NotNil(t, p.CompanyLogo)
	assert.Equal(t, "http://logo.example/a.png", *p.CompanyLogo)
	assert.Equal(t, "http://apply.example/123", p.URL)

	assert.Contains(t, gotQuery, "search=go")
	assert.Contains(t, gotQuery, "full_time=true")
	assert.Contains(t, gotQuery, "markdown=true")
}

func TestClient_GetPosition(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/positions/123.json", r.URL.Path)
		_, _ = w.Write([]byte(positionJSON))
	})

	p, err := c.GetPosition(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", p.Title)
	assert.Equal(t, "Full Time", p.Type)
	require.NotNil(t, p.CompanyURL)
	assert.Equal(t, "http://autsoft.hu", *p.CompanyURL)
}

func TestClient_GetPosition_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.GetPosition(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetPosition_EmptyObjectIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.GetPosition(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.ListPositions(context.Background(), ListOptions{})
	require.Error(t, err)

	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, http.StatusBadGateway, ne.StatusCode)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestClient_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.ListPositions(context.Background(), ListOptions{})
	assert.True(t, IsNetworkError(err))
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url})
	require.NoError(t, err)

	_, err = c.GetPosition(context.Background(), "1")
	assert.True(t, IsNetworkError(err))
}

func TestClient_TooManyRequestsSetsBackoff(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.ListPositions(context.Background(), ListOptions{})
	require.True(t, IsNetworkError(err))

	// next call must wait for the backoff window; the short deadline cuts it off
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.ListPositions(ctx, ListOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "::not a url"})
	assert.Error(t, err)
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 5*time.Second, retryAfter("5"))
	assert.Equal(t, time.Second, retryAfter(""))
	assert.Equal(t, time.Second, retryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}
