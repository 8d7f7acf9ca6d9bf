//go:build integration

package jobsapi_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autsoft/hwsw-jobs/internal/jobsapi"
)

func TestIntegration_ListAndFetch(t *testing.T) {
	_ = godotenv.Load("../../.env")

	baseURL := os.Getenv("JOBS_API_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: JOBS_API_URL not set")
	}

	client, err := jobsapi.New(jobsapi.Options{BaseURL: baseURL, Timeout: 30 * time.Second, RPS: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	positions, err := client.ListPositions(ctx, jobsapi.ListOptions{})
	require.NoError(t, err)
	if len(positions) == 0 {
		t.Skip("api returned no open positions")
	}

	first := positions[0]
	pos, err := client.GetPosition(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, pos.ID)
	assert.NotEmpty(t, pos.URL)

	_, err = client.GetPosition(ctx, "no-such-position-0")
	assert.ErrorIs(t, err, jobsapi.ErrNotFound)
}
