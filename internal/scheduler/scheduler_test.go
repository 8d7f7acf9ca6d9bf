package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) RefreshAll() int {
	r.calls.Add(1)
	return 2
}

func TestScheduler_Refreshes(t *testing.T) {
	r := &countingRefresher{}
	s := New("@every 1s", r, nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_EmptySpecDisables(t *testing.T) {
	r := &countingRefresher{}
	s := New("", r, nil)

	require.NoError(t, s.Start())
	s.Stop()
	assert.Equal(t, int32(0), r.calls.Load())
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New("every now and then", &countingRefresher{}, nil)

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every now and then")
}
