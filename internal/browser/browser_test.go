package browser

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFor(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"linux", []string{"xdg-open", "https://x"}},
		{"freebsd", []string{"xdg-open", "https://x"}},
		{"darwin", []string{"open", "https://x"}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", "https://x"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd := commandFor(tt.goos)("https://x")
			assert.Equal(t, tt.want, cmd.Args)
		})
	}
}

func TestSystem_OpenStartError(t *testing.T) {
	s := NewSystem(nil)
	s.command = func(url string) *exec.Cmd {
		return exec.Command("/nonexistent/browser-handler", url)
	}

	err := s.Open(context.Background(), "https://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open https://x")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Open(context.Background(), "https://a"))
	require.NoError(t, r.Open(context.Background(), "https://b"))
	assert.Equal(t, []string{"https://a", "https://b"}, r.URLs())

	r.Err = errors.New("no display")
	assert.EqualError(t, r.Open(context.Background(), "https://c"), "no display")
	assert.Len(t, r.URLs(), 2)
}
