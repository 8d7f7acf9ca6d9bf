// Package browser opens urls outside the process.
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/autsoft/hwsw-jobs/internal/logger"
)

// Opener opens a url in the user's browser.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// System opens urls with the platform's default handler.
type System struct {
	log *logger.Logger
	// command builds the exec command; swapped in tests.
	command func(url string) *exec.Cmd
}

// NewSystem creates a System opener for the current platform.
func NewSystem(log *logger.Logger) *System {
	if log == nil {
		log = logger.Get()
	}
	return &System{
		log:     log.Component("browser"),
		command: commandFor(runtime.GOOS),
	}
}

func commandFor(goos string) func(url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return func(url string) *exec.Cmd {
			return exec.Command("open", url)
		}
	case "windows":
		return func(url string) *exec.Cmd {
			return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		}
	default:
		return func(url string) *exec.Cmd {
			return exec.Command("xdg-open", url)
		}
	}
}

// Open starts the handler and returns without waiting for the browser. The
// handler outlives ctx.
func (s *System) Open(_ context.Context, url string) error {
	cmd := s.command(url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	s.log.Info().Str("url", url).Msg("opened in browser")

	go func() {
		if err := cmd.Wait(); err != nil {
			s.log.Debug().Err(err).Str("url", url).Msg("browser handler exited")
		}
	}()
	return nil
}

// Recorder remembers urls instead of opening them. Used headless and in
// tests.
type Recorder struct {
	mu   sync.Mutex
	urls []string
	Err  error
}

// Open records url, or returns Err when set.
func (r *Recorder) Open(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.urls = append(r.urls, url)
	return nil
}

// URLs returns the recorded urls in order.
func (r *Recorder) URLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}
