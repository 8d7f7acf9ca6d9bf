// Package scheduler runs the periodic job list refresh.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/autsoft/hwsw-jobs/internal/logger"
)

// Refresher reloads every live job list and reports how many it touched.
type Refresher interface {
	RefreshAll() int
}

// Scheduler wraps robfig/cron and drives the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string
	log       *logger.Logger
}

// New creates a scheduler firing on spec, e.g. "@every 10m".
func New(spec string, refresher Refresher, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Get()
	}
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		spec:      spec,
		log:       log.Component("scheduler"),
	}
}

// Start registers the refresh job and starts the cron loop. An empty spec
// disables refreshing.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.log.Info().Msg("refresh disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("refresh scheduled")
	return nil
}

// Stop stops the cron loop and waits for a running refresh to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	n := s.refresher.RefreshAll()
	s.log.Debug().Int("sessions", n).Msg("job lists refreshed")
}
