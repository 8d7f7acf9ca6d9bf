package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/autsoft/hwsw-jobs/internal/browser"
	"github.com/autsoft/hwsw-jobs/internal/config"
	"github.com/autsoft/hwsw-jobs/internal/logger"
	"github.com/autsoft/hwsw-jobs/internal/nats"
	"github.com/autsoft/hwsw-jobs/internal/publisher"
	"github.com/autsoft/hwsw-jobs/internal/scheduler"
	"github.com/autsoft/hwsw-jobs/internal/web"
	"github.com/autsoft/hwsw-jobs/internal/web/handlers"
)

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()
	log.Info().Msg("starting jobs server")

	// 1. Domain layer
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// 2. Connect to NATS
	var pub web.BrowsePublisher
	if cfg.NatsURL != "" {
		nc, err := nats.New(ctx, cfg.NatsURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to nats, publishing disabled")
		} else {
			defer nc.Close()
			if err := nc.EnsureStream(ctx, nats.StreamJobs, []string{nats.SubjectAll}); err != nil {
				log.Warn().Err(err).Msg("failed to ensure jobs stream")
			}
			pub = publisher.NewNATSPublisher(nc)
		}
	}

	// 3. WebSocket Hub and sessions
	hub := web.NewHub()
	go hub.Run()
	defer hub.Stop()

	sessions := web.NewSessions(web.SessionDeps{
		Jobs:      a.interactor,
		Publisher: pub,
		Log:       log,
	})

	// 4. Server
	server := web.NewServer(&web.Config{Port: cfg.HTTPPort}, hub, sessions)
	server.RegisterJobsHandler(handlers.NewJobsHandler(a.interactor, hub))

	// 5. Periodic refresh
	sched := scheduler.New(cfg.RefreshSchedule, sessions, log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("starting web server")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 6. Wait for shutdown
	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("shutdown complete")
	return nil
}

// runWatch opens every browse event published by a server in the local
// browser.
func runWatch(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()
	if cfg.NatsURL == "" {
		return errors.New("watch needs NATS_URL")
	}

	nc, err := nats.New(ctx, cfg.NatsURL)
	if err != nil {
		return err
	}
	defer nc.Close()

	if err := nc.EnsureStream(ctx, nats.StreamJobs, []string{nats.SubjectAll}); err != nil {
		return err
	}

	opener := browser.NewSystem(log)
	err = nc.Subscribe(ctx, nats.StreamJobs, "jobs-watch", nats.SubjectBrowse, func(data []byte) error {
		msg, err := publisher.DecodeBrowse(data)
		if err != nil {
			// a malformed message will never decode, ack it
			log.Warn().Err(err).Msg("skipping browse message")
			return nil
		}
		log.Info().Str("job_id", msg.JobID).Str("session_id", msg.SessionID).Msg("browse event")
		return opener.Open(ctx, msg.URL)
	})
	if err != nil {
		return err
	}

	log.Info().Str("subject", nats.SubjectBrowse).Msg("watching browse events")
	<-ctx.Done()
	return nil
}
