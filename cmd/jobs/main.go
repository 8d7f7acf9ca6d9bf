package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/autsoft/hwsw-jobs/internal/arch"
	"github.com/autsoft/hwsw-jobs/internal/browser"
	"github.com/autsoft/hwsw-jobs/internal/cache"
	"github.com/autsoft/hwsw-jobs/internal/config"
	"github.com/autsoft/hwsw-jobs/internal/database"
	"github.com/autsoft/hwsw-jobs/internal/domain"
	"github.com/autsoft/hwsw-jobs/internal/jobsapi"
	"github.com/autsoft/hwsw-jobs/internal/logger"
	"github.com/autsoft/hwsw-jobs/internal/output"
	"github.com/autsoft/hwsw-jobs/internal/repository"
	"github.com/autsoft/hwsw-jobs/internal/ui/jobdetail"
	"github.com/autsoft/hwsw-jobs/internal/ui/joblist"
)

const usage = `usage: jobs <command> [flags]

commands:
  list   [-q search] [-l location] [-full-time]   list open positions
  show   <id>                                      show one position
  apply  [-print] <id>                             open the apply page of a position
  serve                                            run the websocket and rest server
  watch                                            open browse events from the server locally
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	// 3. Setup context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "list":
		err = runList(ctx, cfg, args, os.Stdout)
	case "show":
		err = runShow(ctx, cfg, args, os.Stdout)
	case "apply":
		err = runApply(ctx, cfg, args, os.Stdout)
	case "serve":
		err = runServe(ctx, cfg)
	case "watch":
		err = runWatch(ctx, cfg)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Get().Error().Err(err).Str("command", cmd).Msg("command failed")
		os.Exit(1)
	}
}

// app is the wired domain layer shared by every command.
type app struct {
	interactor *domain.Interactor
	closers    []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Get().Warn().Err(err).Msg("close failed")
		}
	}
}

// newApp connects the remote api and the configured url cache.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.Get()

	api, err := jobsapi.New(jobsapi.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout(),
		RPS:     cfg.APIRPS,
		Log:     log,
	})
	if err != nil {
		return nil, err
	}

	a := &app{}
	var urls domain.URLCache

	switch {
	case !cfg.DiskCache:
		log.Debug().Msg("url cache disabled")
	case cfg.CacheBackend == config.CacheBackendRedis:
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, rc.Close)
		urls = rc
	default:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		urls = repository.NewJobURLsRepository(db.GORM)
	}

	a.interactor = domain.NewInteractor(api, urls, log)
	return a, nil
}

func runList(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	search := fs.String("q", "", "search term, e.g. \"golang\"")
	location := fs.String("l", "", "location, e.g. \"Budapest\"")
	fullTime := fs.Bool("full-time", false, "only full time positions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	vm := joblist.NewViewModel(a.interactor, jobsapi.ListOptions{
		Search:   *search,
		Location: *location,
		FullTime: *fullTime,
	}, logger.Get())
	defer vm.Dispose()

	state, err := awaitState(ctx, vm.ViewModel, vm.Load, func(s joblist.State) bool {
		_, loading := s.(joblist.Loading)
		return !loading
	})
	if err != nil {
		return err
	}

	if err := output.NewConsolePrinter(out).JobList(state); err != nil {
		return err
	}
	if failed, ok := state.(joblist.Failed); ok {
		return failed.Err
	}
	return nil
}

func runShow(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("show needs exactly one job id")
	}
	id := fs.Arg(0)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	vm := jobdetail.NewViewModel(a.interactor, logger.Get())
	defer vm.Dispose()

	state, err := awaitState(ctx, vm.ViewModel, func() error { return vm.Load(id) }, func(s jobdetail.State) bool {
		_, loading := s.(jobdetail.Loading)
		return !loading
	})
	if err != nil {
		return err
	}

	if err := output.NewConsolePrinter(out).JobDetail(state); err != nil {
		return err
	}
	if failed, ok := state.(jobdetail.Failed); ok {
		return failed.Err
	}
	return nil
}

func runApply(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	printOnly := fs.Bool("print", false, "print the url instead of opening it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("apply needs exactly one job id")
	}
	id := fs.Arg(0)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var opener browser.Opener = browser.NewSystem(logger.Get())
	if *printOnly {
		opener = &printOpener{out: out}
	}
	return browse(ctx, jobdetail.NewViewModel(a.interactor, logger.Get()), id, opener)
}

// browse runs the apply action on vm and hands the resulting url to opener.
func browse(ctx context.Context, vm *jobdetail.ViewModel, id string, opener browser.Opener) error {
	defer vm.Dispose()

	result := make(chan arch.Event, 1)
	sub := vm.ObserveEvents(func(e arch.Event) {
		select {
		case result <- e:
		default:
		}
	})
	defer sub.Unsubscribe()

	if err := vm.Browse(id); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-result:
		switch ev := e.(type) {
		case jobdetail.BrowseURLEvent:
			return opener.Open(ctx, ev.URL)
		case jobdetail.ErrorEvent:
			return ev.Err
		default:
			return fmt.Errorf("unexpected event %s", e.EventName())
		}
	}
}

type printOpener struct {
	out io.Writer
}

func (p *printOpener) Open(_ context.Context, url string) error {
	_, err := fmt.Fprintln(p.out, url)
	return err
}

// awaitState starts a load and blocks until the view-model reaches a state
// accepted by done.
func awaitState[S any](ctx context.Context, vm *arch.ViewModel[S], start func() error, done func(S) bool) (S, error) {
	var zero S

	reached := make(chan S, 1)
	sub := vm.ObserveState(func(s S) {
		if !done(s) {
			return
		}
		select {
		case reached <- s:
		default:
		}
	})
	defer sub.Unsubscribe()

	if err := start(); err != nil {
		return zero, err
	}

	select {
	case s := <-reached:
		return s, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
