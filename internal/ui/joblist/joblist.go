// Package joblist is the job list screen: a view-model that loads every
// listing and the presenter shaping them for rendering.
package joblist

import (
	"context"
	"fmt"

	"github.com/autsoft/hwsw-jobs/internal/arch"
	"github.com/autsoft/hwsw-jobs/internal/jobsapi"
	"github.com/autsoft/hwsw-jobs/internal/logger"
	"github.com/autsoft/hwsw-jobs/internal/models"
)

// ScreenName identifies the screen in rendered output.
const ScreenName = "joblist"

// JobSource provides the listings.
type JobSource interface {
	ListAllJobs(ctx context.Context, opts jobsapi.ListOptions) ([]models.JobListing, error)
}

// State is one of Loading, Ready or Failed.
type State interface {
	isJobListState()
}

// Loading is shown until the first load completes.
type Loading struct{}

// Ready carries the listings in api order.
type Ready struct {
	Listings []Listing `json:"listings"`
}

// Failed carries the error of the last load.
type Failed struct {
	Err error `json:"-"`
}

func (Loading) isJobListState() {}
func (Ready) isJobListState()   {}
func (Failed) isJobListState()  {}

// Message returns the error text for rendering.
func (f Failed) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// ViewModel drives the job list screen.
type ViewModel struct {
	*arch.ViewModel[State]
	presenter *Presenter
	opts      jobsapi.ListOptions
	log       *logger.Logger
}

// NewViewModel creates the list view-model in the Loading state. opts filter
// the listing; the zero value lists everything.
func NewViewModel(jobs JobSource, opts jobsapi.ListOptions, log *logger.Logger, archOpts ...arch.Option) *ViewModel {
	if log == nil {
		log = logger.Get()
	}
	return &ViewModel{
		ViewModel: arch.NewViewModel[State](Loading{}, archOpts...),
		presenter: NewPresenter(jobs),
		opts:      opts,
		log:       log.Component(ScreenName),
	}
}

// Name returns the screen name.
func (vm *ViewModel) Name() string { return ScreenName }

// Load fetches the listings again. Every call reloads; a Ready list stays on
// screen until the new one arrives. After a failure the screen goes back to
// Loading.
func (vm *ViewModel) Load() error {
	if _, failed := vm.ViewState().(Failed); failed {
		if err := vm.SetState(Loading{}); err != nil {
			return err
		}
	}

	return vm.Launch("load", func(ctx context.Context) func() {
		listings, err := vm.presenter.Listings(ctx, vm.opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			vm.log.Warn().Err(err).Msg("load job list failed")
			return func() { _ = vm.SetState(Failed{Err: err}) }
		}
		vm.log.Debug().Int("count", len(listings)).Msg("job list loaded")
		return func() { _ = vm.SetState(Ready{Listings: listings}) }
	})
}

// Describe returns a short human readable summary of a state.
func Describe(s State) string {
	switch st := s.(type) {
	case Loading:
		return "loading"
	case Ready:
		return fmt.Sprintf("%d jobs", len(st.Listings))
	case Failed:
		return "failed: " + st.Message()
	default:
		panic(fmt.Sprintf("joblist: unknown state %T", s))
	}
}
