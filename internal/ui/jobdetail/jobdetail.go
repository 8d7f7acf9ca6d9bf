// Package jobdetail is the job detail screen. It shows one posting and
// turns the apply action into a browse event.
package jobdetail

import (
	"context"
	"fmt"

	"github.com/autsoft/hwsw-jobs/internal/arch"
	"github.com/autsoft/hwsw-jobs/internal/logger"
	"github.com/autsoft/hwsw-jobs/internal/models"
)

// ScreenName identifies the screen in rendered output.
const ScreenName = "jobdetail"

// Event names.
const (
	EventBrowseURL = "browse_url"
	EventError     = "error"
)

// DetailSource provides job details and apply urls.
type DetailSource interface {
	FetchJobDetails(ctx context.Context, id string) (*models.JobDetails, error)
	ResolveApplyURL(ctx context.Context, id string) (string, error)
}

// State is one of Loading, Loaded or Failed.
type State interface {
	isJobDetailState()
}

// Loading is shown while details are fetched.
type Loading struct{}

// Loaded carries the presented job.
type Loaded struct {
	Job DetailedJob `json:"job"`
}

// Failed carries the error of the last load.
type Failed struct {
	Err error `json:"-"`
}

func (Loading) isJobDetailState() {}
func (Loaded) isJobDetailState()  {}
func (Failed) isJobDetailState()  {}

// Message returns the error text for rendering.
func (f Failed) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// BrowseURLEvent asks the renderer to open URL in a browser.
type BrowseURLEvent struct {
	JobID string `json:"job_id"`
	URL   string `json:"url"`
}

// EventName implements arch.Event.
func (BrowseURLEvent) EventName() string { return EventBrowseURL }

// ErrorEvent reports a failed one-off action, such as resolving the apply url.
type ErrorEvent struct {
	Op  string `json:"op"`
	Err error  `json:"-"`
}

// EventName implements arch.Event.
func (ErrorEvent) EventName() string { return EventError }

// Message returns the error text for rendering.
func (e ErrorEvent) Message() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

// ViewModel drives the detail screen of a single job.
type ViewModel struct {
	*arch.ViewModel[State]
	presenter *Presenter
	log       *logger.Logger
}

// NewViewModel creates the detail view-model in the Loading state.
func NewViewModel(source DetailSource, log *logger.Logger, archOpts ...arch.Option) *ViewModel {
	if log == nil {
		log = logger.Get()
	}
	return &ViewModel{
		ViewModel: arch.NewViewModel[State](Loading{}, archOpts...),
		presenter: NewPresenter(source),
		log:       log.Component(ScreenName),
	}
}

// Name returns the screen name.
func (vm *ViewModel) Name() string { return ScreenName }

// Load fetches the job once. When the job is already loaded it does nothing,
// so returning to the screen does not refetch.
func (vm *ViewModel) Load(id string) error {
	if _, loaded := vm.ViewState().(Loaded); loaded {
		return nil
	}
	if err := vm.SetState(Loading{}); err != nil {
		return err
	}

	return vm.Launch("load", func(ctx context.Context) func() {
		job, err := vm.presenter.DetailedJob(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			vm.log.Warn().Err(err).Str("job_id", id).Msg("load job failed")
			return func() { _ = vm.SetState(Failed{Err: err}) }
		}
		return func() { _ = vm.SetState(Loaded{Job: *job}) }
	})
}

// Browse resolves the apply url and posts a BrowseURLEvent, or an ErrorEvent
// when the url cannot be resolved.
func (vm *ViewModel) Browse(id string) error {
	return vm.Launch("browse", func(ctx context.Context) func() {
		url, err := vm.presenter.URL(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			vm.log.Warn().Err(err).Str("job_id", id).Msg("resolve apply url failed")
			return func() { _ = vm.PostEvent(ErrorEvent{Op: "browse", Err: err}) }
		}
		return func() { _ = vm.PostEvent(BrowseURLEvent{JobID: id, URL: url}) }
	})
}

// Describe returns a short human readable summary of a state.
func Describe(s State) string {
	switch st := s.(type) {
	case Loading:
		return "loading"
	case Loaded:
		return st.Job.PositionInfo
	case Failed:
		return "failed: " + st.Message()
	default:
		panic(fmt.Sprintf("jobdetail: unknown state %T", s))
	}
}
