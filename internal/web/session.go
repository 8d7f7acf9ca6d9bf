package web

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/autsoft/hwsw-jobs/internal/arch"
	"github.com/autsoft/hwsw-jobs/internal/jobsapi"
	"github.com/autsoft/hwsw-jobs/internal/logger"
	"github.com/autsoft/hwsw-jobs/internal/navigator"
	"github.com/autsoft/hwsw-jobs/internal/ui/jobdetail"
	"github.com/autsoft/hwsw-jobs/internal/ui/joblist"
)

const publishTimeout = 5 * time.Second

// JobsSource is everything the screens need from the domain layer.
type JobsSource interface {
	joblist.JobSource
	jobdetail.DetailSource
}

// BrowsePublisher exports browse events.
type BrowsePublisher interface {
	PublishBrowse(ctx context.Context, sessionID string, ev jobdetail.BrowseURLEvent) error
}

// SessionDeps are shared by every session.
type SessionDeps struct {
	Jobs        JobsSource
	Publisher   BrowsePublisher
	ListOptions jobsapi.ListOptions
	Log         *logger.Logger
}

// detailScreen remembers which job a detail view-model shows.
type detailScreen struct {
	*jobdetail.ViewModel
	jobID string
}

// Session is one connected client's screen stack. All screen calls run on
// the session's looper goroutine.
type Session struct {
	ID string

	deps   SessionDeps
	ctx    context.Context
	send   func([]byte) bool
	looper *arch.Looper
	stack  *navigator.Stack
	list   *joblist.ViewModel
	log    *logger.Logger

	subs      []arch.Subscription
	lastList  []joblist.Listing
	listShown bool
}

// NewSession creates a session that writes rendered messages to send.
func NewSession(deps SessionDeps, send func([]byte) bool) *Session {
	log := deps.Log
	if log == nil {
		log = logger.Get()
	}
	id := uuid.NewString()
	s := &Session{
		ID:     id,
		deps:   deps,
		ctx:    context.Background(),
		send:   send,
		looper: arch.NewLooper(64),
		log:    log.Component("session"),
	}
	s.log = &logger.Logger{Logger: s.log.With().Str("session_id", id).Logger()}
	s.stack = navigator.NewStack(s.onTop)
	return s
}

// Run shows the job list and processes the session until ctx is done. On
// return every screen is disposed.
func (s *Session) Run(ctx context.Context) {
	s.looper.Post(func() {
		s.ctx = ctx
		s.list = joblist.NewViewModel(s.deps.Jobs, s.deps.ListOptions, s.log, s.archOptions()...)
		s.stack.Add(s.list)
	})

	s.looper.Run(ctx)

	s.unsubscribe()
	s.stack.Clear()
	s.log.Debug().Msg("session closed")
}

// Handle decodes a client message and applies it on the looper.
func (s *Session) Handle(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.send(errorMessage("invalid message: %v", err))
		return
	}
	s.looper.Post(func() { s.apply(msg) })
}

// Refresh reloads the job list, even when it is covered by a detail screen.
func (s *Session) Refresh() {
	s.looper.Post(func() {
		if s.list == nil {
			return
		}
		if err := s.list.Load(); err != nil {
			s.log.Debug().Err(err).Msg("refresh skipped")
		}
	})
}

func (s *Session) archOptions() []arch.Option {
	return []arch.Option{arch.WithDispatcher(s.looper)}
}

func (s *Session) apply(msg ClientMessage) {
	switch msg.Action {
	case ActionLoad:
		s.start(s.stack.Top())

	case ActionSelect:
		if msg.ID == "" {
			s.send(errorMessage("select needs an id"))
			return
		}
		vm := jobdetail.NewViewModel(s.deps.Jobs, s.log, s.archOptions()...)
		s.stack.Add(&detailScreen{ViewModel: vm, jobID: msg.ID})

	case ActionBrowse:
		detail, ok := s.stack.Top().(*detailScreen)
		if !ok {
			s.send(errorMessage("browse needs a job detail screen"))
			return
		}
		id := msg.ID
		if id == "" {
			id = detail.jobID
		}
		if err := detail.Browse(id); err != nil {
			s.log.Warn().Err(err).Msg("browse failed")
		}

	case ActionBack:
		if !s.stack.Pop() {
			s.send(errorMessage("already at the job list"))
		}

	default:
		s.send(errorMessage("unknown action %q", msg.Action))
	}
}

// onTop runs when a screen becomes current. The previous screen stops being
// observed, the new one is observed (which replays its state) and started.
func (s *Session) onTop(screen navigator.Screen) {
	s.unsubscribe()
	depth := s.stack.Len()

	switch sc := screen.(type) {
	case *joblist.ViewModel:
		s.listShown = false
		s.subs = append(s.subs, sc.ObserveState(func(st joblist.State) {
			if ready, ok := st.(joblist.Ready); ok {
				if s.listShown && joblist.SameListings(s.lastList, ready.Listings) {
					return
				}
				s.lastList = ready.Listings
				s.listShown = true
			}
			s.push(StateMessage{Type: TypeState, Screen: joblist.ScreenName, Depth: depth, State: renderJobList(st)})
		}))

	case *detailScreen:
		s.subs = append(s.subs,
			sc.ObserveState(func(st jobdetail.State) {
				s.push(StateMessage{Type: TypeState, Screen: jobdetail.ScreenName, Depth: depth, State: renderJobDetail(st)})
			}),
			sc.ObserveEvents(func(e arch.Event) {
				s.onDetailEvent(e)
			}),
		)
	}

	s.start(screen)
}

func (s *Session) start(screen navigator.Screen) {
	var err error
	switch sc := screen.(type) {
	case *joblist.ViewModel:
		err = sc.Load()
	case *detailScreen:
		err = sc.Load(sc.jobID)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("screen", screen.Name()).Msg("load failed to start")
	}
}

func (s *Session) onDetailEvent(e arch.Event) {
	s.push(renderEvent(jobdetail.ScreenName, e))

	browse, ok := e.(jobdetail.BrowseURLEvent)
	if !ok || s.deps.Publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, publishTimeout)
	go func() {
		defer cancel()
		if err := s.deps.Publisher.PublishBrowse(ctx, s.ID, browse); err != nil {
			s.log.Warn().Err(err).Str("job_id", browse.JobID).Msg("publish browse event failed")
		}
	}()
}

func (s *Session) push(v interface{}) {
	if !s.send(marshal(v)) {
		s.log.Debug().Msg("client too slow, message dropped")
	}
}

func (s *Session) unsubscribe() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
}

// Sessions tracks the live sessions.
type Sessions struct {
	deps SessionDeps

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessions creates a registry whose sessions share deps.
func NewSessions(deps SessionDeps) *Sessions {
	return &Sessions{deps: deps, sessions: make(map[string]*Session)}
}

// Open starts a session writing to send. It stops when ctx is done.
func (r *Sessions) Open(ctx context.Context, send func([]byte) bool) *Session {
	s := NewSession(r.deps, send)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	go func() {
		s.Run(ctx)
		r.mu.Lock()
		delete(r.sessions, s.ID)
		r.mu.Unlock()
	}()
	return s
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// RefreshAll reloads the job list of every live session and returns how
// many were refreshed.
func (r *Sessions) RefreshAll() int {
	r.mu.Lock()
	live := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.Unlock()

	for _, s := range live {
		s.Refresh()
	}
	return len(live)
}
