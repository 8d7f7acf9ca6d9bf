package web

import (
	"encoding/json"
	"fmt"

	"github.com/autsoft/hwsw-jobs/internal/arch"
	"github.com/autsoft/hwsw-jobs/internal/ui/jobdetail"
	"github.com/autsoft/hwsw-jobs/internal/ui/joblist"
)

// WebSocket message types
const (
	TypeState = "state"
	TypeEvent = "event"
	TypeError = "error"

	EventJobURLResolved = "job.url_resolved"
)

// WSEvent is a broadcast message sent to every client.
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// JobURLResolvedPayload is the payload for EventJobURLResolved
type JobURLResolvedPayload struct {
	JobID string `json:"job_id"`
	URL   string `json:"url"`
}

// JobURLResolvedEvent creates a JSON message announcing a resolved apply url.
func JobURLResolvedEvent(jobID, url string) []byte {
	return marshal(WSEvent{
		Type:    EventJobURLResolved,
		Payload: JobURLResolvedPayload{JobID: jobID, URL: url},
	})
}

// ScreenState is the rendered form of a screen state.
type ScreenState struct {
	Kind     string                 `json:"kind"`
	Listings []joblist.Listing      `json:"listings,omitempty"`
	Job      *jobdetail.DetailedJob `json:"job,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// StateMessage pushes the current screen's state.
type StateMessage struct {
	Type   string      `json:"type"`
	Screen string      `json:"screen"`
	Depth  int         `json:"depth"`
	State  ScreenState `json:"state"`
}

// EventMessage pushes a one-shot event.
type EventMessage struct {
	Type   string      `json:"type"`
	Screen string      `json:"screen"`
	Name   string      `json:"name"`
	Event  interface{} `json:"event"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// ClientMessage is what clients send over the socket.
type ClientMessage struct {
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

// Client actions
const (
	ActionLoad   = "load"
	ActionSelect = "select"
	ActionBrowse = "browse"
	ActionBack   = "back"
)

func renderJobList(s joblist.State) ScreenState {
	switch st := s.(type) {
	case joblist.Loading:
		return ScreenState{Kind: "loading"}
	case joblist.Ready:
		listings := st.Listings
		if listings == nil {
			listings = []joblist.Listing{}
		}
		return ScreenState{Kind: "ready", Listings: listings}
	case joblist.Failed:
		return ScreenState{Kind: "failed", Error: st.Message()}
	default:
		panic(fmt.Sprintf("web: unknown job list state %T", s))
	}
}

func renderJobDetail(s jobdetail.State) ScreenState {
	switch st := s.(type) {
	case jobdetail.Loading:
		return ScreenState{Kind: "loading"}
	case jobdetail.Loaded:
		job := st.Job
		return ScreenState{Kind: "loaded", Job: &job}
	case jobdetail.Failed:
		return ScreenState{Kind: "failed", Error: st.Message()}
	default:
		panic(fmt.Sprintf("web: unknown job detail state %T", s))
	}
}

func renderEvent(screen string, e arch.Event) EventMessage {
	msg := EventMessage{Type: TypeEvent, Screen: screen, Name: e.EventName()}
	switch ev := e.(type) {
	case jobdetail.BrowseURLEvent:
		msg.Event = ev
	case jobdetail.ErrorEvent:
		msg.Event = map[string]string{"op": ev.Op, "error": ev.Message()}
	default:
		msg.Event = ev
	}
	return msg
}

func errorMessage(format string, args ...interface{}) []byte {
	return marshal(ErrorMessage{Type: TypeError, Error: fmt.Sprintf(format, args...)})
}

func marshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(fmt.Sprintf(`{"type":"error","error":%q}`, err.Error()))
	}
	return b
}
