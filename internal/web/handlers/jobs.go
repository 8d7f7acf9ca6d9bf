package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/autsoft/hwsw-jobs/internal/jobsapi"
	"github.com/autsoft/hwsw-jobs/internal/models"
	"github.com/autsoft/hwsw-jobs/internal/web"
)

// JobsHandler handles job-related requests
type JobsHandler struct {
	jobs JobsService
	hub  *web.Hub
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(jobs JobsService, hub *web.Hub) *JobsHandler {
	return &JobsHandler{
		jobs: jobs,
		hub:  hub,
	}
}

// List returns every listing matching the optional q, location and
// full_time filters.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	fullTime, _ := strconv.ParseBool(r.URL.Query().Get("full_time"))
	opts := jobsapi.ListOptions{
		Search:   r.URL.Query().Get("q"),
		Location: r.URL.Query().Get("location"),
		FullTime: fullTime,
	}

	jobs, err := h.jobs.ListAllJobs(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Ensure we return empty array, not null
	if jobs == nil {
		jobs = []models.JobListing{}
	}

	resp := struct {
		Jobs  []models.JobListing `json:"jobs"`
		Total int                 `json:"total"`
	}{
		Jobs:  jobs,
		Total: len(jobs),
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetByID returns a single job's details.
func (h *JobsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.FetchJobDetails(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// Apply resolves the apply url of a job through the local cache and
// announces it to every websocket client.
func (h *JobsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	url, err := h.jobs.ResolveApplyURL(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Notify clients
	if h.hub != nil {
		h.hub.Broadcast(web.JobURLResolvedEvent(id, url))
	}

	writeJSON(w, http.StatusOK, web.JobURLResolvedPayload{JobID: id, URL: url})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, jobsapi.ErrNotFound):
		http.NotFound(w, r)
	case jobsapi.IsNetworkError(err):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		_ = err // Client disconnected
	}
}
