package handlers

import (
	"context"

	"github.com/autsoft/hwsw-jobs/internal/jobsapi"
	"github.com/autsoft/hwsw-jobs/internal/models"
)

// JobsService defines the interface for job lookups used by the handlers.
type JobsService interface {
	ListAllJobs(ctx context.Context, opts jobsapi.ListOptions) ([]models.JobListing, error)
	FetchJobDetails(ctx context.Context, id string) (*models.JobDetails, error)
	ResolveApplyURL(ctx context.Context, id string) (string, error)
}
