// Package domain resolves job data for the screens: listings and details
// straight from the remote api, apply urls through the local cache.
package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/autsoft/hwsw-jobs/internal/jobsapi"
	"github.com/autsoft/hwsw-jobs/internal/logger"
	"github.com/autsoft/hwsw-jobs/internal/models"
)

// RemoteSource is the remote job api.
type RemoteSource interface {
	ListPositions(ctx context.Context, opts jobsapi.ListOptions) ([]models.Position, error)
	GetPosition(ctx context.Context, id string) (*models.Position, error)
}

// URLCache is the local apply url store.
type URLCache interface {
	Upsert(ctx context.Context, id, url string) error
	Get(ctx context.Context, id string) (url string, ok bool, err error)
}

// CacheError wraps a local store failure. It never reaches callers of the
// interactor; the cache is an optimization and failures fall through to the
// network.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("url cache %s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// Interactor is the jobs use-case layer.
type Interactor struct {
	remote RemoteSource
	cache  URLCache
	log    *logger.Logger
}

// NewInteractor creates an interactor. A nil cache makes ResolveApplyURL
// go to the network on every call.
func NewInteractor(remote RemoteSource, cache URLCache, log *logger.Logger) *Interactor {
	if log == nil {
		log = logger.Get()
	}
	return &Interactor{
		remote: remote,
		cache:  cache,
		log:    log.Component("interactor"),
	}
}

// ToHTTPS rewrites a leading http:// to https://. Absent stays absent.
func ToHTTPS(u *string) *string {
	if u == nil {
		return nil
	}
	s := *u
	if strings.HasPrefix(s, "http://") {
		s = "https://" + strings.TrimPrefix(s, "http://")
	}
	return &s
}

// ListAllJobs returns the full remote listing in api order.
func (i *Interactor) ListAllJobs(ctx context.Context, opts jobsapi.ListOptions) ([]models.JobListing, error) {
	positions, err := i.remote.ListPositions(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	listings := make([]models.JobListing, 0, len(positions))
	for _, p := range positions {
		l := p.Listing()
		l.CompanyLogo = ToHTTPS(l.CompanyLogo)
		listings = append(listings, l)
	}
	return listings, nil
}

// FetchJobDetails returns one job's full record. The cache is not involved.
func (i *Interactor) FetchJobDetails(ctx context.Context, id string) (*models.JobDetails, error) {
	p, err := i.remote.GetPosition(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch job %s: %w", id, err)
	}

	d := p.Details()
	d.CompanyLogo = ToHTTPS(d.CompanyLogo)
	return &d, nil
}

// ResolveApplyURL returns the apply url for id, from the cache when present.
// On a miss the url is fetched, written to the cache and then returned, so
// the next call for the same id hits the cache.
func (i *Interactor) ResolveApplyURL(ctx context.Context, id string) (string, error) {
	if i.cache != nil {
		url, ok, err := i.cache.Get(ctx, id)
		switch {
		case err != nil:
			i.log.Warn().Err(&CacheError{Op: "get", Err: err}).Str("job_id", id).Msg("cache lookup failed, using api")
		case ok:
			i.log.Debug().Str("job_id", id).Msg("found job url on disk")
			return url, nil
		default:
			i.log.Debug().Str("job_id", id).Msg("didn't find job url on disk")
		}
	}

	details, err := i.FetchJobDetails(ctx, id)
	if err != nil {
		return "", err
	}
	i.log.Debug().Str("job_id", id).Msg("got job url from api")

	if i.cache != nil {
		if err := i.cache.Upsert(ctx, id, details.URL); err != nil {
			i.log.Warn().Err(&CacheError{Op: "upsert", Err: err}).Str("job_id", id).Msg("failed to save job url")
		} else {
			i.log.Debug().Str("job_id", id).Msg("saved job url to disk")
		}
	}

	return details.URL, nil
}
