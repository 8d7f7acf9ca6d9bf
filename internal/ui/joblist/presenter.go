package joblist

import (
	"context"

	"github.com/autsoft/hwsw-jobs/internal/jobsapi"
)

// Listing is one row of the list.
type Listing struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Company  string  `json:"company"`
	Location string  `json:"location"`
	ImageURL *string `json:"image_url,omitempty"`
}

// Presenter maps domain listings to rows.
type Presenter struct {
	jobs JobSource
}

// NewPresenter creates a presenter over jobs.
func NewPresenter(jobs JobSource) *Presenter {
	return &Presenter{jobs: jobs}
}

// Listings loads and maps all listings, keeping api order.
func (p *Presenter) Listings(ctx context.Context, opts jobsapi.ListOptions) ([]Listing, error) {
	jobs, err := p.jobs.ListAllJobs(ctx, opts)
	if err != nil {
		return nil, err
	}

	rows := make([]Listing, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, Listing{
			ID:       j.ID,
			Title:    j.Title,
			Company:  j.Company,
			Location: j.Location,
			ImageURL: j.CompanyLogo,
		})
	}
	return rows, nil
}

// SameListing reports whether a and b are the same posting.
func SameListing(a, b Listing) bool {
	return a.ID == b.ID
}

// SameListingContents reports whether a and b render identically.
func SameListingContents(a, b Listing) bool {
	if a.ID != b.ID || a.Title != b.Title || a.Company != b.Company || a.Location != b.Location {
		return false
	}
	switch {
	case a.ImageURL == nil && b.ImageURL == nil:
		return true
	case a.ImageURL == nil || b.ImageURL == nil:
		return false
	default:
		return *a.ImageURL == *b.ImageURL
	}
}

// SameListings reports whether two lists render identically, row by row.
func SameListings(a, b []Listing) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SameListing(a[i], b[i]) || !SameListingContents(a[i], b[i]) {
			return false
		}
	}
	return true
}
