package jobdetail

import "context"

// DetailedJob is a job shaped for the detail screen.
type DetailedJob struct {
	ID           string  `json:"id"`
	PositionInfo string  `json:"position_info"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	CompanyLogo  *string `json:"company_logo,omitempty"`
}

// Presenter maps domain details to DetailedJob.
type Presenter struct {
	source DetailSource
}

// NewPresenter creates a presenter over source.
func NewPresenter(source DetailSource) *Presenter {
	return &Presenter{source: source}
}

// DetailedJob fetches and maps one job.
func (p *Presenter) DetailedJob(ctx context.Context, id string) (*DetailedJob, error) {
	d, err := p.source.FetchJobDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DetailedJob{
		ID:           d.ID,
		PositionInfo: d.Title + " @ " + d.Company,
		Location:     d.Location,
		Description:  d.Description,
		CompanyLogo:  d.CompanyLogo,
	}, nil
}

// URL resolves the apply url of a job.
func (p *Presenter) URL(ctx context.Context, id string) (string, error) {
	return p.source.ResolveApplyURL(ctx, id)
}
