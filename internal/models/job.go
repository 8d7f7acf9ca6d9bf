package models

import "time"

// Position is a job record exactly as the remote api returns it.
type Position struct {
	ID          string  `json:"id"`
	CreatedAt   string  `json:"created_at"`
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	HowToApply  string  `json:"how_to_apply"`
	Company     string  `json:"company"`
	CompanyURL  *string `json:"company_url"`
	CompanyLogo *string `json:"company_logo"`
	URL         string  `json:"url"`
}

// JobListing is the summary of a posting used for list rendering.
type JobListing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	CompanyLogo *string `json:"company_logo,omitempty"`
}

// JobDetails is the full record of a single posting.
type JobDetails struct {
	ID          string  `json:"id"`
	CreatedAt   string  `json:"created_at"`
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	HowToApply  string  `json:"how_to_apply"`
	Company     string  `json:"company"`
	CompanyURL  *string `json:"company_url,omitempty"`
	CompanyLogo *string `json:"company_logo,omitempty"`
	URL         string  `json:"url"`
}

// Listing returns the summary part of the details.
func (d JobDetails) Listing() JobListing {
	return JobListing{
		ID:          d.ID,
		Title:       d.Title,
		Company:     d.Company,
		Location:    d.Location,
		CompanyLogo: d.CompanyLogo,
	}
}

// Listing converts a wire record into a listing summary.
func (p Position) Listing() JobListing {
	return p.Details().Listing()
}

// Details converts a wire record into full job details.
func (p Position) Details() JobDetails {
	return JobDetails{
		ID:          p.ID,
		CreatedAt:   p.CreatedAt,
		Title:       p.Title,
		Location:    p.Location,
		Type:        p.Type,
		Description: p.Description,
		HowToApply:  p.HowToApply,
		Company:     p.Company,
		CompanyURL:  p.CompanyURL,
		CompanyLogo: p.CompanyLogo,
		URL:         p.URL,
	}
}

// JobURL is a cached apply url, one row per job id.
type JobURL struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	URL       string    `gorm:"not null" json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by the url cache.
func (JobURL) TableName() string {
	return "job_urls"
}
