package domain

import (
	"time"

	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// ReportSummary is the public list projection of a report. Reporter identity and moderation data
// never leave the admin context.
type ReportSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	Address   string    `json:"address,omitempty"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReportDetail adds the long-form fields shown on the report page.
type ReportDetail struct {
	ReportSummary
	Description string    `json:"description"`
	Response    string    `json:"response,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewReportSummary projects r. photoURL is resolved by the caller from the stored photo path.
func NewReportSummary(r reportdomain.Report, photoURL string) ReportSummary {
	return ReportSummary{
		ID:        r.ID,
		Title:     r.Title,
		Category:  r.Category.String(),
		Status:    r.Status.String(),
		Address:   r.Address,
		Latitude:  r.Location.Latitude,
		Longitude: r.Location.Longitude,
		PhotoURL:  photoURL,
		CreatedAt: r.CreatedAt,
	}
}

// NewReportDetail projects r for the detail page.
func NewReportDetail(r reportdomain.Report, photoURL string) ReportDetail {
	return ReportDetail{
		ReportSummary: NewReportSummary(r, photoURL),
		Description:   r.Description,
		Response:      r.Response,
		UpdatedAt:     r.UpdatedAt,
	}
}
