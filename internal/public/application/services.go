package application

import (
	"context"

	"github.com/jejak-app/jejak/api/internal/classify"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// ReportRepository abstracts report persistence for the citizen-facing context.
type ReportRepository interface {
	Find(ctx context.Context, filter ReportFilter, paging Paging) ([]reportdomain.Report, int64, error)
	FindByID(ctx context.Context, id string) (*reportdomain.Report, error)
	Insert(ctx context.Context, report *reportdomain.Report) error
}

// PhotoStorage stores report photos under an opaque path.
type PhotoStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Delete(ctx context.Context, path string) error
}

// Categorizer assigns a category and runs moderation.
type Categorizer interface {
	Categorize(ctx context.Context, in classify.Input) (classify.Result, error)
}

// ReportFilter expresses public search criteria.
type ReportFilter struct {
	Category reportdomain.Category
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// ReportQueryService describes public read use-cases.
type ReportQueryService interface {
	List(ctx context.Context, filter ReportFilter, paging Paging) ([]reportdomain.Report, int64, error)
	Detail(ctx context.Context, id string) (*reportdomain.Report, error)
}

// SubmissionService runs the report intake pipeline.
type SubmissionService interface {
	Submit(ctx context.Context, cmd SubmitReportCommand) (*reportdomain.Report, error)
}

// SubmitReportCommand captures what a citizen sends with a new report.
type SubmitReportCommand struct {
	Title           string  `validate:"max=500"`
	Description     string  `validate:"required"`
	ReporterName    string  `validate:"max=100"`
	ReporterContact string  `validate:"omitempty,number,max=20"`
	Latitude        float64 `validate:"latitude"`
	Longitude       float64 `validate:"longitude"`
	Address         string  `validate:"max=500"`
	PhotoName       string  `validate:"max=255"`
	Photo           []byte
}
