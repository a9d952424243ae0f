package application

import (
	"context"
	"strings"

	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// reportQueryService is the concrete implementation of ReportQueryService.
type reportQueryService struct {
	repo ReportRepository
}

// NewReportQueryService creates a new report query service.
func NewReportQueryService(repo ReportRepository) ReportQueryService {
	return &reportQueryService{repo: repo}
}

func (s *reportQueryService) List(ctx context.Context, filter ReportFilter, paging Paging) ([]reportdomain.Report, int64, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *reportQueryService) Detail(ctx context.Context, id string) (*reportdomain.Report, error) {
	if strings.TrimSpace(id) == "" {
		return nil, reportdomain.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}
