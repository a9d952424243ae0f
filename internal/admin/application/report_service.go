package application

import (
	"context"
	"strings"

	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

type reportService struct {
	repo ReportRepository
}

// NewReportService creates the dashboard read service.
func NewReportService(repo ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) List(ctx context.Context, filter ReportFilter, paging Paging) ([]reportdomain.Report, int64, error) {
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	return s.repo.Find(ctx, filter, paging)
}

func (s *reportService) Detail(ctx context.Context, id string) (*reportdomain.Report, error) {
	if strings.TrimSpace(id) == "" {
		return nil, reportdomain.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *reportService) Totals(ctx context.Context) (StatusTotals, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return StatusTotals{}, err
	}
	var totals StatusTotals
	for status, n := range counts {
		totals.Total += n
		switch status {
		case reportdomain.StatusInProgress:
			totals.InProgress += n
		case reportdomain.StatusDone:
			totals.Done += n
		case reportdomain.StatusReceived:
			totals.New += n
		}
	}
	return totals, nil
}
