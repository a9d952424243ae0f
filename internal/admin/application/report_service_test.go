package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

func TestReportService_Totals(t *testing.T) {
	repo := newMemoryReports(
		reportdomain.Report{ID: "1", Status: reportdomain.StatusReceived},
		reportdomain.Report{ID: "2", Status: reportdomain.StatusReceived},
		reportdomain.Report{ID: "3", Status: reportdomain.StatusInProgress},
		reportdomain.Report{ID: "4", Status: reportdomain.StatusDone},
		reportdomain.Report{ID: "5"},
	)
	totals, err := NewReportService(repo).Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusTotals{Total: 5, New: 2, InProgress: 1, Done: 1}, totals)
}

func TestReportService_ListTrimsKeyword(t *testing.T) {
	repo := newMemoryReports(
		reportdomain.Report{ID: "1", Title: "Sampah menumpuk", Status: reportdomain.StatusReceived},
		reportdomain.Report{ID: "2", Title: "Lampu mati", Address: "Jl. Kenanga", Status: reportdomain.StatusReceived},
	)
	got, total, err := NewReportService(repo).List(context.Background(), ReportFilter{Keyword: "  kenanga "}, Paging{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "2", got[0].ID)
}

func TestReportService_DetailEmptyID(t *testing.T) {
	_, err := NewReportService(newMemoryReports()).Detail(context.Background(), " ")
	assert.ErrorIs(t, err, reportdomain.ErrNotFound)
}
