package mongo

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/jejak-app/jejak/api/internal/admin/application"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

func TestBuildAdminReportFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, buildAdminReportFilter(application.ReportFilter{}))

	single := buildAdminReportFilter(application.ReportFilter{Status: reportdomain.StatusReceived})
	assert.Equal(t, bson.M{"status": "Diterima"}, single)

	all := buildAdminReportFilter(application.ReportFilter{
		Status:   reportdomain.StatusDone,
		Category: reportdomain.CategoryCleanliness,
		Priority: 5,
		Keyword:  "jl. (kenanga)",
	})
	clauses, ok := all["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, clauses, 4)
	assert.Equal(t, bson.M{"status": "Selesai"}, clauses[0])
	assert.Equal(t, bson.M{"category": "Kebersihan"}, clauses[1])
	assert.Equal(t, bson.M{"priority": 5}, clauses[2])

	or := clauses[3]["$or"].(bson.A)
	require.Len(t, or, 3)
	regex := or[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, `jl\. \(kenanga\)`, regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}

func TestReportDocumentRoundTrip(t *testing.T) {
	created := time.Date(2026, 10, 1, 7, 0, 0, 0, time.UTC)
	report := &reportdomain.Report{
		Title:       "Sampah menumpuk",
		Description: "Di depan pasar",
		Category:    reportdomain.CategoryCleanliness,
		Priority:    3,
		Status:      reportdomain.StatusReceived,
		PhotoPath:   "photos/x_y.jpg",
		Location:    reportdomain.Location{Latitude: -6.2, Longitude: 106.8},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	doc := buildReportDocument(report)
	assert.True(t, doc.ID.IsZero(), "ID is assigned on insert")
	doc.ID = primitive.NewObjectID()

	got := mapReportDocument(doc)
	assert.Equal(t, doc.ID.Hex(), got.ID)
	got.ID = ""
	assert.Equal(t, *report, got)
}

func TestMapReportDocument_LegacyValues(t *testing.T) {
	got := mapReportDocument(ReportDocument{ID: primitive.NewObjectID(), Category: "banjir"})
	assert.Equal(t, reportdomain.CategoryOther, got.Category)
	assert.False(t, got.Priority.IsSet())
}

func TestInsertRefusesModeratedReport(t *testing.T) {
	repo := &ReportRepository{}
	err := repo.Insert(context.Background(), &reportdomain.Report{Moderation: true})
	assert.ErrorIs(t, err, errModeratedReport)
}

func TestParseReportIDAndNotFound(t *testing.T) {
	_, err := parseReportID("not-hex")
	assert.ErrorIs(t, err, reportdomain.ErrNotFound)

	oid := primitive.NewObjectID()
	parsed, err := parseReportID(" " + oid.Hex() + " ")
	require.NoError(t, err)
	assert.Equal(t, oid, parsed)

	assert.ErrorIs(t, notFound(mongodriver.ErrNoDocuments), reportdomain.ErrNotFound)
	assert.ErrorIs(t, notFound(context.DeadlineExceeded), context.DeadlineExceeded)
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(3, 500)
	assert.EqualValues(t, maxPageLimit, *opts.Limit)
	assert.EqualValues(t, 2*maxPageLimit, *opts.Skip)

	opts = pageOptions(0, 0)
	assert.EqualValues(t, defaultPageLimit, *opts.Limit)
	assert.EqualValues(t, 0, *opts.Skip)

	opts = pageOptions(math.MaxInt64/10, 20)
	assert.EqualValues(t, int64(math.MaxInt64), *opts.Skip, "huge pages clamp instead of wrapping negative")

	opts = pageOptions(math.MaxInt, maxPageLimit)
	assert.Positive(t, *opts.Skip)
}
