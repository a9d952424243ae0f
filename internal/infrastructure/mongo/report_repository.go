package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jejak-app/jejak/api/internal/public/application"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// errModeratedReport はモデレーションで弾かれたレポートの保存を拒否する。
var errModeratedReport = errors.New("refusing to store a report flagged by moderation")

// ReportRepository は MongoDB を利用した application.ReportRepository 実装。
type ReportRepository struct {
	collection *mongo.Collection
}

// NewReportRepository は reports コレクションを扱うリポジトリを生成する。
func NewReportRepository(db *mongo.Database, collectionName string) *ReportRepository {
	return &ReportRepository{collection: db.Collection(collectionName)}
}

// Find は新しい順にレポートを返す。
func (r *ReportRepository) Find(ctx context.Context, filter application.ReportFilter, paging application.Paging) ([]reportdomain.Report, int64, error) {
	mongoFilter := bson.M{}
	if filter.Category != "" {
		mongoFilter["category"] = filter.Category.String()
	}
	return findReports(ctx, r.collection, mongoFilter, paging.Page, paging.Limit)
}

// FindByID は ID でレポートを 1 件取得する。
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*reportdomain.Report, error) {
	return findReportByID(ctx, r.collection, id)
}

// Insert はレポートを保存し、採番された ID を report に書き戻す。
func (r *ReportRepository) Insert(ctx context.Context, report *reportdomain.Report) error {
	if report.Moderation {
		return errModeratedReport
	}
	doc := buildReportDocument(report)
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid.Hex()
	}
	return nil
}

func findReports(ctx context.Context, collection *mongo.Collection, filter bson.M, page, limit int) ([]reportdomain.Report, int64, error) {
	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	cursor, err := collection.Find(ctx, filter, pageOptions(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reports := make([]reportdomain.Report, 0)
	for cursor.Next(ctx) {
		var doc ReportDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		reports = append(reports, mapReportDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func findReportByID(ctx context.Context, collection *mongo.Collection, id string) (*reportdomain.Report, error) {
	objectID, err := parseReportID(id)
	if err != nil {
		return nil, err
	}
	var doc ReportDocument
	if err := collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	report := mapReportDocument(doc)
	return &report, nil
}
