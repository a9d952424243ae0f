package mongo

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jejak-app/jejak/api/internal/admin/application"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// AdminReportRepository は管理者向けレポート操作の Mongo 実装。
type AdminReportRepository struct {
	collection *mongo.Collection
}

// NewAdminReportRepository は MongoDB コレクションを束縛した AdminReportRepository を生成する。
func NewAdminReportRepository(db *mongo.Database, collection string) *AdminReportRepository {
	return &AdminReportRepository{collection: db.Collection(collection)}
}

// Find はステータス・キーワード・カテゴリ・優先度で絞り込んだ一覧を返す。
func (r *AdminReportRepository) Find(ctx context.Context, filter application.ReportFilter, paging application.Paging) ([]reportdomain.Report, int64, error) {
	return findReports(ctx, r.collection, buildAdminReportFilter(filter), paging.Page, paging.Limit)
}

func buildAdminReportFilter(filter application.ReportFilter) bson.M {
	clauses := make([]bson.M, 0)
	if filter.Status != "" {
		clauses = append(clauses, bson.M{"status": filter.Status.String()})
	}
	if filter.Category != "" {
		clauses = append(clauses, bson.M{"category": filter.Category.String()})
	}
	if filter.Priority.IsSet() {
		clauses = append(clauses, bson.M{"priority": int(filter.Priority)})
	}
	if filter.Keyword != "" {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Keyword), Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"address": regex},
		}})
	}

	mongoFilter := bson.M{}
	if len(clauses) == 1 {
		mongoFilter = clauses[0]
	} else if len(clauses) > 1 {
		mongoFilter["$and"] = clauses
	}
	return mongoFilter
}

// FindByID は 16 進 ObjectID を受け取り単一レポートを返す。
func (r *AdminReportRepository) FindByID(ctx context.Context, id string) (*reportdomain.Report, error) {
	return findReportByID(ctx, r.collection, id)
}

// CountByStatus はステータスごとの件数を集計する。
func (r *AdminReportRepository) CountByStatus(ctx context.Context) (map[reportdomain.Status]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[reportdomain.Status]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status *string `bson:"_id"`
			Count  int64   `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		status := reportdomain.Status("")
		if row.Status != nil {
			status = reportdomain.Status(*row.Status)
		}
		counts[status] += row.Count
	}
	return counts, cursor.Err()
}

// UpdateStatus はステータスと返信を更新し、更新後のドキュメントを返す。
func (r *AdminReportRepository) UpdateStatus(ctx context.Context, change reportdomain.StatusChange) (*reportdomain.Report, error) {
	objectID, err := parseReportID(change.ReportID)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"status":    change.Status.String(),
		"response":  change.Response,
		"updatedAt": change.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc ReportDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	report := mapReportDocument(doc)
	return &report, nil
}

// Delete はレポートを削除する。写真の後始末は呼び出し側の責務。
func (r *AdminReportRepository) Delete(ctx context.Context, id string) error {
	objectID, err := parseReportID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return reportdomain.ErrNotFound
	}
	return nil
}

// ReferencedPhotos は与えられたパスのうちレポートから参照されているものを返す。
func (r *AdminReportRepository) ReferencedPhotos(ctx context.Context, paths []string) (map[string]bool, error) {
	referenced := make(map[string]bool, len(paths))
	if len(paths) == 0 {
		return referenced, nil
	}
	values, err := r.collection.Distinct(ctx, "photoPath", bson.M{"photoPath": bson.M{"$in": paths}})
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if s, ok := v.(string); ok {
			referenced[s] = true
		}
	}
	return referenced, nil
}
