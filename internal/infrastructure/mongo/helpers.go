package mongo

import (
	"errors"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// parseReportID は 16 進 ObjectID を検証する。不正な ID は存在しないレポートとして扱う。
func parseReportID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, reportdomain.ErrNotFound
	}
	return objectID, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return reportdomain.ErrNotFound
	}
	return err
}

// pageOptions は page/limit を skip/limit に変換する。
func pageOptions(page, limit int) *options.FindOptions {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page <= 0 {
		page = 1
	}
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(pageSkip(page, limit)).
		SetLimit(int64(limit))
}

// pageSkip は int64 で計算し、溢れる場合は最大値に丸める (結果は空ページになる)。
func pageSkip(page, limit int) int64 {
	before := int64(page) - 1
	if before > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return before * int64(limit)
}
