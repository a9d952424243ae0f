package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes は起動時に必要なインデックスを作成する。既存のインデックスはそのまま。
func EnsureIndexes(ctx context.Context, db *mongo.Database, reportCollection, accountCollection string) error {
	reports := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "photoPath", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(reportCollection).Indexes().CreateMany(ctx, reports); err != nil {
		return fmt.Errorf("create %s indexes: %w", reportCollection, err)
	}

	accounts := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(accountCollection).Indexes().CreateMany(ctx, accounts); err != nil {
		return fmt.Errorf("create %s indexes: %w", accountCollection, err)
	}
	return nil
}
