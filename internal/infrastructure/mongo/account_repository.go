package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jejak-app/jejak/api/internal/admin/application"
	admindomain "github.com/jejak-app/jejak/api/internal/admin/domain"
)

// AccountRepository は管理者アカウントの Mongo 実装。
type AccountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository は管理者アカウントのリポジトリを生成する。
func NewAccountRepository(db *mongo.Database, collection string) *AccountRepository {
	return &AccountRepository{collection: db.Collection(collection)}
}

// FindByEmail はメールアドレスでアカウントを検索する。
func (r *AccountRepository) FindByEmail(ctx context.Context, email admindomain.Email) (*admindomain.Account, error) {
	var doc AccountDocument
	err := r.collection.FindOne(ctx, bson.M{"email": email.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, application.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	account := mapAccountDocument(doc)
	return &account, nil
}

// Upsert はメールアドレスをキーに作成または更新し、ID と作成日時を account に書き戻す。
func (r *AccountRepository) Upsert(ctx context.Context, account *admindomain.Account) error {
	now := account.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	update := bson.M{
		"$set": bson.M{
			"name":         account.Name,
			"passwordHash": account.PasswordHash,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"email":     account.Email.String(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc AccountDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": account.Email.String()}, update, opts).Decode(&doc); err != nil {
		return err
	}
	*account = mapAccountDocument(doc)
	return nil
}
