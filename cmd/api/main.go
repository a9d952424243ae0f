package main

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/jejak-app/jejak/api/internal/config"
	mongodoc "github.com/jejak-app/jejak/api/internal/infrastructure/mongo"
	"github.com/jejak-app/jejak/api/internal/infrastructure/storage"
	"github.com/jejak-app/jejak/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatal("mongodb connect failed", zap.Error(err))
	}
	if err := mongodoc.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase), cfg.ReportCollection, cfg.AccountCollection); err != nil {
		logger.Fatal("mongodb index setup failed", zap.Error(err))
	}

	photos, err := storage.New(storage.Config{
		Endpoint:        cfg.Minio.Endpoint,
		AccessKeyID:     cfg.Minio.AccessKeyID,
		SecretAccessKey: cfg.Minio.SecretAccessKey,
		Bucket:          cfg.Minio.Bucket,
		Region:          cfg.Minio.Region,
		UseSSL:          cfg.Minio.UseSSL,
		PublicBaseURL:   cfg.MediaBaseURL,
		PresignExpiry:   cfg.Minio.PresignExpiry,
	}, logger.Named("storage"))
	if err != nil {
		logger.Fatal("photo storage setup failed", zap.Error(err))
	}
	if err := photos.EnsureBucket(ctx); err != nil {
		logger.Fatal("photo bucket unavailable", zap.Error(err))
	}

	app, err := server.New(cfg, client, photos, logger)
	if err != nil {
		logger.Fatal("server setup failed", zap.Error(err))
	}
	if err := app.Run(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
