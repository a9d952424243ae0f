package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	adminapp "github.com/jejak-app/jejak/api/internal/admin/application"
	mongodoc "github.com/jejak-app/jejak/api/internal/infrastructure/mongo"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

type seedOptions struct {
	envName         string
	adminEmail      string
	adminName       string
	reportCount     int
	dropCollections bool
	randomSeed      int64
}

type sampleReport struct {
	title       string
	description string
	category    reportdomain.Category
	address     string
	lat, lng    float64
}

var samples = []sampleReport{
	{"Jalan berlubang", "Jalan berlubang cukup dalam di depan sekolah, membahayakan pengendara motor.", reportdomain.CategoryInfrastructure, "Jl. Merdeka, Jakarta Pusat", -6.1754, 106.8272},
	{"Sampah menumpuk", "Sampah menumpuk di pinggir kali sudah lebih dari seminggu dan menimbulkan bau.", reportdomain.CategoryCleanliness, "Kali Ciliwung, Jakarta Timur", -6.2250, 106.8650},
	{"Lampu jalan mati", "Lampu jalan mati di sepanjang gang sehingga gelap di malam hari.", reportdomain.CategoryLighting, "Jl. Kemang Raya, Jakarta Selatan", -6.2615, 106.8106},
	{"Trotoar rusak", "Trotoar retak dan ubinnya lepas di dekat halte bus.", reportdomain.CategoryInfrastructure, "Jl. Sudirman, Jakarta Pusat", -6.2088, 106.8227},
	{"Pohon tumbang", "Pohon tumbang menutup sebagian badan jalan setelah hujan deras.", reportdomain.CategoryOther, "Jl. Pajajaran, Bogor", -6.5971, 106.8060},
}

func main() {
	opts := parseFlags()

	v, err := loadEnv(opts.envName)
	if err != nil {
		log.Fatalf("env: %v", err)
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	password := v.GetString("seed_admin_password")
	if len(password) < 8 {
		logger.Fatal("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(v.GetString("mongo_uri")))
	if err != nil {
		logger.Fatal("mongodb connect failed", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(v.GetString("mongo_db"))
	reportCollection := v.GetString("report_collection")
	accountCollection := v.GetString("admin_collection")

	if opts.dropCollections {
		if err := db.Collection(reportCollection).Drop(ctx); err != nil {
			logger.Warn("drop collection failed", zap.String("collection", reportCollection), zap.Error(err))
		}
	}
	if err := mongodoc.EnsureIndexes(ctx, db, reportCollection, accountCollection); err != nil {
		logger.Fatal("index setup failed", zap.Error(err))
	}

	auth := adminapp.NewAuthService(mongodoc.NewAccountRepository(db, accountCollection), adminapp.TokenConfig{}, logger)
	account, err := auth.Register(ctx, adminapp.RegisterAccountCommand{
		Email:    opts.adminEmail,
		Name:     opts.adminName,
		Password: password,
	})
	if err != nil {
		logger.Fatal("admin account seed failed", zap.Error(err))
	}

	reports := mongodoc.NewReportRepository(db, reportCollection)
	rng := rand.New(rand.NewSource(opts.randomSeed))
	for i := 0; i < opts.reportCount; i++ {
		report := generateReport(rng, i)
		if err := reports.Insert(ctx, report); err != nil {
			logger.Fatal("report seed failed", zap.Int("index", i), zap.Error(err))
		}
	}

	logger.Info("seed complete",
		zap.String("admin", account.Email.String()),
		zap.Int("reports", opts.reportCount),
		zap.String("env", opts.envName),
	)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env file name under ../env (local, staging)")
	flag.StringVar(&opts.adminEmail, "admin-email", "admin@jejak.id", "admin account email")
	flag.StringVar(&opts.adminName, "admin-name", "Admin", "admin display name")
	flag.IntVar(&opts.reportCount, "reports", 20, "number of sample reports")
	flag.BoolVar(&opts.dropCollections, "drop", false, "drop the report collection first")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	if opts.reportCount < 0 {
		opts.reportCount = 0
	}
	return opts
}

// loadEnv reads ../env/shared.env and ../env/<name>.env when present. Process environment wins.
func loadEnv(envName string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "jejak")
	v.SetDefault("report_collection", "reports")
	v.SetDefault("admin_collection", "admins")

	base := filepath.Clean(filepath.Join("..", "env"))
	for _, name := range []string{"shared.env", fmt.Sprintf("%s.env", envName)} {
		path := filepath.Join(base, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	v.AutomaticEnv()
	return v, nil
}

func generateReport(rng *rand.Rand, i int) *reportdomain.Report {
	s := samples[i%len(samples)]
	created := time.Now().UTC().Add(-time.Duration(rng.Intn(30*24)) * time.Hour)
	status := reportdomain.Statuses[rng.Intn(len(reportdomain.Statuses))]

	report := &reportdomain.Report{
		Title:       s.title,
		Description: s.description,
		Category:    s.category,
		Priority:    reportdomain.Priority(rng.Intn(6)),
		Status:      status,
		PhotoPath:   fmt.Sprintf("photos/%s_seed.jpg", uuid.NewString()),
		Location: reportdomain.Location{
			Latitude:  s.lat + (rng.Float64()-0.5)*0.01,
			Longitude: s.lng + (rng.Float64()-0.5)*0.01,
		},
		Address:      s.address,
		ReporterName: "Warga",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if status != reportdomain.StatusReceived {
		report.Response = reportdomain.FormatResponse("Admin", "Laporan sedang ditindaklanjuti petugas.")
		report.UpdatedAt = created.Add(time.Duration(1+rng.Intn(48)) * time.Hour)
	}
	return report
}
