package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/oficina-digital/vistoria/internal/db"
	"github.com/oficina-digital/vistoria/internal/handlers"
	"github.com/oficina-digital/vistoria/internal/kv"
	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/report"
	"github.com/oficina-digital/vistoria/internal/repository"
	"github.com/oficina-digital/vistoria/internal/router"
	"github.com/oficina-digital/vistoria/internal/router/config"
	"github.com/oficina-digital/vistoria/internal/services"
	"github.com/oficina-digital/vistoria/internal/storage"
	"github.com/oficina-digital/vistoria/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/joho/godotenv/autoload"
)

const embedMigrations = "embed://"

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config: ", err)
	}

	logger := logx.New(log.New(os.Stdout, "", log.LstdFlags), cfg.LogLevel)

	runDBMigration(logger, cfg.MigrationURL, cfg.PostgresConn)

	ctx := context.Background()
	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	s3Opts := storage.Options{
		Region:          cfg.AWSRegion,
		Bucket:          cfg.AWSBucketName,
		Endpoint:        cfg.AWSEndpointURL,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		PublicBaseURL:   cfg.PublicBaseURL,
	}
	s3Client, err := storage.NewS3Client(ctx, s3Opts)
	if err != nil {
		log.Fatalf("error initializing object store: %v", err)
	}
	store := storage.NewS3Store(s3Client, s3Opts)

	guard, err := kv.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	defer guard.Close()
	if err := guard.Ping(ctx); err != nil {
		logger.Warnf("redis unavailable, login lockout degraded: %v", err)
	}

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		logger.Warnf("unknown REPORT_TIMEZONE %q, using UTC: %v", cfg.ReportTimezone, err)
		loc = time.UTC
	}

	orderRepo := repository.NewPostgresOrderRepository(dbPool)
	checklistRepo := repository.NewPostgresChecklistRepository(dbPool)
	photoRepo := repository.NewPostgresPhotoRepository(dbPool)
	oficinaRepo := repository.NewPostgresOficinaRepository(dbPool)
	userRepo := repository.NewPostgresUserRepository(dbPool)

	fetcher := report.NewFetcher(&http.Client{}, cfg.PhotoFetchTimeout, cfg.PhotoFetchConcurrency, logger)
	renderer := report.NewRenderer(cfg.ReportHeaderImage, loc, logger)

	authService := services.NewAuthService(userRepo, guard, cfg.JWTSecret, cfg.JWTTTL, cfg.LoginFailLimit, cfg.LoginLockTTL, logger)
	orderService := services.NewOrderService(orderRepo, checklistRepo, photoRepo, store, logger)
	checklistService := services.NewChecklistService(orderRepo, checklistRepo)
	photoService := services.NewPhotoService(orderRepo, photoRepo, store, logger)
	reportService := services.NewReportService(orderRepo, checklistRepo, photoRepo, fetcher, renderer, logger)
	adminService := services.NewAdminService(oficinaRepo, userRepo)

	routes := router.InitRoutes(router.Handlers{
		Ping:      handlers.NewPingHandler(map[string]handlers.Pinger{"postgres": dbPool, "redis": guard}, logger, cfg.RequestTimeout),
		Auth:      handlers.NewAuthHandler(authService, logger, cfg.RequestTimeout),
		Order:     handlers.NewOrderHandler(orderService, logger, cfg.RequestTimeout),
		Checklist: handlers.NewChecklistHandler(checklistService, logger, cfg.RequestTimeout),
		Photo:     handlers.NewPhotoHandler(photoService, logger, cfg.ReportTimeout),
		Report:    handlers.NewReportHandler(reportService, logger, cfg.ReportTimeout),
		Admin:     handlers.NewAdminHandler(adminService, logger, cfg.RequestTimeout),
	}, authService, logger, cfg.CORSOrigin)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           routes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Infof("server is listening on %s...", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// runDBMigration aplica as migrações embutidas ou as de MIGRATION_URL.
func runDBMigration(logger *logx.Logger, migrationURL string, dbSource string) {
	var (
		migration *migrate.Migrate
		err       error
	)
	if migrationURL == "" || strings.HasPrefix(migrationURL, embedMigrations) {
		source, srcErr := iofs.New(migrations.FS, ".")
		if srcErr != nil {
			log.Fatal("cannot open embedded migrations: ", srcErr)
		}
		migration, err = migrate.NewWithSourceInstance("iofs", source, dbSource)
	} else {
		migration, err = migrate.New(migrationURL, dbSource)
	}
	if err != nil {
		log.Fatal("cannot create a new migrate instance: ", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up: ", err)
	}
	logger.Infof("db migrated successfully")
}
