package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/consultafit/nutriplan/backend/config"
	"github.com/consultafit/nutriplan/backend/internal/database"
	"github.com/consultafit/nutriplan/backend/internal/logging"
	"github.com/consultafit/nutriplan/backend/internal/service"
)

// Bulk-loads a global food reference table (XLSX) from a local file or from
// the configured S3 bucket.
func main() {
	file := flag.String("file", "", "path to a local XLSX food table")
	key := flag.String("key", "", "S3 object key of an uploaded food table")
	flag.Parse()

	if (*file == "") == (*key == "") {
		log.Fatal("exactly one of -file or -key is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewGorm(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	ctx := context.Background()

	var importer *service.FoodImportService
	if *key != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to configure s3", zap.Error(err))
		}
		importer = service.NewFoodImportService(db, s3cfg.Client, s3cfg.BucketName, logger)

		result, err := importer.ImportFromS3(ctx, *key)
		if err != nil {
			logger.Fatal("import failed", zap.String("key", *key), zap.Error(err))
		}
		report(logger, result)
		return
	}

	importer = service.NewFoodImportService(db, nil, "", logger)
	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("failed to open file", zap.String("file", *file), zap.Error(err))
	}
	defer f.Close()

	result, err := importer.ImportFromReader(ctx, f)
	if err != nil {
		logger.Fatal("import failed", zap.String("file", *file), zap.Error(err))
	}
	report(logger, result)
}

func report(logger *zap.Logger, result *service.ImportResult) {
	logger.Info("import finished",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Strings("errors", result.Errors),
	)
}
