package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/eddienguyen/la-wed-be/internal/conf"
	"github.com/eddienguyen/la-wed-be/internal/media/biz"
	mediadata "github.com/eddienguyen/la-wed-be/internal/media/data"
	"github.com/eddienguyen/la-wed-be/internal/media/storage"
	"github.com/eddienguyen/la-wed-be/internal/pkg/database"
	"github.com/eddienguyen/la-wed-be/internal/pkg/logger"
	pkgminio "github.com/eddienguyen/la-wed-be/internal/pkg/minio"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
	days       = flag.Int("days", 30, "hard-delete media soft-deleted at least this many days ago")
	timeout    = flag.Duration("timeout", 10*time.Minute, "overall sweep timeout")
)

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logConfig := logger.DefaultConfig()
	if config.Log.Level != "" {
		logConfig.Level = config.Log.Level
	}
	if config.Log.Format != "" {
		logConfig.Format = config.Log.Format
	}
	if config.Log.Output != "" {
		logConfig.Output = config.Log.Output
	}
	logConfig.EnableCaller = config.Log.EnableCaller
	logConfig.EnableStacktrace = config.Log.EnableStacktrace
	if config.Log.File.Filename != "" {
		logConfig.File = logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		}
	}
	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbConfig := database.DefaultConfig()
	dbConfig.Host = config.Database.Host
	dbConfig.Port = config.Database.Port
	dbConfig.User = config.Database.User
	dbConfig.Password = config.Database.Password
	dbConfig.DBName = config.Database.DBName
	if config.Database.SSLMode != "" {
		dbConfig.SSLMode = config.Database.SSLMode
	}

	db, err := database.New(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	minioConfig := &pkgminio.Config{
		Endpoint:        config.MinIO.Endpoint,
		AccessKeyID:     config.MinIO.AccessKey,
		SecretAccessKey: config.MinIO.SecretKey,
		UseSSL:          config.MinIO.UseSSL,
	}

	var minioClient *pkgminio.Client
	if minioConfig.IsComplete() {
		minioClient, err = pkgminio.NewClient(minioConfig, log)
		if err != nil {
			log.Fatal("failed to create minio client", zap.Error(err))
		}
	} else {
		log.Warn("object store not configured, sweep will only remove catalog rows")
	}

	store := storage.New(minioClient, storage.Options{
		Bucket:        config.MinIO.Bucket,
		KeyPrefix:     config.Media.KeyPrefix,
		PublicBaseURL: config.MinIO.PublicBaseURL,
	}, log)

	repo := mediadata.NewMediaRepo(db)
	mediaUseCase := biz.NewMediaUseCase(repo, store, nil, nil, nil, log)

	log.Info("starting retention sweep", zap.Int("older_than_days", *days))

	result, err := mediaUseCase.CleanupDeletedMedia(ctx, *days)
	if err != nil {
		log.Fatal("retention sweep failed", zap.Error(err))
	}

	for _, e := range result.Errors {
		log.Warn("sweep item failed", zap.String("detail", e))
	}

	log.Info("retention sweep complete",
		zap.Int("deleted", result.DeletedCount),
		zap.Int("failed", result.FailedCount))
}
