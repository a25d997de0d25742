package main

import (
	"context"
	"flag"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eddienguyen/la-wed-be/internal/conf"
	"github.com/eddienguyen/la-wed-be/internal/media/biz"
	mediadata "github.com/eddienguyen/la-wed-be/internal/media/data"
	"github.com/eddienguyen/la-wed-be/internal/media/processor"
	"github.com/eddienguyen/la-wed-be/internal/media/storage"
	"github.com/eddienguyen/la-wed-be/internal/media/types"
	"github.com/eddienguyen/la-wed-be/internal/pkg/database"
	"github.com/eddienguyen/la-wed-be/internal/pkg/logger"
	pkgminio "github.com/eddienguyen/la-wed-be/internal/pkg/minio"
	"github.com/eddienguyen/la-wed-be/internal/pkg/workerpool"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
	dir        = flag.String("dir", "", "directory of media files to import")
	category   = flag.String("category", "other", "gallery category for every imported file")
	featured   = flag.Bool("featured", false, "mark imported media as featured")
)

func main() {
	flag.Parse()

	if *dir == "" {
		panic("usage: media-import -dir <path> [-config config.yaml] [-category wedding] [-featured]")
	}

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

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	ctx := context.Background()

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

	minioClient, err := pkgminio.NewClient(&pkgminio.Config{
		Endpoint:        config.MinIO.Endpoint,
		AccessKeyID:     config.MinIO.AccessKey,
		SecretAccessKey: config.MinIO.SecretKey,
		UseSSL:          config.MinIO.UseSSL,
	}, log)
	if err != nil {
		log.Fatal("failed to create minio client", zap.Error(err))
	}

	store := storage.New(minioClient, storage.Options{
		Bucket:        config.MinIO.Bucket,
		KeyPrefix:     config.Media.KeyPrefix,
		PublicBaseURL: config.MinIO.PublicBaseURL,
	}, log)

	if err := store.EnsureBucket(ctx); err != nil {
		log.Fatal("failed to ensure bucket", zap.Error(err))
	}

	pool, err := workerpool.New(nil, log.Logger)
	if err != nil {
		log.Fatal("failed to create worker pool", zap.Error(err))
	}
	defer pool.Shutdown()

	images := processor.NewImage(store, pool, processor.ImageConfig{
		MaxSize:       config.Media.MaxImageSize,
		ThumbnailSize: config.Media.ThumbnailSize,
		MediumSize:    config.Media.MediumSize,
		LargeSize:     config.Media.LargeSize,
	}, log)

	videos := processor.NewVideo(store, pool, processor.VideoConfig{
		MaxSize:       config.Media.MaxVideoSize,
		FFmpegPath:    config.FFmpeg.FFmpegPath,
		FFprobePath:   config.FFmpeg.FFprobePath,
		ThumbnailAt:   config.FFmpeg.ThumbnailAt,
		ThumbWidth:    config.Media.VideoThumbWidth,
		ThumbHeight:   config.Media.VideoThumbHeight,
		ProbeTimeout:  config.FFmpeg.ProbeTimeout,
		EncodeTimeout: config.FFmpeg.EncodeTimeout,
	}, log)

	repo := mediadata.NewMediaRepo(db)
	cache := biz.NewFeaturedCache(config.Media.CacheTTL, nil)
	mediaUseCase := biz.NewMediaUseCase(repo, store, images, videos, cache, log)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatal("failed to read import directory", zap.Error(err))
	}

	var imported, skipped, failed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
		if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
			log.Debug("skipping non-media file", zap.String("file", name))
			skipped++
			continue
		}

		data, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			log.Error("failed to read file", zap.String("file", name), zap.Error(err))
			failed++
			continue
		}

		asset, err := mediaUseCase.UploadMedia(ctx, &types.UploadedFile{
			Data:        data,
			Filename:    name,
			ContentType: contentType,
			Size:        int64(len(data)),
		}, &types.UploadMetadata{
			Category: types.Category(*category),
			Featured: *featured,
		})
		if err != nil {
			log.Error("import failed", zap.String("file", name), zap.Error(err))
			failed++
			continue
		}

		log.Info("imported",
			zap.String("file", name),
			zap.String("id", asset.ID),
			zap.String("media_type", asset.MediaType.String()))
		imported++
	}

	log.Info("import complete",
		zap.Int("imported", imported),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed))
}
