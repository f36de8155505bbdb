package api

import (
	"context"
	"errors"
	"io"

	_ "formbuilder/docs"
	"formbuilder/internal/app/config"
	"formbuilder/internal/app/formbuilder"
	"formbuilder/internal/app/handler"
	"formbuilder/internal/app/middleware"
	"formbuilder/internal/app/redis"
	"formbuilder/internal/app/repository"
	"formbuilder/internal/app/storage"
	"formbuilder/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StartServer собирает зависимости и запускает HTTP сервер до отмены ctx
func StartServer(ctx context.Context) error {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if cfg.DSN == "" {
		return errors.New("database DSN is empty, check DB_* or DATABASE_URL")
	}

	repo, err := repository.New(cfg.DSN)
	if err != nil {
		logrus.Error("ошибка инициализации репозитория")
		return err
	}
	if err = repo.AutoMigrate(); err != nil {
		_ = repo.Close()
		return err
	}
	closers := []io.Closer{repo}

	var (
		cache     formbuilder.Cache
		objects   formbuilder.ObjectStore
		blacklist middleware.TokenBlacklist
		revoker   handler.TokenRevoker
	)

	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			closeAll(closers)
			return err
		}
		closers = append(closers, redisClient)
		cache, blacklist, revoker = redisClient, redisClient, redisClient
	} else {
		logrus.Warn("redis is not configured: listing cache and logout are disabled")
	}

	if cfg.MinIO.Enabled {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			closeAll(closers)
			return err
		}
		objects = minioClient
	} else {
		logrus.Warn("minio is not configured: export is disabled")
	}

	svc := formbuilder.NewService(repo, cache, objects, formbuilder.Options{
		Transactional: cfg.FormBuilder.Transactional,
		CacheTTL:      cfg.FormBuilder.CacheTTL,
		ExportPrefix:  cfg.MinIO.ExportPrefix,
		ExportURLTTL:  cfg.MinIO.URLTTL,
	})
	h := handler.NewHandler(svc, repo, middleware.NewAuthMiddleware(blacklist, cfg), revoker, cfg)

	if !cfg.Auth.Enabled {
		logrus.Warn("authorization is disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery(), middleware.CORS(cfg.CORS))

	application := pkg.NewApp(cfg, r, h, closers...)
	return application.RunApp(ctx)
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
