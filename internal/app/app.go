package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/product-catalog/internal/cfg"
	v1Http "github.com/DRSN-tech/product-catalog/internal/delivery/v1/http"
	"github.com/DRSN-tech/product-catalog/internal/infrastructure/kafka"
	"github.com/DRSN-tech/product-catalog/internal/infrastructure/storage"
	azureRepo "github.com/DRSN-tech/product-catalog/internal/repository/azure"
	s3Repo "github.com/DRSN-tech/product-catalog/internal/repository/minio"
	"github.com/DRSN-tech/product-catalog/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/product-catalog/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-catalog/internal/repository/redis"
	redisConv "github.com/DRSN-tech/product-catalog/internal/repository/redis/converter"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/internal/view"
	"github.com/DRSN-tech/product-catalog/pkg/clients"
	"github.com/DRSN-tech/product-catalog/pkg/closer"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/DRSN-tech/product-catalog/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
}

// NewApp собирает зависимости. Ошибка означает, что сервис запускать нельзя.
func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
	}

	if err := a.init(); err != nil {
		// Закрываем то, что успели открыть
		if cErr := a.closer.Close(context.Background()); cErr != nil {
			logger.Warnf("cleanup after failed init: %v", cErr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	db, err := initPGDB(a.logger, a.cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	productRepo := pgdb.NewProductRepo(db, pgdbConv.NewProductConverterImpl())

	imageRepo, err := a.initImageRepo()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	imagesInfra := storage.NewBlobUploader(imageRepo, a.logger)

	var cacheRepo usecase.CacheRepository
	if a.cfg.Redis.Enabled {
		redisClient := clients.NewRedisClient(a.cfg.Redis)
		a.closer.AddFunc("redis", redisClient.Close)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx); err != nil {
			a.logger.Errorf(err, "failed to connect to redis")
			return e.Wrap(whereami.WhereAmI(), err)
		}

		cacheRepo = redis.NewCacheRepo(redisClient, redisConv.NewProductConverterImpl(), a.cfg.Redis, a.logger)
		a.logger.Infof("products cache enabled: addr=%s ttl=%s", a.cfg.Redis.Addr, a.cfg.Redis.ProductsTTL)
	}

	var producer usecase.MessageProducer
	if a.cfg.Kafka.Enabled {
		kafkaProducer := kafka.NewProducer(a.logger, a.cfg.Kafka)
		a.closer.AddFunc("kafka producer", kafkaProducer.Close)

		producer = kafkaProducer
		a.logger.Infof("product events enabled: topic=%s", a.cfg.Kafka.Topic)
	}

	productUC := usecase.NewProductUC(productRepo, imagesInfra, cacheRepo, producer, a.logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(productUC, renderer)

	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает HTTP-сервер и ждёт сигнала или ошибки сервера, затем закрывает ресурсы.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown error")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func (a *App) initImageRepo() (usecase.ImageRepository, error) {
	switch a.cfg.Storage.Backend {
	case config.StorageAzure:
		client, err := clients.NewAzureBlobClient(a.cfg.Storage.Azure)
		if err != nil {
			a.logger.Errorf(err, "failed to initialize azure blob client")
			return nil, err
		}

		a.logger.Infof("blob storage: azure container %s", a.cfg.Storage.Azure.ContainerName)
		return azureRepo.NewImageRepo(client, a.cfg.Storage.Azure), nil
	case config.StorageMinio:
		client, err := clients.NewMinIOClient(a.cfg.Storage.Minio)
		if err != nil {
			a.logger.Errorf(err, "failed to initialize minio client")
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
		defer cancel()
		if err := clients.EnsureBucket(ctx, client, a.cfg.Storage.Minio.BucketName); err != nil {
			a.logger.Errorf(err, "failed to initialize MinIO bucket")
			return nil, err
		}

		a.logger.Infof("blob storage: minio bucket %s", a.cfg.Storage.Minio.BucketName)
		return s3Repo.NewImageRepo(client, a.cfg.Storage.Minio), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.NewPgDatabase(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to parse database config")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
