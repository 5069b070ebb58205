package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/EgorLis/my-shop/internal/catalog"
	"github.com/EgorLis/my-shop/internal/config"
	"github.com/EgorLis/my-shop/internal/domain"
	"github.com/EgorLis/my-shop/internal/infra/cache/noop"
	redisx "github.com/EgorLis/my-shop/internal/infra/cache/redis"
	"github.com/EgorLis/my-shop/internal/infra/database/postgres"
	s3storage "github.com/EgorLis/my-shop/internal/infra/storage/s3"
	"github.com/EgorLis/my-shop/internal/transport/web"
)

type App struct {
	config *config.Config
	server *web.Server
	log    *log.Logger
	cache  domain.Cache
	repo   domain.ProductsRepo
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	s3Log := log.New(base.Writer(), base.Prefix()+"[s3] ", base.Flags())
	cacheLog := log.New(base.Writer(), base.Prefix()+"[cache] ", base.Flags())
	catalogLog := log.New(base.Writer(), base.Prefix()+"[catalog] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Println("init S3 storage")
	s3cfg := s3storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		PathStyle: cfg.S3PathStyle,
	}
	s3, err := s3storage.New(ctx, s3cfg, s3Log)
	if err != nil {
		return nil, fmt.Errorf("failed init s3: %w", err)
	}

	// Кэш опционален: без REDIS_ADDR сервис работает напрямую из БД
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		base.Println("init Redis")
		rc := redisx.New(redisx.Config{
			Addr:      cfg.RedisAddr,
			DB:        cfg.RedisDB,
			Password:  cfg.RedisPassword,
			OpTimeout: time.Duration(cfg.CacheTimeoutMS) * time.Millisecond,
		}, cacheLog)
		if err := rc.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed init redis: %w", err)
		}
		cache = rc
		base.Println("Redis is initialized")
	} else {
		cache = noop.New(cacheLog)
	}

	ttl := catalog.TTLPolicy{
		List:   time.Duration(cfg.TTLListSec) * time.Second,
		Detail: time.Duration(cfg.TTLProductSec) * time.Second,
		Search: time.Duration(cfg.TTLSearchSec) * time.Second,
	}
	svc := catalog.New(catalogLog, pgRepo, cache, ttl)

	base.Println("init Server")
	deps := web.Deps{DB: pgRepo, Cache: cache, Storage: s3}
	server := web.New(serverLog, cfg, svc, deps)
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config: cfg,
		server: server,
		log:    base,
		repo:   pgRepo,
		cache:  cache,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.cache.Close()

	return nil
}
