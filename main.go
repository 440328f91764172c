package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bod/admin"
	"bod/analytics"
	"bod/cache"
	"bod/catalog"
	"bod/common"
	"bod/content"
	"bod/database"
	"bod/email"
	"bod/server"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger, err := common.NewLogger(cfg)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *common.Config, logger *zap.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := common.ConnectDb(cfg, logger)
	if err != nil {
		return err
	}

	if err := database.RunMigrations(db, logger); err != nil {
		return err
	}

	repos := content.NewGormRepositories(db)

	// seeding finishes before the listener accepts requests
	if err := database.Seed(ctx, repos, cfg.AdminDefaultPassword, logger); err != nil {
		logger.Warn("seeding finished with errors", zap.Error(err))
	}

	store := gormsessions.NewStore(db, false, []byte(cfg.SessionSecret))
	store.Options(server.SessionOptions(cfg.IsProduction()))

	var pages cache.Cache = cache.NewFileCache(cfg.CacheDir, cfg.CacheTTL)
	if cfg.UseRedisCache() {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Warn("redis unavailable, using file cache", zap.Error(err))
		} else {
			defer redisCache.Close()
			pages = redisCache
		}
	}

	var notifier catalog.Notifier = catalog.NopNotifier{}
	if cfg.SMTP.Enabled() {
		notifier = email.NewEmailService(cfg.SMTP)
	}

	router := server.NewRouter(server.Deps{
		Repos:    repos,
		Sessions: store,
		Logger:   logger,
		Notifier: notifier,
		Pages:    pages,
		Limiter:  admin.NewLoginLimiter(cfg.LoginRatePerMinute),
		Visits:   analytics.NewTracker(db, logger, cfg.IsProduction()),
		SiteURL:  cfg.SiteURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
