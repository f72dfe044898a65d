package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codegrapher/graphers/internal/app"
	"github.com/codegrapher/graphers/internal/config"
	"github.com/codegrapher/graphers/pkg/logger"
	"github.com/codegrapher/graphers/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	closer, err := logger.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		logger.Fatalf("failed to set up logging: %v", err)
	}
	defer closer.Close()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	logger.Infof("config loaded: env=%s mongo_db=%s redis=%v denylist=%v minio=%v",
		cfg.Server.Environment, cfg.MongoDB.Database, cfg.RedisAddr() != "", cfg.Auth.DenylistEnabled, cfg.MinIO.Endpoint != "")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}
	defer a.Close(context.Background())

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:     app.NewRouter(a),
		ReadTimeout: cfg.Server.ReadTimeout,
		// report downloads may run up to the export timeout
		WriteTimeout: cfg.Server.WriteTimeout + cfg.Export.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Infof("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Errorf("server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
	logger.Infof("server stopped")
}
