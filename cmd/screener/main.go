package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pair_screener/internal/app/port"
	"pair_screener/internal/app/service"
	"pair_screener/internal/domain/entity"
	"pair_screener/internal/infrastructure/configloader"
	"pair_screener/internal/infrastructure/restapi"
	"pair_screener/internal/infrastructure/sourcefactory"
	"pair_screener/internal/infrastructure/wsfeed"
	"pair_screener/internal/pkg/logger"
	"pair_screener/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := configloader.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.NewZapLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.InitSlog(zapLogger, cfg.Logging.Level)

	appLogger := logger.NewSlogAdapter()
	logger.Info("Pair screener starting", "source", cfg.Source.Kind, "port", cfg.Server.Port)

	metrics.MustRegisterMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, networks, err := sourcefactory.New(cfg, zapLogger, appLogger)
	if err != nil {
		logger.Fatal("Failed to build pair source", "error", err)
	}

	var observers []port.FeedObserver
	var hub *wsfeed.Hub
	if cfg.WebSocket.Enabled {
		hub = wsfeed.NewHub(appLogger, wsfeed.Options{
			SendBufferSize: cfg.WebSocket.SendBufferSize,
			WriteWait:      time.Duration(cfg.WebSocket.WriteTimeoutSeconds) * time.Second,
		})
		observers = append(observers, hub)
	}

	feed := service.NewPairFeedService(source, appLogger, service.PairFeedOptions{
		SourceName:     cfg.Source.Kind,
		DefaultSort:    entity.SortKey(cfg.Feed.DefaultSort),
		MaxRetries:     cfg.Feed.MaxRetries,
		RetryBaseDelay: time.Duration(cfg.Feed.RetryBaseDelayMillis) * time.Millisecond,
		RetryMaxDelay:  time.Duration(cfg.Feed.RetryMaxDelayMillis) * time.Millisecond,
	}, observers...)

	var wsHandler gin.HandlerFunc
	if hub != nil {
		hub.SetSnapshot(feed.View)
		go func() {
			if err := hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("WebSocket hub stopped", "error", err)
			}
		}()
		wsHandler = hub.HandleWS
	}

	go service.RunAutoRefresh(ctx, feed, cfg.RefreshInterval(), appLogger)

	gin.SetMode(ginMode(cfg.Logging.Level))
	routerOpts := restapi.RouterOptions{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		WebSocketHandler: wsHandler,
		AccessLogger:     zapLogger.Named("http"),
	}
	if cfg.Swagger.Enabled {
		routerOpts.SwaggerSpecPath = cfg.Swagger.SpecPath
	}
	router := restapi.SetupRouter(restapi.NewPairHandler(feed, networks, appLogger), routerOpts)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
	} else {
		logger.Info("HTTP server stopped")
	}
	logger.Info("Pair screener stopped")
}

// ginMode keeps gin's debug output only when the service logs at debug level.
func ginMode(logLevel string) string {
	if strings.EqualFold(strings.TrimSpace(logLevel), "debug") {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
