package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/eduplay/server/internal/controller"
	cacheRedis "github.com/eduplay/server/internal/repository/cache/redis"
	"github.com/eduplay/server/internal/repository/connection/inmemory"
	"github.com/eduplay/server/internal/service/session"
	"github.com/eduplay/server/internal/service/video"
	"github.com/eduplay/server/internal/thumbnail"
	"github.com/eduplay/server/internal/upstream"
	"github.com/eduplay/server/pkg/clock"
	"github.com/eduplay/server/pkg/ctxlogger"
	"github.com/eduplay/server/pkg/redisclient"
	"github.com/eduplay/server/pkg/ytmeta"
)

type AppConfig struct {
	UpstreamURL   string `json:"upstream_url"`
	AppOrigin     string `json:"app_origin"`
	Host          string `json:"host"`
	Port          int    `json:"port"`
	PageLimit     int    `json:"page_limit"`
	CacheTTLHours int    `json:"cache_ttl_hours"`
	LogLevel      string `json:"log_level"`
	RedisPort     int    `json:"redis_port"`
	RedisHost     string `json:"redis_host"`
	RedisPassword string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.UpstreamURL == "" {
		return fmt.Errorf("upstream url is required")
	}
	if cfg.PageLimit < 1 {
		return fmt.Errorf("page limit must be greater than 0")
	}
	if cfg.CacheTTLHours < 1 {
		return fmt.Errorf("cache ttl must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	cacheRepo := cacheRedis.NewRepo(rc, time.Duration(cfg.CacheTTLHours)*time.Hour)
	connectionRepo := inmemory.NewRepo()

	upstreamClient := upstream.NewClient(cfg.UpstreamURL, logger)
	thumbnailResolver := thumbnail.NewResolver(nil, cacheRepo, cfg.AppOrigin, logger)
	ytMetaClient := ytmeta.NewClient(&http.Client{Timeout: 10 * time.Second})

	videoService := video.NewService(upstreamClient, thumbnailResolver, cacheRepo, ytMetaClient, logger)
	sessionService := session.NewService(videoService, clock.New(), &session.Config{
		PageLimit: cfg.PageLimit,
	}, logger)

	controller := controller.NewController(sessionService, videoService, connectionRepo, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	slog.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
