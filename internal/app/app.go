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

	"github.com/moovidex/engine/internal/catalog"
	"github.com/moovidex/engine/internal/controller"
	"github.com/moovidex/engine/internal/export"
	"github.com/moovidex/engine/internal/player"
	"github.com/moovidex/engine/internal/repository/session/inmemory"
	"github.com/moovidex/engine/internal/repository/session/redis"
	"github.com/moovidex/engine/pkg/ctxlogger"
	"github.com/moovidex/engine/pkg/redisclient"
)

type AppConfig struct {
	Host                 string        `json:"host"`
	Port                 int           `json:"port"`
	LogLevel             string        `json:"log_level"`
	APIBaseURL           string        `json:"api_base_url"`
	ImageCDNBaseURL      string        `json:"image_cdn_base_url"`
	RequestTimeout       time.Duration `json:"request_timeout"`
	SearchDebounce       time.Duration `json:"search_debounce"`
	MinQueryLength       int           `json:"min_query_length"`
	IdleHideDelay        time.Duration `json:"idle_hide_delay"`
	TokenRefreshInterval time.Duration `json:"token_refresh_interval"`
	StrmDir              string        `json:"strm_dir"`
	RedisHost            string        `json:"redis_host"`
	RedisPort            int           `json:"redis_port"`
	RedisPassword        string        `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("api base url must be set")
	}
	if cfg.ImageCDNBaseURL == "" {
		return fmt.Errorf("image cdn base url must be set")
	}
	if cfg.MinQueryLength < 1 {
		return fmt.Errorf("min query length must be greater than 0")
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

	// resume markers live in redis when one is configured, otherwise in
	// process memory for the lifetime of the engine
	var sessionRepo player.SessionRepository
	if cfg.RedisHost != "" {
		rc, err := redisclient.NewRedisClient(&redisclient.Config{
			Port:     cfg.RedisPort,
			Host:     cfg.RedisHost,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()

		sessionRepo = redis.NewRepo(rc, 24*time.Hour)
	} else {
		sessionRepo = inmemory.NewRepo()
	}

	catalogClient := catalog.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, logger)
	tokenProvider := catalog.NewStreamTokenProvider(cfg.APIBaseURL, cfg.RequestTimeout, cfg.TokenRefreshInterval, logger)
	images := catalog.NewImageURLBuilder(cfg.ImageCDNBaseURL)
	exporter := export.NewOpener(cfg.StrmDir, logger)

	controller := controller.NewController(catalogClient, catalogClient, tokenProvider, sessionRepo, exporter, images, controller.Config{
		IdleHideDelay:  cfg.IdleHideDelay,
		SearchDebounce: cfg.SearchDebounce,
		MinQueryLength: cfg.MinQueryLength,
	}, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.Mux()}

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
