package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/imtaco/resonare-live/internal/config"
	"github.com/imtaco/resonare-live/internal/etcd"
	"github.com/imtaco/resonare-live/internal/httputil"
	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/internal/otel"
	"github.com/imtaco/resonare-live/internal/redis"
	"github.com/imtaco/resonare-live/internal/workflow"
	"github.com/imtaco/resonare-live/live"
	"github.com/imtaco/resonare-live/live/channel"
	etcdchannel "github.com/imtaco/resonare-live/live/channel/etcd"
	redischannel "github.com/imtaco/resonare-live/live/channel/redis"
	"github.com/imtaco/resonare-live/live/materialize"
	"github.com/imtaco/resonare-live/live/realtime"
	"github.com/imtaco/resonare-live/live/social"
	"github.com/imtaco/resonare-live/live/store/sqlite"
	"github.com/imtaco/resonare-live/live/transport"
)

type Config struct {
	App       config.App       `mapstructure:"app"`
	Http      httputil.Config  `mapstructure:"http"`
	Redis     redis.Config     `mapstructure:"redis"`
	Etcd      etcd.Config      `mapstructure:"etcd"`
	Otel      otel.Config      `mapstructure:"otel"`
	Sqlite    sqlite.Config    `mapstructure:"sqlite"`
	Realtime  realtime.Config  `mapstructure:"realtime"`
	Channel   channel.Config   `mapstructure:"channel"`
	Transport transport.Config `mapstructure:"transport"`

	ActorCacheSize int           `mapstructure:"actor_cache_size"`
	ActorCacheTTL  time.Duration `mapstructure:"actor_cache_ttl"`
}

func loadConfig() (*Config, error) {
	return config.Load(&Config{}, func(v *viper.Viper) {
		v.SetDefault("actor_cache_size", 1024)
		v.SetDefault("actor_cache_ttl", "1m")

		config.Setup(v, "app")
		redis.Setup(v, "redis")
		etcd.Setup(v, "etcd")
		otel.Setup(v, "otel")
		httputil.Setup(v, "http")
		sqlite.Setup(v, "sqlite")
		realtime.Setup(v, "realtime")
		channel.Setup(v, "channel")
		transport.Setup(v, "transport")

		// override default addrs to ease testing
		v.SetDefault("http.addr", "0.0.0.0:8086")
	})
}

// backend is the messaging stack selected by realtime.provider.
type backend struct {
	provider  live.ChannelProvider
	publisher live.Publisher
	close     func() error
}

func newBackend(cfg *Config, logger *log.Logger) (*backend, error) {
	switch cfg.Realtime.Provider {
	case "etcd":
		client, err := etcd.NewClient(&cfg.Etcd, logger.Module("Etcd"))
		if err != nil {
			return nil, err
		}
		return &backend{
			provider:  etcdchannel.NewProvider(client, cfg.Channel, logger.Module("EtcdChannel")),
			publisher: etcdchannel.NewPublisher(client, cfg.Channel, logger.Module("EtcdPublisher")),
			close:     client.Close,
		}, nil
	default:
		client := redis.NewClient(&cfg.Redis)
		if err := redis.Ping(client); err != nil {
			return nil, err
		}
		return &backend{
			provider:  redischannel.NewProvider(client, cfg.Channel, logger.Module("RedisChannel")),
			publisher: redischannel.NewPublisher(client, cfg.Channel, logger.Module("RedisPublisher")),
			close:     client.Close,
		}, nil
	}
}

func main() {
	config, err := loadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}

	logger, err := log.NewLogger(config.App.LogConfigFile)
	if err != nil {
		log.Fatal("Failed to create logger", err)
	}
	defer logger.Sync()

	// global background context
	ctx := context.Background()

	// Initialize OpenTelemetry
	otelShutdown, err := otel.Init(ctx, &config.Otel, logger)
	if err != nil {
		logger.Fatal("Failed to initialize OTEL provider", log.Error(err))
	}

	logger.Info("Starting Live Service...", log.String("provider", config.Realtime.Provider))

	store, err := sqlite.Open(&config.Sqlite, logger.Module("Store"))
	if err != nil {
		logger.Fatal("Failed to open store", log.Error(err))
	}

	backend, err := newBackend(config, logger)
	if err != nil {
		logger.Fatal("Failed to connect to messaging backend", log.Error(err))
	}

	materializer := materialize.NewWithCache(
		store,
		config.ActorCacheSize,
		config.ActorCacheTTL,
		logger.Module("Materializer"),
	)
	manager := realtime.NewManager(
		&config.Realtime,
		backend.provider,
		materializer,
		logger.Module("Realtime"),
	)
	socialSvc := social.New(
		store,
		backend.publisher,
		config.Realtime.TopicPrefix,
		logger.Module("Social"),
	)

	// Initialize REST API router
	router := transport.NewRouter(socialSvc, manager, &config.Transport, logger.Module("Router"))
	server := httputil.NewServer(&config.Http, router.Handler())

	// Start components
	manager.Start()
	if !manager.WaitReady(ctx) {
		logger.Warn("Realtime backend not ready, serving anyway")
	}

	// Start HTTP server in goroutine
	go func() {
		logger.Info("Starting REST API server", log.String("addr", config.Http.Addr))
		if err := server.Listen(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start REST API server", log.Error(err))
		}
	}()

	// Graceful shutdown
	cleanup := func(ctx context.Context) {
		router.Close()
		server.Shutdown(ctx)

		if err := socialSvc.Drain(ctx); err != nil {
			logger.Error("Like notifications still pending at shutdown", log.Error(err))
		}
		if err := manager.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down realtime manager", log.Error(err))
		}
		if err := backend.close(); err != nil {
			logger.Error("Error closing messaging client", log.Error(err))
		}
		if err := store.Close(); err != nil {
			logger.Error("Error closing store", log.Error(err))
		}
		if err := otelShutdown(ctx); err != nil {
			logger.Error("Failed to shutdown OTEL", log.Error(err))
		}
	}
	workflow.WaitGracefulShutdown(ctx, logger.Module("CleanUp"), cleanup, config.App.ShutdownTimeout)
}
