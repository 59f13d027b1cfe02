package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apihttp "vodhub/internal/api/http"
	"vodhub/internal/app"
	"vodhub/internal/auth"
	"vodhub/internal/metrics"
	"vodhub/internal/registry"
	"vodhub/internal/search"
	storemongo "vodhub/internal/store/mongo"
	"vodhub/internal/telemetry"
)

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), "vodhub")
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "vodhub"),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.Duration("searchTimeout", cfg.SearchTimeout),
		slog.String("sourcesFile", cfg.SourcesFile),
		slog.Bool("adultFilter", !cfg.DisableAdultFilter),
		slog.Bool("hasRedis", strings.TrimSpace(cfg.RedisURL) != ""),
		slog.Bool("hasMongo", strings.TrimSpace(cfg.MongoURI) != ""),
		slog.Bool("hasSitePassword", strings.TrimSpace(cfg.SitePassword) != ""),
		slog.Duration("cacheTTL", cfg.CacheTTL),
	)

	sites, err := registry.Load(cfg.SourcesFile)
	if err != nil {
		logger.Error("failed to load sources", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("sources loaded", slog.Int("count", len(sites)))

	sourceClient := &http.Client{
		Timeout:   cfg.SearchTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	sources := registry.BuildSources(sites, sourceClient, cfg.UserAgent)

	searchService := search.NewService(sources, cfg.SearchTimeout, buildServiceOptions(cfg, logger)...)

	serverOpts := []apihttp.ServerOption{
		apihttp.WithLogger(logger),
		apihttp.WithDefaultAdultFilter(!cfg.DisableAdultFilter),
		apihttp.WithCacheTTL(cfg.CacheTTL),
	}
	serverOpts = append(serverOpts, buildAuthOption(cfg, logger)...)

	mongoClient := connectMongo(cfg, logger)
	if mongoClient != nil {
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
		}()
		favorites := storemongo.NewFavoritesRepository(mongoClient, cfg.MongoDB)
		playRecords := storemongo.NewPlayRecordsRepository(mongoClient, cfg.MongoDB)
		indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := favorites.EnsureIndexes(indexCtx); err != nil {
			logger.Warn("favorites index setup failed", slog.String("error", err.Error()))
		}
		if err := playRecords.EnsureIndexes(indexCtx); err != nil {
			logger.Warn("play records index setup failed", slog.String("error", err.Error()))
		}
		cancel()
		serverOpts = append(serverOpts,
			apihttp.WithFavorites(favorites),
			apihttp.WithPlayRecords(playRecords),
		)
	}

	handler := apihttp.NewServer(searchService, serverOpts...).Handler()
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// SSE streaming (/search/ws) can legitimately exceed short write timeouts.
		// Keep it disabled at the server level; rely on per-source timeouts and upstream limits.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	searchService.StartBackground(rootCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("vodhub started",
		slog.String("addr", cfg.HTTPAddr),
		slog.Int("sources", len(sources)),
		slog.Duration("timeout", cfg.SearchTimeout),
	)

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("vodhub stopped")
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	options := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildServiceOptions(cfg app.Config, logger *slog.Logger) []search.ServiceOption {
	opts := []search.ServiceOption{}

	filterCfg, err := search.FilterConfigFromFiles(cfg.BannedTermsFile, cfg.AdultKeywordsFile)
	if err != nil {
		logger.Warn("term list load failed, using built-in lists", slog.String("error", err.Error()))
	} else {
		opts = append(opts, search.WithFilterConfig(filterCfg))
	}

	if cfg.CacheDisabled {
		opts = append(opts, search.WithCacheDisabled(true))
		return opts
	}

	if cfg.CacheTTL > 0 {
		opts = append(opts, search.WithCacheTTL(cfg.CacheTTL))
	}

	redisURL := strings.TrimSpace(cfg.RedisURL)
	if redisURL != "" {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Warn("invalid redis url, using in-memory cache only", slog.String("error", err.Error()))
			return opts
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable, using in-memory cache only", slog.String("error", err.Error()))
			return opts
		}
		logger.Info("redis connected", slog.String("addr", redisOpts.Addr))
		opts = append(opts, search.WithRedisCache(search.NewRedisCacheBackend(redisClient)))
	}

	return opts
}

func buildAuthOption(cfg app.Config, logger *slog.Logger) []apihttp.ServerOption {
	if strings.TrimSpace(cfg.SitePassword) == "" {
		logger.Warn("SITE_PASSWORD not set, authentication disabled")
		return nil
	}
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		logger.Warn("JWT_SECRET not set, deriving the signing key from the site password")
		secret = cfg.SitePassword
	}
	tokens := auth.TokenService{
		Secret:   []byte(secret),
		Issuer:   "vodhub",
		Duration: cfg.SessionDuration,
	}
	return []apihttp.ServerOption{
		apihttp.WithAuth(tokens, cfg.SiteUsername, cfg.SitePassword),
	}
}

func connectMongo(cfg app.Config, logger *slog.Logger) *mongo.Client {
	uri := strings.TrimSpace(cfg.MongoURI)
	if uri == "" {
		logger.Warn("MONGO_URI not set, favorites and play records disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := storemongo.Connect(ctx, uri,
		options.Client().SetMonitor(otelmongo.NewMonitor()),
	)
	if err != nil {
		logger.Warn("mongo connect failed, favorites and play records disabled", slog.String("error", err.Error()))
		return nil
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Warn("mongo not reachable, favorites and play records disabled", slog.String("error", err.Error()))
		_ = client.Disconnect(context.Background())
		return nil
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	return client
}
