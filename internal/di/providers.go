package di

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"onchainiq/internal/domain/repository"
	"onchainiq/internal/domain/service"
	"onchainiq/internal/handler/api"
	"onchainiq/internal/repository/events"
	"onchainiq/internal/repository/memory"
	"onchainiq/internal/service/ratelimit"
	"onchainiq/internal/services/llm"
	"onchainiq/internal/usecase"
	"onchainiq/pkg/cache"
	"onchainiq/pkg/config"
	xhttp "onchainiq/pkg/http"
	pkgkafka "onchainiq/pkg/kafka"
	"onchainiq/pkg/logger"
	"onchainiq/pkg/metrics"
	"onchainiq/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideDataProvider serves the fixture data set, timestamped at startup.
func ProvideDataProvider(l *logger.Logger) repository.DataProvider {
	return memory.NewProvider(time.Now().UTC(), l)
}

// ProvideModel creates the OpenAI-compatible model client.
func ProvideModel(cfg *config.Config, l *logger.Logger) (service.ModelProvider, error) {
	if cfg.Model.APIKey == "" {
		l.Warn("model api key not set; model calls will be rejected upstream")
	}
	c, err := llm.New(llm.Config{
		BaseURL:      cfg.Model.BaseURL,
		APIKey:       cfg.Model.APIKey,
		Model:        cfg.Model.Name,
		Temperature:  cfg.Model.Temperature,
		StrictSchema: cfg.Model.StrictSchema,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("model client: %w", err)
	}
	return c, nil
}

// ProvideCache creates the analysis response cache for the configured backend.
func ProvideCache(cfg *config.Config) (cache.Service, func(), error) {
	var c cache.Service
	switch cfg.Cache.Backend {
	case "redis", "layered":
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		c = rc
		if cfg.Cache.Backend == "layered" {
			near := cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize))
			c = cache.NewLayeredCache(near, rc, cache.WithLayeredL1TTL(cfg.Cache.L1TTL))
		}
	case "memory":
		c = cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize))
	default:
		c = cache.Noop{}
	}
	return c, func() { _ = c.Close() }, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideEventPublisher publishes analysis events to Kafka when enabled.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return events.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

func ProvideAnalyzer(
	data repository.DataProvider,
	model service.ModelProvider,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(data, model, m, l, usecase.AnalyzerConfig{
		MaxOutputTokens: cfg.Model.MaxOutputTokens,
		Timeout:         cfg.Model.Timeout,
		RecentTxLimit:   cfg.Analysis.RecentTxLimit,
	})
}

func ProvideAnalysisService(
	a *usecase.Analyzer,
	c cache.Service,
	pub repository.EventPublisher,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.AnalysisService {
	return usecase.NewAnalysisService(a, c, cfg.Cache.TTL, pub, m, l)
}

func ProvideChatter(
	data repository.DataProvider,
	model service.ModelProvider,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.Chatter {
	return usecase.NewChatter(data, model, m, l, usecase.ChatConfig{
		MaxOutputTokens: cfg.Model.ChatMaxTokens,
		Timeout:         cfg.Model.ChatTimeout,
	})
}

// ProvideLimiter creates the AI endpoint rate limiter, or nil when disabled.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Burst, cfg.RateLimit.PerSec)
}

// ProvideHandler registers every HTTP handler.
func ProvideHandler(
	l *logger.Logger,
	svc *usecase.AnalysisService,
	chat *usecase.Chatter,
	limiter *ratelimit.Limiter,
	data repository.DataProvider,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewAIHandler(l, svc, chat, limiter),
		api.NewDataHandler(l, data),
	}
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *logger.Logger, reg *prometheus.Registry) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true, cfg.Server.AllowOrigins...),
		xhttp.WithMetrics(metricsPath, reg, reg),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	l *logger.Logger,
	limiter *ratelimit.Limiter,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, srv, l, limiter, producer)
}
