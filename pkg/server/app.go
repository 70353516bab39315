package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onchainiq/internal/service/ratelimit"
	"onchainiq/pkg/config"
	xhttp "onchainiq/pkg/http"
	pkgkafka "onchainiq/pkg/kafka"
	"onchainiq/pkg/logger"
)

const limiterPruneInterval = time.Minute

// App encapsulates the entire application lifecycle.
type App struct {
	cfg      *config.Config
	server   *xhttp.Server
	logger   *logger.Logger
	limiter  *ratelimit.Limiter
	producer *pkgkafka.Producer
}

// New creates a new App. limiter and producer may be nil.
func New(
	cfg *config.Config,
	srv *xhttp.Server,
	log *logger.Logger,
	limiter *ratelimit.Limiter,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:      cfg,
		server:   srv,
		logger:   log,
		limiter:  limiter,
		producer: producer,
	}
}

// Run starts the application and blocks until ctx is done or a
// termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.producer != nil && a.cfg.Kafka.LogTopic != "" {
		a.logger.AddCollector(&logger.CollectionConfig{
			TimeInterval:   10 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogTopic,
			Publisher:      a.producer,
		})
		defer a.logger.RemoveCollector()
	}

	if a.limiter != nil {
		go a.limiter.Run(ctx, limiterPruneInterval)
	}

	if err := a.server.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	a.logger.Info("onchainiq started",
		logger.String("model", a.cfg.Model.Name),
		logger.String("cache", a.cfg.Cache.Backend),
		logger.Bool("kafka", a.producer != nil),
	)

	<-ctx.Done()
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.server.ShutdownTimeout())
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return err
	}
	return nil
}
