//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"onchainiq/pkg/config"
	"onchainiq/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Infrastructure clients
		ProvideModel,
		ProvideCache,
		ProvideKafkaProducer,

		// Repositories
		ProvideDataProvider,
		ProvideEventPublisher,

		// Use cases
		ProvideAnalyzer,
		ProvideAnalysisService,
		ProvideChatter,

		// Transport
		ProvideLimiter,
		ProvideHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
