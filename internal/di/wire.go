//go:build wireinject
// +build wireinject

package di

import (
	"SignalPulse/pkg/config"
	"SignalPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCacheBackend,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Egress repositories
		ProvideDecisionCache,
		ProvideDecisionJournal,
		ProvideBroadcaster,
		ProvidePublishers,

		// Engine services
		ProvideAggregator,
		ProvideResolver,
		ProvideCalibrator,
		ProvideStateStore,
		ProvideStabilityGate,
		ProvideCorrelationGuard,

		// Use case and HTTP surface
		ProvideEvaluator,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
