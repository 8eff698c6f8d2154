//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"onboardhq-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvidePreHireRepository,
	ProvideBundleRepository,
	ProvideTicketRepository,
	ProvideEventRepository,
	ProvideVenueRepository,
	ProvideNoteRepository,
	ProvideEventBus,
	ProvideEventPublisher,
	ProvideDynamoDBEventStore,
	ProvideEventStore,
	ProvideUnitOfWork,
	ProvideMetrics,
	ProvideTracer,
	ProvideDistributedLock,
	ProvideOutboxProcessor,
	ProvideRateLimiter,
	ProvideJWTValidator,
	ProvideNotifier,
	ProvideBundleCatalog,
	ProvideProvisionService,
	ProvideProvisionSaga,
	ProvidePreHireValidator,
	ProvideAppHandlers,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideInMemoryCache,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
