package di

import (
	"onboardhq-backend/application/commands/bus"
	"onboardhq-backend/application/ports"
	querybus "onboardhq-backend/application/queries/bus"
	"onboardhq-backend/application/sagas"
	"onboardhq-backend/application/services"
	"onboardhq-backend/infrastructure/config"
	"onboardhq-backend/infrastructure/persistence/dynamodb"
	"onboardhq-backend/pkg/auth"
	"onboardhq-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	PreHireRepo      ports.PreHireRepository
	BundleRepo       ports.BundleRepository
	TicketRepo       ports.TicketRepository
	EventRepo        ports.EventRepository
	VenueRepo        ports.VenueRepository
	NoteRepo         ports.NoteRepository
	EventBus         ports.EventBus
	EventPublisher   ports.EventPublisher
	EventStore       ports.EventStore
	UnitOfWork       ports.UnitOfWork
	CommandBus       *bus.CommandBus
	QueryBus         *querybus.QueryBus
	AppHandlers      *AppHandlers
	Cache            ports.Cache
	Metrics          *observability.Metrics
	RateLimiter      auth.RateLimiter
	JWTValidator     *auth.JWTValidator
	Notifier         ports.Notifier
	Catalog          ports.BundleCatalog
	DistributedLock  ports.DistributedLock
	OutboxProcessor  *dynamodb.OutboxProcessor
	ProvisionService *services.ProvisionService
	ProvisionSaga    *sagas.ProvisionSaga
}
