package di

import (
	"context"
	"fmt"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/application/commands/bus"
	commandhandlers "onboardhq-backend/application/commands/handlers"
	"onboardhq-backend/application/ports"
	"onboardhq-backend/application/queries"
	querybus "onboardhq-backend/application/queries/bus"
	queryhandlers "onboardhq-backend/application/queries/handlers"
	"onboardhq-backend/application/sagas"
	"onboardhq-backend/application/services"
	"onboardhq-backend/domain/core/validators"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
	"onboardhq-backend/infrastructure/catalog"
	"onboardhq-backend/infrastructure/config"
	"onboardhq-backend/infrastructure/messaging/eventbridge"
	"onboardhq-backend/infrastructure/messaging/websocket"
	"onboardhq-backend/infrastructure/persistence/dynamodb"
	"onboardhq-backend/pkg/auth"
	"onboardhq-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// referenceDataTTLSeconds is how long low-churn catalog-style query
// results (bundles, venues) stay cached.
const referenceDataTTLSeconds = 60

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvidePreHireRepository creates a pre-hire repository
func ProvidePreHireRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PreHireRepository {
	return dynamodb.NewPreHireRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideBundleRepository creates a bundle repository
func ProvideBundleRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.BundleRepository {
	return dynamodb.NewBundleRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideTicketRepository creates a ticket repository
func ProvideTicketRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.TicketRepository {
	return dynamodb.NewTicketRepository(client, cfg.DynamoDBTable, cfg.IndexName, cfg.GSI2IndexName, logger)
}

// ProvideEventRepository creates a scheduled-event repository
func ProvideEventRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.EventRepository {
	return dynamodb.NewEventRepository(client, cfg.DynamoDBTable, cfg.IndexName, cfg.GSI2IndexName, logger)
}

// ProvideVenueRepository creates a venue repository
func ProvideVenueRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.VenueRepository {
	return dynamodb.NewVenueRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideNoteRepository creates a note repository
func ProvideNoteRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.NoteRepository {
	return dynamodb.NewNoteRepository(client, cfg.DynamoDBTable, cfg.IndexName, cfg.GSI2IndexName, logger)
}

// ProvideEventBus creates the EventBridge-backed event bus
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return eventbridge.NewEventBridgePublisher(client, cfg.EventBusName, logger)
}

// ProvideEventPublisher creates an event publisher (adapter for EventBus)
func ProvideEventPublisher(eventBus ports.EventBus) ports.EventPublisher {
	return &eventPublisherAdapter{eventBus: eventBus}
}

// eventPublisherAdapter adapts EventBus to the narrower EventPublisher interface
type eventPublisherAdapter struct {
	eventBus ports.EventBus
}

func (a *eventPublisherAdapter) Publish(ctx context.Context, event events.DomainEvent) error {
	return a.eventBus.Publish(ctx, event)
}

func (a *eventPublisherAdapter) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	return a.eventBus.PublishBatch(ctx, batch)
}

// ProvideDynamoDBEventStore creates the concrete event store used by the
// unit of work and the outbox processor.
func ProvideDynamoDBEventStore(client *awsdynamodb.Client, cfg *config.Config) *dynamodb.DynamoDBEventStore {
	return dynamodb.NewDynamoDBEventStore(client, cfg.DynamoDBTable, cfg.GSI2IndexName)
}

// ProvideEventStore exposes the event store behind its port
func ProvideEventStore(store *dynamodb.DynamoDBEventStore) ports.EventStore {
	return store
}

// ProvideUnitOfWork creates a unit of work for transactional writes
func ProvideUnitOfWork(
	client *awsdynamodb.Client,
	store *dynamodb.DynamoDBEventStore,
	prehireRepo ports.PreHireRepository,
	ticketRepo ports.TicketRepository,
	logger *zap.Logger,
) ports.UnitOfWork {
	return dynamodb.NewDynamoDBUnitOfWork(client, store, prehireRepo, ticketRepo, logger)
}

// ProvideMetrics creates the CloudWatch metrics emitter
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("OnboardHQ/%s", cfg.Environment)
	return observability.NewMetrics(client, namespace, logger)
}

// ProvideTracer creates the X-Ray tracer. Disabled tracers pass calls through
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("onboardhq", cfg.EnableTracing)
}

// ProvideDistributedLock creates a DynamoDB-backed distributed lock
func ProvideDistributedLock(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.DistributedLock {
	return dynamodb.NewDistributedLock(client, cfg.DynamoDBTable, logger)
}

// ProvideOutboxProcessor creates the outbox drain worker
func ProvideOutboxProcessor(
	store *dynamodb.DynamoDBEventStore,
	eventPublisher ports.EventPublisher,
	lock ports.DistributedLock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *dynamodb.OutboxProcessor {
	return dynamodb.NewOutboxProcessor(store, eventPublisher, lock, metrics, logger)
}

// ProvideRateLimiter creates the per-user rate limiter. Development
// uses the in-memory sliding window so local stacks need no table;
// deployed environments share counters through DynamoDB.
func ProvideRateLimiter(client *awsdynamodb.Client, cfg *config.Config) auth.RateLimiter {
	if cfg.IsDevelopment() {
		return auth.NewUserRateLimiter(cfg.RateLimitPerMinute)
	}
	return auth.NewDistributedUserRateLimiter(client, cfg.DynamoDBTable, cfg.RateLimitPerMinute)
}

// ProvideJWTValidator creates the JWT validator used by the HTTP auth
// middleware. Outside production an unset secret falls back to a fixed
// development value so local stacks work without configuration.
func ProvideJWTValidator(cfg *config.Config, logger *zap.Logger) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		secret = "local-development-secret"
		logger.Warn("JWT_SECRET not set, using development fallback")
	}

	var audience []string
	if cfg.JWTAudience != "" {
		audience = []string{cfg.JWTAudience}
	}

	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
		Audience:      audience,
	})
}

// ProvideNotifier creates the provisioning-progress notifier. Without a
// configured WebSocket endpoint progress is only logged.
func ProvideNotifier(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) ports.Notifier {
	if cfg.WebSocketEndpoint == "" {
		return &logNotifier{logger: logger}
	}
	return websocket.NewNotifier(awsCfg, cfg.WebSocketEndpoint, cfg.ConnectionsTable, logger)
}

// logNotifier is the fallback notifier for stacks without a WebSocket API
type logNotifier struct {
	logger *zap.Logger
}

func (n *logNotifier) NotifyProvisioningProgress(ctx context.Context, prehireID valueobjects.PreHireID, openTickets, totalTickets int) error {
	n.logger.Info("provisioning progress",
		zap.String("prehireId", prehireID.String()),
		zap.Int("openTickets", openTickets),
		zap.Int("totalTickets", totalTickets))
	return nil
}

// ProvideBundleCatalog creates the YAML bundle catalog loader
func ProvideBundleCatalog(cfg *config.Config, logger *zap.Logger) ports.BundleCatalog {
	return catalog.NewYAMLCatalog(cfg.CatalogPath, logger)
}

// ProvideProvisionService creates the bundle-expansion domain service
func ProvideProvisionService(
	prehireRepo ports.PreHireRepository,
	bundleRepo ports.BundleRepository,
	ticketRepo ports.TicketRepository,
	logger *zap.Logger,
) *services.ProvisionService {
	return services.NewProvisionService(prehireRepo, bundleRepo, ticketRepo, logger)
}

// ProvideProvisionSaga creates the provisioning saga used by the worker
func ProvideProvisionSaga(
	prehireRepo ports.PreHireRepository,
	bundleRepo ports.BundleRepository,
	ticketRepo ports.TicketRepository,
	provisionService *services.ProvisionService,
	eventPublisher ports.EventPublisher,
	notifier ports.Notifier,
	logger *zap.Logger,
) *sagas.ProvisionSaga {
	return sagas.NewProvisionSaga(prehireRepo, bundleRepo, ticketRepo, provisionService, eventPublisher, notifier, logger)
}

// ProvidePreHireValidator creates the pre-hire domain validator
func ProvidePreHireValidator() *validators.PreHireValidator {
	return validators.NewPreHireValidator()
}

// AppHandlers groups the application handlers whose operations return the
// affected entity. The HTTP layer calls these directly so create and
// update responses can carry the resulting representation; void
// mutations go through the command bus instead.
type AppHandlers struct {
	CreatePreHire    *commandhandlers.CreatePreHireHandler
	OpenTicket       *commandhandlers.OpenTicketHandler
	TransitionTicket *commandhandlers.TransitionTicketHandler
	Bundle           *commandhandlers.BundleHandler
	ScheduleEvent    *commandhandlers.ScheduleEventHandler
	Venue            *commandhandlers.VenueHandler
	Note             *commandhandlers.NoteHandler
}

// ProvideAppHandlers creates the entity-returning application handlers
func ProvideAppHandlers(
	prehireRepo ports.PreHireRepository,
	bundleRepo ports.BundleRepository,
	ticketRepo ports.TicketRepository,
	eventRepo ports.EventRepository,
	venueRepo ports.VenueRepository,
	noteRepo ports.NoteRepository,
	provisionService *services.ProvisionService,
	eventPublisher ports.EventPublisher,
	notifier ports.Notifier,
	bundleCatalog ports.BundleCatalog,
	cache ports.Cache,
	validator *validators.PreHireValidator,
	logger *zap.Logger,
) *AppHandlers {
	return &AppHandlers{
		CreatePreHire:    commandhandlers.NewCreatePreHireHandler(prehireRepo, eventPublisher, validator, logger),
		OpenTicket:       commandhandlers.NewOpenTicketHandler(prehireRepo, ticketRepo, eventPublisher, logger),
		TransitionTicket: commandhandlers.NewTransitionTicketHandler(ticketRepo, provisionService, eventPublisher, notifier, logger),
		Bundle:           commandhandlers.NewBundleHandler(bundleRepo, bundleCatalog, cache, logger),
		ScheduleEvent:    commandhandlers.NewScheduleEventHandler(eventRepo, venueRepo, eventPublisher, logger),
		Venue:            commandhandlers.NewVenueHandler(venueRepo, cache, logger),
		Note:             commandhandlers.NewNoteHandler(noteRepo, eventRepo, eventPublisher, logger),
	}
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with all void mutations registered
func ProvideCommandBus(
	appHandlers *AppHandlers,
	uow ports.UnitOfWork,
	prehireRepo ports.PreHireRepository,
	bundleRepo ports.BundleRepository,
	ticketRepo ports.TicketRepository,
	eventRepo ports.EventRepository,
	provisionService *services.ProvisionService,
	eventPublisher ports.EventPublisher,
	distributedLock ports.DistributedLock,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
		bus.TracingMiddleware(tracer),
	)

	// Bundle assignment runs through the orchestrator so ticket expansion,
	// pre-hire updates, and events commit in one transaction.
	orchestrator := commandhandlers.NewAssignBundleOrchestrator(
		uow,
		prehireRepo,
		bundleRepo,
		ticketRepo,
		provisionService,
		eventPublisher,
		distributedLock,
		logger,
	)
	commandBus.Register(commands.AssignBundleCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			assignCmd, ok := cmd.(commands.AssignBundleCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := orchestrator.Handle(ctx, assignCmd)
			return err
		},
	})

	advanceHandler := commandhandlers.NewAdvanceStageHandler(prehireRepo, eventPublisher, logger)
	commandBus.Register(commands.AdvanceStageCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			advanceCmd, ok := cmd.(commands.AdvanceStageCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return advanceHandler.Handle(ctx, advanceCmd)
		},
	})

	assignManagerHandler := commandhandlers.NewAssignManagerHandler(prehireRepo, logger)
	commandBus.Register(commands.AssignManagerCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			assignCmd, ok := cmd.(commands.AssignManagerCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return assignManagerHandler.Handle(ctx, assignCmd)
		},
	})

	rescheduleHandler := commandhandlers.NewReschedulePreHireHandler(prehireRepo, logger)
	commandBus.Register(commands.ReschedulePreHireCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			rescheduleCmd, ok := cmd.(commands.ReschedulePreHireCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return rescheduleHandler.Handle(ctx, rescheduleCmd)
		},
	})

	withdrawHandler := commandhandlers.NewWithdrawPreHireHandler(prehireRepo, ticketRepo, eventPublisher, logger)
	commandBus.Register(commands.WithdrawPreHireCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			withdrawCmd, ok := cmd.(commands.WithdrawPreHireCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return withdrawHandler.Handle(ctx, withdrawCmd)
		},
	})

	deletePreHireHandler := commandhandlers.NewDeletePreHireHandler(prehireRepo, ticketRepo, logger)
	commandBus.Register(commands.DeletePreHireCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			deleteCmd, ok := cmd.(commands.DeletePreHireCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return deletePreHireHandler.Handle(ctx, deleteCmd)
		},
	})

	reassignHandler := commandhandlers.NewReassignTicketHandler(ticketRepo, logger)
	commandBus.Register(commands.ReassignTicketCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			reassignCmd, ok := cmd.(commands.ReassignTicketCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return reassignHandler.Handle(ctx, reassignCmd)
		},
	})

	commandBus.Register(commands.RetireBundleCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			retireCmd, ok := cmd.(commands.RetireBundleCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return appHandlers.Bundle.HandleRetire(ctx, retireCmd)
		},
	})

	commandBus.Register(commands.CancelEventCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			cancelCmd, ok := cmd.(commands.CancelEventCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return appHandlers.ScheduleEvent.HandleCancel(ctx, cancelCmd)
		},
	})

	attendeeHandler := commandhandlers.NewAttendeeHandler(eventRepo, prehireRepo, logger)
	commandBus.Register(commands.RegisterAttendeeCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			registerCmd, ok := cmd.(commands.RegisterAttendeeCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return attendeeHandler.HandleRegister(ctx, registerCmd)
		},
	})
	commandBus.Register(commands.UnregisterAttendeeCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			unregisterCmd, ok := cmd.(commands.UnregisterAttendeeCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return attendeeHandler.HandleUnregister(ctx, unregisterCmd)
		},
	})

	commandBus.Register(commands.DeactivateVenueCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			deactivateCmd, ok := cmd.(commands.DeactivateVenueCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return appHandlers.Venue.HandleDeactivate(ctx, deactivateCmd)
		},
	})

	commandBus.Register(commands.DeleteNoteCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			deleteCmd, ok := cmd.(commands.DeleteNoteCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return appHandlers.Note.HandleDelete(ctx, deleteCmd)
		},
	})

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with all read operations registered
func ProvideQueryBus(
	prehireRepo ports.PreHireRepository,
	bundleRepo ports.BundleRepository,
	ticketRepo ports.TicketRepository,
	eventRepo ports.EventRepository,
	venueRepo ports.VenueRepository,
	noteRepo ports.NoteRepository,
	cache ports.Cache,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus(
		querybus.LoggingMiddleware(logger),
		querybus.MetricsMiddleware(metrics),
		querybus.TracingMiddleware(tracer),
	)

	cached := querybus.CachingMiddleware(cache, referenceDataTTLSeconds)

	prehireQueries := queryhandlers.NewPreHireQueryHandler(prehireRepo, ticketRepo, logger)
	queryBus.Register(queries.GetPreHireQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetPreHireQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return prehireQueries.HandleGet(ctx, getQuery)
		},
	})
	queryBus.Register(queries.ListPreHiresQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListPreHiresQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return prehireQueries.HandleList(ctx, listQuery)
		},
	})
	queryBus.Register(queries.GetOnboardingStatusQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			statusQuery, ok := query.(queries.GetOnboardingStatusQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return prehireQueries.HandleStatus(ctx, statusQuery)
		},
	})

	bundleQueries := queryhandlers.NewBundleQueryHandler(bundleRepo, logger)
	queryBus.Register(queries.GetBundleQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetBundleQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return bundleQueries.HandleGet(ctx, getQuery)
		},
	})
	queryBus.Register(queries.ListBundlesQuery{}, cached(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListBundlesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return bundleQueries.HandleList(ctx, listQuery)
		},
	}))

	ticketQueries := queryhandlers.NewTicketQueryHandler(ticketRepo, logger)
	queryBus.Register(queries.GetTicketQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetTicketQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return ticketQueries.HandleGet(ctx, getQuery)
		},
	})
	queryBus.Register(queries.ListTicketsQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListTicketsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return ticketQueries.HandleList(ctx, listQuery)
		},
	})

	eventQueries := queryhandlers.NewEventQueryHandler(eventRepo, venueRepo, logger)
	queryBus.Register(queries.GetEventQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetEventQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return eventQueries.HandleGetEvent(ctx, getQuery)
		},
	})
	queryBus.Register(queries.ListEventsQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListEventsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return eventQueries.HandleListEvents(ctx, listQuery)
		},
	})
	queryBus.Register(queries.GetVenueQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetVenueQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return eventQueries.HandleGetVenue(ctx, getQuery)
		},
	})
	queryBus.Register(queries.ListVenuesQuery{}, cached(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListVenuesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return eventQueries.HandleListVenues(ctx, listQuery)
		},
	}))

	noteQueries := queryhandlers.NewNoteQueryHandler(noteRepo, metrics, logger)
	queryBus.Register(queries.GetNoteQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetNoteQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return noteQueries.HandleGet(ctx, getQuery)
		},
	})
	queryBus.Register(queries.ListNotesQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListNotesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return noteQueries.HandleList(ctx, listQuery)
		},
	})
	queryBus.Register(queries.RenderNoteQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			renderQuery, ok := query.(queries.RenderNoteQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return noteQueries.HandleRender(ctx, renderQuery)
		},
	})

	return queryBus
}

// ProvideInMemoryCache creates a simple in-memory cache.
// In production this would be Redis or similar.
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}
