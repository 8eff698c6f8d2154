package ports

import (
	"context"

	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
)

// PreHireRepository defines the interface for pre-hire persistence.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type PreHireRepository interface {
	// Save persists a pre-hire (create or update)
	Save(ctx context.Context, prehire *entities.PreHire) error

	// GetByID retrieves a pre-hire by its ID
	GetByID(ctx context.Context, id valueobjects.PreHireID) (*entities.PreHire, error)

	// GetByEmail retrieves a pre-hire by email address
	GetByEmail(ctx context.Context, email valueobjects.Email) (*entities.PreHire, error)

	// List retrieves pre-hires matching the given criteria
	List(ctx context.Context, criteria ListCriteria) ([]*entities.PreHire, error)

	// Delete removes a pre-hire
	Delete(ctx context.Context, id valueobjects.PreHireID) error
}

// BundleRepository defines the interface for bundle persistence
type BundleRepository interface {
	// Save persists a bundle (create or update)
	Save(ctx context.Context, bundle *entities.Bundle) error

	// GetByID retrieves a bundle by its ID
	GetByID(ctx context.Context, id valueobjects.BundleID) (*entities.Bundle, error)

	// List retrieves bundles, optionally filtered by department
	List(ctx context.Context, department string, activeOnly bool) ([]*entities.Bundle, error)

	// Delete removes a bundle
	Delete(ctx context.Context, id valueobjects.BundleID) error
}

// TicketRepository defines the interface for ticket persistence
type TicketRepository interface {
	// Save persists a ticket (create or update)
	Save(ctx context.Context, ticket *entities.Ticket) error

	// GetByID retrieves a ticket by its ID
	GetByID(ctx context.Context, id valueobjects.TicketID) (*entities.Ticket, error)

	// GetByPreHireID retrieves all tickets for a pre-hire
	GetByPreHireID(ctx context.Context, prehireID valueobjects.PreHireID) ([]*entities.Ticket, error)

	// ListByStatus retrieves tickets in the given status
	ListByStatus(ctx context.Context, status entities.TicketStatus, limit int) ([]*entities.Ticket, error)

	// BulkSave saves multiple tickets in a transaction
	BulkSave(ctx context.Context, tickets []*entities.Ticket) error

	// Delete removes a ticket
	Delete(ctx context.Context, id valueobjects.TicketID) error
}

// EventRepository defines the interface for company event persistence
type EventRepository interface {
	// Save persists an event (create or update)
	Save(ctx context.Context, event *entities.Event) error

	// GetByID retrieves an event by its ID
	GetByID(ctx context.Context, id valueobjects.EventID) (*entities.Event, error)

	// GetByVenueID retrieves all events booked at a venue
	GetByVenueID(ctx context.Context, venueID valueobjects.VenueID) ([]*entities.Event, error)

	// List retrieves events matching the given criteria
	List(ctx context.Context, criteria ListCriteria) ([]*entities.Event, error)

	// Delete removes an event
	Delete(ctx context.Context, id valueobjects.EventID) error
}

// VenueRepository defines the interface for venue persistence
type VenueRepository interface {
	// Save persists a venue (create or update)
	Save(ctx context.Context, venue *entities.Venue) error

	// GetByID retrieves a venue by its ID
	GetByID(ctx context.Context, id valueobjects.VenueID) (*entities.Venue, error)

	// List retrieves venues, optionally active ones only
	List(ctx context.Context, activeOnly bool) ([]*entities.Venue, error)

	// Delete removes a venue
	Delete(ctx context.Context, id valueobjects.VenueID) error
}

// NoteRepository defines the interface for meeting note persistence
type NoteRepository interface {
	// Save persists a note (create or update)
	Save(ctx context.Context, note *entities.Note) error

	// GetByID retrieves a note by its ID
	GetByID(ctx context.Context, id valueobjects.NoteID) (*entities.Note, error)

	// GetByEventID retrieves all notes attached to an event
	GetByEventID(ctx context.Context, eventID valueobjects.EventID) ([]*entities.Note, error)

	// List retrieves notes matching the given criteria
	List(ctx context.Context, criteria ListCriteria) ([]*entities.Note, error)

	// Delete removes a note
	Delete(ctx context.Context, id valueobjects.NoteID) error
}

// ListCriteria defines list/search parameters shared by repositories
type ListCriteria struct {
	Department string
	Stage      string
	Status     string
	Query      string
	Limit      int
	Offset     int
	OrderBy    string
	OrderDesc  bool
}

// EventStore defines the interface for domain event persistence
type EventStore interface {
	// SaveEvents persists domain events
	SaveEvents(ctx context.Context, events []events.DomainEvent) error

	// GetEvents retrieves events for an aggregate
	GetEvents(ctx context.Context, aggregateID string) ([]events.DomainEvent, error)

	// GetEventsByType retrieves events of a specific type
	GetEventsByType(ctx context.Context, eventType string, limit int) ([]events.DomainEvent, error)

	// DeleteEvents removes all events for an aggregate
	DeleteEvents(ctx context.Context, aggregateID string) error
}

// UnitOfWork defines a transaction boundary for aggregate operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction
	Rollback() error

	// PreHireRepository returns the pre-hire repository for this transaction
	PreHireRepository() PreHireRepository

	// TicketRepository returns the ticket repository for this transaction
	TicketRepository() TicketRepository
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventBus defines the interface for publishing and subscribing to domain events
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for an event type
	Subscribe(eventType string, handler EventHandler) error

	// Unsubscribe removes a handler
	Unsubscribe(eventType string, handler EventHandler) error
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event events.DomainEvent) error

	// CanHandle checks if this handler can process the event
	CanHandle(eventType string) bool
}

// BundleCatalog loads bundle definitions from static reference data
type BundleCatalog interface {
	// Load returns all bundles defined in the catalog
	Load(ctx context.Context) ([]*entities.Bundle, error)
}

// Notifier pushes provisioning progress to connected admin clients
type Notifier interface {
	// NotifyProvisioningProgress reports ticket progress for a pre-hire
	NotifyProvisioningProgress(ctx context.Context, prehireID valueobjects.PreHireID, openTickets, totalTickets int) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}

// DistributedLock coordinates exclusive work across concurrent processes
type DistributedLock interface {
	// AcquireLock attempts to take the named lock, returning a release func
	AcquireLock(ctx context.Context, lockKey string, ttlSeconds int) (func() error, error)
}
