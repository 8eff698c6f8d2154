package entities

import (
	"fmt"
	"strings"
	"time"

	"onboardhq-backend/domain/config"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// Stage represents where a pre-hire sits in the onboarding pipeline
type Stage string

const (
	StageOfferAccepted Stage = "offer_accepted"
	StagePaperwork     Stage = "paperwork"
	StageProvisioning  Stage = "provisioning"
	StageReady         Stage = "ready"
	StageStarted       Stage = "started"
	StageWithdrawn     Stage = "withdrawn"
)

// stageTransitions maps each stage to the stages it may move to
var stageTransitions = map[Stage][]Stage{
	StageOfferAccepted: {StagePaperwork, StageWithdrawn},
	StagePaperwork:     {StageProvisioning, StageWithdrawn},
	StageProvisioning:  {StageReady, StageWithdrawn},
	StageReady:         {StageStarted, StageWithdrawn},
	StageStarted:       {},
	StageWithdrawn:     {},
}

// PreHire is the main entity representing an incoming employee.
// This is a rich domain model with encapsulated business logic
type PreHire struct {
	// Private fields ensure encapsulation
	id         valueobjects.PreHireID
	name       string
	email      valueobjects.Email
	department string
	role       string
	manager    string
	startDate  time.Time
	stage      Stage
	bundleID   valueobjects.BundleID
	ticketIDs  []valueobjects.TicketID
	createdAt  time.Time
	updatedAt  time.Time
	version    int

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewPreHire creates a new pre-hire with full business rule validation
func NewPreHire(name string, email valueobjects.Email, department, role string, startDate time.Time) (*PreHire, error) {
	return NewPreHireWithConfig(name, email, department, role, startDate, config.DefaultDomainConfig())
}

// NewPreHireWithConfig creates a new pre-hire with explicit configuration
func NewPreHireWithConfig(name string, email valueobjects.Email, department, role string, startDate time.Time, cfg *config.DomainConfig) (*PreHire, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	name = strings.TrimSpace(name)
	if len(name) < cfg.MinNameLength {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}
	if len(name) > cfg.MaxNameLength {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("name exceeds %d characters", cfg.MaxNameLength))
	}

	if email.IsZero() {
		return nil, pkgerrors.NewValidationError("email is required")
	}

	if department == "" {
		return nil, pkgerrors.NewValidationError("department is required")
	}

	now := time.Now()
	if !cfg.AllowPastStartDates && startDate.Before(now.Truncate(24*time.Hour)) {
		return nil, pkgerrors.NewValidationError("start date cannot be in the past")
	}

	if startDate.After(now.AddDate(0, 0, cfg.MaxLeadDays)) {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("start date is more than %d days out", cfg.MaxLeadDays))
	}

	prehire := &PreHire{
		id:         valueobjects.NewPreHireID(),
		name:       name,
		email:      email,
		department: department,
		role:       role,
		startDate:  startDate,
		stage:      StageOfferAccepted,
		ticketIDs:  []valueobjects.TicketID{},
		createdAt:  now,
		updatedAt:  now,
		version:    1,
		events:     []events.DomainEvent{},
	}

	prehire.addEvent(events.NewPreHireCreated(
		prehire.id,
		name,
		email.String(),
		department,
		startDate,
		now,
	))

	return prehire, nil
}

// ReconstructPreHire reconstructs a pre-hire from repository data with preserved timestamps
func ReconstructPreHire(
	id valueobjects.PreHireID,
	name string,
	email valueobjects.Email,
	department, role, manager string,
	startDate time.Time,
	stage Stage,
	bundleID valueobjects.BundleID,
	ticketIDs []valueobjects.TicketID,
	createdAt, updatedAt time.Time,
	version int,
) (*PreHire, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}

	if email.IsZero() {
		return nil, pkgerrors.NewValidationError("email is required")
	}

	if ticketIDs == nil {
		ticketIDs = []valueobjects.TicketID{}
	}

	return &PreHire{
		id:         id,
		name:       name,
		email:      email,
		department: department,
		role:       role,
		manager:    manager,
		startDate:  startDate,
		stage:      stage,
		bundleID:   bundleID,
		ticketIDs:  ticketIDs,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		version:    version,
		events:     []events.DomainEvent{},
	}, nil
}

// ID returns the pre-hire's unique identifier
func (p *PreHire) ID() valueobjects.PreHireID {
	return p.id
}

// Name returns the candidate's full name
func (p *PreHire) Name() string {
	return p.name
}

// Email returns the candidate's email address
func (p *PreHire) Email() valueobjects.Email {
	return p.email
}

// Department returns the hiring department
func (p *PreHire) Department() string {
	return p.department
}

// Role returns the job title
func (p *PreHire) Role() string {
	return p.role
}

// Manager returns the assigned manager, empty until set
func (p *PreHire) Manager() string {
	return p.manager
}

// StartDate returns the agreed first day
func (p *PreHire) StartDate() time.Time {
	return p.startDate
}

// Stage returns the current pipeline stage
func (p *PreHire) Stage() Stage {
	return p.stage
}

// BundleID returns the assigned bundle, zero if none assigned yet
func (p *PreHire) BundleID() valueobjects.BundleID {
	return p.bundleID
}

// TicketIDs returns the provisioning tickets opened for this pre-hire
func (p *PreHire) TicketIDs() []valueobjects.TicketID {
	ids := make([]valueobjects.TicketID, len(p.ticketIDs))
	copy(ids, p.ticketIDs)
	return ids
}

// CreatedAt returns when the record was opened
func (p *PreHire) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns the last modification time
func (p *PreHire) UpdatedAt() time.Time {
	return p.updatedAt
}

// Version returns the pre-hire's version for optimistic locking
func (p *PreHire) Version() int {
	return p.version
}

// AdvanceTo moves the pre-hire to the given stage, enforcing the pipeline order
func (p *PreHire) AdvanceTo(stage Stage) error {
	if stage == p.stage {
		return nil // Already there
	}

	allowed := false
	for _, next := range stageTransitions[p.stage] {
		if next == stage {
			allowed = true
			break
		}
	}
	if !allowed {
		return pkgerrors.NewValidationError(fmt.Sprintf("cannot move from %s to %s", p.stage, stage))
	}

	oldStage := p.stage
	p.stage = stage
	p.updatedAt = time.Now()
	p.version++

	p.addEvent(events.NewPreHireStageChanged(p.id, string(oldStage), string(stage), p.updatedAt))

	return nil
}

// AssignBundle attaches an equipment/software bundle to this pre-hire
func (p *PreHire) AssignBundle(bundleID valueobjects.BundleID) error {
	if p.stage == StageWithdrawn {
		return pkgerrors.NewValidationError("cannot assign bundle to withdrawn pre-hire")
	}

	if bundleID.IsZero() {
		return pkgerrors.NewValidationError("bundleID is required")
	}

	if p.bundleID.Equals(bundleID) {
		return nil // No change needed
	}

	p.bundleID = bundleID
	p.updatedAt = time.Now()
	p.version++

	p.addEvent(events.NewBundleAssigned(p.id, bundleID, p.updatedAt))

	return nil
}

// AssignManager records the manager responsible for this pre-hire
func (p *PreHire) AssignManager(manager string) error {
	if manager == "" {
		return pkgerrors.NewValidationError("manager cannot be empty")
	}

	if p.manager == manager {
		return nil
	}

	p.manager = manager
	p.updatedAt = time.Now()

	return nil
}

// TrackTicket links a provisioning ticket to this pre-hire
func (p *PreHire) TrackTicket(ticketID valueobjects.TicketID) error {
	return p.TrackTicketWithConfig(ticketID, config.DefaultDomainConfig())
}

// TrackTicketWithConfig links a provisioning ticket with explicit configuration
func (p *PreHire) TrackTicketWithConfig(ticketID valueobjects.TicketID, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if ticketID.IsZero() {
		return pkgerrors.NewValidationError("ticketID is required")
	}

	for _, existing := range p.ticketIDs {
		if existing.Equals(ticketID) {
			return nil // Already tracked
		}
	}

	if len(p.ticketIDs) >= cfg.MaxTicketsPerPreHire {
		return fmt.Errorf("maximum tickets reached: %d", cfg.MaxTicketsPerPreHire)
	}

	p.ticketIDs = append(p.ticketIDs, ticketID)
	p.updatedAt = time.Now()

	return nil
}

// Reschedule changes the start date with the same lead-time rules as creation
func (p *PreHire) Reschedule(startDate time.Time, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if p.stage == StageStarted || p.stage == StageWithdrawn {
		return pkgerrors.NewValidationError("cannot reschedule a closed pre-hire")
	}

	now := time.Now()
	if !cfg.AllowPastStartDates && startDate.Before(now.Truncate(24*time.Hour)) {
		return pkgerrors.NewValidationError("start date cannot be in the past")
	}

	p.startDate = startDate
	p.updatedAt = now
	p.version++

	return nil
}

// Withdraw closes the pipeline for a candidate who dropped out
func (p *PreHire) Withdraw(reason string) error {
	if p.stage == StageStarted {
		return pkgerrors.NewValidationError("cannot withdraw a pre-hire who already started")
	}

	if p.stage == StageWithdrawn {
		return nil // Already withdrawn
	}

	oldStage := p.stage
	p.stage = StageWithdrawn
	p.updatedAt = time.Now()
	p.version++

	p.addEvent(events.NewPreHireStageChanged(p.id, string(oldStage), string(StageWithdrawn), p.updatedAt))
	p.addEvent(events.NewPreHireWithdrawn(p.id, reason, p.updatedAt))

	return nil
}

// IsClosed reports whether the pipeline has reached a terminal stage
func (p *PreHire) IsClosed() bool {
	return p.stage == StageStarted || p.stage == StageWithdrawn
}

// GetUncommittedEvents returns events raised since the last commit
func (p *PreHire) GetUncommittedEvents() []events.DomainEvent {
	return p.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (p *PreHire) MarkEventsAsCommitted() {
	p.events = []events.DomainEvent{}
}

func (p *PreHire) addEvent(event events.DomainEvent) {
	p.events = append(p.events, event)
}
