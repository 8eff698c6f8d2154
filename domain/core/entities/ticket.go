package entities

import (
	"fmt"
	"time"

	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// TicketStatus represents the state of a provisioning ticket
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketBlocked    TicketStatus = "blocked"
	TicketDone       TicketStatus = "done"
	TicketCancelled  TicketStatus = "cancelled"
)

// ticketTransitions maps each status to the statuses it may move to
var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketOpen:       {TicketInProgress, TicketCancelled},
	TicketInProgress: {TicketBlocked, TicketDone, TicketCancelled},
	TicketBlocked:    {TicketInProgress, TicketCancelled},
	TicketDone:       {},
	TicketCancelled:  {},
}

// Ticket tracks one provisioning task for a pre-hire, typically created
// by the provisioner from a bundle item.
type Ticket struct {
	id            valueobjects.TicketID
	prehireID     valueobjects.PreHireID
	summary       string
	sku           string
	assigneeGroup string
	status        TicketStatus
	blockedReason string
	createdAt     time.Time
	updatedAt     time.Time
	version       int

	events []events.DomainEvent
}

// NewTicket creates a new provisioning ticket
func NewTicket(prehireID valueobjects.PreHireID, summary, sku, assigneeGroup string) (*Ticket, error) {
	if prehireID.IsZero() {
		return nil, pkgerrors.NewValidationError("prehireID is required")
	}

	if summary == "" {
		return nil, pkgerrors.NewValidationError("summary cannot be empty")
	}

	if assigneeGroup == "" {
		return nil, pkgerrors.NewValidationError("assigneeGroup is required")
	}

	now := time.Now()
	ticket := &Ticket{
		id:            valueobjects.NewTicketID(),
		prehireID:     prehireID,
		summary:       summary,
		sku:           sku,
		assigneeGroup: assigneeGroup,
		status:        TicketOpen,
		createdAt:     now,
		updatedAt:     now,
		version:       1,
		events:        []events.DomainEvent{},
	}

	ticket.addEvent(events.NewTicketOpened(ticket.id, prehireID, summary, assigneeGroup, now))

	return ticket, nil
}

// ReconstructTicket reconstructs a ticket from repository data
func ReconstructTicket(
	id valueobjects.TicketID,
	prehireID valueobjects.PreHireID,
	summary, sku, assigneeGroup string,
	status TicketStatus,
	blockedReason string,
	createdAt, updatedAt time.Time,
	version int,
) (*Ticket, error) {
	if summary == "" {
		return nil, pkgerrors.NewValidationError("summary cannot be empty")
	}

	return &Ticket{
		id:            id,
		prehireID:     prehireID,
		summary:       summary,
		sku:           sku,
		assigneeGroup: assigneeGroup,
		status:        status,
		blockedReason: blockedReason,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		events:        []events.DomainEvent{},
	}, nil
}

// ID returns the ticket's unique identifier
func (t *Ticket) ID() valueobjects.TicketID {
	return t.id
}

// PreHireID returns the pre-hire this ticket belongs to
func (t *Ticket) PreHireID() valueobjects.PreHireID {
	return t.prehireID
}

// Summary returns the one-line task description
func (t *Ticket) Summary() string {
	return t.summary
}

// SKU returns the catalog SKU this ticket provisions, empty for ad-hoc tickets
func (t *Ticket) SKU() string {
	return t.sku
}

// AssigneeGroup returns the IT group responsible for the ticket
func (t *Ticket) AssigneeGroup() string {
	return t.assigneeGroup
}

// Status returns the ticket's current status
func (t *Ticket) Status() TicketStatus {
	return t.status
}

// BlockedReason returns why the ticket is blocked, empty unless blocked
func (t *Ticket) BlockedReason() string {
	return t.blockedReason
}

// CreatedAt returns when the ticket was opened
func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt returns the last modification time
func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

// Version returns the ticket's version for optimistic locking
func (t *Ticket) Version() int {
	return t.version
}

// IsTerminal reports whether the ticket has reached a final status
func (t *Ticket) IsTerminal() bool {
	return t.status == TicketDone || t.status == TicketCancelled
}

// Transition moves the ticket to the given status, enforcing the workflow
func (t *Ticket) Transition(status TicketStatus) error {
	if status == t.status {
		return nil // Already there
	}

	allowed := false
	for _, next := range ticketTransitions[t.status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return pkgerrors.NewValidationError(fmt.Sprintf("cannot move ticket from %s to %s", t.status, status))
	}

	oldStatus := t.status
	t.status = status
	if status != TicketBlocked {
		t.blockedReason = ""
	}
	t.updatedAt = time.Now()
	t.version++

	t.addEvent(events.NewTicketStatusChanged(t.id, string(oldStatus), string(status), t.updatedAt))

	return nil
}

// Block moves the ticket to blocked with a reason
func (t *Ticket) Block(reason string) error {
	if reason == "" {
		return pkgerrors.NewValidationError("blocked reason is required")
	}

	if err := t.Transition(TicketBlocked); err != nil {
		return err
	}

	t.blockedReason = reason
	return nil
}

// Reassign hands the ticket to a different IT group
func (t *Ticket) Reassign(assigneeGroup string) error {
	if assigneeGroup == "" {
		return pkgerrors.NewValidationError("assigneeGroup is required")
	}

	if t.IsTerminal() {
		return pkgerrors.NewValidationError("cannot reassign a closed ticket")
	}

	if t.assigneeGroup == assigneeGroup {
		return nil
	}

	t.assigneeGroup = assigneeGroup
	t.updatedAt = time.Now()
	t.version++

	return nil
}

// GetUncommittedEvents returns events raised since the last commit
func (t *Ticket) GetUncommittedEvents() []events.DomainEvent {
	return t.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (t *Ticket) MarkEventsAsCommitted() {
	t.events = []events.DomainEvent{}
}

func (t *Ticket) addEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}
