package aggregates

import (
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// Onboarding is the aggregate that keeps a pre-hire consistent with its
// provisioning tickets. The readiness rule lives here: a pre-hire only
// reaches the ready stage once every ticket is closed.
type Onboarding struct {
	prehire *entities.PreHire
	tickets map[valueobjects.TicketID]*entities.Ticket
}

// NewOnboarding builds the aggregate around an existing pre-hire
func NewOnboarding(prehire *entities.PreHire) (*Onboarding, error) {
	if prehire == nil {
		return nil, pkgerrors.NewValidationError("prehire is required")
	}

	return &Onboarding{
		prehire: prehire,
		tickets: make(map[valueobjects.TicketID]*entities.Ticket),
	}, nil
}

// PreHire returns the root entity
func (o *Onboarding) PreHire() *entities.PreHire {
	return o.prehire
}

// Tickets returns the loaded tickets
func (o *Onboarding) Tickets() []*entities.Ticket {
	tickets := make([]*entities.Ticket, 0, len(o.tickets))
	for _, t := range o.tickets {
		tickets = append(tickets, t)
	}
	return tickets
}

// AttachTicket loads an existing ticket into the aggregate
func (o *Onboarding) AttachTicket(ticket *entities.Ticket) error {
	if ticket == nil {
		return pkgerrors.NewValidationError("ticket is required")
	}

	if !ticket.PreHireID().Equals(o.prehire.ID()) {
		return pkgerrors.NewValidationError("ticket belongs to a different pre-hire")
	}

	if _, exists := o.tickets[ticket.ID()]; exists {
		return pkgerrors.NewConflictError("ticket already attached")
	}

	o.tickets[ticket.ID()] = ticket
	return o.prehire.TrackTicket(ticket.ID())
}

// OpenTicket creates a new ticket for the pre-hire inside the aggregate
func (o *Onboarding) OpenTicket(summary, sku, assigneeGroup string) (*entities.Ticket, error) {
	if o.prehire.IsClosed() {
		return nil, pkgerrors.NewValidationError("cannot open tickets for a closed pre-hire")
	}

	ticket, err := entities.NewTicket(o.prehire.ID(), summary, sku, assigneeGroup)
	if err != nil {
		return nil, err
	}

	o.tickets[ticket.ID()] = ticket
	if err := o.prehire.TrackTicket(ticket.ID()); err != nil {
		return nil, err
	}

	return ticket, nil
}

// CloseTicket transitions a ticket and advances the pre-hire to ready
// when it was the last open one.
func (o *Onboarding) CloseTicket(ticketID valueobjects.TicketID, status entities.TicketStatus) error {
	if status != entities.TicketDone && status != entities.TicketCancelled {
		return pkgerrors.NewValidationError("close requires a terminal status")
	}

	ticket, exists := o.tickets[ticketID]
	if !exists {
		return pkgerrors.NewNotFoundError("ticket")
	}

	if err := ticket.Transition(status); err != nil {
		return err
	}

	if o.AllTicketsClosed() && o.prehire.Stage() == entities.StageProvisioning {
		return o.prehire.AdvanceTo(entities.StageReady)
	}

	return nil
}

// AllTicketsClosed reports whether every loaded ticket is terminal
func (o *Onboarding) AllTicketsClosed() bool {
	for _, ticket := range o.tickets {
		if !ticket.IsTerminal() {
			return false
		}
	}
	return true
}

// OpenTicketCount returns the number of non-terminal tickets
func (o *Onboarding) OpenTicketCount() int {
	count := 0
	for _, ticket := range o.tickets {
		if !ticket.IsTerminal() {
			count++
		}
	}
	return count
}

// GetUncommittedEvents collects events from the root and all tickets
func (o *Onboarding) GetUncommittedEvents() []events.DomainEvent {
	collected := append([]events.DomainEvent{}, o.prehire.GetUncommittedEvents()...)
	for _, ticket := range o.tickets {
		collected = append(collected, ticket.GetUncommittedEvents()...)
	}
	return collected
}

// MarkEventsAsCommitted clears uncommitted events across the aggregate
func (o *Onboarding) MarkEventsAsCommitted() {
	o.prehire.MarkEventsAsCommitted()
	for _, ticket := range o.tickets {
		ticket.MarkEventsAsCommitted()
	}
}
