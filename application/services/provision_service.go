package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/aggregates"
	"onboardhq-backend/domain/core/entities"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// ProvisionService expands an assigned bundle into provisioning tickets
// and tracks their completion against the pre-hire's readiness.
type ProvisionService struct {
	prehireRepo ports.PreHireRepository
	bundleRepo  ports.BundleRepository
	ticketRepo  ports.TicketRepository
	logger      *zap.Logger
}

// NewProvisionService creates a new provision service
func NewProvisionService(
	prehireRepo ports.PreHireRepository,
	bundleRepo ports.BundleRepository,
	ticketRepo ports.TicketRepository,
	logger *zap.Logger,
) *ProvisionService {
	return &ProvisionService{
		prehireRepo: prehireRepo,
		bundleRepo:  bundleRepo,
		ticketRepo:  ticketRepo,
		logger:      logger,
	}
}

// ExpandBundle opens one ticket per bundle item for the pre-hire and
// persists the new tickets. Items already covered by an existing
// non-terminal ticket with the same SKU are skipped so re-runs are safe.
func (s *ProvisionService) ExpandBundle(ctx context.Context, prehire *entities.PreHire, bundle *entities.Bundle) ([]*entities.Ticket, error) {
	opened, err := s.PlanBundle(ctx, prehire, bundle)
	if err != nil {
		return nil, err
	}

	if len(opened) > 0 {
		if err := s.ticketRepo.BulkSave(ctx, opened); err != nil {
			return nil, fmt.Errorf("failed to save tickets: %w", err)
		}
	}

	s.logger.Info("bundle expanded",
		zap.String("prehireId", prehire.ID().String()),
		zap.String("bundleId", bundle.ID().String()),
		zap.Int("opened", len(opened)),
		zap.Int("skipped", len(bundle.Items())-len(opened)))

	return opened, nil
}

// PlanBundle builds the tickets a bundle expansion would open without
// persisting anything, so callers running inside a transaction can
// register the writes themselves.
func (s *ProvisionService) PlanBundle(ctx context.Context, prehire *entities.PreHire, bundle *entities.Bundle) ([]*entities.Ticket, error) {
	if !bundle.IsActive() {
		return nil, pkgerrors.NewValidationError("bundle is retired")
	}

	existing, err := s.ticketRepo.GetByPreHireID(ctx, prehire.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load existing tickets: %w", err)
	}

	covered := make(map[string]bool)
	for _, ticket := range existing {
		if !ticket.IsTerminal() && ticket.SKU() != "" {
			covered[ticket.SKU()] = true
		}
	}

	onboarding, err := aggregates.NewOnboarding(prehire)
	if err != nil {
		return nil, err
	}
	for _, ticket := range existing {
		if err := onboarding.AttachTicket(ticket); err != nil {
			// Already tracked on the pre-hire; attach conflicts are fine
			if !pkgerrors.IsConflict(err) {
				return nil, err
			}
		}
	}

	opened := []*entities.Ticket{}
	for _, item := range bundle.Items() {
		if covered[item.SKU] {
			continue
		}

		summary := fmt.Sprintf("Provision %s for %s", item.Name, prehire.Name())
		ticket, err := onboarding.OpenTicket(summary, item.SKU, item.AssigneeGroup)
		if err != nil {
			return nil, fmt.Errorf("failed to open ticket for %s: %w", item.SKU, err)
		}
		opened = append(opened, ticket)
	}

	return opened, nil
}

// RecordTicketProgress applies a ticket transition and advances the
// pre-hire to ready when the last ticket closes. Returns the remaining
// open ticket count and the total ticket count.
func (s *ProvisionService) RecordTicketProgress(ctx context.Context, ticket *entities.Ticket, status entities.TicketStatus) (int, int, error) {
	prehire, err := s.prehireRepo.GetByID(ctx, ticket.PreHireID())
	if err != nil {
		return 0, 0, err
	}

	tickets, err := s.ticketRepo.GetByPreHireID(ctx, ticket.PreHireID())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load tickets: %w", err)
	}

	onboarding, err := aggregates.NewOnboarding(prehire)
	if err != nil {
		return 0, 0, err
	}
	for _, t := range tickets {
		// Use the caller's instance for the ticket being transitioned
		if t.ID().Equals(ticket.ID()) {
			t = ticket
		}
		if err := onboarding.AttachTicket(t); err != nil && !pkgerrors.IsConflict(err) {
			return 0, 0, err
		}
	}

	if status == entities.TicketDone || status == entities.TicketCancelled {
		if err := onboarding.CloseTicket(ticket.ID(), status); err != nil {
			return 0, 0, err
		}
	} else {
		if err := ticket.Transition(status); err != nil {
			return 0, 0, err
		}
	}

	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return 0, 0, fmt.Errorf("failed to save ticket: %w", err)
	}
	if err := s.prehireRepo.Save(ctx, prehire); err != nil {
		return 0, 0, fmt.Errorf("failed to save pre-hire: %w", err)
	}

	return onboarding.OpenTicketCount(), len(onboarding.Tickets()), nil
}
