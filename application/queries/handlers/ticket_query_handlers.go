package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/application/queries"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
)

// TicketQueryHandler serves ticket reads
type TicketQueryHandler struct {
	ticketRepo ports.TicketRepository
	logger     *zap.Logger
}

// NewTicketQueryHandler creates a new handler instance
func NewTicketQueryHandler(ticketRepo ports.TicketRepository, logger *zap.Logger) *TicketQueryHandler {
	return &TicketQueryHandler{ticketRepo: ticketRepo, logger: logger}
}

// HandleGet serves a single ticket
func (h *TicketQueryHandler) HandleGet(ctx context.Context, query queries.GetTicketQuery) (*queries.TicketResult, error) {
	id, err := valueobjects.NewTicketIDFromString(query.TicketID)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket ID: %w", err)
	}

	ticket, err := h.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toTicketResult(ticket)
	return &result, nil
}

// HandleList serves tickets for a pre-hire or by status
func (h *TicketQueryHandler) HandleList(ctx context.Context, query queries.ListTicketsQuery) (*queries.ListTicketsResult, error) {
	var tickets []*entities.Ticket
	var err error

	if query.PreHireID != "" {
		prehireID, idErr := valueobjects.NewPreHireIDFromString(query.PreHireID)
		if idErr != nil {
			return nil, fmt.Errorf("invalid pre-hire ID: %w", idErr)
		}
		tickets, err = h.ticketRepo.GetByPreHireID(ctx, prehireID)
	} else {
		limit := query.Limit
		if limit < 1 {
			limit = 100
		}
		tickets, err = h.ticketRepo.ListByStatus(ctx, entities.TicketStatus(query.Status), limit)
	}
	if err != nil {
		return nil, err
	}

	results := make([]queries.TicketResult, 0, len(tickets))
	for _, t := range tickets {
		results = append(results, toTicketResult(t))
	}

	return &queries.ListTicketsResult{Tickets: results, Total: len(results)}, nil
}

func toTicketResult(t *entities.Ticket) queries.TicketResult {
	return queries.TicketResult{
		ID:            t.ID().String(),
		PreHireID:     t.PreHireID().String(),
		Summary:       t.Summary(),
		SKU:           t.SKU(),
		AssigneeGroup: t.AssigneeGroup(),
		Status:        string(t.Status()),
		BlockedReason: t.BlockedReason(),
		Version:       t.Version(),
		CreatedAt:     t.CreatedAt().Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt().Format(time.RFC3339),
	}
}
