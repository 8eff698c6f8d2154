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

// PreHireQueryHandler serves pre-hire reads
type PreHireQueryHandler struct {
	prehireRepo ports.PreHireRepository
	ticketRepo  ports.TicketRepository
	logger      *zap.Logger
}

// NewPreHireQueryHandler creates a new handler instance
func NewPreHireQueryHandler(
	prehireRepo ports.PreHireRepository,
	ticketRepo ports.TicketRepository,
	logger *zap.Logger,
) *PreHireQueryHandler {
	return &PreHireQueryHandler{
		prehireRepo: prehireRepo,
		ticketRepo:  ticketRepo,
		logger:      logger,
	}
}

// HandleGet serves a single pre-hire
func (h *PreHireQueryHandler) HandleGet(ctx context.Context, query queries.GetPreHireQuery) (*queries.PreHireResult, error) {
	id, err := valueobjects.NewPreHireIDFromString(query.PreHireID)
	if err != nil {
		return nil, fmt.Errorf("invalid pre-hire ID: %w", err)
	}

	prehire, err := h.prehireRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toPreHireResult(prehire)
	return &result, nil
}

// HandleList serves a filtered, paginated pre-hire listing
func (h *PreHireQueryHandler) HandleList(ctx context.Context, query queries.ListPreHiresQuery) (*queries.ListPreHiresResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	prehires, err := h.prehireRepo.List(ctx, ports.ListCriteria{
		Department: query.Department,
		Stage:      query.Stage,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}

	results := make([]queries.PreHireResult, 0, len(prehires))
	for _, p := range prehires {
		results = append(results, toPreHireResult(p))
	}

	return &queries.ListPreHiresResult{
		PreHires: results,
		Total:    len(results),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// HandleStatus serves a pre-hire's provisioning progress
func (h *PreHireQueryHandler) HandleStatus(ctx context.Context, query queries.GetOnboardingStatusQuery) (*queries.OnboardingStatusResult, error) {
	id, err := valueobjects.NewPreHireIDFromString(query.PreHireID)
	if err != nil {
		return nil, fmt.Errorf("invalid pre-hire ID: %w", err)
	}

	prehire, err := h.prehireRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tickets, err := h.ticketRepo.GetByPreHireID(ctx, id)
	if err != nil {
		return nil, err
	}

	open := 0
	ticketResults := make([]queries.TicketResult, 0, len(tickets))
	for _, t := range tickets {
		if !t.IsTerminal() {
			open++
		}
		ticketResults = append(ticketResults, toTicketResult(t))
	}

	return &queries.OnboardingStatusResult{
		PreHire:        toPreHireResult(prehire),
		Tickets:        ticketResults,
		OpenTickets:    open,
		TotalTickets:   len(tickets),
		ReadyForDayOne: prehire.Stage() == entities.StageReady || prehire.Stage() == entities.StageStarted,
	}, nil
}

func toPreHireResult(p *entities.PreHire) queries.PreHireResult {
	ticketIDs := make([]string, 0, len(p.TicketIDs()))
	for _, id := range p.TicketIDs() {
		ticketIDs = append(ticketIDs, id.String())
	}

	bundleID := ""
	if !p.BundleID().IsZero() {
		bundleID = p.BundleID().String()
	}

	return queries.PreHireResult{
		ID:         p.ID().String(),
		Name:       p.Name(),
		Email:      p.Email().String(),
		Department: p.Department(),
		Role:       p.Role(),
		Manager:    p.Manager(),
		StartDate:  p.StartDate().Format("2006-01-02"),
		Stage:      string(p.Stage()),
		BundleID:   bundleID,
		TicketIDs:  ticketIDs,
		Version:    p.Version(),
		CreatedAt:  p.CreatedAt().Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt().Format(time.RFC3339),
	}
}
