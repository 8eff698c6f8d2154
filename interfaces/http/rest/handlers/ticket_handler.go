package handlers

import (
	"net/http"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/application/commands/bus"
	commandhandlers "onboardhq-backend/application/commands/handlers"
	"onboardhq-backend/application/queries"
	querybus "onboardhq-backend/application/queries/bus"
	"onboardhq-backend/pkg/common"
	pkgerrors "onboardhq-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TicketHandler handles provisioning ticket HTTP requests
type TicketHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	open       *commandhandlers.OpenTicketHandler
	transition *commandhandlers.TransitionTicketHandler
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	open *commandhandlers.OpenTicketHandler,
	transition *commandhandlers.TransitionTicketHandler,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *TicketHandler {
	return &TicketHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		open:       open,
		transition: transition,
		errs:       errs,
		logger:     logger,
	}
}

// Create handles POST /tickets
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd commands.OpenTicketCommand
	if !decodeJSON(w, r, &cmd) || !validateCommand(w, &cmd) {
		return
	}

	ticket, err := h.open.Handle(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created(ticket.ID().String(), ticket.CreatedAt()))
}

// Get handles GET /tickets/{ticketID}
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetTicketQuery{
		TicketID: chi.URLParam(r, "ticketID"),
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// List handles GET /tickets, filtered by status
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListTicketsQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  queryInt(r, "limit"),
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Transition handles POST /tickets/{ticketID}/transition. The response
// carries the ticket's new status since blocked and done transitions
// change provisioning progress.
func (h *TicketHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var cmd commands.TransitionTicketCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.TicketID = chi.URLParam(r, "ticketID")
	if !validateCommand(w, &cmd) {
		return
	}

	ticket, err := h.transition.Handle(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":     ticket.ID().String(),
		"status": string(ticket.Status()),
	})
}

// Reassign handles POST /tickets/{ticketID}/reassign
func (h *TicketHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ReassignTicketCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.TicketID = chi.URLParam(r, "ticketID")
	if !validateCommand(w, &cmd) {
		return
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
