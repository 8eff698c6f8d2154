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

// VenueHandler handles venue HTTP requests
type VenueHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	venues     *commandhandlers.VenueHandler
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewVenueHandler creates a new venue handler
func NewVenueHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	venues *commandhandlers.VenueHandler,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *VenueHandler {
	return &VenueHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		venues:     venues,
		errs:       errs,
		logger:     logger,
	}
}

// Create handles POST /venues
func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateVenueCommand
	if !decodeJSON(w, r, &cmd) || !validateCommand(w, &cmd) {
		return
	}

	venue, err := h.venues.HandleCreate(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created(venue.ID().String(), venue.CreatedAt()))
}

// Get handles GET /venues/{venueID}
func (h *VenueHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetVenueQuery{
		VenueID: chi.URLParam(r, "venueID"),
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// List handles GET /venues
func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListVenuesQuery{
		ActiveOnly: r.URL.Query().Get("active") == "true",
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Update handles PUT /venues/{venueID}
func (h *VenueHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateVenueCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.VenueID = chi.URLParam(r, "venueID")
	if !validateCommand(w, &cmd) {
		return
	}

	venue, err := h.venues.HandleUpdate(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": venue.ID().String()})
}

// Deactivate handles POST /venues/{venueID}/deactivate
func (h *VenueHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeactivateVenueCommand{
		VenueID: chi.URLParam(r, "venueID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
