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

// EventHandler handles onboarding event scheduling HTTP requests
type EventHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	schedule   *commandhandlers.ScheduleEventHandler
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	schedule *commandhandlers.ScheduleEventHandler,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *EventHandler {
	return &EventHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		schedule:   schedule,
		errs:       errs,
		logger:     logger,
	}
}

// Create handles POST /events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ScheduleEventCommand
	if !decodeJSON(w, r, &cmd) || !validateCommand(w, &cmd) {
		return
	}

	event, err := h.schedule.Handle(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created(event.ID().String(), event.CreatedAt()))
}

// Get handles GET /events/{eventID}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetEventQuery{
		EventID: chi.URLParam(r, "eventID"),
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// List handles GET /events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	page := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.ListEventsQuery{
		VenueID:  r.URL.Query().Get("venue_id"),
		Status:   r.URL.Query().Get("status"),
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Reschedule handles PUT /events/{eventID}/schedule
func (h *EventHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RescheduleEventCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EventID = chi.URLParam(r, "eventID")
	if !validateCommand(w, &cmd) {
		return
	}

	event, err := h.schedule.HandleReschedule(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": event.ID().String()})
}

// Cancel handles POST /events/{eventID}/cancel
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CancelEventCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EventID = chi.URLParam(r, "eventID")
	if !validateCommand(w, &cmd) {
		return
	}
	h.send(w, r, cmd)
}

// RegisterAttendee handles POST /events/{eventID}/attendees
func (h *EventHandler) RegisterAttendee(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RegisterAttendeeCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EventID = chi.URLParam(r, "eventID")
	if !validateCommand(w, &cmd) {
		return
	}
	h.send(w, r, cmd)
}

// UnregisterAttendee handles DELETE /events/{eventID}/attendees/{prehireID}
func (h *EventHandler) UnregisterAttendee(w http.ResponseWriter, r *http.Request) {
	cmd := commands.UnregisterAttendeeCommand{
		EventID:   chi.URLParam(r, "eventID"),
		PreHireID: chi.URLParam(r, "prehireID"),
	}
	if !validateCommand(w, &cmd) {
		return
	}
	h.send(w, r, cmd)
}

// Notes handles GET /events/{eventID}/notes
func (h *EventHandler) Notes(w http.ResponseWriter, r *http.Request) {
	page := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.ListNotesQuery{
		EventID:  chi.URLParam(r, "eventID"),
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

func (h *EventHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
