package handlers

import (
	"net/http"
	"strconv"

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

// PreHireHandler handles pre-hire pipeline HTTP requests
type PreHireHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	create     *commandhandlers.CreatePreHireHandler
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewPreHireHandler creates a new pre-hire handler
func NewPreHireHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	create *commandhandlers.CreatePreHireHandler,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *PreHireHandler {
	return &PreHireHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		create:     create,
		errs:       errs,
		logger:     logger,
	}
}

// Create handles POST /prehires
func (h *PreHireHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreatePreHireCommand
	if !decodeJSON(w, r, &cmd) || !validateCommand(w, &cmd) {
		return
	}

	prehire, err := h.create.Handle(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created(prehire.ID().String(), prehire.CreatedAt()))
}

// Get handles GET /prehires/{prehireID}
func (h *PreHireHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetPreHireQuery{
		PreHireID: chi.URLParam(r, "prehireID"),
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// List handles GET /prehires
func (h *PreHireHandler) List(w http.ResponseWriter, r *http.Request) {
	page := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.ListPreHiresQuery{
		Department: r.URL.Query().Get("department"),
		Stage:      r.URL.Query().Get("stage"),
		Page:       page.Page,
		PageSize:   page.PageSize,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Status handles GET /prehires/{prehireID}/status
func (h *PreHireHandler) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetOnboardingStatusQuery{
		PreHireID: chi.URLParam(r, "prehireID"),
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Tickets handles GET /prehires/{prehireID}/tickets
func (h *PreHireHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListTicketsQuery{
		PreHireID: chi.URLParam(r, "prehireID"),
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Advance handles POST /prehires/{prehireID}/advance
func (h *PreHireHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AdvanceStageCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.PreHireID = chi.URLParam(r, "prehireID")
	if !validateCommand(w, &cmd) {
		return
	}
	h.send(w, r, cmd)
}

// AssignBundle handles POST /prehires/{prehireID}/bundle
func (h *PreHireHandler) AssignBundle(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AssignBundleCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.PreHireID = chi.URLParam(r, "prehireID")
	if !validateCommand(w, &cmd) {
		return
	}
	h.send(w, r, cmd)
}

// AssignManager handles PUT /prehires/{prehireID}/manager
func (h *PreHireHandler) AssignManager(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AssignManagerCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.PreHireID = chi.URLParam(r, "prehireID")
	if !validateCommand(w, &cmd) {
		return
	}
	h.send(w, r, cmd)
}

// Reschedule handles PUT /prehires/{prehireID}/start-date
func (h *PreHireHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ReschedulePreHireCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.PreHireID = chi.URLParam(r, "prehireID")
	if !validateCommand(w, &cmd) {
		return
	}
	h.send(w, r, cmd)
}

// Withdraw handles POST /prehires/{prehireID}/withdraw
func (h *PreHireHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var cmd commands.WithdrawPreHireCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.PreHireID = chi.URLParam(r, "prehireID")
	if !validateCommand(w, &cmd) {
		return
	}
	h.send(w, r, cmd)
}

// Delete handles DELETE /prehires/{prehireID}
func (h *PreHireHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeletePreHireCommand{
		PreHireID: chi.URLParam(r, "prehireID"),
	})
}

func (h *PreHireHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an optional numeric query parameter, treating absent
// or malformed values as zero.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
