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

// NoteHandler handles meeting note HTTP requests
type NoteHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	notes      *commandhandlers.NoteHandler
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	notes *commandhandlers.NoteHandler,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *NoteHandler {
	return &NoteHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		notes:      notes,
		errs:       errs,
		logger:     logger,
	}
}

// Create handles POST /notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd commands.IngestNoteCommand
	if !decodeJSON(w, r, &cmd) || !validateCommand(w, &cmd) {
		return
	}

	note, err := h.notes.HandleIngest(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created(note.ID().String(), note.CreatedAt()))
}

// Get handles GET /notes/{noteID}
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetNoteQuery{
		NoteID: chi.URLParam(r, "noteID"),
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// List handles GET /notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.ListNotesQuery{
		EventID:  r.URL.Query().Get("event_id"),
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Render handles GET /notes/{noteID}/render. Highlighting is on unless
// the enabled query parameter is explicitly false.
func (h *NoteHandler) Render(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.RenderNoteQuery{
		NoteID:    chi.URLParam(r, "noteID"),
		Highlight: r.URL.Query().Get("enabled") != "false",
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// Update handles PUT /notes/{noteID}
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateNoteCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.NoteID = chi.URLParam(r, "noteID")
	if !validateCommand(w, &cmd) {
		return
	}

	note, err := h.notes.HandleUpdate(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": note.ID().String()})
}

// DecideRecap handles POST /notes/{noteID}/recap
func (h *NoteHandler) DecideRecap(w http.ResponseWriter, r *http.Request) {
	var cmd commands.DecideRecapCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.NoteID = chi.URLParam(r, "noteID")
	if !validateCommand(w, &cmd) {
		return
	}

	note, err := h.notes.HandleDecideRecap(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":          note.ID().String(),
		"recapStatus": string(note.RecapStatus()),
	})
}

// Delete handles DELETE /notes/{noteID}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteNoteCommand{
		NoteID: chi.URLParam(r, "noteID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
