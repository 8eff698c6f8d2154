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

// BundleHandler handles equipment/software bundle HTTP requests
type BundleHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	bundles    *commandhandlers.BundleHandler
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	bundles *commandhandlers.BundleHandler,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *BundleHandler {
	return &BundleHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		bundles:    bundles,
		errs:       errs,
		logger:     logger,
	}
}

// Create handles POST /bundles
func (h *BundleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateBundleCommand
	if !decodeJSON(w, r, &cmd) || !validateCommand(w, &cmd) {
		return
	}

	bundle, err := h.bundles.HandleCreate(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created(bundle.ID().String(), bundle.CreatedAt()))
}

// Get handles GET /bundles/{bundleID}
func (h *BundleHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetBundleQuery{
		BundleID: chi.URLParam(r, "bundleID"),
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// List handles GET /bundles
func (h *BundleHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListBundlesQuery{
		Department: r.URL.Query().Get("department"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// AddItem handles POST /bundles/{bundleID}/items
func (h *BundleHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddBundleItemCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.BundleID = chi.URLParam(r, "bundleID")
	if !validateCommand(w, &cmd) {
		return
	}

	bundle, err := h.bundles.HandleAddItem(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":    bundle.ID().String(),
		"items": len(bundle.Items()),
	})
}

// RemoveItem handles DELETE /bundles/{bundleID}/items/{sku}
func (h *BundleHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cmd := commands.RemoveBundleItemCommand{
		BundleID: chi.URLParam(r, "bundleID"),
		SKU:      chi.URLParam(r, "sku"),
	}
	if !validateCommand(w, &cmd) {
		return
	}

	if _, err := h.bundles.HandleRemoveItem(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Retire handles POST /bundles/{bundleID}/retire
func (h *BundleHandler) Retire(w http.ResponseWriter, r *http.Request) {
	cmd := commands.RetireBundleCommand{
		BundleID: chi.URLParam(r, "bundleID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportCatalog handles POST /bundles/import-catalog. It creates any
// catalog bundle not yet present, leaving existing bundles untouched.
func (h *BundleHandler) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	imported, err := h.bundles.HandleImportCatalog(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	ids := make([]string, 0, len(imported))
	for _, bundle := range imported {
		ids = append(ids, bundle.ID().String())
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"imported": len(imported),
		"ids":      ids,
	})
}
