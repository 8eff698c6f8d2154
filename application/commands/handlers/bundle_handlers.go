package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
)

// BundleHandler handles all bundle lifecycle commands. Bundles have no
// domain events so a single handler keeps the wiring small.
type BundleHandler struct {
	bundleRepo ports.BundleRepository
	catalog    ports.BundleCatalog
	cache      ports.Cache
	logger     *zap.Logger
}

// NewBundleHandler creates a new handler instance. The cache holds list
// query results and is dropped after every mutation so readers never see
// a stale catalog; pass nil when no query cache is in play.
func NewBundleHandler(bundleRepo ports.BundleRepository, catalog ports.BundleCatalog, cache ports.Cache, logger *zap.Logger) *BundleHandler {
	return &BundleHandler{bundleRepo: bundleRepo, catalog: catalog, cache: cache, logger: logger}
}

func (h *BundleHandler) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Clear(ctx); err != nil {
		h.logger.Warn("failed to clear query cache", zap.Error(err))
	}
}

// HandleCreate executes the create bundle command
func (h *BundleHandler) HandleCreate(ctx context.Context, cmd commands.CreateBundleCommand) (*entities.Bundle, error) {
	items := make([]entities.BundleItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		items = append(items, toBundleItem(in))
	}

	bundle, err := entities.NewBundle(cmd.Name, cmd.Department, cmd.Description, items)
	if err != nil {
		return nil, err
	}

	if err := h.bundleRepo.Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("failed to save bundle: %w", err)
	}

	h.invalidate(ctx)
	h.logger.Info("bundle created",
		zap.String("bundleId", bundle.ID().String()),
		zap.Int("items", len(items)))

	return bundle, nil
}

// HandleAddItem executes the add item command
func (h *BundleHandler) HandleAddItem(ctx context.Context, cmd commands.AddBundleItemCommand) (*entities.Bundle, error) {
	bundle, err := h.load(ctx, cmd.BundleID)
	if err != nil {
		return nil, err
	}

	if err := bundle.AddItem(toBundleItem(cmd.Item)); err != nil {
		return nil, err
	}

	if err := h.bundleRepo.Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("failed to save bundle: %w", err)
	}

	h.invalidate(ctx)
	return bundle, nil
}

// HandleRemoveItem executes the remove item command
func (h *BundleHandler) HandleRemoveItem(ctx context.Context, cmd commands.RemoveBundleItemCommand) (*entities.Bundle, error) {
	bundle, err := h.load(ctx, cmd.BundleID)
	if err != nil {
		return nil, err
	}

	if err := bundle.RemoveItem(cmd.SKU); err != nil {
		return nil, err
	}

	if err := h.bundleRepo.Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("failed to save bundle: %w", err)
	}

	h.invalidate(ctx)
	return bundle, nil
}

// HandleRetire executes the retire bundle command
func (h *BundleHandler) HandleRetire(ctx context.Context, cmd commands.RetireBundleCommand) error {
	bundle, err := h.load(ctx, cmd.BundleID)
	if err != nil {
		return err
	}

	bundle.Retire()

	if err := h.bundleRepo.Save(ctx, bundle); err != nil {
		return fmt.Errorf("failed to save bundle: %w", err)
	}

	h.invalidate(ctx)
	h.logger.Info("bundle retired", zap.String("bundleId", cmd.BundleID))
	return nil
}

// HandleImportCatalog loads the static bundle catalog and creates every
// bundle that does not already exist. Matching is by department and name,
// so re-imports are idempotent and never touch edited bundles.
func (h *BundleHandler) HandleImportCatalog(ctx context.Context) ([]*entities.Bundle, error) {
	defined, err := h.catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	existing, err := h.bundleRepo.List(ctx, "", false)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, b := range existing {
		known[b.Department()+"/"+b.Name()] = true
	}

	imported := []*entities.Bundle{}
	for _, bundle := range defined {
		if known[bundle.Department()+"/"+bundle.Name()] {
			continue
		}
		if err := h.bundleRepo.Save(ctx, bundle); err != nil {
			return nil, fmt.Errorf("failed to save bundle %q: %w", bundle.Name(), err)
		}
		imported = append(imported, bundle)
	}

	if len(imported) > 0 {
		h.invalidate(ctx)
	}

	h.logger.Info("bundle catalog imported",
		zap.Int("defined", len(defined)),
		zap.Int("imported", len(imported)))

	return imported, nil
}

func (h *BundleHandler) load(ctx context.Context, rawID string) (*entities.Bundle, error) {
	id, err := valueobjects.NewBundleIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid bundle ID: %w", err)
	}
	return h.bundleRepo.GetByID(ctx, id)
}

func toBundleItem(in commands.BundleItemInput) entities.BundleItem {
	return entities.BundleItem{
		SKU:           in.SKU,
		Name:          in.Name,
		Kind:          entities.ItemKind(in.Kind),
		AssigneeGroup: in.AssigneeGroup,
		Quantity:      in.Quantity,
	}
}
