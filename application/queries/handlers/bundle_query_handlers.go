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

// BundleQueryHandler serves bundle reads
type BundleQueryHandler struct {
	bundleRepo ports.BundleRepository
	logger     *zap.Logger
}

// NewBundleQueryHandler creates a new handler instance
func NewBundleQueryHandler(bundleRepo ports.BundleRepository, logger *zap.Logger) *BundleQueryHandler {
	return &BundleQueryHandler{bundleRepo: bundleRepo, logger: logger}
}

// HandleGet serves a single bundle
func (h *BundleQueryHandler) HandleGet(ctx context.Context, query queries.GetBundleQuery) (*queries.BundleResult, error) {
	id, err := valueobjects.NewBundleIDFromString(query.BundleID)
	if err != nil {
		return nil, fmt.Errorf("invalid bundle ID: %w", err)
	}

	bundle, err := h.bundleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toBundleResult(bundle)
	return &result, nil
}

// HandleList serves a bundle listing
func (h *BundleQueryHandler) HandleList(ctx context.Context, query queries.ListBundlesQuery) (*queries.ListBundlesResult, error) {
	bundles, err := h.bundleRepo.List(ctx, query.Department, query.ActiveOnly)
	if err != nil {
		return nil, err
	}

	results := make([]queries.BundleResult, 0, len(bundles))
	for _, b := range bundles {
		results = append(results, toBundleResult(b))
	}

	return &queries.ListBundlesResult{Bundles: results, Total: len(results)}, nil
}

func toBundleResult(b *entities.Bundle) queries.BundleResult {
	items := make([]queries.BundleItemResult, 0, len(b.Items()))
	for _, item := range b.Items() {
		items = append(items, queries.BundleItemResult{
			SKU:           item.SKU,
			Name:          item.Name,
			Kind:          string(item.Kind),
			AssigneeGroup: item.AssigneeGroup,
			Quantity:      item.Quantity,
		})
	}

	return queries.BundleResult{
		ID:          b.ID().String(),
		Name:        b.Name(),
		Department:  b.Department(),
		Description: b.Description(),
		Items:       items,
		Active:      b.IsActive(),
		Version:     b.Version(),
		CreatedAt:   b.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt().Format(time.RFC3339),
	}
}
