package entities

import (
	"fmt"
	"strings"
	"time"

	"onboardhq-backend/domain/config"
	"onboardhq-backend/domain/core/valueobjects"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// ItemKind distinguishes physical equipment from software grants
type ItemKind string

const (
	ItemKindEquipment ItemKind = "equipment"
	ItemKindSoftware  ItemKind = "software"
)

// BundleItem is a single piece of equipment or a software grant inside a bundle
type BundleItem struct {
	SKU           string
	Name          string
	Kind          ItemKind
	AssigneeGroup string
	Quantity      int
}

// Bundle groups the equipment and software a department hands to new hires.
// Bundles are mostly static reference data loaded from the catalog, but
// admins can also create and edit them through the API.
type Bundle struct {
	id          valueobjects.BundleID
	name        string
	department  string
	description string
	items       []BundleItem
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
	version     int
}

// NewBundle creates a new bundle with business rule validation
func NewBundle(name, department, description string, items []BundleItem) (*Bundle, error) {
	return NewBundleWithConfig(name, department, description, items, config.DefaultDomainConfig())
}

// NewBundleWithConfig creates a new bundle with explicit configuration
func NewBundleWithConfig(name, department, description string, items []BundleItem, cfg *config.DomainConfig) (*Bundle, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}
	if len(name) > cfg.MaxBundleNameLength {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("name exceeds %d characters", cfg.MaxBundleNameLength))
	}

	if len(items) > cfg.MaxItemsPerBundle {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("bundle exceeds %d items", cfg.MaxItemsPerBundle))
	}

	for _, item := range items {
		if err := validateItem(item); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	return &Bundle{
		id:          valueobjects.NewBundleID(),
		name:        name,
		department:  department,
		description: description,
		items:       append([]BundleItem{}, items...),
		active:      true,
		createdAt:   now,
		updatedAt:   now,
		version:     1,
	}, nil
}

// ReconstructBundle reconstructs a bundle from repository data
func ReconstructBundle(
	id valueobjects.BundleID,
	name, department, description string,
	items []BundleItem,
	active bool,
	createdAt, updatedAt time.Time,
	version int,
) (*Bundle, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}

	if items == nil {
		items = []BundleItem{}
	}

	return &Bundle{
		id:          id,
		name:        name,
		department:  department,
		description: description,
		items:       items,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
	}, nil
}

func validateItem(item BundleItem) error {
	if item.SKU == "" {
		return pkgerrors.NewValidationError("item SKU cannot be empty")
	}
	if item.Kind != ItemKindEquipment && item.Kind != ItemKindSoftware {
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown item kind: %s", item.Kind))
	}
	if item.Quantity < 1 {
		return pkgerrors.NewValidationError("item quantity must be at least 1")
	}
	return nil
}

// ID returns the bundle's unique identifier
func (b *Bundle) ID() valueobjects.BundleID {
	return b.id
}

// Name returns the bundle name
func (b *Bundle) Name() string {
	return b.name
}

// Department returns the department this bundle targets
func (b *Bundle) Department() string {
	return b.department
}

// Description returns the free-text description
func (b *Bundle) Description() string {
	return b.description
}

// Items returns a copy of the bundle's items
func (b *Bundle) Items() []BundleItem {
	items := make([]BundleItem, len(b.items))
	copy(items, b.items)
	return items
}

// IsActive reports whether the bundle can still be assigned
func (b *Bundle) IsActive() bool {
	return b.active
}

// CreatedAt returns when the bundle was created
func (b *Bundle) CreatedAt() time.Time {
	return b.createdAt
}

// UpdatedAt returns the last modification time
func (b *Bundle) UpdatedAt() time.Time {
	return b.updatedAt
}

// Version returns the bundle's version for optimistic locking
func (b *Bundle) Version() int {
	return b.version
}

// AddItem appends an item to the bundle
func (b *Bundle) AddItem(item BundleItem) error {
	return b.AddItemWithConfig(item, config.DefaultDomainConfig())
}

// AddItemWithConfig appends an item with explicit configuration
func (b *Bundle) AddItemWithConfig(item BundleItem, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if !b.active {
		return pkgerrors.NewValidationError("cannot modify a retired bundle")
	}

	if err := validateItem(item); err != nil {
		return err
	}

	for _, existing := range b.items {
		if existing.SKU == item.SKU {
			return pkgerrors.NewConflictError("item already in bundle")
		}
	}

	if len(b.items) >= cfg.MaxItemsPerBundle {
		return fmt.Errorf("maximum items reached: %d", cfg.MaxItemsPerBundle)
	}

	b.items = append(b.items, item)
	b.updatedAt = time.Now()
	b.version++

	return nil
}

// RemoveItem removes the item with the given SKU
func (b *Bundle) RemoveItem(sku string) error {
	if !b.active {
		return pkgerrors.NewValidationError("cannot modify a retired bundle")
	}

	found := false
	newItems := []BundleItem{}
	for _, item := range b.items {
		if item.SKU != sku {
			newItems = append(newItems, item)
		} else {
			found = true
		}
	}

	if !found {
		return pkgerrors.NewNotFoundError("item")
	}

	b.items = newItems
	b.updatedAt = time.Now()
	b.version++

	return nil
}

// Retire marks the bundle as no longer assignable
func (b *Bundle) Retire() {
	if !b.active {
		return // Already retired
	}

	b.active = false
	b.updatedAt = time.Now()
	b.version++
}
