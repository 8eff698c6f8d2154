package commands

import "errors"

// BundleItemInput describes one item inside a bundle command
type BundleItemInput struct {
	SKU           string `json:"sku" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Kind          string `json:"kind" validate:"required,oneof=equipment software"`
	AssigneeGroup string `json:"assignee_group" validate:"required"`
	Quantity      int    `json:"quantity" validate:"gte=1"`
}

// CreateBundleCommand creates a new equipment/software bundle
type CreateBundleCommand struct {
	Name        string            `json:"name" validate:"required,min=1,max=100"`
	Department  string            `json:"department"`
	Description string            `json:"description"`
	Items       []BundleItemInput `json:"items" validate:"max=40,dive"`
}

// Validate validates the CreateBundleCommand
func (cmd CreateBundleCommand) Validate() error {
	if cmd.Name == "" {
		return errors.New("name is required")
	}
	for _, item := range cmd.Items {
		if err := validateItemInput(item); err != nil {
			return err
		}
	}
	return nil
}

// AddBundleItemCommand appends an item to an existing bundle
type AddBundleItemCommand struct {
	BundleID string          `json:"bundle_id" validate:"required,uuid"`
	Item     BundleItemInput `json:"item" validate:"required"`
}

// Validate validates the AddBundleItemCommand
func (cmd AddBundleItemCommand) Validate() error {
	if cmd.BundleID == "" {
		return errors.New("bundle ID is required")
	}
	return validateItemInput(cmd.Item)
}

// RemoveBundleItemCommand removes an item from a bundle by SKU
type RemoveBundleItemCommand struct {
	BundleID string `json:"bundle_id" validate:"required,uuid"`
	SKU      string `json:"sku" validate:"required"`
}

// Validate validates the RemoveBundleItemCommand
func (cmd RemoveBundleItemCommand) Validate() error {
	if cmd.BundleID == "" {
		return errors.New("bundle ID is required")
	}
	if cmd.SKU == "" {
		return errors.New("sku is required")
	}
	return nil
}

// RetireBundleCommand marks a bundle as no longer assignable
type RetireBundleCommand struct {
	BundleID string `json:"bundle_id" validate:"required,uuid"`
}

// Validate validates the RetireBundleCommand
func (cmd RetireBundleCommand) Validate() error {
	if cmd.BundleID == "" {
		return errors.New("bundle ID is required")
	}
	return nil
}

func validateItemInput(item BundleItemInput) error {
	if item.SKU == "" {
		return errors.New("item sku is required")
	}
	if item.Kind != "equipment" && item.Kind != "software" {
		return errors.New("item kind must be equipment or software")
	}
	if item.AssigneeGroup == "" {
		return errors.New("item assignee group is required")
	}
	if item.Quantity < 1 {
		return errors.New("item quantity must be at least 1")
	}
	return nil
}
