package commands

import (
	"errors"

	"onboardhq-backend/pkg/utils"
)

const (
	MaxNameLength   = 120
	MaxReasonLength = 500
)

// CreatePreHireCommand opens a new pre-hire record
type CreatePreHireCommand struct {
	Name       string `json:"name" validate:"required,min=1,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// Validate validates the CreatePreHireCommand
func (cmd CreatePreHireCommand) Validate() error {
	if cmd.Name == "" {
		return errors.New("name is required")
	}
	if len(cmd.Name) > MaxNameLength {
		return errors.New("name exceeds maximum length")
	}
	if cmd.Email == "" {
		return errors.New("email is required")
	}
	if cmd.Department == "" {
		return errors.New("department is required")
	}
	if _, err := utils.ParseDate(cmd.StartDate); err != nil {
		return errors.New("start_date must be YYYY-MM-DD")
	}
	return nil
}

// AdvanceStageCommand moves a pre-hire to the next pipeline stage
type AdvanceStageCommand struct {
	PreHireID string `json:"prehire_id" validate:"required,uuid"`
	Stage     string `json:"stage" validate:"required"`
}

// Validate validates the AdvanceStageCommand
func (cmd AdvanceStageCommand) Validate() error {
	if cmd.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	if cmd.Stage == "" {
		return errors.New("stage is required")
	}
	return nil
}

// AssignBundleCommand assigns an equipment/software bundle to a pre-hire
type AssignBundleCommand struct {
	PreHireID string `json:"prehire_id" validate:"required,uuid"`
	BundleID  string `json:"bundle_id" validate:"required,uuid"`
}

// Validate validates the AssignBundleCommand
func (cmd AssignBundleCommand) Validate() error {
	if cmd.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	if cmd.BundleID == "" {
		return errors.New("bundle ID is required")
	}
	return nil
}

// AssignManagerCommand records the manager for a pre-hire
type AssignManagerCommand struct {
	PreHireID string `json:"prehire_id" validate:"required,uuid"`
	Manager   string `json:"manager" validate:"required"`
}

// Validate validates the AssignManagerCommand
func (cmd AssignManagerCommand) Validate() error {
	if cmd.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	if cmd.Manager == "" {
		return errors.New("manager is required")
	}
	return nil
}

// ReschedulePreHireCommand changes the start date
type ReschedulePreHireCommand struct {
	PreHireID string `json:"prehire_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// Validate validates the ReschedulePreHireCommand
func (cmd ReschedulePreHireCommand) Validate() error {
	if cmd.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	if _, err := utils.ParseDate(cmd.StartDate); err != nil {
		return errors.New("start_date must be YYYY-MM-DD")
	}
	return nil
}

// WithdrawPreHireCommand closes the pipeline for a dropped-out candidate
type WithdrawPreHireCommand struct {
	PreHireID string `json:"prehire_id" validate:"required,uuid"`
	Reason    string `json:"reason" validate:"max=500"`
}

// Validate validates the WithdrawPreHireCommand
func (cmd WithdrawPreHireCommand) Validate() error {
	if cmd.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	if len(cmd.Reason) > MaxReasonLength {
		return errors.New("reason exceeds maximum length")
	}
	return nil
}

// DeletePreHireCommand removes a pre-hire record entirely
type DeletePreHireCommand struct {
	PreHireID string `json:"prehire_id" validate:"required,uuid"`
}

// Validate validates the DeletePreHireCommand
func (cmd DeletePreHireCommand) Validate() error {
	if cmd.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	return nil
}
