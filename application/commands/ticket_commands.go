package commands

import "errors"

// OpenTicketCommand opens an ad-hoc provisioning ticket for a pre-hire
type OpenTicketCommand struct {
	PreHireID     string `json:"prehire_id" validate:"required,uuid"`
	Summary       string `json:"summary" validate:"required,min=1,max=200"`
	SKU           string `json:"sku"`
	AssigneeGroup string `json:"assignee_group" validate:"required"`
}

// Validate validates the OpenTicketCommand
func (cmd OpenTicketCommand) Validate() error {
	if cmd.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	if cmd.Summary == "" {
		return errors.New("summary is required")
	}
	if cmd.AssigneeGroup == "" {
		return errors.New("assignee group is required")
	}
	return nil
}

// TransitionTicketCommand moves a ticket through its workflow
type TransitionTicketCommand struct {
	TicketID string `json:"ticket_id" validate:"required,uuid"`
	Status   string `json:"status" validate:"required"`
	Reason   string `json:"reason"` // required when status is blocked
}

// Validate validates the TransitionTicketCommand
func (cmd TransitionTicketCommand) Validate() error {
	if cmd.TicketID == "" {
		return errors.New("ticket ID is required")
	}
	if cmd.Status == "" {
		return errors.New("status is required")
	}
	if cmd.Status == "blocked" && cmd.Reason == "" {
		return errors.New("reason is required when blocking a ticket")
	}
	return nil
}

// ReassignTicketCommand hands a ticket to a different IT group
type ReassignTicketCommand struct {
	TicketID      string `json:"ticket_id" validate:"required,uuid"`
	AssigneeGroup string `json:"assignee_group" validate:"required"`
}

// Validate validates the ReassignTicketCommand
func (cmd ReassignTicketCommand) Validate() error {
	if cmd.TicketID == "" {
		return errors.New("ticket ID is required")
	}
	if cmd.AssigneeGroup == "" {
		return errors.New("assignee group is required")
	}
	return nil
}
