package commands

import (
	"errors"
	"time"
)

// ScheduleEventCommand schedules a company event at a venue
type ScheduleEventCommand struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	VenueID  string `json:"venue_id" validate:"required,uuid"`
	Start    string `json:"start" validate:"required"`
	End      string `json:"end" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=1"`
}

// Validate validates the ScheduleEventCommand
func (cmd ScheduleEventCommand) Validate() error {
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	if cmd.VenueID == "" {
		return errors.New("venue ID is required")
	}
	if err := validateWindow(cmd.Start, cmd.End); err != nil {
		return err
	}
	if cmd.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	return nil
}

// RescheduleEventCommand moves an event to a new time window
type RescheduleEventCommand struct {
	EventID string `json:"event_id" validate:"required,uuid"`
	Start   string `json:"start" validate:"required"`
	End     string `json:"end" validate:"required"`
}

// Validate validates the RescheduleEventCommand
func (cmd RescheduleEventCommand) Validate() error {
	if cmd.EventID == "" {
		return errors.New("event ID is required")
	}
	return validateWindow(cmd.Start, cmd.End)
}

// CancelEventCommand cancels a scheduled event
type CancelEventCommand struct {
	EventID string `json:"event_id" validate:"required,uuid"`
	Reason  string `json:"reason" validate:"max=500"`
}

// Validate validates the CancelEventCommand
func (cmd CancelEventCommand) Validate() error {
	if cmd.EventID == "" {
		return errors.New("event ID is required")
	}
	return nil
}

// RegisterAttendeeCommand adds a pre-hire to an event's attendee list
type RegisterAttendeeCommand struct {
	EventID   string `json:"event_id" validate:"required,uuid"`
	PreHireID string `json:"prehire_id" validate:"required,uuid"`
}

// Validate validates the RegisterAttendeeCommand
func (cmd RegisterAttendeeCommand) Validate() error {
	if cmd.EventID == "" {
		return errors.New("event ID is required")
	}
	if cmd.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	return nil
}

// UnregisterAttendeeCommand removes a pre-hire from an event
type UnregisterAttendeeCommand struct {
	EventID   string `json:"event_id" validate:"required,uuid"`
	PreHireID string `json:"prehire_id" validate:"required,uuid"`
}

// Validate validates the UnregisterAttendeeCommand
func (cmd UnregisterAttendeeCommand) Validate() error {
	if cmd.EventID == "" {
		return errors.New("event ID is required")
	}
	if cmd.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	return nil
}

// CreateVenueCommand registers a new venue
type CreateVenueCommand struct {
	Name      string   `json:"name" validate:"required,min=1,max=200"`
	Address   string   `json:"address"`
	Capacity  int      `json:"capacity" validate:"gte=1"`
	Amenities []string `json:"amenities"`
}

// Validate validates the CreateVenueCommand
func (cmd CreateVenueCommand) Validate() error {
	if cmd.Name == "" {
		return errors.New("name is required")
	}
	if cmd.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	return nil
}

// UpdateVenueCommand updates a venue's details
type UpdateVenueCommand struct {
	VenueID  string `json:"venue_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity" validate:"gte=1"`
}

// Validate validates the UpdateVenueCommand
func (cmd UpdateVenueCommand) Validate() error {
	if cmd.VenueID == "" {
		return errors.New("venue ID is required")
	}
	if cmd.Name == "" {
		return errors.New("name is required")
	}
	if cmd.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	return nil
}

// DeactivateVenueCommand removes a venue from the bookable pool
type DeactivateVenueCommand struct {
	VenueID string `json:"venue_id" validate:"required,uuid"`
}

// Validate validates the DeactivateVenueCommand
func (cmd DeactivateVenueCommand) Validate() error {
	if cmd.VenueID == "" {
		return errors.New("venue ID is required")
	}
	return nil
}

func validateWindow(start, end string) error {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return errors.New("start must be RFC3339")
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return errors.New("end must be RFC3339")
	}
	if !s.Before(e) {
		return errors.New("start must be before end")
	}
	return nil
}
