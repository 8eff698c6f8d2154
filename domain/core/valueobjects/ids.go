package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// id is the shared backing for all typed identifiers. Value objects are
// immutable and have no identity beyond their value.
type id struct {
	value string
}

func newID() id {
	return id{value: uuid.New().String()}
}

func idFromString(s string) (id, error) {
	if s == "" {
		return id{}, errors.New("id cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return id{}, errors.New("id must be a valid UUID")
	}
	return id{value: s}, nil
}

// String returns the string representation of the identifier
func (i id) String() string {
	return i.value
}

// IsZero checks if the identifier is the zero value
func (i id) IsZero() bool {
	return i.value == ""
}

// MarshalJSON implements json.Marshaler
func (i id) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (i *id) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("id must be a string")
	}
	i.value = string(data[1 : len(data)-1])
	return nil
}

// PreHireID identifies a pre-hire record
type PreHireID struct{ id }

func NewPreHireID() PreHireID { return PreHireID{newID()} }

func NewPreHireIDFromString(s string) (PreHireID, error) {
	inner, err := idFromString(s)
	return PreHireID{inner}, err
}

func (a PreHireID) Equals(b PreHireID) bool { return a.value == b.value }

// BundleID identifies an equipment/software bundle
type BundleID struct{ id }

func NewBundleID() BundleID { return BundleID{newID()} }

func NewBundleIDFromString(s string) (BundleID, error) {
	inner, err := idFromString(s)
	return BundleID{inner}, err
}

func (a BundleID) Equals(b BundleID) bool { return a.value == b.value }

// TicketID identifies an IT provisioning ticket
type TicketID struct{ id }

func NewTicketID() TicketID { return TicketID{newID()} }

func NewTicketIDFromString(s string) (TicketID, error) {
	inner, err := idFromString(s)
	return TicketID{inner}, err
}

func (a TicketID) Equals(b TicketID) bool { return a.value == b.value }

// EventID identifies a company event
type EventID struct{ id }

func NewEventID() EventID { return EventID{newID()} }

func NewEventIDFromString(s string) (EventID, error) {
	inner, err := idFromString(s)
	return EventID{inner}, err
}

func (a EventID) Equals(b EventID) bool { return a.value == b.value }

// VenueID identifies a venue record
type VenueID struct{ id }

func NewVenueID() VenueID { return VenueID{newID()} }

func NewVenueIDFromString(s string) (VenueID, error) {
	inner, err := idFromString(s)
	return VenueID{inner}, err
}

func (a VenueID) Equals(b VenueID) bool { return a.value == b.value }

// NoteID identifies a meeting note
type NoteID struct{ id }

func NewNoteID() NoteID { return NoteID{newID()} }

func NewNoteIDFromString(s string) (NoteID, error) {
	inner, err := idFromString(s)
	return NoteID{inner}, err
}

func (a NoteID) Equals(b NoteID) bool { return a.value == b.value }
