package entities

import (
	"strings"
	"time"

	"onboardhq-backend/domain/core/valueobjects"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// Venue is a bookable location for company events
type Venue struct {
	id        valueobjects.VenueID
	name      string
	address   string
	capacity  int
	amenities []string
	active    bool
	createdAt time.Time
	updatedAt time.Time
	version   int
}

// NewVenue creates a new venue
func NewVenue(name, address string, capacity int, amenities []string) (*Venue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}

	if capacity < 1 {
		return nil, pkgerrors.NewValidationError("capacity must be at least 1")
	}

	if amenities == nil {
		amenities = []string{}
	}

	now := time.Now()
	return &Venue{
		id:        valueobjects.NewVenueID(),
		name:      name,
		address:   address,
		capacity:  capacity,
		amenities: amenities,
		active:    true,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// ReconstructVenue reconstructs a venue from repository data
func ReconstructVenue(
	id valueobjects.VenueID,
	name, address string,
	capacity int,
	amenities []string,
	active bool,
	createdAt, updatedAt time.Time,
	version int,
) (*Venue, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}

	if amenities == nil {
		amenities = []string{}
	}

	return &Venue{
		id:        id,
		name:      name,
		address:   address,
		capacity:  capacity,
		amenities: amenities,
		active:    active,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
	}, nil
}

// ID returns the venue's unique identifier
func (v *Venue) ID() valueobjects.VenueID {
	return v.id
}

// Name returns the venue name
func (v *Venue) Name() string {
	return v.name
}

// Address returns the street address
func (v *Venue) Address() string {
	return v.address
}

// Capacity returns how many attendees the venue holds
func (v *Venue) Capacity() int {
	return v.capacity
}

// Amenities returns a copy of the amenities list
func (v *Venue) Amenities() []string {
	amenities := make([]string, len(v.amenities))
	copy(amenities, v.amenities)
	return amenities
}

// IsActive reports whether the venue can still be booked
func (v *Venue) IsActive() bool {
	return v.active
}

// CreatedAt returns when the venue was registered
func (v *Venue) CreatedAt() time.Time {
	return v.createdAt
}

// UpdatedAt returns the last modification time
func (v *Venue) UpdatedAt() time.Time {
	return v.updatedAt
}

// Version returns the venue's version for optimistic locking
func (v *Venue) Version() int {
	return v.version
}

// UpdateDetails changes the venue's name, address and capacity
func (v *Venue) UpdateDetails(name, address string, capacity int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("name cannot be empty")
	}

	if capacity < 1 {
		return pkgerrors.NewValidationError("capacity must be at least 1")
	}

	v.name = name
	v.address = address
	v.capacity = capacity
	v.updatedAt = time.Now()
	v.version++

	return nil
}

// Deactivate removes the venue from the bookable pool
func (v *Venue) Deactivate() {
	if !v.active {
		return // Already inactive
	}

	v.active = false
	v.updatedAt = time.Now()
	v.version++
}
