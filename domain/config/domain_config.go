package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Pre-hire constraints
	MaxTicketsPerPreHire int
	MaxNameLength        int
	MinNameLength        int
	MaxLeadDays          int // how far in the future a start date may be

	// Bundle constraints
	MaxItemsPerBundle   int
	MaxBundleNameLength int

	// Event constraints
	MaxEventCapacity int
	MinEventDuration time.Duration
	MaxEventDuration time.Duration

	// Note constraints
	MaxNoteLength         int
	MaxAnnotationsPerNote int

	// Validation settings
	AllowPastStartDates   bool
	RequireVenueForEvents bool

	// Feature flags
	EnableAutoProvisioning bool
	EnableRecapApproval    bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxTicketsPerPreHire: 50,
		MaxNameLength:        120,
		MinNameLength:        1,
		MaxLeadDays:          365,

		MaxItemsPerBundle:   40,
		MaxBundleNameLength: 100,

		MaxEventCapacity: 5000,
		MinEventDuration: 15 * time.Minute,
		MaxEventDuration: 14 * 24 * time.Hour,

		MaxNoteLength:         50000,
		MaxAnnotationsPerNote: 200,

		AllowPastStartDates:   false,
		RequireVenueForEvents: true,

		EnableAutoProvisioning: true,
		EnableRecapApproval:    true,
	}
}
