package queries

import "errors"

// GetEventQuery represents a query for a single company event
type GetEventQuery struct {
	EventID string
}

// Validate validates the GetEventQuery
func (q GetEventQuery) Validate() error {
	if q.EventID == "" {
		return errors.New("event ID is required")
	}
	return nil
}

// ListEventsQuery lists events, optionally filtered by venue or status
type ListEventsQuery struct {
	VenueID  string
	Status   string
	Page     int
	PageSize int
}

// Validate validates the ListEventsQuery
func (q ListEventsQuery) Validate() error {
	if q.Page < 0 || q.PageSize < 0 {
		return errors.New("page and page size must be non-negative")
	}
	return nil
}

// EventResult represents an event in query responses
type EventResult struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	VenueID   string   `json:"venueId"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Capacity  int      `json:"capacity"`
	Attendees []string `json:"attendees"`
	Status    string   `json:"status"`
	Version   int      `json:"version"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// ListEventsResult represents a page of events
type ListEventsResult struct {
	Events   []EventResult `json:"events"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// GetVenueQuery represents a query for a single venue
type GetVenueQuery struct {
	VenueID string
}

// Validate validates the GetVenueQuery
func (q GetVenueQuery) Validate() error {
	if q.VenueID == "" {
		return errors.New("venue ID is required")
	}
	return nil
}

// ListVenuesQuery lists venues
type ListVenuesQuery struct {
	ActiveOnly bool
}

// Validate validates the ListVenuesQuery
func (q ListVenuesQuery) Validate() error {
	return nil
}

// VenueResult represents a venue in query responses
type VenueResult struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Capacity  int      `json:"capacity"`
	Amenities []string `json:"amenities"`
	Active    bool     `json:"active"`
	Version   int      `json:"version"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// ListVenuesResult represents a venue listing
type ListVenuesResult struct {
	Venues []VenueResult `json:"venues"`
	Total  int           `json:"total"`
}
