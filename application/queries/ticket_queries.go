package queries

import "errors"

// GetTicketQuery represents a query for a single ticket
type GetTicketQuery struct {
	TicketID string
}

// Validate validates the GetTicketQuery
func (q GetTicketQuery) Validate() error {
	if q.TicketID == "" {
		return errors.New("ticket ID is required")
	}
	return nil
}

// ListTicketsQuery lists tickets for a pre-hire or by status
type ListTicketsQuery struct {
	PreHireID string
	Status    string
	Limit     int
}

// Validate validates the ListTicketsQuery
func (q ListTicketsQuery) Validate() error {
	if q.PreHireID == "" && q.Status == "" {
		return errors.New("prehire ID or status filter is required")
	}
	return nil
}

// TicketResult represents a ticket in query responses
type TicketResult struct {
	ID            string `json:"id"`
	PreHireID     string `json:"prehireId"`
	Summary       string `json:"summary"`
	SKU           string `json:"sku,omitempty"`
	AssigneeGroup string `json:"assigneeGroup"`
	Status        string `json:"status"`
	BlockedReason string `json:"blockedReason,omitempty"`
	Version       int    `json:"version"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ListTicketsResult represents a ticket listing
type ListTicketsResult struct {
	Tickets []TicketResult `json:"tickets"`
	Total   int            `json:"total"`
}
