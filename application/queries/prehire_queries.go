package queries

import "errors"

// GetPreHireQuery represents a query for a single pre-hire
type GetPreHireQuery struct {
	PreHireID string
}

// Validate validates the GetPreHireQuery
func (q GetPreHireQuery) Validate() error {
	if q.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	return nil
}

// ListPreHiresQuery represents a filtered pre-hire listing
type ListPreHiresQuery struct {
	Department string
	Stage      string
	Page       int
	PageSize   int
}

// Validate validates the ListPreHiresQuery
func (q ListPreHiresQuery) Validate() error {
	if q.Page < 0 || q.PageSize < 0 {
		return errors.New("page and page size must be non-negative")
	}
	return nil
}

// PreHireResult represents a pre-hire in query responses
type PreHireResult struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Role       string   `json:"role"`
	Manager    string   `json:"manager,omitempty"`
	StartDate  string   `json:"startDate"`
	Stage      string   `json:"stage"`
	BundleID   string   `json:"bundleId,omitempty"`
	TicketIDs  []string `json:"ticketIds"`
	Version    int      `json:"version"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// ListPreHiresResult represents a page of pre-hires
type ListPreHiresResult struct {
	PreHires []PreHireResult `json:"prehires"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// GetOnboardingStatusQuery asks for a pre-hire's provisioning progress
type GetOnboardingStatusQuery struct {
	PreHireID string
}

// Validate validates the GetOnboardingStatusQuery
func (q GetOnboardingStatusQuery) Validate() error {
	if q.PreHireID == "" {
		return errors.New("prehire ID is required")
	}
	return nil
}

// OnboardingStatusResult summarizes a pre-hire's readiness
type OnboardingStatusResult struct {
	PreHire        PreHireResult  `json:"prehire"`
	Tickets        []TicketResult `json:"tickets"`
	OpenTickets    int            `json:"openTickets"`
	TotalTickets   int            `json:"totalTickets"`
	ReadyForDayOne bool           `json:"readyForDayOne"`
}
