package queries

import "errors"

// GetBundleQuery represents a query for a single bundle
type GetBundleQuery struct {
	BundleID string
}

// Validate validates the GetBundleQuery
func (q GetBundleQuery) Validate() error {
	if q.BundleID == "" {
		return errors.New("bundle ID is required")
	}
	return nil
}

// ListBundlesQuery lists bundles, optionally filtered by department
type ListBundlesQuery struct {
	Department string
	ActiveOnly bool
}

// Validate validates the ListBundlesQuery
func (q ListBundlesQuery) Validate() error {
	return nil
}

// BundleItemResult represents one bundle item in query responses
type BundleItemResult struct {
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	AssigneeGroup string `json:"assigneeGroup"`
	Quantity      int    `json:"quantity"`
}

// BundleResult represents a bundle in query responses
type BundleResult struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Department  string             `json:"department,omitempty"`
	Description string             `json:"description,omitempty"`
	Items       []BundleItemResult `json:"items"`
	Active      bool               `json:"active"`
	Version     int                `json:"version"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
}

// ListBundlesResult represents a bundle listing
type ListBundlesResult struct {
	Bundles []BundleResult `json:"bundles"`
	Total   int            `json:"total"`
}
