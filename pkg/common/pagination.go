package common

import (
	"net/http"
	"strconv"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationParams carries the page window and ordering for list endpoints
type PaginationParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Sort     string `json:"sort,omitempty"`
	Order    string `json:"order,omitempty"`
}

// DefaultPaginationParams returns the first page with the standard window
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:     defaultPage,
		PageSize: defaultPageSize,
		Order:    "desc",
	}
}

// ExtractPaginationParams reads page, page_size, sort and order from the
// query string. Invalid or out-of-range values silently keep the defaults,
// page_size is capped so a single request cannot ask for the whole table.
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()
	query := r.URL.Query()

	if p := positiveInt(query.Get("page")); p > 0 {
		params.Page = p
	}

	if ps := positiveInt(query.Get("page_size")); ps > 0 {
		if ps > maxPageSize {
			ps = maxPageSize
		}
		params.PageSize = ps
	}

	if sort := query.Get("sort"); sort != "" {
		params.Sort = sort
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		params.Order = order
	}

	return params
}

func positiveInt(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// CalculateOffset converts the page window into an offset into the full
// result set
func (p PaginationParams) CalculateOffset() int {
	return (p.Page - 1) * p.PageSize
}

// CalculateTotalPages returns how many pages the total spans
func CalculateTotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}

// BuildPaginationMeta builds the pagination block of a response envelope
func BuildPaginationMeta(page, pageSize, total int) *PaginationInfo {
	totalPages := CalculateTotalPages(total, pageSize)

	return &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// PaginatedResult is a single page of a list result
type PaginatedResult struct {
	Items      interface{}     `json:"items"`
	Pagination *PaginationInfo `json:"pagination"`
}

// NewPaginatedResult wraps one page of items with its pagination block
func NewPaginatedResult(items interface{}, page, pageSize, total int) *PaginatedResult {
	return &PaginatedResult{
		Items:      items,
		Pagination: BuildPaginationMeta(page, pageSize, total),
	}
}
