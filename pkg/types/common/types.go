// Package common holds request/response shapes shared by the HTTP and CLI
// surfaces.
package common

import (
	"strings"
	"time"
)

// DefaultPageSize is the material browser page size.
const DefaultPageSize = 12

// MaxPageSize bounds PageRequest.PageSize.
const MaxPageSize = 200

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts asc/desc in any case. Anything else is ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// SortField defines a field and its sort order.
type SortField struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

// PageRequest selects one page of a list. Pages are 1-based.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize fills zero or out-of-range values: page < 1 becomes 1, page size
// < 1 becomes def, and page size is capped at MaxPageSize.
func (p PageRequest) Normalize(def int) PageRequest {
	if def <= 0 {
		def = DefaultPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = def
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the index of the first item on the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResult is one page of items plus the totals needed to render a pager.
type PageResult[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items for req, which must already be normalized. A page
// past the end yields no items but keeps the totals.
func Paginate[T any](items []T, req PageRequest) PageResult[T] {
	total := len(items)
	res := PageResult[T]{
		Items:    []T{},
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.PageSize > 0 {
		res.TotalPages = (total + req.PageSize - 1) / req.PageSize
	}
	start := req.Offset()
	if start < 0 || start >= total {
		return res
	}
	end := start + req.PageSize
	if end > total {
		end = total
	}
	res.Items = append(res.Items, items[start:end]...)
	return res
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthUp       HealthStatus = "up"
	HealthDown     HealthStatus = "down"
	HealthDegraded HealthStatus = "degraded"
)

// ComponentHealth provides health information for a specific component.
type ComponentHealth struct {
	Name    string        `json:"name"`
	Status  HealthStatus  `json:"status"`
	Latency time.Duration `json:"latency"`
	Message string        `json:"message,omitempty"`
}

// ContextKey is the type of values stored on request contexts.
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeySessionID ContextKey = "session_id"
)
