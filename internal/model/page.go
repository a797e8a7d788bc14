package model

// Page is the response shape of every paginated listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

// ListParams are raw page/sort parameters as received from a query string.
// Parsing and validation happen in the query package.
type ListParams struct {
	Page     string
	Limit    string
	SortBy   string
	SortType string
}
