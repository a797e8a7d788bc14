package query

import (
	"math"
	"strconv"
	"strings"

	"vidtube/internal/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	errInvalidPage   = apperr.Invalid("page must be a positive integer")
	errInvalidLimit  = apperr.Invalid("limit must be between 1 and 100")
	errInvalidPaging = apperr.Invalid("invalid pagination parameters")
	errInvalidSort   = apperr.Invalid("invalid sort field")
	errInvalidDir    = apperr.Invalid("sort type must be asc or desc")
)

// ParsePage validates raw page/limit values. Empty values take the defaults;
// anything non-numeric or out of range is rejected, never clamped.
func ParsePage(page, limit string) (Paginate, error) {
	p := Paginate{Page: DefaultPage, Limit: DefaultLimit}
	if s := strings.TrimSpace(page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Paginate{}, errInvalidPage
		}
		p.Page = n
	}
	if s := strings.TrimSpace(limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			return Paginate{}, errInvalidLimit
		}
		p.Limit = n
	}
	if !offsetFits(p) {
		return Paginate{}, errInvalidPage
	}
	return p, nil
}

// offsetFits reports whether (page-1)*limit is representable.
func offsetFits(p Paginate) bool {
	return p.Limit > 0 && p.Page-1 <= math.MaxInt/p.Limit
}

// SortFields maps public sort names to qualified columns.
type SortFields map[string]string

// ParseSort resolves a public sort field against the allow-list. An empty field
// uses def; an empty direction is descending.
func ParseSort(field, dir string, allowed SortFields, def string) (Sort, error) {
	if field == "" {
		field = def
	}
	col, ok := allowed[field]
	if !ok {
		return Sort{}, errInvalidSort
	}
	s := Sort{Column: col, Desc: true}
	switch strings.ToLower(dir) {
	case "", "desc":
	case "asc":
		s.Desc = false
	default:
		return Sort{}, errInvalidDir
	}
	return s, nil
}
