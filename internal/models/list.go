package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FilterAll is the sentinel filter value meaning "no filtering".
const FilterAll = "all"

// FilterValue is a filter setting that is either a string or a boolean flag.
type FilterValue struct {
	text   string
	flag   bool
	isFlag bool
}

// StringFilter builds a string filter value.
func StringFilter(v string) FilterValue { return FilterValue{text: v} }

// BoolFilter builds a boolean filter value.
func BoolFilter(v bool) FilterValue { return FilterValue{flag: v, isFlag: true} }

// IsFlag reports whether the value is a boolean.
func (v FilterValue) IsFlag() bool { return v.isFlag }

// Bool returns the flag and whether the value is a boolean.
func (v FilterValue) Bool() (bool, bool) { return v.flag, v.isFlag }

// String returns the transport form of the value.
func (v FilterValue) String() string {
	if v.isFlag {
		return strconv.FormatBool(v.flag)
	}
	return v.text
}

// IsAll reports whether the value disables the filter.
func (v FilterValue) IsAll() bool {
	return !v.isFlag && (v.text == FilterAll || strings.TrimSpace(v.text) == "")
}

// MarshalJSON encodes the value as a JSON string or boolean.
func (v FilterValue) MarshalJSON() ([]byte, error) {
	if v.isFlag {
		return json.Marshal(v.flag)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts a JSON string, boolean or number.
func (v *FilterValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case bool:
		*v = BoolFilter(t)
	case string:
		*v = StringFilter(t)
	case float64:
		*v = StringFilter(strconv.FormatFloat(t, 'f', -1, 64))
	case nil:
		*v = StringFilter(FilterAll)
	default:
		return fmt.Errorf("unsupported filter value %s", string(data))
	}
	return nil
}

// Filters maps UI filter names to their values.
type Filters map[string]FilterValue

// Clone returns an independent copy.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Keys returns the filter names in sorted order.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListQuery is the current search, filter and page intent for one list.
// Values are never mutated in place; the With* helpers return copies.
type ListQuery struct {
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	SearchTerm string  `json:"searchTerm"`
	Filters    Filters `json:"filters"`
}

// NewListQuery returns the first page with no search and no filters.
func NewListQuery(pageSize int, filters Filters) ListQuery {
	if pageSize <= 0 {
		pageSize = 10
	}
	return ListQuery{Page: 1, PageSize: pageSize, Filters: filters.Clone()}
}

// WithSearch returns a copy with a new search term and the page reset to 1.
func (q ListQuery) WithSearch(term string) ListQuery {
	out := q.clone()
	out.SearchTerm = term
	out.Page = 1
	return out
}

// WithFilters returns a copy with new filters and the page reset to 1.
func (q ListQuery) WithFilters(filters Filters) ListQuery {
	out := q.clone()
	out.Filters = filters.Clone()
	out.Page = 1
	return out
}

// WithPage returns a copy pointing at page.
func (q ListQuery) WithPage(page int) ListQuery {
	out := q.clone()
	out.Page = page
	return out
}

func (q ListQuery) clone() ListQuery {
	q.Filters = q.Filters.Clone()
	return q
}

// ListResult is one materialized page returned for a ListQuery.
type ListResult[T any] struct {
	Items      []T       `json:"items"`
	TotalCount int       `json:"totalCount"`
	Query      ListQuery `json:"query"`
}

// Phase is the lifecycle state of a synchronized list.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// ListState is the snapshot exposed to the presentation layer.
type ListState[T any] struct {
	Phase      Phase   `json:"phase"`
	Items      []T     `json:"items"`
	TotalCount int     `json:"totalCount"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	SearchTerm string  `json:"searchTerm"`
	Filters    Filters `json:"filters"`
	Error      string  `json:"error,omitempty"`
	ErrorCode  string  `json:"errorCode,omitempty"`
	Generation uint64  `json:"generation"`
}

// TotalPages returns the page count, never less than one.
func (s ListState[T]) TotalPages() int {
	return TotalPages(s.TotalCount, s.PageSize)
}

// Pagination mirrors ListState paging fields in HTTP envelopes.
func (s ListState[T]) Pagination() *Pagination {
	return &Pagination{
		Page:       s.Page,
		PageSize:   s.PageSize,
		TotalCount: s.TotalCount,
		TotalPages: s.TotalPages(),
	}
}

// TotalPages computes ceil(total/pageSize) with a floor of one.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
