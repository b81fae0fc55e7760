// Package query maps list intent onto backend query strings.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/zoomwifi/admin-console/internal/models"
)

// Transport parameter names.
const (
	ParamPage         = "page"
	ParamLimit        = "limit"
	ParamSearch       = "search"
	ParamSearchFields = "searchFields"
)

// Mapper expands one UI filter into transport parameters. It is only called
// for values that are not "all" and not an unset flag.
type Mapper func(value models.FilterValue, out url.Values)

// Spec describes how a resource serializes its list queries.
type Spec struct {
	Resource     string
	SearchFields []string
	Mappers      map[string]Mapper
	Defaults     models.Filters
}

// Build maps q onto query parameters. It is pure: the same inputs always
// yield the same values.
func Build(spec Spec, q models.ListQuery) url.Values {
	out := url.Values{}

	page := q.Page
	if page < 1 {
		page = 1
	}
	out.Set(ParamPage, strconv.Itoa(page))
	out.Set(ParamLimit, strconv.Itoa(q.PageSize))

	if term := strings.TrimSpace(q.SearchTerm); term != "" && len(spec.SearchFields) > 0 {
		out.Set(ParamSearch, term)
		out.Set(ParamSearchFields, strings.Join(spec.SearchFields, ","))
	}

	for _, key := range q.Filters.Keys() {
		value := q.Filters[key]
		if value.IsAll() {
			continue
		}
		if flag, ok := value.Bool(); ok && !flag {
			continue
		}
		if mapper, ok := spec.Mappers[key]; ok {
			mapper(value, out)
			continue
		}
		out.Set(key, value.String())
	}
	return out
}

// Encode returns the canonical, key-sorted query string for q.
func Encode(spec Spec, q models.ListQuery) string {
	return Build(spec, q).Encode()
}

// Rename emits the value under another parameter name.
func Rename(param string) Mapper {
	return func(value models.FilterValue, out url.Values) {
		out.Set(param, value.String())
	}
}

// ActiveFlag maps a status filter onto active=true|false. Boolean values are
// used as is; the string "active" is true and any other status is false.
func ActiveFlag() Mapper {
	return func(value models.FilterValue, out url.Values) {
		if flag, ok := value.Bool(); ok {
			out.Set("active", strconv.FormatBool(flag))
			return
		}
		out.Set("active", strconv.FormatBool(value.String() == "active"))
	}
}

// FlagTrue emits param=true for a set boolean filter.
func FlagTrue(param string) Mapper {
	return func(value models.FilterValue, out url.Values) {
		if flag, ok := value.Bool(); ok && !flag {
			return
		}
		out.Set(param, "true")
	}
}

// Range is a numeric interval; a zero Max means unbounded.
type Range struct {
	Min float64
	Max float64
}

// Ranges maps a named bucket onto min/max parameters. Unknown buckets are
// dropped rather than sent verbatim.
func Ranges(minParam, maxParam string, buckets map[string]Range) Mapper {
	return func(value models.FilterValue, out url.Values) {
		r, ok := buckets[value.String()]
		if !ok {
			return
		}
		out.Set(minParam, strconv.FormatFloat(r.Min, 'f', -1, 64))
		if r.Max > 0 {
			out.Set(maxParam, strconv.FormatFloat(r.Max, 'f', -1, 64))
		}
	}
}
