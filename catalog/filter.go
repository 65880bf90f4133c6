package catalog

import "net/url"

// Filter is a search constraint set. Every field is optional; an empty field
// means "no constraint" and is omitted from the query string entirely, never
// sent as an empty parameter.
type Filter struct {
	Name     string
	Category Category
	MinPrice string
	MaxPrice string
}

// IsZero reports whether no constraint is set. A zero filter is equivalent
// to listing everything.
func (f Filter) IsZero() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == "" && f.MaxPrice == ""
}

// Values serializes only the present fields.
func (f Filter) Values() url.Values {
	params := url.Values{}
	if f.Name != "" {
		params.Set("name", f.Name)
	}
	if f.Category != "" {
		params.Set("category", string(f.Category))
	}
	if f.MinPrice != "" {
		params.Set("min_price", f.MinPrice)
	}
	if f.MaxPrice != "" {
		params.Set("max_price", f.MaxPrice)
	}
	return params
}
