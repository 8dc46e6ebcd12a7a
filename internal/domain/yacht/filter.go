package yacht

import "strings"

// Filter narrows the admin yacht list. Empty fields are inactive.
type Filter struct {
	Search   string
	Location string
	Type     string
}

// Apply returns the yachts matching every active field, preserving order.
func (f Filter) Apply(yachts []*Yacht) []*Yacht {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*Yacht, 0, len(yachts))
	for _, y := range yachts {
		if search != "" && !strings.Contains(strings.ToLower(y.Name), search) &&
			!strings.Contains(strings.ToLower(y.NameAr), search) {
			continue
		}
		if f.Location != "" && f.Location != "all" && string(y.Location) != f.Location {
			continue
		}
		if f.Type != "" && f.Type != "all" && string(y.Type) != f.Type {
			continue
		}
		out = append(out, y)
	}
	return out
}
