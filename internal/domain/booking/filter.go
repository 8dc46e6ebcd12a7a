package booking

import "strings"

// Filter narrows an in-memory booking list for the admin screens. Empty fields
// are inactive; active fields are combined with AND, and Search matches any of
// reference, guest name, guest email or yacht name.
type Filter struct {
	Search   string
	Status   string
	Location string
}

// Apply returns the bookings that satisfy every active predicate, preserving
// order.
func (f Filter) Apply(bookings []*Booking) []*Booking {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var status BookingStatus
	statusActive := f.Status != "" && f.Status != "all"
	if statusActive {
		parsed, err := ParseBookingStatus(f.Status)
		if err != nil {
			return []*Booking{}
		}
		status = parsed
	}
	locationActive := f.Location != "" && f.Location != "all"

	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if search != "" && !matchesSearch(b, search) {
			continue
		}
		if statusActive && b.Status() != status {
			continue
		}
		if locationActive && b.Yacht().Location != f.Location {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesSearch(b *Booking, term string) bool {
	for _, field := range []string{b.Reference(), b.Guest().Name, b.Guest().Email, b.Yacht().Name} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
