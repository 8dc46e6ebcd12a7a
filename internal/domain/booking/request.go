package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

// timeSlots are the departure times offered for every yacht.
var timeSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// TimeSlots returns the offered departure times.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// IsValidTimeSlot reports whether slot is an offered departure time.
func IsValidTimeSlot(slot string) bool {
	for _, s := range timeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// CreateRequest is what the guest submits to book seats on a yacht.
type CreateRequest struct {
	YachtID       uuid.UUID
	Date          time.Time
	TimeSlot      string
	Seats         int
	PaymentMethod PaymentMethod
	Notes         string
}

// MaxSeats returns how many seats may be requested given the yacht capacity
// and the remaining availability for the date.
func MaxSeats(capacity, remaining int) int {
	if remaining < capacity {
		return remaining
	}
	return capacity
}

// Validate rejects a request that can be refused without asking the ledger.
// today is the current calendar date in the service's time zone.
func (r CreateRequest) Validate(today time.Time, capacity, remaining int) error {
	if r.YachtID == uuid.Nil {
		return domain.NewValidationError("yacht is required")
	}
	if r.Date.IsZero() || r.TimeSlot == "" {
		return domain.NewValidationError("Please select date and time")
	}
	if r.Date.Before(truncateDay(today)) {
		return domain.NewValidationError("date cannot be in the past")
	}
	if !IsValidTimeSlot(r.TimeSlot) {
		return domain.NewValidationError(fmt.Sprintf("invalid time slot: %s", r.TimeSlot))
	}
	if r.Seats < 1 {
		return domain.NewValidationError("at least one seat is required")
	}
	if limit := MaxSeats(capacity, remaining); r.Seats > limit {
		return domain.NewValidationError(fmt.Sprintf("Only %d spots available for this date", limit))
	}
	if !r.PaymentMethod.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid payment method: %s", r.PaymentMethod))
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return d, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
