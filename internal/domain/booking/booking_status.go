package booking

import (
	"fmt"
	"strings"
)

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusBoarded        BookingStatus = "boarded"
	StatusCancelled      BookingStatus = "cancelled"
)

// statusAliases maps legacy vocabulary onto the canonical states. "used" and
// "boarded" are the same terminal state.
var statusAliases = map[string]BookingStatus{
	"pending": StatusPendingPayment,
	"used":    StatusBoarded,
}

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPendingPayment: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusBoarded, StatusCancelled},
	StatusBoarded:        {},
	StatusCancelled:      {},
}

// AllStatuses lists the canonical statuses in lifecycle order.
func AllStatuses() []BookingStatus {
	return []BookingStatus{StatusPendingPayment, StatusConfirmed, StatusBoarded, StatusCancelled}
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// CanBeCancelled returns true if the booking can be cancelled from this status.
func (s BookingStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// CanBoard returns true if a guest holding this booking may be checked in.
func (s BookingStatus) CanBoard() bool {
	return s.CanTransitionTo(StatusBoarded)
}

// HoldsQRCode returns true for the states in which the booking's QR token is
// issued and may be regenerated.
func (s BookingStatus) HoldsQRCode() bool {
	return s == StatusPendingPayment || s == StatusConfirmed
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a canonical BookingStatus, folding
// legacy aliases, and returns an error for anything unknown.
func ParseBookingStatus(s string) (BookingStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := statusAliases[key]; ok {
		return alias, nil
	}
	status := BookingStatus(key)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
