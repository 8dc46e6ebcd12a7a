package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Result is the success/error tuple returned by every ledger mutation. A false
// Success with an ErrorMessage is a business rejection, not a Go error.
type Result struct {
	Success      bool
	ErrorMessage string
}

// CreateResult is returned by Ledger.CreateBooking.
type CreateResult struct {
	Success      bool
	BookingID    uuid.UUID
	Reference    string
	ErrorMessage string
}

// RegenerateResult is returned by Ledger.RegenerateQRCode.
type RegenerateResult struct {
	Success      bool
	QRToken      string
	ErrorMessage string
}

// ScanInfo is the booking snapshot the ledger attaches to a scan.
type ScanInfo struct {
	BookingID     uuid.UUID `json:"booking_id"`
	Reference     string    `json:"booking_reference"`
	GuestName     string    `json:"guest_name"`
	GuestEmail    string    `json:"guest_email"`
	GuestPhone    string    `json:"guest_phone,omitempty"`
	YachtName     string    `json:"yacht_name"`
	YachtLocation string    `json:"yacht_location"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"time_slot"`
	Seats         int       `json:"seats"`
	Total         int64     `json:"total_price"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
}

// ScanResult is returned by Ledger.ScanBooking. Info is nil when the token is
// not recognised.
type ScanResult struct {
	Success      bool
	ErrorMessage string
	Info         *ScanInfo
}

// StatusChange is one entry of a booking's status history.
type StatusChange struct {
	BookingID      uuid.UUID  `json:"booking_id"`
	PreviousStatus string     `json:"previous_status,omitempty"`
	NewStatus      string     `json:"new_status"`
	ChangedBy      *uuid.UUID `json:"changed_by,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Ledger is the authoritative booking store. It allocates seats, issues
// references and QR tokens, and enforces the status transitions; callers only
// request mutations and read back the outcome.
type Ledger interface {
	// CreateBooking allocates seats and creates a booking for userID.
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateRequest) (CreateResult, error)

	// CancelBooking cancels a booking and restores its seats to availability.
	CancelBooking(ctx context.Context, actorID, bookingID uuid.UUID) (Result, error)

	// ScanBooking evaluates a QR token against the current booking status.
	// It never mutates state.
	ScanBooking(ctx context.Context, token string) (ScanResult, error)

	// MarkBookingUsed moves a confirmed booking to boarded and records the scan.
	MarkBookingUsed(ctx context.Context, staffID, bookingID uuid.UUID) (Result, error)

	// UpdateBookingStatus applies an administrative or payment transition.
	UpdateBookingStatus(ctx context.Context, actorID, bookingID uuid.UUID, status BookingStatus, notes string) (Result, error)

	// RegenerateQRCode replaces the token of a non-terminal booking.
	RegenerateQRCode(ctx context.Context, bookingID uuid.UUID) (RegenerateResult, error)

	// FindBooking returns a booking by ID.
	FindBooking(ctx context.Context, id uuid.UUID) (*Booking, error)

	// ListUserBookings returns a guest's bookings, newest first.
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]*Booking, error)

	// ListBookings returns every booking, newest first.
	ListBookings(ctx context.Context) ([]*Booking, error)

	// StatusHistory returns the status changes of a booking, oldest first.
	StatusHistory(ctx context.Context, bookingID uuid.UUID) ([]StatusChange, error)
}
