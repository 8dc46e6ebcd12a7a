package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

const (
	referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	tokenChars     = "abcdefghijkmnpqrstuvwxyz23456789"

	// DateLayout is the calendar-date format used on the wire and in storage.
	DateLayout = "2006-01-02"
)

// PaymentMethod is how the guest intends to pay.
type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

// IsValid returns true if the payment method is recognized.
func (p PaymentMethod) IsValid() bool {
	return p == PaymentOnline || p == PaymentCash
}

// Guest is the profile of the user who made the booking.
type Guest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// YachtSummary is the part of the yacht listing carried with a booking.
type YachtSummary struct {
	Name     string     `json:"name"`
	Location string     `json:"location"`
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
}

// Booking is a snapshot of a booking as held by the ledger.
type Booking struct {
	id            uuid.UUID
	reference     string
	userID        uuid.UUID
	yachtID       uuid.UUID
	yacht         YachtSummary
	guest         Guest
	date          time.Time
	timeSlot      string
	seats         int
	subtotal      int64
	platformFee   int64
	total         int64
	paymentMethod PaymentMethod
	status        BookingStatus
	qrToken       string
	notes         string
	adminNotes    string
	createdAt     time.Time
	updatedAt     time.Time
}

// GenerateReference creates a booking reference in the format "SC-XXXXXX".
func GenerateReference() (string, error) {
	s, err := randomString(referenceChars, 6)
	if err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}
	return "SC-" + s, nil
}

// GenerateQRToken creates a fresh check-in token for the given reference.
func GenerateQRToken(reference string) (string, error) {
	s, err := randomString(tokenChars, 12)
	if err != nil {
		return "", fmt.Errorf("failed to generate qr token: %w", err)
	}
	return "SEASCAPE:" + reference + ":" + s, nil
}

func randomString(alphabet string, n int) (string, error) {
	result := make([]byte, n)
	for i := range result {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		result[i] = alphabet[idx.Int64()]
	}
	return string(result), nil
}

// NewBooking creates a booking in the given initial status under reference,
// issuing a fresh QR token. The ledger owns reference uniqueness.
func NewBooking(
	reference string,
	userID uuid.UUID,
	yachtID uuid.UUID,
	yacht YachtSummary,
	guest Guest,
	date time.Time,
	timeSlot string,
	price PriceBreakdown,
	paymentMethod PaymentMethod,
	initial BookingStatus,
	notes string,
) (*Booking, error) {
	if reference == "" {
		return nil, domain.NewValidationError("booking reference is required")
	}
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if yachtID == uuid.Nil {
		return nil, domain.NewValidationError("yacht ID is required")
	}
	if price.Seats < 1 {
		return nil, domain.NewValidationError("at least one seat is required")
	}
	if price.Total != price.Subtotal+price.PlatformFee {
		return nil, domain.NewValidationError("total must equal subtotal plus platform fee")
	}
	if !paymentMethod.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid payment method: %s", paymentMethod))
	}
	if !initial.HoldsQRCode() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid initial status: %s", initial))
	}

	token, err := GenerateQRToken(reference)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		reference:     reference,
		userID:        userID,
		yachtID:       yachtID,
		yacht:         yacht,
		guest:         guest,
		date:          date,
		timeSlot:      timeSlot,
		seats:         price.Seats,
		subtotal:      price.Subtotal,
		platformFee:   price.PlatformFee,
		total:         price.Total,
		paymentMethod: paymentMethod,
		status:        initial,
		qrToken:       token,
		notes:         notes,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from ledger data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	reference string,
	userID uuid.UUID,
	yachtID uuid.UUID,
	yacht YachtSummary,
	guest Guest,
	date time.Time,
	timeSlot string,
	seats int,
	subtotal int64,
	platformFee int64,
	total int64,
	paymentMethod PaymentMethod,
	status BookingStatus,
	qrToken string,
	notes string,
	adminNotes string,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		reference:     reference,
		userID:        userID,
		yachtID:       yachtID,
		yacht:         yacht,
		guest:         guest,
		date:          date,
		timeSlot:      timeSlot,
		seats:         seats,
		subtotal:      subtotal,
		platformFee:   platformFee,
		total:         total,
		paymentMethod: paymentMethod,
		status:        status,
		qrToken:       qrToken,
		notes:         notes,
		adminNotes:    adminNotes,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the ledger-assigned identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Reference returns the human-readable booking reference.
func (b *Booking) Reference() string { return b.reference }

// UserID returns the guest's user ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// YachtID returns the booked yacht's ID.
func (b *Booking) YachtID() uuid.UUID { return b.yachtID }

// Yacht returns the yacht summary carried with the booking.
func (b *Booking) Yacht() YachtSummary { return b.yacht }

// Guest returns the guest profile.
func (b *Booking) Guest() Guest { return b.guest }

// Date returns the calendar date of the trip.
func (b *Booking) Date() time.Time { return b.date }

// TimeSlot returns the departure slot, e.g. "10:00".
func (b *Booking) TimeSlot() string { return b.timeSlot }

// Seats returns the number of seats held.
func (b *Booking) Seats() int { return b.seats }

// Subtotal returns the seat subtotal.
func (b *Booking) Subtotal() int64 { return b.subtotal }

// PlatformFee returns the platform fee.
func (b *Booking) PlatformFee() int64 { return b.platformFee }

// Total returns subtotal plus platform fee.
func (b *Booking) Total() int64 { return b.total }

// PaymentMethod returns the requested payment method.
func (b *Booking) PaymentMethod() PaymentMethod { return b.paymentMethod }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// QRToken returns the opaque check-in token, or "" if none is issued.
func (b *Booking) QRToken() string { return b.qrToken }

// Notes returns the guest's notes.
func (b *Booking) Notes() string { return b.notes }

// AdminNotes returns notes recorded with the latest status override.
func (b *Booking) AdminNotes() string { return b.adminNotes }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// TransitionTo moves the booking to target if the state machine allows it.
func (b *Booking) TransitionTo(target BookingStatus, adminNotes string) error {
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	if adminNotes != "" {
		b.adminNotes = adminNotes
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal state.
func (b *Booking) Cancel() error {
	return b.TransitionTo(StatusCancelled, "")
}

// Board transitions a confirmed booking to boarded.
func (b *Booking) Board() error {
	return b.TransitionTo(StatusBoarded, "")
}

// RegenerateQRToken replaces the check-in token of a non-terminal booking.
func (b *Booking) RegenerateQRToken() (string, error) {
	if !b.status.HoldsQRCode() {
		return "", domain.NewInvalidStateError(string(b.status), "qr_regenerated")
	}
	token, err := GenerateQRToken(b.reference)
	if err != nil {
		return "", err
	}
	b.qrToken = token
	b.updatedAt = time.Now().UTC()
	return token, nil
}

// Clone returns a copy that callers may hold without sharing state.
func (b *Booking) Clone() *Booking {
	c := *b
	if b.yacht.OwnerID != nil {
		owner := *b.yacht.OwnerID
		c.yacht.OwnerID = &owner
	}
	return &c
}
