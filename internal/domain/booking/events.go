package booking

import (
	"time"

	"github.com/google/uuid"
)

// Topics and CloudEvent types exchanged with other services.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"

	EventBookingCreated       = "booking.created"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingBoarded       = "booking.boarded"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingQRRegenerated = "booking.qr_regenerated"

	EventPaymentCaptured = "payment.captured"
)

// LifecycleEvent is the payload of every booking.* event.
type LifecycleEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	Reference      string    `json:"booking_reference"`
	UserID         uuid.UUID `json:"user_id"`
	YachtID        uuid.UUID `json:"yacht_id"`
	Date           string    `json:"date"`
	TimeSlot       string    `json:"time_slot"`
	Seats          int       `json:"seats"`
	Total          int64     `json:"total_price"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Status         string    `json:"status"`
	ActorID        uuid.UUID `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewLifecycleEvent builds the payload for b after a change made by actorID.
func NewLifecycleEvent(b *Booking, previous BookingStatus, actorID uuid.UUID) LifecycleEvent {
	return LifecycleEvent{
		BookingID:      b.ID(),
		Reference:      b.Reference(),
		UserID:         b.UserID(),
		YachtID:        b.YachtID(),
		Date:           b.Date().Format(DateLayout),
		TimeSlot:       b.TimeSlot(),
		Seats:          b.Seats(),
		Total:          b.Total(),
		PreviousStatus: string(previous),
		Status:         string(b.Status()),
		ActorID:        actorID,
		OccurredAt:     time.Now().UTC(),
	}
}

// PaymentCapturedEvent is consumed from the payment service.
type PaymentCapturedEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	PaymentID string    `json:"payment_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
}
