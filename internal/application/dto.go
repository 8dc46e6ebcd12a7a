package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/checkin"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

// QuoteRequest asks for the price of seats on a yacht.
type QuoteRequest struct {
	YachtID uuid.UUID `json:"yacht_id" binding:"required"`
	Seats   int       `json:"seats" binding:"required"`
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	YachtID       uuid.UUID `json:"yacht_id" binding:"required"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"time_slot"`
	Seats         int       `json:"seats"`
	PaymentMethod string    `json:"payment_method" binding:"required"`
	Notes         string    `json:"notes"`
}

// UpdateStatusRequest is an administrative status override.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID            `json:"id"`
	Reference     string               `json:"booking_reference"`
	UserID        uuid.UUID            `json:"user_id"`
	YachtID       uuid.UUID            `json:"yacht_id"`
	Yacht         booking.YachtSummary `json:"yacht"`
	Guest         booking.Guest        `json:"guest"`
	Date          string               `json:"date"`
	TimeSlot      string               `json:"time_slot"`
	Seats         int                  `json:"seats"`
	Subtotal      int64                `json:"subtotal"`
	PlatformFee   int64                `json:"platform_fee"`
	Total         int64                `json:"total_price"`
	Currency      string               `json:"currency"`
	PaymentMethod string               `json:"payment_method"`
	Status        string               `json:"status"`
	QRToken       string               `json:"qr_code_data,omitempty"`
	QRImageURL    string               `json:"qr_image_url,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	AdminNotes    string               `json:"admin_notes,omitempty"`
	CanCancel     bool                 `json:"can_cancel"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// YachtDTO is a catalog listing.
type YachtDTO struct {
	yacht.Yacht
	Currency string `json:"currency"`
}

// AvailabilityDTO reports free seats for one date.
type AvailabilityDTO struct {
	YachtID        uuid.UUID `json:"yacht_id"`
	Date           string    `json:"date"`
	Capacity       int       `json:"capacity"`
	SeatsRemaining int       `json:"seats_remaining"`
	MaxSeats       int       `json:"max_seats"`
	TimeSlots      []string  `json:"time_slots"`
}

// VerdictDTO is the result of scanning a QR token.
type VerdictDTO struct {
	Category string            `json:"category"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	CanBoard bool              `json:"can_board"`
	Booking  *booking.ScanInfo `json:"booking,omitempty"`
}

// StatsDTO is the operator dashboard summary.
type StatsDTO struct {
	TotalRevenue     int64          `json:"total_revenue"`
	Currency         string         `json:"currency"`
	TotalBookings    int            `json:"total_bookings"`
	TotalYachts      int            `json:"total_yachts"`
	BookingsByStatus map[string]int `json:"bookings_by_status"`
	OccupancyPercent float64        `json:"occupancy_percent"`
	RecentBookings   []BookingDTO   `json:"recent_bookings"`
}

func toBookingDTO(b *booking.Booking, qrURL func(string) string) BookingDTO {
	dto := BookingDTO{
		ID:            b.ID(),
		Reference:     b.Reference(),
		UserID:        b.UserID(),
		YachtID:       b.YachtID(),
		Yacht:         b.Yacht(),
		Guest:         b.Guest(),
		Date:          b.Date().Format(booking.DateLayout),
		TimeSlot:      b.TimeSlot(),
		Seats:         b.Seats(),
		Subtotal:      b.Subtotal(),
		PlatformFee:   b.PlatformFee(),
		Total:         b.Total(),
		Currency:      domain.CurrencyEGP,
		PaymentMethod: string(b.PaymentMethod()),
		Status:        string(b.Status()),
		Notes:         b.Notes(),
		AdminNotes:    b.AdminNotes(),
		CanCancel:     b.Status().CanBeCancelled(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
	if b.Status().HoldsQRCode() && b.QRToken() != "" {
		dto.QRToken = b.QRToken()
		if qrURL != nil {
			dto.QRImageURL = qrURL(b.QRToken())
		}
	}
	return dto
}

func toBookingDTOs(bookings []*booking.Booking, qrURL func(string) string) []BookingDTO {
	out := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		out[i] = toBookingDTO(b, qrURL)
	}
	return out
}

func toYachtDTO(y *yacht.Yacht) YachtDTO {
	return YachtDTO{Yacht: *y, Currency: domain.CurrencyEGP}
}

func toYachtDTOs(yachts []*yacht.Yacht) []YachtDTO {
	out := make([]YachtDTO, len(yachts))
	for i, y := range yachts {
		out[i] = toYachtDTO(y)
	}
	return out
}

func toVerdictDTO(v checkin.Verdict) VerdictDTO {
	return VerdictDTO{
		Category: string(v.Category),
		Title:    v.Title,
		Message:  v.Message,
		CanBoard: v.CanBoard(),
		Booking:  v.Booking,
	}
}
