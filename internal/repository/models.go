package repository

import (
	"time"

	"github.com/google/uuid"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingReference string    `gorm:"column:booking_reference;uniqueIndex;not null;size:20"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null"`
	YachtID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Date             time.Time `gorm:"type:date;not null"`
	TimeSlot         string    `gorm:"not null;size:5"`
	Seats            int       `gorm:"not null"`
	Subtotal         int64     `gorm:"not null"`
	PlatformFee      int64     `gorm:"not null"`
	TotalPrice       int64     `gorm:"not null"`
	PaymentMethod    string    `gorm:"not null;size:10"`
	Status           string    `gorm:"not null;size:20;index"`
	QRCodeData       *string   `gorm:"column:qr_code_data;uniqueIndex"`
	Notes            *string   `gorm:"type:text"`
	AdminNotes       *string   `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// YachtModel is the GORM model for the yachts table.
type YachtModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID        *uuid.UUID `gorm:"type:uuid;index"`
	Name           string     `gorm:"not null;size:255"`
	NameAr         *string    `gorm:"column:name_ar;size:255"`
	Type           string     `gorm:"not null;size:30"`
	Location       string     `gorm:"not null;size:30;index"`
	Capacity       int        `gorm:"not null"`
	PricePerPerson int64      `gorm:"not null"`
	PricePerHour   int64      `gorm:"not null;default:0"`
	Description    *string    `gorm:"type:text"`
	Amenities      []string   `gorm:"type:jsonb;serializer:json"`
	Included       []string   `gorm:"type:jsonb;serializer:json"`
	ImageURLs      []string   `gorm:"column:image_urls;type:jsonb;serializer:json"`
	Rating         float64    `gorm:"type:numeric(3,2);not null;default:0"`
	ReviewCount    int        `gorm:"not null;default:0"`
	IsAvailable    bool       `gorm:"not null;default:true"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (YachtModel) TableName() string {
	return "yachts"
}

// AvailabilityModel is the GORM model for the availability table.
type AvailabilityModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	YachtID        uuid.UUID `gorm:"type:uuid;not null"`
	Date           time.Time `gorm:"type:date;not null"`
	SlotsRemaining int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (AvailabilityModel) TableName() string {
	return "availability"
}

// StatusHistoryModel is the GORM model for the booking_status_history table.
type StatusHistoryModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	PreviousStatus *string    `gorm:"size:20"`
	NewStatus      string     `gorm:"not null;size:20"`
	ChangedBy      *uuid.UUID `gorm:"type:uuid"`
	Notes          *string    `gorm:"type:text"`
	CreatedAt      time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (StatusHistoryModel) TableName() string {
	return "booking_status_history"
}

// bookingRow is a booking joined with its yacht and guest profile.
type bookingRow struct {
	BookingModel
	YachtName     string     `gorm:"column:yacht_name"`
	YachtLocation string     `gorm:"column:yacht_location"`
	YachtOwnerID  *uuid.UUID `gorm:"column:yacht_owner_id"`
	GuestName     *string    `gorm:"column:guest_name"`
	GuestEmail    *string    `gorm:"column:guest_email"`
	GuestPhone    *string    `gorm:"column:guest_phone"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
