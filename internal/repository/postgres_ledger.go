package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

const bookingSelect = "bookings.*, " +
	"yachts.name AS yacht_name, yachts.location AS yacht_location, yachts.owner_id AS yacht_owner_id, " +
	"profiles.name AS guest_name, profiles.email AS guest_email, profiles.phone AS guest_phone"

// mutationRow is the row returned by every booking stored function. Columns a
// function does not return stay zero.
type mutationRow struct {
	Success          bool       `gorm:"column:success"`
	ErrorMessage     *string    `gorm:"column:error_message"`
	BookingID        *uuid.UUID `gorm:"column:booking_id"`
	BookingReference *string    `gorm:"column:booking_reference"`
	NewQRCode        *string    `gorm:"column:new_qr_code"`
	BookingInfo      []byte     `gorm:"column:booking_info"`
}

// PostgresLedger implements booking.Ledger and yacht.Catalog on Postgres.
// Mutations go through stored functions so seat allocation, references,
// tokens and transitions are decided inside the database transaction.
type PostgresLedger struct {
	db *gorm.DB
}

var (
	_ booking.Ledger = (*PostgresLedger)(nil)
	_ yacht.Catalog  = (*PostgresLedger)(nil)
)

// NewPostgresLedger creates a new PostgresLedger.
func NewPostgresLedger(db *gorm.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Ping checks the database connection.
func (r *PostgresLedger) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgresLedger) call(ctx context.Context, fn, query string, args ...interface{}) (mutationRow, error) {
	var row mutationRow
	res := r.db.WithContext(ctx).Raw(query, args...).Scan(&row)
	if res.Error != nil {
		return mutationRow{}, fmt.Errorf("failed to call %s: %w", fn, res.Error)
	}
	if res.RowsAffected == 0 {
		return mutationRow{}, fmt.Errorf("%s returned no rows", fn)
	}
	return row, nil
}

// CreateBooking calls create_booking.
func (r *PostgresLedger) CreateBooking(ctx context.Context, userID uuid.UUID, req booking.CreateRequest) (booking.CreateResult, error) {
	row, err := r.call(ctx, "create_booking",
		"SELECT * FROM create_booking(?, ?, ?::date, ?, ?, ?, ?)",
		userID, req.YachtID, req.Date.Format(booking.DateLayout), req.TimeSlot, req.Seats, string(req.PaymentMethod), req.Notes,
	)
	if err != nil {
		return booking.CreateResult{}, err
	}

	result := booking.CreateResult{Success: row.Success, ErrorMessage: deref(row.ErrorMessage)}
	if row.BookingID != nil {
		result.BookingID = *row.BookingID
	}
	result.Reference = deref(row.BookingReference)
	return result, nil
}

// CancelBooking calls cancel_booking.
func (r *PostgresLedger) CancelBooking(ctx context.Context, actorID, bookingID uuid.UUID) (booking.Result, error) {
	row, err := r.call(ctx, "cancel_booking", "SELECT * FROM cancel_booking(?, ?)", actorID, bookingID)
	if err != nil {
		return booking.Result{}, err
	}
	return booking.Result{Success: row.Success, ErrorMessage: deref(row.ErrorMessage)}, nil
}

// ScanBooking calls scan_booking.
func (r *PostgresLedger) ScanBooking(ctx context.Context, token string) (booking.ScanResult, error) {
	row, err := r.call(ctx, "scan_booking", "SELECT * FROM scan_booking(?)", token)
	if err != nil {
		return booking.ScanResult{}, err
	}

	result := booking.ScanResult{Success: row.Success, ErrorMessage: deref(row.ErrorMessage)}
	if len(row.BookingInfo) > 0 && string(row.BookingInfo) != "null" {
		var info booking.ScanInfo
		if err := json.Unmarshal(row.BookingInfo, &info); err != nil {
			return booking.ScanResult{}, fmt.Errorf("failed to decode scan booking info: %w", err)
		}
		result.Info = &info
	}
	return result, nil
}

// MarkBookingUsed calls mark_booking_used.
func (r *PostgresLedger) MarkBookingUsed(ctx context.Context, staffID, bookingID uuid.UUID) (booking.Result, error) {
	row, err := r.call(ctx, "mark_booking_used", "SELECT * FROM mark_booking_used(?, ?)", staffID, bookingID)
	if err != nil {
		return booking.Result{}, err
	}
	return booking.Result{Success: row.Success, ErrorMessage: deref(row.ErrorMessage)}, nil
}

// UpdateBookingStatus calls admin_update_booking_status.
func (r *PostgresLedger) UpdateBookingStatus(ctx context.Context, actorID, bookingID uuid.UUID, status booking.BookingStatus, notes string) (booking.Result, error) {
	row, err := r.call(ctx, "admin_update_booking_status",
		"SELECT * FROM admin_update_booking_status(?, ?, ?, ?)",
		actorID, bookingID, string(status), notes,
	)
	if err != nil {
		return booking.Result{}, err
	}
	return booking.Result{Success: row.Success, ErrorMessage: deref(row.ErrorMessage)}, nil
}

// RegenerateQRCode calls regenerate_qr_code.
func (r *PostgresLedger) RegenerateQRCode(ctx context.Context, bookingID uuid.UUID) (booking.RegenerateResult, error) {
	row, err := r.call(ctx, "regenerate_qr_code", "SELECT * FROM regenerate_qr_code(?)", bookingID)
	if err != nil {
		return booking.RegenerateResult{}, err
	}
	return booking.RegenerateResult{
		Success:      row.Success,
		QRToken:      deref(row.NewQRCode),
		ErrorMessage: deref(row.ErrorMessage),
	}, nil
}

func (r *PostgresLedger) bookingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("bookings").
		Select(bookingSelect).
		Joins("JOIN yachts ON yachts.id = bookings.yacht_id").
		Joins("LEFT JOIN profiles ON profiles.id = bookings.user_id")
}

// FindBooking retrieves a booking by its unique identifier.
func (r *PostgresLedger) FindBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var rows []bookingRow
	if err := r.bookingQuery(ctx).Where("bookings.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return toDomainBooking(&rows[0])
}

// ListUserBookings retrieves a guest's bookings, newest first.
func (r *PostgresLedger) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]*booking.Booking, error) {
	var rows []bookingRow
	if err := r.bookingQuery(ctx).
		Where("bookings.user_id = ?", userID).
		Order("bookings.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return toDomainBookings(rows)
}

// ListBookings retrieves every booking, newest first.
func (r *PostgresLedger) ListBookings(ctx context.Context) ([]*booking.Booking, error) {
	var rows []bookingRow
	if err := r.bookingQuery(ctx).Order("bookings.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(rows)
}

// StatusHistory retrieves a booking's status changes, oldest first.
func (r *PostgresLedger) StatusHistory(ctx context.Context, bookingID uuid.UUID) ([]booking.StatusChange, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("id = ?", bookingID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check booking: %w", err)
	}
	if count == 0 {
		return nil, domain.NewNotFoundError("Booking", bookingID.String())
	}

	var models []StatusHistoryModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}

	changes := make([]booking.StatusChange, len(models))
	for i, m := range models {
		changes[i] = booking.StatusChange{
			BookingID:      m.BookingID,
			PreviousStatus: deref(m.PreviousStatus),
			NewStatus:      m.NewStatus,
			ChangedBy:      m.ChangedBy,
			Notes:          deref(m.Notes),
			CreatedAt:      m.CreatedAt,
		}
	}
	return changes, nil
}

// --- yacht.Catalog ---

// SearchYachts lists available yachts matching criteria, highest rated first.
func (r *PostgresLedger) SearchYachts(ctx context.Context, criteria yacht.Criteria) ([]*yacht.Yacht, error) {
	q := r.db.WithContext(ctx).Where("is_available = ?", true)
	if criteria.Location != "" {
		q = q.Where("location = ?", string(criteria.Location))
	}
	if criteria.Type != "" {
		q = q.Where("type = ?", string(criteria.Type))
	}
	if criteria.MinCapacity > 0 {
		q = q.Where("capacity >= ?", criteria.MinCapacity)
	}
	if criteria.MaxPrice > 0 {
		q = q.Where("price_per_person <= ?", criteria.MaxPrice)
	}

	var models []YachtModel
	if err := q.Order("rating DESC, name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search yachts: %w", err)
	}
	return toDomainYachts(models), nil
}

// FindYacht retrieves a yacht by its unique identifier.
func (r *PostgresLedger) FindYacht(ctx context.Context, id uuid.UUID) (*yacht.Yacht, error) {
	var model YachtModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Yacht", id.String())
		}
		return nil, fmt.Errorf("failed to find yacht by ID: %w", err)
	}
	return toDomainYacht(&model), nil
}

// ListYachts retrieves every yacht, optionally only ownerID's, by name.
func (r *PostgresLedger) ListYachts(ctx context.Context, ownerID *uuid.UUID) ([]*yacht.Yacht, error) {
	q := r.db.WithContext(ctx)
	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}
	var models []YachtModel
	if err := q.Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list yachts: %w", err)
	}
	return toDomainYachts(models), nil
}

// RemainingSeats reads the availability counter for (yachtID, date).
func (r *PostgresLedger) RemainingSeats(ctx context.Context, yachtID uuid.UUID, date time.Time) (int, bool, error) {
	var model AvailabilityModel
	err := r.db.WithContext(ctx).
		Where("yacht_id = ? AND date = ?::date", yachtID, date.Format(booking.DateLayout)).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read availability: %w", err)
	}
	return model.SlotsRemaining, true, nil
}

// --- Conversion Helpers ---

func toDomainBookings(rows []bookingRow) ([]*booking.Booking, error) {
	bookings := make([]*booking.Booking, len(rows))
	for i := range rows {
		bk, err := toDomainBooking(&rows[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

func toDomainBooking(m *bookingRow) (*booking.Booking, error) {
	status, err := booking.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		m.ID,
		m.BookingReference,
		m.UserID,
		m.YachtID,
		booking.YachtSummary{Name: m.YachtName, Location: m.YachtLocation, OwnerID: m.YachtOwnerID},
		booking.Guest{Name: deref(m.GuestName), Email: deref(m.GuestEmail), Phone: deref(m.GuestPhone)},
		m.Date.UTC(),
		m.TimeSlot,
		m.Seats,
		m.Subtotal,
		m.PlatformFee,
		m.TotalPrice,
		booking.PaymentMethod(m.PaymentMethod),
		status,
		deref(m.QRCodeData),
		deref(m.Notes),
		deref(m.AdminNotes),
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainYachts(models []YachtModel) []*yacht.Yacht {
	yachts := make([]*yacht.Yacht, len(models))
	for i := range models {
		yachts[i] = toDomainYacht(&models[i])
	}
	return yachts
}

func toDomainYacht(m *YachtModel) *yacht.Yacht {
	return &yacht.Yacht{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		Name:           m.Name,
		NameAr:         deref(m.NameAr),
		Type:           yacht.ActivityType(m.Type),
		Location:       yacht.Location(m.Location),
		Capacity:       m.Capacity,
		PricePerPerson: m.PricePerPerson,
		PricePerHour:   m.PricePerHour,
		Description:    deref(m.Description),
		Amenities:      m.Amenities,
		Included:       m.Included,
		ImageURLs:      m.ImageURLs,
		Rating:         m.Rating,
		ReviewCount:    m.ReviewCount,
		IsAvailable:    m.IsAvailable,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
