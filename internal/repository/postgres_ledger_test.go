package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/checkin"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

func newMockLedger(t *testing.T) (*PostgresLedger, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewPostgresLedger(db), mock
}

var bookingColumns = []string{
	"id", "booking_reference", "user_id", "yacht_id", "date", "time_slot", "seats",
	"subtotal", "platform_fee", "total_price", "payment_method", "status", "qr_code_data",
	"notes", "admin_notes", "created_at", "updated_at",
	"yacht_name", "yacht_location", "yacht_owner_id", "guest_name", "guest_email", "guest_phone",
}

func TestPostgresLedger_CreateBooking(t *testing.T) {
	ledger, mock := newMockLedger(t)
	id := uuid.New()
	req := booking.CreateRequest{
		YachtID:       uuid.New(),
		Date:          time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:      "10:00",
		Seats:         3,
		PaymentMethod: booking.PaymentCash,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM create_booking($1, $2, $3::date, $4, $5, $6, $7)")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "2030-06-15", "10:00", 3, "cash", "").
		WillReturnRows(sqlmock.NewRows([]string{"success", "booking_id", "booking_reference", "error_message"}).
			AddRow(true, id.String(), "SC-ABC234", nil))

	res, err := ledger.CreateBooking(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, id, res.BookingID)
	assert.Equal(t, "SC-ABC234", res.Reference)
	assert.Empty(t, res.ErrorMessage)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM create_booking(")).
		WillReturnRows(sqlmock.NewRows([]string{"success", "booking_id", "booking_reference", "error_message"}).
			AddRow(false, nil, nil, "Not enough seats available. Only 2 remaining"))

	res, err = ledger.CreateBooking(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, uuid.Nil, res.BookingID)
	assert.Equal(t, "Not enough seats available. Only 2 remaining", res.ErrorMessage)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_TransportErrorIsWrapped(t *testing.T) {
	ledger, mock := newMockLedger(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM cancel_booking(")).WillReturnError(boom)

	_, err := ledger.CancelBooking(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "cancel_booking")
}

func TestPostgresLedger_ScanBooking(t *testing.T) {
	ledger, mock := newMockLedger(t)
	bookingID := uuid.New()
	info := `{"booking_id":"` + bookingID.String() + `","booking_reference":"SC-ABC234","guest_name":"Mona",` +
		`"guest_email":"mona@example.com","yacht_name":"Blue Horizon","yacht_location":"marsa-matruh",` +
		`"date":"2030-06-15","time_slot":"10:00","seats":3,"total_price":2678,"status":"pending_payment","payment_method":"cash"}`

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM scan_booking($1)")).
		WithArgs("SEASCAPE:SC-ABC234:abc").
		WillReturnRows(sqlmock.NewRows([]string{"success", "error_message", "booking_info"}).
			AddRow(false, "PAYMENT NOT CONFIRMED - Booking is awaiting payment", []byte(info)))

	res, err := ledger.ScanBooking(context.Background(), "SEASCAPE:SC-ABC234:abc")
	require.NoError(t, err)
	require.NotNil(t, res.Info)
	assert.Equal(t, bookingID, res.Info.BookingID)
	assert.Equal(t, int64(2678), res.Info.Total)
	assert.Equal(t, checkin.CategoryPaymentPending, checkin.Classify(res).Category)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM scan_booking($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"success", "error_message", "booking_info"}).
			AddRow(false, "Invalid QR code - booking not found", nil))

	res, err = ledger.ScanBooking(context.Background(), "garbage")
	require.NoError(t, err)
	assert.Nil(t, res.Info)
	assert.Equal(t, checkin.CategoryInvalid, checkin.Classify(res).Category)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_MarkUsedAndStatusUpdates(t *testing.T) {
	ledger, mock := newMockLedger(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM mark_booking_used($1, $2)")).
		WillReturnRows(sqlmock.NewRows([]string{"success", "error_message"}).
			AddRow(false, "ALREADY USED - This booking has been used"))
	res, err := ledger.MarkBookingUsed(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.ErrorIs(t, checkin.Reject(res.ErrorMessage), checkin.ErrAlreadyUsed)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM admin_update_booking_status($1, $2, $3, $4)")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "confirmed", "paid at desk").
		WillReturnRows(sqlmock.NewRows([]string{"success", "error_message"}).AddRow(true, nil))
	res, err = ledger.UpdateBookingStatus(ctx, uuid.New(), uuid.New(), booking.StatusConfirmed, "paid at desk")
	require.NoError(t, err)
	assert.True(t, res.Success)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM regenerate_qr_code($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"success", "new_qr_code", "error_message"}).
			AddRow(true, "SEASCAPE:SC-ABC234:newtoken", nil))
	regen, err := ledger.RegenerateQRCode(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, regen.Success)
	assert.Equal(t, "SEASCAPE:SC-ABC234:newtoken", regen.QRToken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_FindBooking(t *testing.T) {
	ledger, mock := newMockLedger(t)
	id := uuid.New()
	userID := uuid.New()
	yachtID := uuid.New()
	created := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT bookings\.\*, yachts\.name AS yacht_name.*FROM "bookings" JOIN yachts`).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
			id.String(), "SC-ABC234", userID.String(), yachtID.String(),
			time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC), "10:00", 3,
			2550, 128, 2678, "cash", "used", "SEASCAPE:SC-ABC234:abc",
			nil, "boarded at pier", created, created,
			"Blue Horizon", "marsa-matruh", nil, "Mona", "mona@example.com", nil,
		))

	bk, err := ledger.FindBooking(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, bk.ID())
	assert.Equal(t, booking.StatusBoarded, bk.Status())
	assert.Equal(t, int64(2678), bk.Total())
	assert.Equal(t, "Blue Horizon", bk.Yacht().Name)
	assert.Equal(t, "Mona", bk.Guest().Name)
	assert.Equal(t, "boarded at pier", bk.AdminNotes())
	assert.Equal(t, "SEASCAPE:SC-ABC234:abc", bk.QRToken())

	mock.ExpectQuery(`FROM "bookings" JOIN yachts`).
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	_, err = ledger.FindBooking(context.Background(), uuid.New())
	assert.True(t, domain.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_StatusHistory(t *testing.T) {
	ledger, mock := newMockLedger(t)
	id := uuid.New()
	actor := uuid.New()
	at := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "booking_status_history"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "previous_status", "new_status", "changed_by", "notes", "created_at"}).
			AddRow(uuid.New().String(), id.String(), nil, "pending_payment", actor.String(), nil, at).
			AddRow(uuid.New().String(), id.String(), "pending_payment", "confirmed", actor.String(), "paid", at.Add(time.Hour)))

	history, err := ledger.StatusHistory(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Empty(t, history[0].PreviousStatus)
	assert.Equal(t, "confirmed", history[1].NewStatus)
	assert.Equal(t, "paid", history[1].Notes)
	require.NotNil(t, history[1].ChangedBy)
	assert.Equal(t, actor, *history[1].ChangedBy)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	_, err = ledger.StatusHistory(context.Background(), uuid.New())
	assert.True(t, domain.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_Catalog(t *testing.T) {
	ledger, mock := newMockLedger(t)
	ctx := context.Background()
	yachtID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "yachts" WHERE is_available = \$1 AND location = \$2 ORDER BY rating DESC, name ASC`).
		WithArgs(true, "north-coast").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "location", "capacity", "price_per_person", "amenities", "rating", "is_available", "created_at", "updated_at"}).
			AddRow(yachtID.String(), "Sea Breeze", "shared-trip", "north-coast", 30, 450, []byte(`["shade","music"]`), 4.5, true, now, now))

	found, err := ledger.SearchYachts(ctx, yacht.Criteria{Location: yacht.LocationNorthCoast})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sea Breeze", found[0].Name)
	assert.Equal(t, []string{"shade", "music"}, found[0].Amenities)
	assert.Equal(t, int64(450), found[0].PricePerPerson)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "availability"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "yacht_id", "date", "slots_remaining"}))
	remaining, ok, err := ledger.RemainingSeats(ctx, yachtID, now)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, remaining)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "availability"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "yacht_id", "date", "slots_remaining"}).
			AddRow(uuid.New().String(), yachtID.String(), now, 7))
	remaining, ok, err = ledger.RemainingSeats(ctx, yachtID, now)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, remaining)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "yachts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = ledger.FindYacht(ctx, uuid.New())
	assert.True(t, domain.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}
